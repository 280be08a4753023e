package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/resilience/circuitbreaker"
	"newsdesk/internal/resilience/retry"
)

func noSleep(context.Context, time.Duration) error { return nil }

func testProfiles() map[string]Profile {
	return map[string]Profile{
		"flaky": {
			Breaker: circuitbreaker.Config{
				SuccessThreshold: 1,
				Window:           10 * time.Second,
				ResetTimeout:     time.Hour,
				FailureThreshold: 0.5,
				MinRequests:      2,
			},
			Retry: retry.Config{
				MaxRetries: 2,
				BaseDelay:  time.Millisecond,
				MaxDelay:   time.Millisecond,
			},
			RetryOptions: []retry.Option{retry.WithSleep(noSleep)},
		},
	}
}

func TestRegistry_ClientIsShared(t *testing.T) {
	reg := NewRegistry(testProfiles())

	a := reg.Client("flaky")
	b := reg.Client("flaky")

	assert.Same(t, a, b)
	assert.Equal(t, "flaky", a.Name())
}

func TestRegistry_UnknownServiceGetsDefaults(t *testing.T) {
	reg := NewRegistry(nil)

	c := reg.Client("something-else")

	require.NotNil(t, c)
	assert.Equal(t, "something-else", c.Status().Name)
	assert.Equal(t, gobreaker.StateClosed.String(), c.Status().State)
}

func TestClient_Execute_RetriesInsideBreaker(t *testing.T) {
	reg := NewRegistry(testProfiles())
	c := reg.Client("flaky")

	calls := 0
	err := c.Execute(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return &retry.HTTPError{StatusCode: 503}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	// three attempts collapse into one breaker outcome
	assert.Equal(t, 1, c.Status().RecentCallCount)
	assert.Equal(t, float64(0), c.Status().FailureRatePercent)
}

func TestClient_Execute_OpenBreakerSkipsCall(t *testing.T) {
	reg := NewRegistry(testProfiles())
	c := reg.Client("flaky")
	failing := func(context.Context) error { return &retry.HTTPError{StatusCode: 500} }

	for i := 0; i < 2; i++ {
		err := c.Execute(context.Background(), failing)
		require.Error(t, err)
	}
	require.Equal(t, gobreaker.StateOpen.String(), c.Status().State)

	called := false
	err := c.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)

	var openErr *circuitbreaker.OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, "flaky", openErr.Service)
}

func TestClient_Execute_DoneContextSkipsBreaker(t *testing.T) {
	reg := NewRegistry(testProfiles())
	c := reg.Client("flaky")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	for i := 0; i < 5; i++ {
		err := c.Execute(ctx, func(context.Context) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	}

	assert.False(t, called)
	st := c.Status()
	assert.Equal(t, gobreaker.StateClosed.String(), st.State)
	assert.Zero(t, st.RecentCallCount)
}

func TestClient_Execute_ReturnsLastError(t *testing.T) {
	reg := NewRegistry(testProfiles())
	c := reg.Client("flaky")

	err := c.Execute(context.Background(), func(context.Context) error {
		return &retry.HTTPError{StatusCode: 404, Message: "not found"}
	})

	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.StatusCode)
}

func TestDo_Typed(t *testing.T) {
	reg := NewRegistry(testProfiles())
	c := reg.Client("flaky")

	got, err := Do(context.Background(), c, func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got, err = Do(context.Background(), c, func(context.Context) ([]string, error) {
		return []string{"partial"}, errors.New("boom")
	})
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestRegistry_Statuses_SortedByName(t *testing.T) {
	reg := NewRegistry(DefaultProfiles())
	reg.Client(ServiceSourceStore)
	reg.Client(ServiceRSSFeeds)
	reg.Client(ServiceRankingAPI)

	statuses := reg.Statuses()

	require.Len(t, statuses, 3)
	assert.Equal(t, ServiceRankingAPI, statuses[0].Name)
	assert.Equal(t, ServiceRSSFeeds, statuses[1].Name)
	assert.Equal(t, ServiceSourceStore, statuses[2].Name)
	for _, st := range statuses {
		assert.Equal(t, "closed", st.State)
	}
}

func TestDefaultProfiles(t *testing.T) {
	profiles := DefaultProfiles()

	for _, name := range []string{ServiceRSSFeeds, ServiceRankingAPI, ServiceSourceStore} {
		p, ok := profiles[name]
		require.True(t, ok, name)
		assert.Equal(t, name, p.Breaker.Name)
		assert.Greater(t, p.Breaker.ResetTimeout, time.Duration(0))
	}
}
