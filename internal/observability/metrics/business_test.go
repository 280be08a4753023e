package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRefreshRun(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{name: "success", status: "success"},
		{name: "failure", status: "failure"},
		{name: "skipped", status: "skipped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RefreshRunsTotal.WithLabelValues(tt.status))
			RecordRefreshRun(tt.status, 2*time.Second)
			after := testutil.ToFloat64(RefreshRunsTotal.WithLabelValues(tt.status))
			assert.Equal(t, before+1, after)
		})
	}
}

func TestRecordArticlesFetched(t *testing.T) {
	before := testutil.ToFloat64(ArticlesFetchedTotal.WithLabelValues("metrics-test-source"))
	RecordArticlesFetched("metrics-test-source", 7)
	RecordArticlesFetched("metrics-test-source", 0)
	after := testutil.ToFloat64(ArticlesFetchedTotal.WithLabelValues("metrics-test-source"))
	assert.Equal(t, before+7, after)
}

func TestRecordFeedFetchError(t *testing.T) {
	counter := FeedFetchErrors.WithLabelValues("metrics-test-source", "timeout")
	before := testutil.ToFloat64(counter)
	RecordFeedFetchError("metrics-test-source", "timeout")
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordRankingCall(t *testing.T) {
	tests := []struct {
		name    string
		success bool
		outcome string
	}{
		{name: "success", success: true, outcome: "success"},
		{name: "failure", success: false, outcome: "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RankingCallsTotal.WithLabelValues(tt.outcome))
			RecordRankingCall(tt.success, 300*time.Millisecond)
			assert.Equal(t, before+1, testutil.ToFloat64(RankingCallsTotal.WithLabelValues(tt.outcome)))
		})
	}
}

func TestRecordAnalysisCacheLookup(t *testing.T) {
	hitsBefore := testutil.ToFloat64(AnalysisCacheLookups.WithLabelValues("hit"))
	missesBefore := testutil.ToFloat64(AnalysisCacheLookups.WithLabelValues("miss"))

	RecordAnalysisCacheLookup(true)
	RecordAnalysisCacheLookup(true)
	RecordAnalysisCacheLookup(false)

	assert.Equal(t, hitsBefore+2, testutil.ToFloat64(AnalysisCacheLookups.WithLabelValues("hit")))
	assert.Equal(t, missesBefore+1, testutil.ToFloat64(AnalysisCacheLookups.WithLabelValues("miss")))
}

func TestSetCircuitBreakerState(t *testing.T) {
	SetCircuitBreakerState("metrics-test-service", 2)
	assert.Equal(t, float64(2), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("metrics-test-service")))

	SetCircuitBreakerState("metrics-test-service", 0)
	assert.Equal(t, float64(0), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("metrics-test-service")))
}

func TestRecordCircuitBreakerRejection(t *testing.T) {
	counter := CircuitBreakerRejections.WithLabelValues("metrics-test-service")
	before := testutil.ToFloat64(counter)
	RecordCircuitBreakerRejection("metrics-test-service")
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestUpdateCacheAge(t *testing.T) {
	UpdateCacheAge(90 * time.Second)
	assert.Equal(t, float64(90), testutil.ToFloat64(CacheAgeSeconds))
}

func TestMetricsFunctions_AllCallable(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordHTTPRequest("GET", "/digest", "200", 10*time.Millisecond, 512)
		RecordRefreshRun("success", time.Second)
		RecordDigestServed("background")
		RecordFeedFetch("Test Source", 2*time.Second)
		RecordDBQuery("list_active_sources", 10*time.Millisecond)
	})
}
