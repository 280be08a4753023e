package resilience

import (
	"context"
	"sort"
	"sync"

	"newsdesk/internal/resilience/circuitbreaker"
	"newsdesk/internal/resilience/retry"
)

// Logical service names, one breaker each.
const (
	ServiceRSSFeeds    = "rss-feeds"
	ServiceRankingAPI  = "ranking-api"
	ServiceSourceStore = "source-store"
)

// Profile describes how calls to one logical service are protected.
type Profile struct {
	Breaker      circuitbreaker.Config
	Retry        retry.Config
	RetryOptions []retry.Option
}

// DefaultProfiles returns the profiles of the services the pipeline talks to.
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		ServiceRSSFeeds: {
			Breaker: circuitbreaker.FeedFetchConfig(),
			Retry:   retry.FeedFetchConfig(),
		},
		ServiceRankingAPI: {
			Breaker: circuitbreaker.RankingAPIConfig(),
			Retry:   retry.RankingAPIConfig(),
		},
		ServiceSourceStore: {
			Breaker: circuitbreaker.SourceStoreConfig(),
			Retry:   retry.SourceStoreConfig(),
		},
	}
}

// Client executes calls to one logical service: breaker outside, retry inside.
type Client struct {
	name    string
	breaker *circuitbreaker.CircuitBreaker
	policy  *retry.Policy
}

// Name returns the logical service name.
func (c *Client) Name() string {
	return c.name
}

// Execute runs fn as breaker.Execute(retry.Do(fn)). The breaker records one outcome
// per Execute call regardless of how many retries happened, and an open breaker
// returns an error matching circuitbreaker.ErrCircuitOpen without calling fn at all.
// A context that is already done is returned as is and never reaches the breaker.
func (c *Client) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.policy.Do(ctx, fn)
	})
	return err
}

// Status returns the breaker status of this client's service.
func (c *Client) Status() circuitbreaker.Status {
	return c.breaker.Status()
}

// Do is a typed convenience around Client.Execute.
func Do[T any](ctx context.Context, c *Client, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := c.Execute(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Registry owns exactly one Client per logical service name.
type Registry struct {
	mu       sync.Mutex
	profiles map[string]Profile
	clients  map[string]*Client
}

// NewRegistry creates a registry. Services without a profile get defaults on first use.
func NewRegistry(profiles map[string]Profile) *Registry {
	if profiles == nil {
		profiles = map[string]Profile{}
	}
	return &Registry{
		profiles: profiles,
		clients:  make(map[string]*Client),
	}
}

// Client returns the shared client for name, creating it on first use.
func (r *Registry) Client(name string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[name]; ok {
		return c
	}

	profile, ok := r.profiles[name]
	if !ok {
		profile = Profile{
			Breaker: circuitbreaker.DefaultConfig(name),
			Retry:   retry.DefaultConfig(),
		}
	}
	profile.Breaker.Name = name

	c := &Client{
		name:    name,
		breaker: circuitbreaker.New(profile.Breaker),
		policy:  retry.New(profile.Retry, profile.RetryOptions...),
	}
	r.clients[name] = c
	return c
}

// Statuses returns the status of every client created so far, sorted by name.
func (r *Registry) Statuses() []circuitbreaker.Status {
	r.mu.Lock()
	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	statuses := make([]circuitbreaker.Status, 0, len(clients))
	for _, c := range clients {
		statuses = append(statuses, c.Status())
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Name < statuses[j].Name
	})
	return statuses
}
