package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// StateRepository holds short-lived OAuth state tokens. States expire on
// their own, so an abandoned login attempt never needs cleanup.
type StateRepository struct {
	cache *cache.Cache
}

func NewStateRepository() *StateRepository {
	// 10 minute expiry matches the lifetime of a login redirect;
	// expired entries are purged every 5 minutes.
	c := cache.New(10*time.Minute, 5*time.Minute)
	return &StateRepository{
		cache: c,
	}
}

func (r *StateRepository) Save(state string, provider string) {
	r.cache.Set(state, provider, cache.DefaultExpiration)
}

// Consume validates and removes a state in one step so it cannot be
// replayed.
func (r *StateRepository) Consume(state string) (string, bool) {
	x, found := r.cache.Get(state)
	if !found {
		return "", false
	}
	r.cache.Delete(state)
	return x.(string), true
}
