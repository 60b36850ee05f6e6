// Package cache holds the in-process team cache used to resolve team names
// without a database round trip.
package cache

import (
	"context"
	"sync"

	"github.com/abrezinsky/tourneytracker/internal/models"
)

// Loader supplies the full team list on a cache miss
type Loader interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
}

// TeamCache is an explicit, lazily loaded copy of the team table. The owner
// must call Invalidate after any team mutation.
type TeamCache struct {
	loader Loader

	mu     sync.RWMutex
	loaded bool
	order  []string
	byID   map[string]models.Team
}

// NewTeamCache creates an empty cache backed by loader
func NewTeamCache(loader Loader) *TeamCache {
	return &TeamCache{loader: loader}
}

// Get returns the team with the given id, loading the cache if needed.
// The bool is false when no such team exists.
func (c *TeamCache) Get(ctx context.Context, id string) (models.Team, bool, error) {
	_, byID, err := c.snapshot(ctx)
	if err != nil {
		return models.Team{}, false, err
	}
	t, ok := byID[id]
	return t, ok, nil
}

// All returns every cached team in creation order
func (c *TeamCache) All(ctx context.Context) ([]models.Team, error) {
	order, byID, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	teams := make([]models.Team, 0, len(order))
	for _, id := range order {
		teams = append(teams, byID[id])
	}
	return teams, nil
}

// Names returns a team id to name map for every cached team
func (c *TeamCache) Names(ctx context.Context) (map[string]string, error) {
	_, byID, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(byID))
	for id, t := range byID {
		names[id] = t.Name
	}
	return names, nil
}

// Invalidate drops the cached data; the next read reloads it
func (c *TeamCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.order = nil
	c.byID = nil
	c.mu.Unlock()
}

// Refresh reloads the cache immediately
func (c *TeamCache) Refresh(ctx context.Context) error {
	_, _, err := c.load(ctx)
	return err
}

// Loaded reports whether the cache currently holds data
func (c *TeamCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// snapshot returns the current data, loading it first if needed. The returned
// slice and map are replaced wholesale on reload and never mutated, so callers
// may read them without holding the lock.
func (c *TeamCache) snapshot(ctx context.Context) ([]string, map[string]models.Team, error) {
	c.mu.RLock()
	if c.loaded {
		order, byID := c.order, c.byID
		c.mu.RUnlock()
		return order, byID, nil
	}
	c.mu.RUnlock()
	return c.load(ctx)
}

func (c *TeamCache) load(ctx context.Context) ([]string, map[string]models.Team, error) {
	teams, err := c.loader.ListTeams(ctx)
	if err != nil {
		return nil, nil, err
	}

	order := make([]string, 0, len(teams))
	byID := make(map[string]models.Team, len(teams))
	for _, t := range teams {
		order = append(order, t.ID)
		byID[t.ID] = t
	}

	c.mu.Lock()
	c.order = order
	c.byID = byID
	c.loaded = true
	c.mu.Unlock()
	return order, byID, nil
}
