package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/tourneytracker/internal/models"
)

type fakeLoader struct {
	teams []models.Team
	err   error
	calls atomic.Int32
}

func (f *fakeLoader) ListTeams(ctx context.Context) ([]models.Team, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.teams, nil
}

func newLoader() *fakeLoader {
	return &fakeLoader{teams: []models.Team{
		{ID: "b", Name: "Blue"},
		{ID: "a", Name: "Amber"},
	}}
}

func TestTeamCache_LoadsLazilyOnce(t *testing.T) {
	loader := newLoader()
	c := NewTeamCache(loader)

	assert.False(t, c.Loaded())
	assert.Equal(t, int32(0), loader.calls.Load())

	team, ok, err := c.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Amber", team.Name)

	_, ok, err = c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestTeamCache_AllKeepsLoaderOrder(t *testing.T) {
	c := NewTeamCache(newLoader())

	teams, err := c.All(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "b", teams[0].ID)
	assert.Equal(t, "a", teams[1].ID)
}

func TestTeamCache_InvalidateForcesReload(t *testing.T) {
	loader := newLoader()
	c := NewTeamCache(loader)
	ctx := context.Background()

	_, err := c.All(ctx)
	require.NoError(t, err)

	loader.teams = append(loader.teams, models.Team{ID: "c", Name: "Cyan"})
	names, err := c.Names(ctx)
	require.NoError(t, err)
	assert.NotContains(t, names, "c", "stale until invalidated")

	c.Invalidate()
	assert.False(t, c.Loaded())

	names, err = c.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cyan", names["c"])
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestTeamCache_RefreshError(t *testing.T) {
	loader := &fakeLoader{err: errors.New("db down")}
	c := NewTeamCache(loader)

	_, _, err := c.Get(context.Background(), "a")
	require.Error(t, err)
	assert.False(t, c.Loaded())

	_, err = c.All(context.Background())
	assert.Error(t, err)
}

func TestTeamCache_ConcurrentAccess(t *testing.T) {
	c := NewTeamCache(newLoader())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, _ = c.Get(ctx, "a")
		}()
		go func() {
			defer wg.Done()
			c.Invalidate()
		}()
	}
	wg.Wait()

	team, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Amber", team.Name)
}
