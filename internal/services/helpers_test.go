package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/abrezinsky/tourneytracker/internal/cache"
	"github.com/abrezinsky/tourneytracker/internal/logger"
	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/repository"
	"github.com/abrezinsky/tourneytracker/internal/services"
	"github.com/abrezinsky/tourneytracker/internal/testutil"
	"github.com/abrezinsky/tourneytracker/pkg/tracker"
)

// fixture wires every service over one repository
type fixture struct {
	repo     repository.FullRepository
	teams    *cache.TeamCache
	team     *services.TeamService
	session  *services.SessionService
	settings *services.SettingsService
	stats    *services.StatsService
	data     *services.DataService
	remote   *tracker.MockClient
	sent     *recordingBroadcaster
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRepo(t, testutil.NewTestRepository(t))
}

func newFixtureWithRepo(t *testing.T, repo repository.FullRepository) *fixture {
	t.Helper()
	log := logger.Discard()
	f := &fixture{repo: repo, remote: tracker.NewMockClient(), sent: &recordingBroadcaster{}}
	f.teams = cache.NewTeamCache(repo)
	f.team = services.NewTeamService(log, repo, f.teams)
	f.settings = services.NewSettingsService(log, repo)
	f.session = services.NewSessionService(log, repo, f.settings)
	f.session.SetBroadcaster(f.sent)
	f.stats = services.NewStatsService(log, repo, f.teams)
	f.data = services.NewDataService(log, repo, f.settings, f.teams, f.remote)
	return f
}

// scenario is three teams in one active session:
// X{Alice, Bob}, Y{Carol}, Z{Dave}
type scenario struct {
	x, y, z *models.Team
	session *models.Session
}

func (f *fixture) scenario(t *testing.T) scenario {
	t.Helper()
	ctx := context.Background()
	var sc scenario
	var err error
	if sc.x, err = f.team.CreateTeam(ctx, services.TeamInput{Name: "X", Players: []string{"Alice", "Bob"}}); err != nil {
		t.Fatalf("CreateTeam X failed: %v", err)
	}
	if sc.y, err = f.team.CreateTeam(ctx, services.TeamInput{Name: "Y", Players: []string{"Carol"}}); err != nil {
		t.Fatalf("CreateTeam Y failed: %v", err)
	}
	if sc.z, err = f.team.CreateTeam(ctx, services.TeamInput{Name: "Z", Players: []string{"Dave"}}); err != nil {
		t.Fatalf("CreateTeam Z failed: %v", err)
	}
	sc.session, err = f.session.CreateSession(ctx, services.SessionInput{
		Name:    "Friday",
		TeamIDs: []string{sc.x.ID, sc.y.ID, sc.z.ID},
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return sc
}

// gameA ranks Alice=1, Carol=2, Bob=3, Dave=4
func (sc scenario) gameA() services.GameRequest {
	return services.GameRequest{
		Name: "Darts",
		PlayerPlacements: map[string]int{
			sc.x.ID + "::Alice": 1,
			sc.y.ID + "::Carol": 2,
			sc.x.ID + "::Bob":   3,
			sc.z.ID + "::Dave":  4,
		},
		TeamPlayerMap: map[string][]string{
			sc.x.ID: {"Alice", "Bob"},
			sc.y.ID: {"Carol"},
			sc.z.ID: {"Dave"},
		},
	}
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	payloads []models.StandingsPayload
}

func (b *recordingBroadcaster) BroadcastStandings(p models.StandingsPayload) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payloads = append(b.payloads, p)
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.payloads)
}

func (b *recordingBroadcaster) last() models.StandingsPayload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.payloads[len(b.payloads)-1]
}

// totals maps team id to total for a standings list
func totals(p *models.StandingsPayload) map[string]int {
	out := make(map[string]int, len(p.Standings))
	for _, s := range p.Standings {
		out[s.TeamID] = s.Total
	}
	return out
}

func order(p *models.StandingsPayload) []string {
	ids := make([]string, len(p.Standings))
	for i, s := range p.Standings {
		ids[i] = s.TeamID
	}
	return ids
}
