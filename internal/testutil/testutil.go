package testutil

import (
	"context"
	"testing"

	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// CreateTeam stores a team with the given roster and returns it
func CreateTeam(t *testing.T, repo repository.TeamRepository, name string, players ...string) *models.Team {
	t.Helper()

	team := &models.Team{Name: name, Players: players}
	if err := repo.CreateTeam(context.Background(), team); err != nil {
		t.Fatalf("failed to create team %q: %v", name, err)
	}
	return team
}

// CreateSession stores an active session over the given teams and returns it
func CreateSession(t *testing.T, repo repository.SessionRepository, name string, teamIDs ...string) *models.Session {
	t.Helper()

	session := &models.Session{Name: name, TeamIDs: teamIDs}
	if err := repo.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("failed to create session %q: %v", name, err)
	}
	return session
}
