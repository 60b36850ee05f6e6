package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/abrezinsky/tourneytracker/internal/models"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Repository{db: db}, mock
}

// TestListTeams_BadPlayersJSON tests that a corrupt players column is reported
func TestListTeams_BadPlayersJSON(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "name", "players", "color", "tag", "created_at"}).
		AddRow("t1", "Red", "not-json", nil, nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM teams").WillReturnRows(rows)

	if _, err := repo.ListTeams(context.Background()); err == nil {
		t.Error("expected error from corrupt players column, got nil")
	}
}

// TestListTeams_QueryError tests query failure propagation
func TestListTeams_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM teams").WillReturnError(errors.New("disk I/O error"))

	if _, err := repo.ListTeams(context.Background()); err == nil {
		t.Error("expected error, got nil")
	}
}

// TestGetSession_BadGameJSON tests that a corrupt game map is reported
func TestGetSession_BadGameJSON(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "date", "team_ids", "status"}).
			AddRow("s1", "Friday", nil, `["a","b"]`, "active"))
	mock.ExpectQuery("SELECT (.+) FROM games").
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "name", "player_placements", "player_points",
			"team_player_map", "points", "placements", "created_at"}).
			AddRow("g1", "s1", "Darts", "{}", "{}", "{}", "{broken", "{}", nil))

	_, err := repo.GetSession(context.Background(), "s1")
	if err == nil {
		t.Fatal("expected error from corrupt points column, got nil")
	}
}

// TestGetSession_PenaltyQueryError tests failure while loading penalties
func TestGetSession_PenaltyQueryError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "date", "team_ids", "status"}).
			AddRow("s1", "Friday", nil, `["a","b"]`, "active"))
	mock.ExpectQuery("SELECT (.+) FROM games").
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "name", "player_placements", "player_points",
			"team_player_map", "points", "placements", "created_at"}))
	mock.ExpectQuery("SELECT (.+) FROM penalties").WillReturnError(errors.New("boom"))

	if _, err := repo.GetSession(context.Background(), "s1"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TestAddGame_BeginError tests transaction start failure
func TestAddGame_BeginError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	err := repo.AddGame(context.Background(), &models.Game{SessionID: "s1"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TestAddGame_InsertErrorRollsBack tests that a failed insert is rolled back
func TestAddGame_InsertErrorRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM sessions").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("active"))
	mock.ExpectExec("INSERT INTO games").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := repo.AddGame(context.Background(), &models.Game{SessionID: "s1"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestAddPenalty_CompletedSessionRollsBack tests the status re-check
func TestAddPenalty_CompletedSessionRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM sessions").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("completed"))
	mock.ExpectRollback()

	err := repo.AddPenalty(context.Background(), &models.Penalty{SessionID: "s1", TeamID: "a", Value: -1})
	if err != ErrSessionCompleted {
		t.Fatalf("expected ErrSessionCompleted, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestGetSummary_QueryError tests each count query failing in turn
func TestGetSummary_QueryError(t *testing.T) {
	for failAt := 0; failAt < 6; failAt++ {
		repo, mock := newMockRepo(t)
		for i := 0; i < failAt; i++ {
			mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		}
		mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("boom"))

		if _, err := repo.GetSummary(context.Background()); err == nil {
			t.Errorf("expected error when query %d fails", failAt)
		}
	}
}

// TestReplaceAll_ClearError tests failure while clearing tables
func TestReplaceAll_ClearError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM penalties").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	if err := repo.ReplaceAll(context.Background(), nil, nil, nil); err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestSetSettings_CommitError tests commit failure propagation
func TestSetSettings_CommitError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT OR REPLACE INTO settings").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	if err := repo.SetSettings(context.Background(), map[string]string{"season": "x"}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TestDeleteTeam_RowsAffectedError tests a driver that cannot report affected rows
func TestDeleteTeam_RowsAffectedError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM teams").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("unsupported")))

	if err := repo.DeleteTeam(context.Background(), "t1"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
