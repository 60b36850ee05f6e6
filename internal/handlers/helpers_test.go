package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abrezinsky/tourneytracker/internal/cache"
	"github.com/abrezinsky/tourneytracker/internal/handlers"
	"github.com/abrezinsky/tourneytracker/internal/logger"
	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/repository"
	"github.com/abrezinsky/tourneytracker/internal/services"
	"github.com/abrezinsky/tourneytracker/internal/testutil"
	"github.com/abrezinsky/tourneytracker/pkg/tracker"
)

type testSetup struct {
	repo     repository.FullRepository
	db       *repository.Repository
	handlers *handlers.Handlers
	router   http.Handler
	remote   *tracker.MockClient
	backup   *services.BackupService
}

// newTestSetup wires real services over an in-memory database. Options
// configure the remote tracker client.
func newTestSetup(t *testing.T, opts ...tracker.MockOption) *testSetup {
	t.Helper()
	db := testutil.NewTestRepository(t)
	setup := newTestSetupWithRepo(t, db, opts...)
	setup.db = db
	return setup
}

func newTestSetupWithRepo(t *testing.T, repo repository.FullRepository, opts ...tracker.MockOption) *testSetup {
	t.Helper()
	log := logger.Discard()

	teams := cache.NewTeamCache(repo)
	teamSvc := services.NewTeamService(log, repo, teams)
	settingsSvc := services.NewSettingsService(log, repo)
	sessionSvc := services.NewSessionService(log, repo, settingsSvc)
	statsSvc := services.NewStatsService(log, repo, teams)
	remote := tracker.NewMockClient(opts...)
	dataSvc := services.NewDataService(log, repo, settingsSvc, teams, remote)
	backupSvc := services.NewBackupService(log, dataSvc, t.TempDir(), 3)

	h := handlers.New(teamSvc, sessionSvc, settingsSvc, statsSvc, dataSvc, backupSvc, nil, nil, handlers.NoopHTTPLogger{})
	return &testSetup{
		repo:     repo,
		handlers: h,
		router:   h.Router(),
		remote:   remote,
		backup:   backupSvc,
	}
}

// do sends a request with an optional JSON body and returns the recorder
func (s *testSetup) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			r = bytes.NewBufferString(raw)
		} else {
			b, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("failed to marshal body: %v", err)
			}
			r = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	decode(t, rec, &body)
	return body.Code
}

// league creates X{Alice, Bob}, Y{Carol}, Z{Dave} and an active session over them
func (s *testSetup) league(t *testing.T) (x, y, z models.Team, session models.Session) {
	t.Helper()
	for _, tc := range []struct {
		team    *models.Team
		name    string
		players []string
	}{
		{&x, "X", []string{"Alice", "Bob"}},
		{&y, "Y", []string{"Carol"}},
		{&z, "Z", []string{"Dave"}},
	} {
		rec := s.do(t, http.MethodPost, "/api/teams", map[string]interface{}{"name": tc.name, "players": tc.players})
		expectStatus(t, rec, http.StatusCreated)
		decode(t, rec, tc.team)
	}
	rec := s.do(t, http.MethodPost, "/api/sessions", map[string]interface{}{
		"name":     "Friday",
		"team_ids": []string{x.ID, y.ID, z.ID},
	})
	expectStatus(t, rec, http.StatusCreated)
	decode(t, rec, &session)
	return x, y, z, session
}

// gameBody ranks Alice=1, Carol=2, Bob=3, Dave=4
func gameBody(x, y, z models.Team) map[string]interface{} {
	return map[string]interface{}{
		"name": "Darts",
		"player_placements": map[string]int{
			x.ID + "::Alice": 1,
			y.ID + "::Carol": 2,
			x.ID + "::Bob":   3,
			z.ID + "::Dave":  4,
		},
		"team_player_map": map[string][]string{
			x.ID: {"Alice", "Bob"},
			y.ID: {"Carol"},
			z.ID: {"Dave"},
		},
	}
}
