package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/tourneytracker/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	// Enable foreign key constraints so session deletes cascade
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// NewID returns a fresh 12 hex character record id
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			players TEXT NOT NULL DEFAULT '[]',
			color TEXT,
			tag TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			date DATETIME DEFAULT CURRENT_TIMESTAMP,
			team_ids TEXT NOT NULL DEFAULT '[]',
			status TEXT NOT NULL DEFAULT 'active'
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			session_id TEXT NOT NULL,
			name TEXT NOT NULL,
			player_placements TEXT NOT NULL DEFAULT '{}',
			player_points TEXT NOT NULL DEFAULT '{}',
			team_player_map TEXT NOT NULL DEFAULT '{}',
			points TEXT NOT NULL DEFAULT '{}',
			placements TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS penalties (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			session_id TEXT NOT NULL,
			team_id TEXT NOT NULL,
			value INTEGER NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_games_session ON games(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_penalties_session ON penalties(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// Insert default settings if not exists.
	// base_url is left to app.go, which fills it with the detected LAN address.
	defaultSettings := map[string]string{
		"league_name": "Pro League",
		"season":      "Season 4",
		"description": "",
	}

	for key, value := range defaultSettings {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// ==================== Team Methods ====================

const teamColumns = `id, name, players, color, tag, created_at`

func scanTeam(s rowScanner) (models.Team, error) {
	var t models.Team
	var players string
	var color, tag sql.NullString
	var createdAt sql.NullTime
	if err := s.Scan(&t.ID, &t.Name, &players, &color, &tag, &createdAt); err != nil {
		return t, err
	}
	if err := json.Unmarshal([]byte(players), &t.Players); err != nil {
		return t, fmt.Errorf("decode players for team %s: %w", t.ID, err)
	}
	if t.Players == nil {
		t.Players = []string{}
	}
	t.Color = color.String
	t.Tag = tag.String
	if createdAt.Valid {
		t.CreatedAt = createdAt.Time
	}
	return t, nil
}

// ListTeams returns all teams in creation order
func (r *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// GetTeam retrieves a team by ID
func (r *Repository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	t, err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTeam inserts a team, assigning ID and CreatedAt when unset
func (r *Repository) CreateTeam(ctx context.Context, team *models.Team) error {
	return insertTeam(ctx, r.db, team)
}

func insertTeam(ctx context.Context, q querier, team *models.Team) error {
	if team.ID == "" {
		team.ID = NewID()
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	players, err := marshalJSON(team.Players, "[]")
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO teams (id, name, players, color, tag, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, team.ID, team.Name, players, nullString(team.Color), nullString(team.Tag), team.CreatedAt)
	return err
}

// UpdateTeam replaces a team's name, roster, color and tag
func (r *Repository) UpdateTeam(ctx context.Context, team *models.Team) error {
	players, err := marshalJSON(team.Players, "[]")
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE teams SET name = ?, players = ?, color = ?, tag = ? WHERE id = ?
	`, team.Name, players, nullString(team.Color), nullString(team.Tag), team.ID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteTeam removes a team. Sessions that reference it keep the dangling id.
func (r *Repository) DeleteTeam(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ==================== Session Methods ====================

const sessionColumns = `id, name, date, team_ids, status`

func scanSession(s rowScanner) (models.Session, error) {
	var sess models.Session
	var teamIDs, status string
	var date sql.NullTime
	if err := s.Scan(&sess.ID, &sess.Name, &date, &teamIDs, &status); err != nil {
		return sess, err
	}
	if err := json.Unmarshal([]byte(teamIDs), &sess.TeamIDs); err != nil {
		return sess, fmt.Errorf("decode team_ids for session %s: %w", sess.ID, err)
	}
	if sess.TeamIDs == nil {
		sess.TeamIDs = []string{}
	}
	if date.Valid {
		sess.Date = date.Time
	}
	sess.Status = models.SessionStatus(status)
	sess.Games = []models.Game{}
	sess.Penalties = []models.Penalty{}
	return sess, nil
}

// ListSessions returns sessions in creation order with games and penalties.
// An empty status returns every session.
func (r *Repository) ListSessions(ctx context.Context, status models.SessionStatus) ([]models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.Session{}
	index := make(map[string]int)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		index[s.ID] = len(sessions)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(sessions) == 0 {
		return sessions, nil
	}

	games, err := listGames(ctx, r.db, "")
	if err != nil {
		return nil, err
	}
	for _, g := range games {
		if i, ok := index[g.SessionID]; ok {
			sessions[i].Games = append(sessions[i].Games, g)
		}
	}

	penalties, err := listPenalties(ctx, r.db, "")
	if err != nil {
		return nil, err
	}
	for _, p := range penalties {
		if i, ok := index[p.SessionID]; ok {
			sessions[i].Penalties = append(sessions[i].Penalties, p)
		}
	}

	return sessions, nil
}

// GetSession retrieves a session with its games and penalties
func (r *Repository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.Games, err = listGames(ctx, r.db, id); err != nil {
		return nil, err
	}
	if s.Penalties, err = listPenalties(ctx, r.db, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSession inserts a session, assigning ID, Date and Status when unset.
// Games and penalties on the struct are ignored.
func (r *Repository) CreateSession(ctx context.Context, session *models.Session) error {
	return insertSession(ctx, r.db, session)
}

func insertSession(ctx context.Context, q querier, session *models.Session) error {
	if session.ID == "" {
		session.ID = NewID()
	}
	if session.Date.IsZero() {
		session.Date = time.Now().UTC()
	}
	if session.Status == "" {
		session.Status = models.SessionActive
	}
	teamIDs, err := marshalJSON(session.TeamIDs, "[]")
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO sessions (id, name, date, team_ids, status)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.Name, session.Date, teamIDs, string(session.Status))
	return err
}

// UpdateSession writes a session's name and status
func (r *Repository) UpdateSession(ctx context.Context, session *models.Session) error {
	result, err := r.db.ExecContext(ctx, `UPDATE sessions SET name = ?, status = ? WHERE id = ?`,
		session.Name, string(session.Status), session.ID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteSession removes a session together with its games and penalties
func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Explicit deletes keep the cascade even if foreign keys are disabled
	if _, err := tx.ExecContext(ctx, `DELETE FROM games WHERE session_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM penalties WHERE session_id = ?`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireAffected(result); err != nil {
		return err
	}
	return tx.Commit()
}

// lockActiveSession re-reads the session status inside tx
func lockActiveSession(ctx context.Context, tx *sql.Tx, sessionID string) error {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT status FROM sessions WHERE id = ?`, sessionID).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if models.SessionStatus(status) == models.SessionCompleted {
		return ErrSessionCompleted
	}
	return nil
}

// ==================== Game Methods ====================

const gameColumns = `id, session_id, name, player_placements, player_points, team_player_map, points, placements, created_at`

func scanGame(s rowScanner) (models.Game, error) {
	var g models.Game
	var placements, playerPoints, teamPlayerMap, points, teamPlacements string
	var createdAt sql.NullTime
	if err := s.Scan(&g.ID, &g.SessionID, &g.Name, &placements, &playerPoints, &teamPlayerMap,
		&points, &teamPlacements, &createdAt); err != nil {
		return g, err
	}

	fields := []struct {
		raw  string
		dest any
		name string
	}{
		{placements, &g.PlayerPlacements, "player_placements"},
		{playerPoints, &g.PlayerPoints, "player_points"},
		{teamPlayerMap, &g.TeamPlayerMap, "team_player_map"},
		{points, &g.Points, "points"},
		{teamPlacements, &g.Placements, "placements"},
	}
	for _, f := range fields {
		if err := json.Unmarshal([]byte(f.raw), f.dest); err != nil {
			return g, fmt.Errorf("decode %s for game %s: %w", f.name, g.ID, err)
		}
	}
	if createdAt.Valid {
		g.CreatedAt = createdAt.Time
	}
	return g, nil
}

// listGames returns games in insertion order, for one session or for all when
// sessionID is empty
func listGames(ctx context.Context, q querier, sessionID string) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games`
	var args []any
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY seq`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []models.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// AddGame stores a scored game. The session must exist and be active.
func (r *Repository) AddGame(ctx context.Context, game *models.Game) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockActiveSession(ctx, tx, game.SessionID); err != nil {
		return err
	}
	if err := insertGame(ctx, tx, game); err != nil {
		return err
	}
	return tx.Commit()
}

func insertGame(ctx context.Context, q querier, game *models.Game) error {
	if game.ID == "" {
		game.ID = NewID()
	}
	if game.CreatedAt.IsZero() {
		game.CreatedAt = time.Now().UTC()
	}

	cols := make([]any, 0, 5)
	for _, v := range []any{game.PlayerPlacements, game.PlayerPoints, game.TeamPlayerMap, game.Points, game.Placements} {
		raw, err := marshalJSON(v, "{}")
		if err != nil {
			return err
		}
		cols = append(cols, raw)
	}

	args := append([]any{game.ID, game.SessionID, game.Name}, cols...)
	args = append(args, game.CreatedAt)
	_, err := q.ExecContext(ctx, `
		INSERT INTO games (id, session_id, name, player_placements, player_points, team_player_map, points, placements, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	return err
}

// RemoveGame deletes a game from an active session
func (r *Repository) RemoveGame(ctx context.Context, sessionID, gameID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockActiveSession(ctx, tx, sessionID); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM games WHERE session_id = ? AND id = ?`, sessionID, gameID)
	if err != nil {
		return err
	}
	if err := requireAffected(result); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Penalty Methods ====================

const penaltyColumns = `id, session_id, team_id, value, reason, created_at`

func scanPenalty(s rowScanner) (models.Penalty, error) {
	var p models.Penalty
	var createdAt sql.NullTime
	if err := s.Scan(&p.ID, &p.SessionID, &p.TeamID, &p.Value, &p.Reason, &createdAt); err != nil {
		return p, err
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	return p, nil
}

func listPenalties(ctx context.Context, q querier, sessionID string) ([]models.Penalty, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalties`
	var args []any
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY seq`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	penalties := []models.Penalty{}
	for rows.Next() {
		p, err := scanPenalty(rows)
		if err != nil {
			return nil, err
		}
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}

// AddPenalty stores a penalty. The session must exist and be active.
func (r *Repository) AddPenalty(ctx context.Context, penalty *models.Penalty) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockActiveSession(ctx, tx, penalty.SessionID); err != nil {
		return err
	}
	if err := insertPenalty(ctx, tx, penalty); err != nil {
		return err
	}
	return tx.Commit()
}

func insertPenalty(ctx context.Context, q querier, penalty *models.Penalty) error {
	if penalty.ID == "" {
		penalty.ID = NewID()
	}
	if penalty.CreatedAt.IsZero() {
		penalty.CreatedAt = time.Now().UTC()
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO penalties (id, session_id, team_id, value, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, penalty.ID, penalty.SessionID, penalty.TeamID, penalty.Value, penalty.Reason, penalty.CreatedAt)
	return err
}

// RemovePenalty deletes a penalty from an active session
func (r *Repository) RemovePenalty(ctx context.Context, sessionID, penaltyID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockActiveSession(ctx, tx, sessionID); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM penalties WHERE session_id = ? AND id = ?`, sessionID, penaltyID)
	if err != nil {
		return err
	}
	if err := requireAffected(result); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ListSettings returns every stored setting
func (r *Repository) ListSettings(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// SetSettings writes several settings atomically
func (r *Repository) SetSettings(ctx context.Context, values map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := writeSettings(ctx, tx, values); err != nil {
		return err
	}
	return tx.Commit()
}

func writeSettings(ctx context.Context, q querier, values map[string]string) error {
	for key, value := range values {
		if _, err := q.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Stats Methods ====================

// GetSummary returns tracker-wide counts
func (r *Repository) GetSummary(ctx context.Context) (*models.Summary, error) {
	s := &models.Summary{}

	counts := []struct {
		query string
		args  []any
		dest  *int
	}{
		{`SELECT COUNT(*) FROM teams`, nil, &s.Teams},
		{`SELECT COUNT(*) FROM sessions`, nil, &s.Sessions},
		{`SELECT COUNT(*) FROM sessions WHERE status = ?`, []any{string(models.SessionActive)}, &s.ActiveSessions},
		{`SELECT COUNT(*) FROM sessions WHERE status = ?`, []any{string(models.SessionCompleted)}, &s.CompletedSessions},
		{`SELECT COUNT(*) FROM games`, nil, &s.GamesPlayed},
		{`SELECT COUNT(*) FROM penalties`, nil, &s.Penalties},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// ==================== Database Management Methods ====================

// validTables defines which tables can be safely cleared, in an order that
// respects foreign keys
var validTables = []string{"penalties", "games", "sessions", "teams", "settings"}

func clearTable(ctx context.Context, q querier, table string) error {
	allowed := false
	for _, t := range validTables {
		if t == table {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInvalidTable
	}

	// Safe to use string concatenation now that we've validated the table name
	_, err := q.ExecContext(ctx, "DELETE FROM "+table)
	return err
}

// ReplaceAll swaps the entire data set for the given one in a single
// transaction. A nil settings map leaves the stored settings untouched.
func (r *Repository) ReplaceAll(ctx context.Context, teams []models.Team, sessions []models.Session, settings map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range validTables {
		if table == "settings" && settings == nil {
			continue
		}
		if err := clearTable(ctx, tx, table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i := range teams {
		if err := insertTeam(ctx, tx, &teams[i]); err != nil {
			return fmt.Errorf("insert team %s: %w", teams[i].ID, err)
		}
	}

	for i := range sessions {
		s := &sessions[i]
		if err := insertSession(ctx, tx, s); err != nil {
			return fmt.Errorf("insert session %s: %w", s.ID, err)
		}
		for j := range s.Games {
			s.Games[j].SessionID = s.ID
			if err := insertGame(ctx, tx, &s.Games[j]); err != nil {
				return fmt.Errorf("insert game %s: %w", s.Games[j].ID, err)
			}
		}
		for j := range s.Penalties {
			s.Penalties[j].SessionID = s.ID
			if err := insertPenalty(ctx, tx, &s.Penalties[j]); err != nil {
				return fmt.Errorf("insert penalty %s: %w", s.Penalties[j].ID, err)
			}
		}
	}

	if settings != nil {
		if err := writeSettings(ctx, tx, settings); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ==================== Helpers ====================

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// marshalJSON encodes v, storing empty for nil maps and slices
func marshalJSON(v any, empty string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return empty, nil
	}
	return string(data), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
