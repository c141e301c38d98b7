// Package store provides SQLite persistence for ticket names, formatting
// instructions, and report history.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/standupbot/standup/internal/report"
	"github.com/standupbot/standup/pkg/models"
)

// Store handles SQLite-backed persistence.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at the given path and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// migrate creates the necessary tables.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS ticket_names (
			user_id TEXT NOT NULL,
			ticket_key TEXT NOT NULL,
			name TEXT NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, ticket_key)
		);

		CREATE TABLE IF NOT EXISTS user_formatting (
			user_id TEXT PRIMARY KEY,
			instructions TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS user_reports (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			project_key TEXT NOT NULL,
			board_name TEXT,
			report TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_user_reports_user
			ON user_reports (user_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetTicketNames returns the user's ticket key to display name map.
func (s *Store) GetTicketNames(userID string) (map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT ticket_key, name FROM ticket_names WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket names: %v", err)
	}
	defer rows.Close()

	names := map[string]string{}
	for rows.Next() {
		var key, name string
		if err := rows.Scan(&key, &name); err != nil {
			return nil, err
		}
		names[key] = name
	}

	return names, rows.Err()
}

// SaveTicketNames merges the given names into the user's map. Keys present
// in names overwrite their stored entries; every other stored entry is left
// untouched. The map is never replaced wholesale.
func (s *Store) SaveTicketNames(userID string, names map[string]string) error {
	if len(names) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO ticket_names (user_id, ticket_key, name, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, ticket_key) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for key, name := range names {
		if _, err := stmt.Exec(userID, key, name, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save ticket name %s: %v", key, err)
		}
	}

	return tx.Commit()
}

// GetFormatting returns the user's formatting instructions, falling back to
// the default system prompt when none are stored.
func (s *Store) GetFormatting(userID string) (string, error) {
	var instructions string
	err := s.db.QueryRow(
		`SELECT instructions FROM user_formatting WHERE user_id = ?`, userID).
		Scan(&instructions)
	if err == sql.ErrNoRows {
		return report.DefaultSystemPrompt, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load formatting: %v", err)
	}

	return instructions, nil
}

// HasCustomFormatting reports whether the user has stored custom formatting.
func (s *Store) HasCustomFormatting(userID string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM user_formatting WHERE user_id = ?`, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveFormatting stores or replaces the user's formatting instructions.
func (s *Store) SaveFormatting(userID, instructions string) error {
	_, err := s.db.Exec(`
		INSERT INTO user_formatting (user_id, instructions, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			instructions = excluded.instructions,
			updated_at = excluded.updated_at
	`, userID, instructions, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save formatting: %v", err)
	}
	return nil
}

// DeleteFormatting removes the user's custom formatting, reverting them to
// the default.
func (s *Store) DeleteFormatting(userID string) error {
	_, err := s.db.Exec(
		`DELETE FROM user_formatting WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete formatting: %v", err)
	}
	return nil
}

// AppendReport stores a newly generated report in the user's history.
// Reports are write-once; there is no update path.
func (s *Store) AppendReport(userID, projectKey, boardName, text string) (models.Report, error) {
	rep := models.Report{
		ID:         uuid.NewString(),
		UserID:     userID,
		ProjectKey: projectKey,
		BoardName:  boardName,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}

	board := sql.NullString{String: boardName, Valid: boardName != ""}
	_, err := s.db.Exec(`
		INSERT INTO user_reports (id, user_id, project_key, board_name, report, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rep.ID, rep.UserID, rep.ProjectKey, board, rep.Text, rep.CreatedAt)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to save report: %v", err)
	}

	return rep, nil
}

// ListReports returns the user's most recent reports, newest first.
func (s *Store) ListReports(userID string, limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, project_key, board_name, report, created_at
		FROM user_reports
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %v", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var rep models.Report
		var board sql.NullString
		if err := rows.Scan(&rep.ID, &rep.UserID, &rep.ProjectKey, &board, &rep.Text, &rep.CreatedAt); err != nil {
			return nil, err
		}
		rep.BoardName = board.String
		reports = append(reports, rep)
	}

	return reports, rows.Err()
}

// DeleteReport removes one report from the user's history.
func (s *Store) DeleteReport(reportID, userID string) error {
	result, err := s.db.Exec(
		`DELETE FROM user_reports WHERE id = ? AND user_id = ?`, reportID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %v", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("report %s not found", reportID)
	}

	return nil
}
