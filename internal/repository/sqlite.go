// Package repository persists the per-turn analytics log in SQLite.
// Conversation state itself is deliberately in-memory; only the audit
// trail of completed turns is durable.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/datamining-co/minai/internal/domain"
)

// TurnLog records completed turns in SQLite.
type TurnLog struct {
	db *sql.DB
}

// NewTurnLog opens (or creates) the turn log database.
func NewTurnLog(dsn string) (*TurnLog, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	log := &TurnLog{db: db}
	if err := log.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return log, nil
}

// migrate runs database migrations.
func (t *TurnLog) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS turns (
			turn_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			user_message TEXT NOT NULL,
			reply TEXT,
			success INTEGER NOT NULL,
			error TEXT,
			latency_ms INTEGER NOT NULL DEFAULT 0,
			prompt_tokens INTEGER NOT NULL DEFAULT 0,
			completion_tokens INTEGER NOT NULL DEFAULT 0,
			total_tokens INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_user ON turns(user_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := t.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Record inserts one turn row.
func (t *TurnLog) Record(ctx context.Context, rec *domain.TurnRecord) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO turns (turn_id, user_id, mode, user_message, reply, success, error,
			latency_ms, prompt_tokens, completion_tokens, total_tokens, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TurnID, rec.UserID, string(rec.Mode), rec.UserMessage, rec.Reply,
		boolToInt(rec.Success), rec.Error, rec.LatencyMs,
		rec.PromptTokens, rec.CompletionTokens, rec.TotalTokens, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

// CountForUser returns how many turns are logged for a user.
func (t *TurnLog) CountForUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := t.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM turns WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count turns: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (t *TurnLog) Close() error {
	return t.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
