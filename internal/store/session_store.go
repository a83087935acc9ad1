package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/dam-aji/internal/bracket"
	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
)

// SessionStore keeps each tournament session as one JSON document under a
// fixed key.
type SessionStore struct {
	db *sqlx.DB
}

const (
	getSessionQuery    = "SELECT document FROM tournament_sessions WHERE key = ?"
	upsertSessionQuery = `
		INSERT INTO tournament_sessions (key, document, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
		document = excluded.document,
		updated_at = excluded.updated_at
	`
	deleteSessionQuery = "DELETE FROM tournament_sessions WHERE key = ?"
)

func NewSessionStore(db *sqlx.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Load returns nil and no error when nothing has been saved under key yet.
func (s *SessionStore) Load(ctx context.Context, key string) (*bracket.State, error) {
	var document string
	err := s.db.GetContext(ctx, &document, getSessionQuery, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %q: %w", key, err)
	}

	var state bracket.State
	if err := json.Unmarshal([]byte(document), &state); err != nil {
		return nil, fmt.Errorf("failed to decode session %q: %w", key, err)
	}
	return &state, nil
}

func (s *SessionStore) Save(ctx context.Context, key string, state *bracket.State) error {
	document, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session %q: %w", key, err)
	}
	if _, err := s.db.ExecContext(ctx, upsertSessionQuery, key, string(document), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save session %q: %w", key, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteSessionQuery, key); err != nil {
		return fmt.Errorf("failed to delete session %q: %w", key, err)
	}
	return nil
}
