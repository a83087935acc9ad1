package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// AuditLimit is how many audit entries survive pruning.
const AuditLimit = 1000

type AuditEntry struct {
	ID        int64     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
	Admin     string    `db:"admin" json:"admin"`
	Action    string    `db:"action" json:"action"`
	Details   string    `db:"details" json:"details"`
}

type AuditStore struct {
	db *sqlx.DB
}

const (
	insertAuditQuery = `
		INSERT INTO audit_log (created_at, admin, action, details) VALUES
		(:created_at, :admin, :action, :details)
	`
	pruneAuditQuery = `
		DELETE FROM audit_log WHERE id NOT IN (
			SELECT id FROM audit_log ORDER BY id DESC LIMIT ?
		)
	`
	listAuditQuery = "SELECT * FROM audit_log ORDER BY id DESC LIMIT ?"
)

func NewAuditStore(db *sqlx.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Append records an entry and drops the oldest beyond AuditLimit in the same
// transaction.
func (s *AuditStore) Append(ctx context.Context, entry *AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.NamedExecContext(ctx, insertAuditQuery, entry)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}

	if _, err := tx.ExecContext(ctx, pruneAuditQuery, AuditLimit); err != nil {
		return fmt.Errorf("failed to prune audit log: %w", err)
	}
	return tx.Commit()
}

func (s *AuditStore) List(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 || limit > AuditLimit {
		limit = AuditLimit
	}
	entries := []AuditEntry{}
	err := s.db.SelectContext(ctx, &entries, listAuditQuery, limit)
	return entries, err
}
