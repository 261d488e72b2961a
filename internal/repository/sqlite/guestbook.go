package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/repository"
)

// compile-time check that *GuestbookDB implements repository.GuestbookRepository
var _ repository.GuestbookRepository = (*GuestbookDB)(nil)

// GuestbookDB implements repository.GuestbookRepository.
type GuestbookDB struct {
	conn *sql.DB
}

// CreateEntry inserts a guestbook entry.
func (db *GuestbookDB) CreateEntry(ctx context.Context, entry *model.GuestbookEntry) error {
	if entry.ID == "" {
		entry.ID = xid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO guestbook_entries (id, name, message, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Name, entry.Message, entry.PasswordHash, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting guestbook entry: %w", err)
	}
	return nil
}

// GetEntryByID retrieves a single guestbook entry.
func (db *GuestbookDB) GetEntryByID(ctx context.Context, id string) (*model.GuestbookEntry, error) {
	var e model.GuestbookEntry
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, message, password_hash, created_at
		 FROM guestbook_entries WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &e.Message, &e.PasswordHash, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("guestbook entry", id)
		}
		return nil, fmt.Errorf("sqlite: getting guestbook entry %s: %w", id, err)
	}
	return &e, nil
}

// ListEntries returns entries newest first.
func (db *GuestbookDB) ListEntries(ctx context.Context, opts repository.ListOptions) ([]model.GuestbookEntry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, message, password_hash, created_at
		 FROM guestbook_entries ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing guestbook entries: %w", err)
	}
	defer rows.Close()

	var entries []model.GuestbookEntry
	for rows.Next() {
		var e model.GuestbookEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Message, &e.PasswordHash, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning guestbook row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdateEntry rewrites an entry's message.
func (db *GuestbookDB) UpdateEntry(ctx context.Context, entry *model.GuestbookEntry) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE guestbook_entries SET name = ?, message = ? WHERE id = ?`,
		entry.Name, entry.Message, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating guestbook entry %s: %w", entry.ID, err)
	}
	return checkAffected(res, "guestbook entry", entry.ID)
}

// DeleteEntry removes an entry.
func (db *GuestbookDB) DeleteEntry(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM guestbook_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting guestbook entry %s: %w", id, err)
	}
	return checkAffected(res, "guestbook entry", id)
}
