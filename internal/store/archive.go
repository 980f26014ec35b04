// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// archive.go records every CSV export uploaded to object storage so the
// archive can be listed without scanning the bucket.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/StorkenPb/CategoryPlanner/internal/database"
)

// ArchiveStore handles export archive log operations.
type ArchiveStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewArchiveStore creates a new ArchiveStore.
func NewArchiveStore(db *sql.DB, d database.Dialect) *ArchiveStore {
	return &ArchiveStore{db: db, dialect: d}
}

// ArchiveEntry is one archived export.
type ArchiveEntry struct {
	Key        string `json:"key"`
	Categories int    `json:"categories"`
	SizeBytes  int64  `json:"size_bytes"`
	CreatedAt  string `json:"created_at"`
}

// Record stores an uploaded export. Failures are logged and otherwise
// ignored; the object is already in the bucket.
func (s *ArchiveStore) Record(ctx context.Context, key string, categories int, size int64) {
	p := s.dialect.Placeholder
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO export_archive (object_key, categories, size_bytes, created_at)
		VALUES (%s, %s, %s, %s)
	`, p(1), p(2), p(3), p(4)), key, categories, size, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		slog.Warn("failed to record export archive",
			"key", key,
			"error", err,
		)
		return
	}
	slog.Debug("export archive recorded", "key", key, "categories", categories, "bytes", size)
}

// Recent returns the newest archived exports, at most limit.
func (s *ArchiveStore) Recent(ctx context.Context, limit int) ([]ArchiveEntry, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT object_key, categories, size_bytes, created_at
		FROM export_archive
		ORDER BY created_at DESC, object_key DESC
		LIMIT %s
	`, s.dialect.Placeholder(1)), limit)
	if err != nil {
		return nil, fmt.Errorf("query export archive: %w", err)
	}
	defer rows.Close()

	var entries []ArchiveEntry
	for rows.Next() {
		var e ArchiveEntry
		if err := rows.Scan(&e.Key, &e.Categories, &e.SizeBytes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan export archive: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
