package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates an empty database with the sample catalogue. It is a no-op
// when any category exists.
func Seed(ctx context.Context, db *sql.DB, d Dialect) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	insertCategory := fmt.Sprintf(
		"INSERT INTO categories (code, parent, sort_index) VALUES (%s, %s, %s)",
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3),
	)
	insertLabel := fmt.Sprintf(
		"INSERT INTO category_labels (code, language, text, label_order) VALUES (%s, %s, %s, %s)",
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3), d.Placeholder(4),
	)

	cats := SampleCategories()
	for i, c := range cats {
		if _, err := tx.ExecContext(ctx, insertCategory, c.Code, c.Parent, i); err != nil {
			return fmt.Errorf("seed insert %s: %w", c.Code, err)
		}
		for j, l := range c.Labels {
			if _, err := tx.ExecContext(ctx, insertLabel, c.Code, l.Language, l.Text, j); err != nil {
				return fmt.Errorf("seed insert %s label %s: %w", c.Code, l.Language, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with sample categories", "count", len(cats))
	return nil
}
