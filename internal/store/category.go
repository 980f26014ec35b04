// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/StorkenPb/CategoryPlanner/internal/database"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

// CategoryStore persists the category collection. The collection is always
// written as a whole; collection order is kept in sort_index.
type CategoryStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB, d database.Dialect) *CategoryStore {
	return &CategoryStore{db: db, dialect: d}
}

// Load returns the collection in sort_index order with labels in the order
// they were saved.
func (s *CategoryStore) Load(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, parent, pos_x, pos_y
		FROM categories
		ORDER BY sort_index, code
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	index := make(map[string]int)
	for rows.Next() {
		var (
			c    models.Category
			x, y sql.NullFloat64
		)
		if err := rows.Scan(&c.Code, &c.Parent, &x, &y); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if x.Valid && y.Valid {
			c.Position = &models.Position{X: x.Float64, Y: y.Float64}
		}
		index[c.Code] = len(cats)
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	labelRows, err := s.db.QueryContext(ctx, `
		SELECT l.code, l.language, l.text
		FROM category_labels l
		JOIN categories c ON c.code = l.code
		ORDER BY c.sort_index, l.code, l.label_order
	`)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer labelRows.Close()

	for labelRows.Next() {
		var (
			code string
			l    models.Label
		)
		if err := labelRows.Scan(&code, &l.Language, &l.Text); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		if i, ok := index[code]; ok {
			cats[i].Labels = append(cats[i].Labels, l)
		}
	}
	return cats, labelRows.Err()
}

// Save replaces the stored collection with cats in one transaction.
func (s *CategoryStore) Save(ctx context.Context, cats []models.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM category_labels`); err != nil {
		return fmt.Errorf("clear labels: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	p := s.dialect.Placeholder
	catStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO categories (code, parent, pos_x, pos_y, sort_index) VALUES (%s, %s, %s, %s, %s)`,
		p(1), p(2), p(3), p(4), p(5),
	))
	if err != nil {
		return fmt.Errorf("prepare insert category: %w", err)
	}
	defer catStmt.Close()

	labelStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO category_labels (code, language, text, label_order) VALUES (%s, %s, %s, %s)`,
		p(1), p(2), p(3), p(4),
	))
	if err != nil {
		return fmt.Errorf("prepare insert label: %w", err)
	}
	defer labelStmt.Close()

	for i, c := range cats {
		var x, y sql.NullFloat64
		if c.Position != nil {
			x = sql.NullFloat64{Float64: c.Position.X, Valid: true}
			y = sql.NullFloat64{Float64: c.Position.Y, Valid: true}
		}
		if _, err := catStmt.ExecContext(ctx, c.Code, c.Parent, x, y, i); err != nil {
			return fmt.Errorf("insert category %s: %w", c.Code, err)
		}
		for j, l := range c.Labels {
			if _, err := labelStmt.ExecContext(ctx, c.Code, l.Language, l.Text, j); err != nil {
				return fmt.Errorf("insert label %s/%s: %w", c.Code, l.Language, err)
			}
		}
	}

	return tx.Commit()
}
