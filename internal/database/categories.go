package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trogers1052/paisabuddy/internal/models"
)

// CreateCategory inserts a new budget category
func (db *DB) CreateCategory(ctx context.Context, c *models.Category) error {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	if err := db.q().QueryRowContext(ctx, query, c.Name).Scan(&c.ID); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetCategoryByID retrieves a category by ID
func (db *DB) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := db.q().QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %w: %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

// GetAllCategories retrieves every category ordered by name
func (db *DB) GetAllCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := db.q().QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// CountCategories returns the number of categories
func (db *DB) CountCategories(ctx context.Context) (int, error) {
	var n int
	if err := db.q().QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return n, nil
}
