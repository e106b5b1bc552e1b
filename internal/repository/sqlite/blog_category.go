package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/internal/slug"
	"github.com/silvertalent/backend/pkg/repository"
)

const categoryColumns = `id, name, slug, description, created, updated`

// categorySlugChecker probes the blog_categories collection for the resolver.
func (r *SQLiteRepo) categorySlugChecker() slug.Checker {
	return slug.CheckerFunc(func(ctx context.Context, s string, excludeID int64) (bool, error) {
		var n int
		row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM blog_categories WHERE slug = ? AND id != ?`, s, excludeID)
		if err := row.Scan(&n); err != nil {
			return false, err
		}
		return n > 0, nil
	})
}

func (r *SQLiteRepo) CreateCategory(ctx context.Context, c *models.BlogCategory) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("category is nil")
	}

	resolved, err := slug.Resolve(ctx, c.Name, 0, r.categorySlugChecker())
	if err != nil {
		return 0, err
	}
	c.Slug = resolved

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO blog_categories (name, slug, description, created, updated) VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Slug, c.Description, ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrConflict
		}
		return 0, fmt.Errorf("create category: %w", err)
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetCategoryByID(ctx context.Context, id int64) (*models.BlogCategory, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+categoryColumns+` FROM blog_categories WHERE id = ?`, id)
	return scanCategoryRow(row)
}

func (r *SQLiteRepo) GetCategoryBySlug(ctx context.Context, s string) (*models.BlogCategory, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+categoryColumns+` FROM blog_categories WHERE slug = ?`, s)
	return scanCategoryRow(row)
}

func (r *SQLiteRepo) ListCategories(ctx context.Context) ([]models.BlogCategory, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+categoryColumns+` FROM blog_categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []models.BlogCategory
	for rows.Next() {
		var c models.BlogCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Created, &c.Updated); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCategory re-resolves the slug when the name changed or the slug is
// unset, then persists.
func (r *SQLiteRepo) UpdateCategory(ctx context.Context, c *models.BlogCategory) error {
	if c == nil {
		return fmt.Errorf("category is nil")
	}

	current, err := r.GetCategoryByID(ctx, c.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("category %d not found", c.ID)
	}

	c.Slug = current.Slug
	if current.Name != c.Name || c.Slug == "" {
		resolved, err := slug.Resolve(ctx, c.Name, c.ID, r.categorySlugChecker())
		if err != nil {
			return err
		}
		c.Slug = resolved
	}

	_, err = r.conn.Exec(ctx, `UPDATE blog_categories SET name = ?, slug = ?, description = ?, updated = ? WHERE id = ?`,
		c.Name, c.Slug, c.Description, now(), c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) DeleteCategory(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM blog_categories WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) CategoryNameOrSlugTaken(ctx context.Context, name, s string, excludeID int64) (bool, error) {
	var n int
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM blog_categories WHERE (name = ? OR slug = ?) AND id != ?`, name, s, excludeID)
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("check category conflict: %w", err)
	}
	return n > 0, nil
}

func scanCategoryRow(row *sql.Row) (*models.BlogCategory, error) {
	var c models.BlogCategory
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Created, &c.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}
