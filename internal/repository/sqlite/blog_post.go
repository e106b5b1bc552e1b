package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/internal/slug"
	"github.com/silvertalent/backend/pkg/repository"
)

const postColumns = `id, title, slug, excerpt, content, author, read_time, image_public_id, image_url, category_id, tags, is_published, publish_date, views, created, updated`

func (r *SQLiteRepo) postSlugChecker() slug.Checker {
	return slug.CheckerFunc(func(ctx context.Context, s string, excludeID int64) (bool, error) {
		var n int
		row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM blog_posts WHERE slug = ? AND id != ?`, s, excludeID)
		if err := row.Scan(&n); err != nil {
			return false, err
		}
		return n > 0, nil
	})
}

func (r *SQLiteRepo) CreatePost(ctx context.Context, p *models.BlogPost) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("post is nil")
	}

	resolved, err := slug.Resolve(ctx, p.Title, 0, r.postSlugChecker())
	if err != nil {
		return 0, err
	}
	p.Slug = resolved

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO blog_posts (title, slug, excerpt, content, author, read_time, image_public_id, image_url, category_id, tags, is_published, publish_date, views, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		p.Title, p.Slug, p.Excerpt, encodeList(p.Content), p.Author, p.ReadTime,
		p.FeaturedImage.PublicID, p.FeaturedImage.URL, p.CategoryID, encodeList(p.Tags),
		boolToInt(p.IsPublished), p.PublishDate, ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrConflict
		}
		return 0, fmt.Errorf("create post: %w", err)
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetPostByID(ctx context.Context, id int64) (*models.BlogPost, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	r.attachCategory(ctx, p)
	return p, nil
}

// GetPublishedPostBySlug bumps the view counter atomically before reading;
// concurrent fetches each count.
func (r *SQLiteRepo) GetPublishedPostBySlug(ctx context.Context, s string) (*models.BlogPost, error) {
	res, err := r.conn.Exec(ctx, `UPDATE blog_posts SET views = views + 1 WHERE slug = ? AND is_published = 1`, s)
	if err != nil {
		return nil, fmt.Errorf("increment views: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}

	row := r.conn.QueryRow(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE slug = ? AND is_published = 1`, s)
	p, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	r.attachCategory(ctx, p)
	return p, nil
}

// UpdatePost re-resolves the slug when the title changed or the slug is
// unset, then persists every mutable field.
func (r *SQLiteRepo) UpdatePost(ctx context.Context, p *models.BlogPost) error {
	if p == nil {
		return fmt.Errorf("post is nil")
	}

	current, err := r.GetPostByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("post %d not found", p.ID)
	}

	p.Slug = current.Slug
	if current.Title != p.Title || p.Slug == "" {
		resolved, err := slug.Resolve(ctx, p.Title, p.ID, r.postSlugChecker())
		if err != nil {
			return err
		}
		p.Slug = resolved
	}

	_, err = r.conn.Exec(ctx, `UPDATE blog_posts SET title = ?, slug = ?, excerpt = ?, content = ?, author = ?, read_time = ?, image_public_id = ?, image_url = ?, category_id = ?, tags = ?, is_published = ?, publish_date = ?, updated = ? WHERE id = ?`,
		p.Title, p.Slug, p.Excerpt, encodeList(p.Content), p.Author, p.ReadTime,
		p.FeaturedImage.PublicID, p.FeaturedImage.URL, p.CategoryID, encodeList(p.Tags),
		boolToInt(p.IsPublished), p.PublishDate, now(), p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) DeletePost(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) ListPosts(ctx context.Context, f repository.PostFilter) ([]models.BlogPost, error) {
	where, args := postWhere(f)
	order := ` ORDER BY publish_date DESC`
	if f.AdminSort {
		order = ` ORDER BY created DESC`
	}
	q := `SELECT ` + postColumns + ` FROM blog_posts` + where + order + ` LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []models.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		r.attachCategory(ctx, &out[i])
	}
	return out, nil
}

func (r *SQLiteRepo) CountPosts(ctx context.Context, f repository.PostFilter) (int64, error) {
	where, args := postWhere(f)
	var total int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM blog_posts`+where, args...)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepo) CountPostsInCategory(ctx context.Context, categoryID int64) (int64, error) {
	var total int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM blog_posts WHERE category_id = ?`, categoryID)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count posts in category: %w", err)
	}
	return total, nil
}

func postWhere(f repository.PostFilter) (string, []any) {
	var conds []string
	var args []any

	if f.PublishedOnly {
		conds = append(conds, `is_published = 1`)
	}
	if f.CategoryID > 0 {
		conds = append(conds, `category_id = ?`)
		args = append(args, f.CategoryID)
	}
	if f.Tag != "" {
		conds = append(conds, `tags LIKE ?`)
		args = append(args, "%"+f.Tag+"%")
	}
	if f.Search != "" {
		like := "%" + strings.TrimSpace(f.Search) + "%"
		conds = append(conds, `(title LIKE ? OR excerpt LIKE ? OR content LIKE ? OR tags LIKE ?)`)
		args = append(args, like, like, like, like)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// attachCategory loads the referenced category for API responses; a missing
// category is left nil rather than treated as an error.
func (r *SQLiteRepo) attachCategory(ctx context.Context, p *models.BlogPost) {
	if p == nil || p.CategoryID <= 0 {
		return
	}
	c, err := r.GetCategoryByID(ctx, p.CategoryID)
	if err != nil {
		r.logger.Warn("load post category", "post_id", p.ID, "category_id", p.CategoryID, "err", err)
		return
	}
	p.Category = c
}

func scanPost(row rowScanner) (*models.BlogPost, error) {
	var p models.BlogPost
	var content, tags string
	var published int
	var publishDate sql.NullInt64
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &content, &p.Author, &p.ReadTime,
		&p.FeaturedImage.PublicID, &p.FeaturedImage.URL, &p.CategoryID, &tags, &published,
		&publishDate, &p.Views, &p.Created, &p.Updated); err != nil {
		return nil, err
	}
	p.Content = decodeList(content)
	p.Tags = decodeList(tags)
	p.IsPublished = published != 0
	if publishDate.Valid {
		v := publishDate.Int64
		p.PublishDate = &v
	}
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
