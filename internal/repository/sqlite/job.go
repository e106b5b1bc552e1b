package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/pkg/repository"
)

const jobColumns = `id, title, company, location, type, salary, category, description, skills, logo_public_id, logo_url, posted_date, rating, applicants, created, updated`

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}

	ts := now()
	if j.PostedDate == 0 {
		j.PostedDate = ts
	}
	res, err := r.conn.Exec(ctx, `INSERT INTO jobs (title, company, location, type, salary, category, description, skills, logo_public_id, logo_url, posted_date, rating, applicants, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.Title, j.Company, j.Location, j.Type, j.Salary, j.Category, j.Description,
		encodeList(j.Skills), j.Logo.PublicID, j.Logo.URL, j.PostedDate, j.Rating, j.Applicants, ts, ts)
	if err != nil {
		return 0, fmt.Errorf("create job: %w", err)
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}
	_, err := r.conn.Exec(ctx, `UPDATE jobs SET title = ?, company = ?, location = ?, type = ?, salary = ?, category = ?, description = ?, skills = ?, logo_public_id = ?, logo_url = ?, rating = ?, applicants = ?, updated = ? WHERE id = ?`,
		j.Title, j.Company, j.Location, j.Type, j.Salary, j.Category, j.Description,
		encodeList(j.Skills), j.Logo.PublicID, j.Logo.URL, j.Rating, j.Applicants, now(), j.ID)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) DeleteJob(ctx context.Context, id int64) error {
	// Applications referencing the job are intentionally left in place.
	_, err := r.conn.Exec(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) ListJobs(ctx context.Context, f repository.JobFilter) ([]models.Job, error) {
	where, args := jobWhere(f)
	q := `SELECT ` + jobColumns + ` FROM jobs` + where + ` ORDER BY created DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CountJobs(ctx context.Context, f repository.JobFilter) (int64, error) {
	where, args := jobWhere(f)
	var total int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM jobs`+where, args...)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepo) ListJobsPostedSince(ctx context.Context, since int64) ([]models.Job, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+jobColumns+` FROM jobs WHERE posted_date >= ? ORDER BY posted_date DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("list jobs since: %w", err)
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CompanyJobCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT LOWER(company), COUNT(1) FROM jobs GROUP BY LOWER(company)`)
	if err != nil {
		return nil, fmt.Errorf("company job counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var company string
		var n int64
		if err := rows.Scan(&company, &n); err != nil {
			return nil, err
		}
		counts[company] = n
	}
	return counts, rows.Err()
}

// jobWhere builds the shared filter clause so the page query and the count
// query always agree.
func jobWhere(f repository.JobFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Search != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(f.Search)) + "%"
		conds = append(conds, `(title LIKE ? OR company LIKE ?)`)
		args = append(args, like, like)
	}
	if f.Category != "" {
		conds = append(conds, `category = ?`)
		args = append(args, f.Category)
	}
	if f.Location != "" {
		// Substring match, so "Remote" also catches hybrid listings like
		// "Remote (US)". LIKE is already case-insensitive for ASCII.
		conds = append(conds, `location LIKE ?`)
		args = append(args, "%"+f.Location+"%")
	}
	if f.Type != "" {
		conds = append(conds, `type = ?`)
		args = append(args, f.Type)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var j models.Job
	var skills string
	if err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Type, &j.Salary, &j.Category,
		&j.Description, &skills, &j.Logo.PublicID, &j.Logo.URL, &j.PostedDate, &j.Rating,
		&j.Applicants, &j.Created, &j.Updated); err != nil {
		return nil, err
	}
	j.Skills = decodeList(skills)
	return &j, nil
}
