package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/pkg/repository"
)

const applicationColumns = `id, job_id, job_title, company_name, name, email, cover_letter, resume_public_id, resume_url, status, admin_notes, applied_date, created, updated`

func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.Application) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("application is nil")
	}

	ts := now()
	if a.Status == "" {
		a.Status = models.ApplicationPending
	}
	if a.AppliedDate == 0 {
		a.AppliedDate = ts
	}
	res, err := r.conn.Exec(ctx, `INSERT INTO applications (job_id, job_title, company_name, name, email, cover_letter, resume_public_id, resume_url, status, admin_notes, applied_date, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.JobID, a.JobTitle, a.CompanyName, a.Name, a.Email, a.CoverLetter,
		a.Resume.PublicID, a.Resume.URL, a.Status, a.AdminNotes, a.AppliedDate, ts, ts)
	if err != nil {
		return 0, fmt.Errorf("create application: %w", err)
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetApplicationByID(ctx context.Context, id int64) (*models.Application, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	a, err := scanApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepo) UpdateApplication(ctx context.Context, a *models.Application) error {
	if a == nil {
		return fmt.Errorf("application is nil")
	}
	_, err := r.conn.Exec(ctx, `UPDATE applications SET status = ?, admin_notes = ?, updated = ? WHERE id = ?`,
		a.Status, a.AdminNotes, now(), a.ID)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) ListApplications(ctx context.Context, f repository.ApplicationFilter) ([]models.Application, error) {
	where, args := applicationWhere(f)
	q := `SELECT ` + applicationColumns + ` FROM applications` + where + ` ORDER BY applied_date DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CountApplications(ctx context.Context, f repository.ApplicationFilter) (int64, error) {
	where, args := applicationWhere(f)
	var total int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM applications`+where, args...)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return total, nil
}

func applicationWhere(f repository.ApplicationFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, f.Status)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var a models.Application
	if err := row.Scan(&a.ID, &a.JobID, &a.JobTitle, &a.CompanyName, &a.Name, &a.Email,
		&a.CoverLetter, &a.Resume.PublicID, &a.Resume.URL, &a.Status, &a.AdminNotes,
		&a.AppliedDate, &a.Created, &a.Updated); err != nil {
		return nil, err
	}
	return &a, nil
}
