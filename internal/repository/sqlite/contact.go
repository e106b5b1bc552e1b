package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/pkg/repository"
)

// ContactInfoIdentifier keys the singleton contact-info row.
const ContactInfoIdentifier = "main_contact_info"

const submissionColumns = `id, name, email, phone, country_name, country_code, message, status, admin_notes, submitted_at, replied_at`

// GetContactInfo returns the singleton row, creating it with defaults on
// first read.
func (r *SQLiteRepo) GetContactInfo(ctx context.Context) (*models.ContactInfo, error) {
	info, err := r.readContactInfo(ctx)
	if err != nil {
		return nil, err
	}
	if info != nil {
		return info, nil
	}

	defaults := &models.ContactInfo{
		Identifier:     ContactInfoIdentifier,
		Address:        "123 Main Street, Anytown, USA 12345",
		Phone:          "+1 (555) 123-4567",
		Email:          "contact@silvertalent.com",
		LocationMapURL: "https://www.google.com/maps/embed?pb=empire-state-building",
	}
	_, err = r.conn.Exec(ctx, `INSERT INTO contact_info (identifier, address, phone, email, location_map_url, updated) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(identifier) DO NOTHING`,
		defaults.Identifier, defaults.Address, defaults.Phone, defaults.Email, defaults.LocationMapURL, now())
	if err != nil {
		return nil, fmt.Errorf("create default contact info: %w", err)
	}
	return r.readContactInfo(ctx)
}

func (r *SQLiteRepo) UpsertContactInfo(ctx context.Context, info *models.ContactInfo) (*models.ContactInfo, error) {
	if info == nil {
		return nil, fmt.Errorf("contact info is nil")
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO contact_info (identifier, address, phone, email, location_map_url, updated) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(identifier) DO UPDATE SET address = excluded.address, phone = excluded.phone, email = excluded.email, location_map_url = excluded.location_map_url, updated = excluded.updated`,
		ContactInfoIdentifier, info.Address, info.Phone, info.Email, info.LocationMapURL, now())
	if err != nil {
		return nil, fmt.Errorf("upsert contact info: %w", err)
	}
	return r.readContactInfo(ctx)
}

func (r *SQLiteRepo) readContactInfo(ctx context.Context) (*models.ContactInfo, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, identifier, address, phone, email, location_map_url, updated FROM contact_info WHERE identifier = ?`, ContactInfoIdentifier)
	var info models.ContactInfo
	if err := row.Scan(&info.ID, &info.Identifier, &info.Address, &info.Phone, &info.Email, &info.LocationMapURL, &info.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("read contact info: %w", err)
	}
	return &info, nil
}

func (r *SQLiteRepo) CreateSubmission(ctx context.Context, s *models.ContactSubmission) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("submission is nil")
	}
	if s.Status == "" {
		s.Status = models.SubmissionNew
	}
	if s.SubmittedAt == 0 {
		s.SubmittedAt = now()
	}
	res, err := r.conn.Exec(ctx, `INSERT INTO contact_submissions (name, email, phone, country_name, country_code, message, status, admin_notes, submitted_at, replied_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.Email, s.Phone, s.CountryName, s.CountryCode, s.Message, s.Status, s.AdminNotes, s.SubmittedAt, s.RepliedAt)
	if err != nil {
		return 0, fmt.Errorf("create submission: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) GetSubmissionByID(ctx context.Context, id int64) (*models.ContactSubmission, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+submissionColumns+` FROM contact_submissions WHERE id = ?`, id)
	s, err := scanSubmission(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepo) UpdateSubmission(ctx context.Context, s *models.ContactSubmission) error {
	if s == nil {
		return fmt.Errorf("submission is nil")
	}
	_, err := r.conn.Exec(ctx, `UPDATE contact_submissions SET status = ?, admin_notes = ?, replied_at = ? WHERE id = ?`,
		s.Status, s.AdminNotes, s.RepliedAt, s.ID)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) DeleteSubmission(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM contact_submissions WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) ListSubmissions(ctx context.Context, f repository.SubmissionFilter) ([]models.ContactSubmission, error) {
	where, args := submissionWhere(f)
	q := `SELECT ` + submissionColumns + ` FROM contact_submissions` + where + ` ORDER BY submitted_at DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []models.ContactSubmission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CountSubmissions(ctx context.Context, f repository.SubmissionFilter) (int64, error) {
	where, args := submissionWhere(f)
	var total int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM contact_submissions`+where, args...)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return total, nil
}

func submissionWhere(f repository.SubmissionFilter) (string, []any) {
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

func scanSubmission(row rowScanner) (*models.ContactSubmission, error) {
	var s models.ContactSubmission
	var repliedAt sql.NullInt64
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.CountryName, &s.CountryCode,
		&s.Message, &s.Status, &s.AdminNotes, &s.SubmittedAt, &repliedAt); err != nil {
		return nil, err
	}
	if repliedAt.Valid {
		v := repliedAt.Int64
		s.RepliedAt = &v
	}
	return &s, nil
}
