package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/pkg/repository"
)

func (r *SQLiteRepo) CreateSubscription(ctx context.Context, email string) (int64, error) {
	res, err := r.conn.Exec(ctx, `INSERT INTO subscriptions (email, created) VALUES (?, ?)`, email, now())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrConflict
		}
		return 0, fmt.Errorf("create subscription: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) GetSubscriptionByEmail(ctx context.Context, email string) (*models.Subscription, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, created FROM subscriptions WHERE email = ?`, email)
	var s models.Subscription
	if err := row.Scan(&s.ID, &s.Email, &s.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &s, nil
}

func (r *SQLiteRepo) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, email, created FROM subscriptions ORDER BY created DESC`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []models.Subscription
	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(&s.ID, &s.Email, &s.Created); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateSubscription(ctx context.Context, id int64, email string) error {
	_, err := r.conn.Exec(ctx, `UPDATE subscriptions SET email = ? WHERE id = ?`, email, id)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) DeleteSubscription(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	return err
}
