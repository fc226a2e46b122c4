package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"prompt-hub/internal/repository"
)

const createAdminsTable = `
CREATE TABLE IF NOT EXISTS admins (
	user_id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE
);
`

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) repository.AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAdminsTable); err != nil {
		return fmt.Errorf("create admins table: %w", err)
	}
	return nil
}

func (r *AdminRepository) Add(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO admins (user_id) VALUES (?)`, userID)
	return mapConstraintErr(err, "insert admin membership")
}

func (r *AdminRepository) Remove(ctx context.Context, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete admin membership: %w", err)
	}
	return requireRow(res, "delete admin membership")
}

func (r *AdminRepository) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM admins WHERE user_id = ?`, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query admin membership: %w", err)
	}
	return true, nil
}

func (r *AdminRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM admins ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list admin memberships: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan admin membership: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
