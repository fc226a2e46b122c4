package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"prompt-hub/internal/repository"
)

const createLikesTable = `
CREATE TABLE IF NOT EXISTS prompt_likes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	prompt_id INTEGER NOT NULL REFERENCES prompts(id) ON DELETE CASCADE,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	UNIQUE (prompt_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_prompt_likes_user ON prompt_likes(user_id);
`

type LikeRepository struct {
	db *sql.DB
}

func NewLikeRepository(db *sql.DB) repository.LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createLikesTable); err != nil {
		return fmt.Errorf("create prompt_likes table: %w", err)
	}
	return nil
}

func (r *LikeRepository) Add(ctx context.Context, promptID, userID int64) error {
	// the unique pair constraint turns a duplicate-insert race into ErrConflict
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO prompt_likes (prompt_id, user_id) VALUES (?, ?)`, promptID, userID)
	return mapConstraintErr(err, "insert like")
}

func (r *LikeRepository) Remove(ctx context.Context, promptID, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM prompt_likes WHERE prompt_id = ? AND user_id = ?`, promptID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return requireRow(res, "delete like")
}

func (r *LikeRepository) Exists(ctx context.Context, promptID, userID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM prompt_likes WHERE prompt_id = ? AND user_id = ?`, promptID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query like: %w", err)
	}
	return true, nil
}

func (r *LikeRepository) LikedSet(ctx context.Context, userID int64, promptIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(promptIDs))
	if len(promptIDs) == 0 {
		return liked, nil
	}

	args := make([]any, 0, len(promptIDs)+1)
	args = append(args, userID)
	for _, id := range promptIDs {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(promptIDs)), ",")

	rows, err := r.db.QueryContext(ctx,
		`SELECT prompt_id FROM prompt_likes WHERE user_id = ? AND prompt_id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("query liked set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan liked set: %w", err)
		}
		liked[id] = true
	}
	return liked, rows.Err()
}

func (r *LikeRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	// likes on prompts that went private since stay out of the count
	var n int64
	if err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM prompt_likes pl
JOIN prompts p ON p.id = pl.prompt_id
WHERE pl.user_id = ? AND (p.is_public = 1 OR p.user_id = ?)`,
		userID, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count likes by user: %w", err)
	}
	return n, nil
}
