package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/repository"
)

const createPromptsTable = `
CREATE TABLE IF NOT EXISTS prompts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	is_public INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prompts_user ON prompts(user_id);
`

// selectPrompt joins the author and derives the like count from the
// prompt_likes rows; there is no stored counter to drift.
const selectPrompt = `
SELECT p.id, p.user_id, u.username, p.content, p.is_public,
	(SELECT COUNT(*) FROM prompt_likes pl WHERE pl.prompt_id = p.id) AS no_of_likes,
	p.created_at, p.updated_at
FROM prompts p
JOIN users u ON u.id = p.user_id
`

func orderClause(order repository.PromptOrder) string {
	if order == repository.PromptOrderMostLiked {
		return ` ORDER BY no_of_likes DESC, p.created_at DESC, p.id DESC`
	}
	return ` ORDER BY p.created_at DESC, p.id DESC`
}

type PromptRepository struct {
	db *sql.DB
}

func NewPromptRepository(db *sql.DB) repository.PromptRepository {
	return &PromptRepository{db: db}
}

func (r *PromptRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPromptsTable); err != nil {
		return fmt.Errorf("create prompts table: %w", err)
	}
	return nil
}

func (r *PromptRepository) Create(ctx context.Context, prompt *domain.Prompt) (int64, error) {
	now := time.Now().UTC()
	prompt.CreatedAt = now
	prompt.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO prompts (user_id, content, is_public, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		prompt.UserID,
		prompt.Content,
		prompt.IsPublic,
		prompt.CreatedAt,
		prompt.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert prompt: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("prompt last insert id: %w", err)
	}
	prompt.ID = id
	return id, nil
}

func (r *PromptRepository) GetByID(ctx context.Context, id int64) (*domain.Prompt, error) {
	row := r.db.QueryRowContext(ctx, selectPrompt+` WHERE p.id = ?`, id)
	return scanPrompt(row)
}

func (r *PromptRepository) GetContent(ctx context.Context, id int64) (string, error) {
	var content string
	if err := r.db.QueryRowContext(ctx, `SELECT content FROM prompts WHERE id = ?`, id).Scan(&content); err != nil {
		return "", notFoundErr(err, "get prompt content")
	}
	return content, nil
}

func (r *PromptRepository) Update(ctx context.Context, id int64, content string, isPublic bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE prompts SET content = ?, is_public = ?, updated_at = ? WHERE id = ?`,
		content, isPublic, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update prompt: %w", err)
	}
	return requireRow(res, "update prompt")
}

func (r *PromptRepository) Delete(ctx context.Context, id int64) error {
	// likes and comments follow via ON DELETE CASCADE
	res, err := r.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	return requireRow(res, "delete prompt")
}

func (r *PromptRepository) ListPublic(ctx context.Context, order repository.PromptOrder, offset, limit int) ([]domain.Prompt, error) {
	return r.queryPrompts(ctx,
		selectPrompt+` WHERE p.is_public = 1`+orderClause(order)+` LIMIT ? OFFSET ?`,
		limit, offset)
}

func (r *PromptRepository) ListByUser(ctx context.Context, userID int64, publicOnly bool, offset, limit int) ([]domain.Prompt, error) {
	query := selectPrompt + ` WHERE p.user_id = ?`
	if publicOnly {
		query += ` AND p.is_public = 1`
	}
	query += orderClause(repository.PromptOrderRecent) + ` LIMIT ? OFFSET ?`
	return r.queryPrompts(ctx, query, userID, limit, offset)
}

func (r *PromptRepository) ListLikedBy(ctx context.Context, userID int64, offset, limit int) ([]domain.Prompt, error) {
	return r.queryPrompts(ctx,
		selectPrompt+`
JOIN prompt_likes mine ON mine.prompt_id = p.id AND mine.user_id = ?`+
			orderClause(repository.PromptOrderRecent)+` LIMIT ? OFFSET ?`,
		userID, limit, offset)
}

func (r *PromptRepository) ListPublicByLabel(ctx context.Context, labelID int64, order repository.PromptOrder, offset, limit int) ([]domain.Prompt, error) {
	return r.queryPrompts(ctx,
		selectPrompt+`
JOIN prompt_labels plb ON plb.prompt_id = p.id AND plb.label_id = ?
WHERE p.is_public = 1`+orderClause(order)+` LIMIT ? OFFSET ?`,
		labelID, limit, offset)
}

func (r *PromptRepository) CountPublic(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prompts WHERE is_public = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count public prompts: %w", err)
	}
	return n, nil
}

func (r *PromptRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prompts WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count user prompts: %w", err)
	}
	return n, nil
}

func (r *PromptRepository) CountByLabel(ctx context.Context, labelID int64, viewerID *int64, seeAll bool) (int64, error) {
	query := `
SELECT COUNT(*) FROM prompts p
JOIN prompt_labels plb ON plb.prompt_id = p.id AND plb.label_id = ?`
	args := []any{labelID}

	switch {
	case seeAll:
		// no visibility filter
	case viewerID != nil:
		query += ` WHERE (p.is_public = 1 OR p.user_id = ?)`
		args = append(args, *viewerID)
	default:
		query += ` WHERE p.is_public = 1`
	}

	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count prompts by label: %w", err)
	}
	return n, nil
}

func (r *PromptRepository) queryPrompts(ctx context.Context, query string, args ...any) ([]domain.Prompt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	defer rows.Close()

	var prompts []domain.Prompt
	for rows.Next() {
		prompt, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, *prompt)
	}
	return prompts, rows.Err()
}

func scanPrompt(row interface {
	Scan(dest ...any) error
}) (*domain.Prompt, error) {
	var prompt domain.Prompt
	if err := row.Scan(
		&prompt.ID,
		&prompt.UserID,
		&prompt.AuthorUsername,
		&prompt.Content,
		&prompt.IsPublic,
		&prompt.NoOfLikes,
		&prompt.CreatedAt,
		&prompt.UpdatedAt,
	); err != nil {
		return nil, notFoundErr(err, "scan prompt")
	}
	return &prompt, nil
}
