package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/repository"
)

const createCommentsTable = `
CREATE TABLE IF NOT EXISTS prompt_comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	prompt_id INTEGER NOT NULL REFERENCES prompts(id) ON DELETE CASCADE,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prompt_comments_prompt ON prompt_comments(prompt_id);
`

const selectComment = `
SELECT c.id, c.prompt_id, c.user_id, u.username, c.content, c.created_at
FROM prompt_comments c
JOIN users u ON u.id = c.user_id
`

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) repository.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCommentsTable); err != nil {
		return fmt.Errorf("create prompt_comments table: %w", err)
	}
	return nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	comment.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO prompt_comments (prompt_id, user_id, content, created_at)
VALUES (?, ?, ?, ?)`,
		comment.PromptID,
		comment.UserID,
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("comment last insert id: %w", err)
	}
	comment.ID = id
	return id, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, selectComment+` WHERE c.id = ?`, id)
	return scanComment(row)
}

func (r *CommentRepository) ListByPrompt(ctx context.Context, promptID int64, offset, limit int) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		selectComment+` WHERE c.prompt_id = ? ORDER BY c.created_at DESC, c.id DESC LIMIT ? OFFSET ?`,
		promptID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE prompt_comments SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return requireRow(res, "update comment")
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM prompt_comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return requireRow(res, "delete comment")
}

func scanComment(row interface {
	Scan(dest ...any) error
}) (*domain.Comment, error) {
	var comment domain.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.PromptID,
		&comment.UserID,
		&comment.AuthorUsername,
		&comment.Content,
		&comment.CreatedAt,
	); err != nil {
		return nil, notFoundErr(err, "scan comment")
	}
	return &comment, nil
}
