package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/repository"
)

const createLabelsTables = `
CREATE TABLE IF NOT EXISTS labels (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS prompt_labels (
	prompt_id INTEGER NOT NULL REFERENCES prompts(id) ON DELETE CASCADE,
	label_id INTEGER NOT NULL REFERENCES labels(id) ON DELETE CASCADE,
	PRIMARY KEY (prompt_id, label_id)
);
`

type LabelRepository struct {
	db *sql.DB
}

func NewLabelRepository(db *sql.DB) repository.LabelRepository {
	return &LabelRepository{db: db}
}

func (r *LabelRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createLabelsTables); err != nil {
		return fmt.Errorf("create labels tables: %w", err)
	}
	return nil
}

func (r *LabelRepository) Create(ctx context.Context, name string) (*domain.Label, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO labels (name) VALUES (?)`, name)
	if err != nil {
		return nil, mapConstraintErr(err, "insert label")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("label last insert id: %w", err)
	}
	return &domain.Label{ID: id, Name: name}, nil
}

func (r *LabelRepository) GetByID(ctx context.Context, id int64) (*domain.Label, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM labels WHERE id = ?`, id)
	return scanLabel(row)
}

func (r *LabelRepository) GetByName(ctx context.Context, name string) (*domain.Label, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM labels WHERE name = ?`, name)
	return scanLabel(row)
}

func (r *LabelRepository) List(ctx context.Context, offset, limit int) ([]domain.Label, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM labels ORDER BY name LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer rows.Close()

	var labels []domain.Label
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, *label)
	}
	return labels, rows.Err()
}

func (r *LabelRepository) Rename(ctx context.Context, id int64, name string) (*domain.Label, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE labels SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return nil, mapConstraintErr(err, "rename label")
	}
	if err := requireRow(res, "rename label"); err != nil {
		return nil, err
	}
	return &domain.Label{ID: id, Name: name}, nil
}

func (r *LabelRepository) DeleteByName(ctx context.Context, name string) error {
	label, err := r.GetByName(ctx, name)
	if err != nil {
		return err
	}
	// associations go via ON DELETE CASCADE; the prompts stay
	res, err := r.db.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, label.ID)
	if err != nil {
		return fmt.Errorf("delete label: %w", err)
	}
	return requireRow(res, "delete label")
}

func (r *LabelRepository) Attach(ctx context.Context, promptID, labelID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO prompt_labels (prompt_id, label_id) VALUES (?, ?)`, promptID, labelID)
	return mapConstraintErr(err, "insert prompt label")
}

func (r *LabelRepository) Detach(ctx context.Context, promptID, labelID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM prompt_labels WHERE prompt_id = ? AND label_id = ?`, promptID, labelID)
	if err != nil {
		return fmt.Errorf("delete prompt label: %w", err)
	}
	return requireRow(res, "delete prompt label")
}

func (r *LabelRepository) ListForPrompt(ctx context.Context, promptID int64) ([]domain.Label, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT l.id, l.name FROM labels l
JOIN prompt_labels plb ON plb.label_id = l.id
WHERE plb.prompt_id = ?
ORDER BY l.name`, promptID)
	if err != nil {
		return nil, fmt.Errorf("list prompt labels: %w", err)
	}
	defer rows.Close()

	var labels []domain.Label
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, *label)
	}
	return labels, rows.Err()
}

func scanLabel(row interface {
	Scan(dest ...any) error
}) (*domain.Label, error) {
	var label domain.Label
	if err := row.Scan(&label.ID, &label.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("scan label: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan label: %w", err)
	}
	return &label, nil
}
