package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cvkeeper/internal/common"
	"cvkeeper/internal/dbx"
	"cvkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.DocumentRecord, error) {
	query :=
		`SELECT user_id, data, created_at, updated_at FROM documents
		 WHERE user_id = $1
		 `

	rec := &models.DocumentRecord{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&rec.UserID, &rec.Data, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

// Upsert writes the document for userID. A first save sets created_at and
// updated_at together; later saves move only data and updated_at, every
// other column on the row is preserved.
func (r *PostgresRepository) Upsert(ctx context.Context, userID string, data json.RawMessage) error {
	query :=
		`INSERT INTO documents (user_id, data, created_at, updated_at)
		 VALUES ($1, $2, now(), now())
		 ON CONFLICT (user_id) DO UPDATE SET data = excluded.data, updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, data); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM documents WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
