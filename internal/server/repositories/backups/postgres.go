package backups

import (
	"context"
	"fmt"

	"cvkeeper/internal/dbx"
	"cvkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.BackupRecord) error {
	query :=
		`INSERT INTO backups (object_key, user_id, reason, original_updated_at, backed_up_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		rec.ObjectKey, rec.UserID, rec.Reason, rec.OriginalUpdatedAt, rec.BackedUpAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns the backup rows for userID, most recent first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.BackupRecord, error) {
	query :=
		`SELECT object_key, user_id, reason, original_updated_at, backed_up_at FROM backups
		 WHERE user_id = $1
		 ORDER BY backed_up_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var recs []*models.BackupRecord
	for rows.Next() {
		rec := &models.BackupRecord{}
		if err := rows.Scan(&rec.ObjectKey, &rec.UserID, &rec.Reason, &rec.OriginalUpdatedAt, &rec.BackedUpAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return recs, nil
}

func (r *PostgresRepository) Prune(ctx context.Context, userID string, keep int) ([]string, error) {
	query :=
		`DELETE FROM backups
		 WHERE user_id = $1 AND object_key NOT IN (
		   SELECT object_key FROM backups
		   WHERE user_id = $1
		   ORDER BY backed_up_at DESC
		   LIMIT $2
		 )
		 RETURNING object_key
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, keep)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return keys, nil
}
