package backups

import (
	"context"

	"cvkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, rec *models.BackupRecord) error
	List(ctx context.Context, userID string) ([]*models.BackupRecord, error)
	// Prune deletes all but the keep most recent rows for userID and
	// returns the object keys of the deleted rows so the caller can remove
	// the corresponding snapshots from object storage.
	Prune(ctx context.Context, userID string, keep int) ([]string, error)
}
