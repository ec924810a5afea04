package documents

import (
	"context"
	"encoding/json"

	"cvkeeper/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*models.DocumentRecord, error)
	Upsert(ctx context.Context, userID string, data json.RawMessage) error
	Delete(ctx context.Context, userID string) error
}
