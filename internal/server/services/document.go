// DocumentService implements the canonical document store: one CV per user,
// upserted on save, plus a bounded backup chain whose snapshots live in
// object storage.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cvkeeper/internal/common"
	"cvkeeper/internal/dbx"
	"cvkeeper/internal/logging"
	"cvkeeper/internal/model"
	"cvkeeper/internal/server/models"
	"cvkeeper/internal/server/repositories/repomanager"
	"cvkeeper/internal/server/storage"
)

// BackupSnapshot pairs a backup metadata row with its snapshot payload
// fetched from object storage.
type BackupSnapshot struct {
	Record *models.BackupRecord
	Data   json.RawMessage
}

type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	objects     storage.ObjectStore
	log         logging.Logger
	now         func() time.Time
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, objects storage.ObjectStore, log logging.Logger) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: m,
		objects:     objects,
		log:         log.With("component", "documents"),
		now:         time.Now,
	}
}

// Load returns the user's document record, or common.ErrNotFound. A stored
// payload that no longer fits the schema is treated as absence, not as an
// error.
func (s *DocumentService) Load(ctx context.Context, userID string) (*models.DocumentRecord, error) {
	rec, err := s.repomanager.Documents(s.db).Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := model.Normalize(rec.Data); err != nil {
		s.log.Warn(ctx, "stored document failed validation, treating as absent", "user_id", userID, "error", err)
		return nil, common.ErrNotFound
	}
	return rec, nil
}

// Save validates the payload and upserts it as the user's document. The
// stored form is the normalized document, so every record on disk is fully
// populated.
func (s *DocumentService) Save(ctx context.Context, userID string, data json.RawMessage) error {
	doc, err := model.Normalize(data)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return common.ErrInternal
	}

	return s.repomanager.Documents(s.db).Upsert(ctx, userID, payload)
}

// Delete removes the user's document. Account teardown only; the backup
// chain goes with the account, not with the document.
func (s *DocumentService) Delete(ctx context.Context, userID string) error {
	return s.repomanager.Documents(s.db).Delete(ctx, userID)
}

// Backup snapshots the current live document before an impending overwrite.
// It returns false when there is nothing to back up. The snapshot is written
// to object storage first; the metadata row and the pruning of the chain to
// common.MaxBackups happen in one transaction. The call has completed its
// side effects before it returns, so callers can rely on backup-then-write
// ordering.
func (s *DocumentService) Backup(ctx context.Context, userID string, reason string) (bool, error) {
	rec, err := s.repomanager.Documents(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	now := s.now()
	key := backupObjectKey(userID, now)

	if err := s.objects.Put(ctx, key, rec.Data); err != nil {
		return false, fmt.Errorf("store snapshot: %w", err)
	}

	var pruned []string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Backups(tx)
		if err := repo.Create(ctx, &models.BackupRecord{
			ObjectKey:         key,
			UserID:            userID,
			Reason:            reason,
			OriginalUpdatedAt: rec.UpdatedAt,
			BackedUpAt:        now,
		}); err != nil {
			return err
		}
		var pruneErr error
		pruned, pruneErr = repo.Prune(ctx, userID, common.MaxBackups)
		return pruneErr
	})
	if err != nil {
		return false, err
	}

	// best effort; an orphaned object is harmless
	for _, k := range pruned {
		if err := s.objects.Delete(ctx, k); err != nil {
			s.log.Warn(ctx, "failed to delete pruned snapshot", "key", k, "error", err)
		}
	}

	return true, nil
}

// ListBackups returns the backup chain, most recent first. A row whose
// snapshot cannot be fetched is skipped, not fatal.
func (s *DocumentService) ListBackups(ctx context.Context, userID string) ([]*BackupSnapshot, error) {
	recs, err := s.repomanager.Backups(s.db).List(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*BackupSnapshot, 0, len(recs))
	for _, rec := range recs {
		data, err := s.objects.Get(ctx, rec.ObjectKey)
		if err != nil {
			s.log.Warn(ctx, "backup snapshot unreadable, skipping", "key", rec.ObjectKey, "error", err)
			continue
		}
		snapshots = append(snapshots, &BackupSnapshot{Record: rec, Data: data})
	}
	return snapshots, nil
}

// Restore writes a backup snapshot over the live document, taking a safety
// backup of the current state first. Any failure leaves the live record
// untouched and reports false.
func (s *DocumentService) Restore(ctx context.Context, userID string, data json.RawMessage) (bool, error) {
	if _, err := s.Backup(ctx, userID, common.BackupReasonPreRestore); err != nil {
		return false, fmt.Errorf("pre-restore backup: %w", err)
	}

	if err := s.Save(ctx, userID, data); err != nil {
		return false, err
	}
	return true, nil
}

// backupObjectKey is {userId}_{creationTimestamp} under a fixed prefix.
func backupObjectKey(userID string, t time.Time) string {
	return fmt.Sprintf("backups/%s_%d", userID, t.UnixMilli())
}
