// Package draft implements the single-slot local draft persistence layer.
//
// Exactly one draft exists per client installation: the slot is keyed
// process-wide, not per user, so switching accounts does not namespace the
// draft. That is deliberate; the kv.Store seam makes a per-user keyed
// implementation a drop-in replacement.
//
// Nothing in this package ever propagates a storage failure to the caller.
// An editing session must not crash because local storage is full or
// disabled; failures are logged and the session continues in memory only.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"cvkeeper/internal/client/kv"
	"cvkeeper/internal/common"
	"cvkeeper/internal/logging"
	"cvkeeper/internal/model"
)

// slotKey is the fixed storage slot holding the one working draft.
const slotKey = "cv-draft"

// Draft is a document snapshot plus the moment it was saved locally.
type Draft struct {
	Data    model.Document `json:"data"`
	SavedAt time.Time      `json:"savedAt"`
}

// slotJSON keeps the document raw on load so it can be run through
// model.Normalize before anyone trusts it.
type slotJSON struct {
	Data    json.RawMessage `json:"data"`
	SavedAt time.Time       `json:"savedAt"`
}

// Store persists the working draft in a single kv slot.
type Store struct {
	kv  kv.Store
	log logging.Logger
	now func() time.Time
}

func NewStore(kv kv.Store, log logging.Logger) *Store {
	return &Store{kv: kv, log: log.With("component", "draft"), now: time.Now}
}

// Save overwrites the slot with the document and the current timestamp.
// Side effect only; persistence failures are logged, never returned.
func (s *Store) Save(ctx context.Context, doc model.Document) {
	payload, err := json.Marshal(Draft{Data: doc.Clone(), SavedAt: s.now().UTC()})
	if err != nil {
		s.log.Error(ctx, "failed to serialize draft", "error", err)
		return
	}
	if err := s.kv.SetItem(ctx, slotKey, string(payload)); err != nil {
		s.log.Warn(ctx, "failed to save draft, continuing in memory", "error", err)
	}
}

// Load returns the stored draft, or nil when there is none. A slot that
// cannot be deserialized or fails document validation is treated as absent
// and proactively cleared so the corrupt draft never resurfaces.
func (s *Store) Load(ctx context.Context) *Draft {
	value, err := s.kv.GetItem(ctx, slotKey)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "failed to read draft slot", "error", err)
		}
		return nil
	}

	var slot slotJSON
	if err := json.Unmarshal([]byte(value), &slot); err != nil {
		s.log.Warn(ctx, "draft slot is corrupt, clearing", "error", err)
		s.Clear(ctx)
		return nil
	}

	doc, err := model.Normalize(slot.Data)
	if err != nil {
		s.log.Warn(ctx, "draft failed validation, clearing", "error", err)
		s.Clear(ctx)
		return nil
	}

	return &Draft{Data: doc, SavedAt: slot.SavedAt}
}

// Exists reports whether a draft slot is present without validating it.
func (s *Store) Exists(ctx context.Context) bool {
	_, err := s.kv.GetItem(ctx, slotKey)
	return err == nil
}

// Clear removes the draft slot. No-throw, like everything else here.
func (s *Store) Clear(ctx context.Context) {
	if err := s.kv.RemoveItem(ctx, slotKey); err != nil {
		s.log.Warn(ctx, "failed to clear draft slot", "error", err)
	}
}
