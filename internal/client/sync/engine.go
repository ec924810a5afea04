// Package sync orchestrates reconciliation between the local draft, the live
// in-memory editing state, and the remote document store.
//
// The engine is the only component that decides which copy of the document
// wins. It never resolves a divergence on its own: when the local draft and
// the remote record differ it marks a pending conflict and waits for an
// explicit resolution from the caller.
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cvkeeper/internal/client/draft"
	"cvkeeper/internal/client/remote"
	"cvkeeper/internal/common"
	"cvkeeper/internal/logging"
	"cvkeeper/internal/model"
)

// Status is the save-to-cloud indicator shown to the user.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

// How long the transient statuses stay visible before reverting to idle.
const (
	savedRevertAfter = 2 * time.Second
	errorRevertAfter = 3 * time.Second
)

// Resolution is a user decision on a pending conflict.
type Resolution int

const (
	// ResolutionKeepRemote discards the local draft and keeps the remote
	// document as the live state. The recommended default.
	ResolutionKeepRemote Resolution = iota
	// ResolutionKeepLocal backs up the remote document, then overwrites it
	// with the local draft.
	ResolutionKeepLocal
	// ResolutionMerge is exposed but not implemented.
	ResolutionMerge
)

// Conflict describes a divergence between the local draft and the remote
// document. Ephemeral; discarded once resolved or dismissed.
type Conflict struct {
	HasConflict bool
	LocalData   *model.Document
	ServerData  *model.Document
	LocalDate   time.Time
	ServerDate  time.Time
}

// RemoteStore is the slice of the remote client the engine needs.
type RemoteStore interface {
	Load(ctx context.Context) (*remote.Stored, error)
	Save(ctx context.Context, doc model.Document) error
	Backup(ctx context.Context, reason string) (bool, error)
}

// DraftStore is the slice of the local draft store the engine needs.
type DraftStore interface {
	Save(ctx context.Context, doc model.Document)
	Load(ctx context.Context) *draft.Draft
	Exists(ctx context.Context) bool
	Clear(ctx context.Context)
}

// Session reports the current authentication state.
type Session interface {
	SignedIn() bool
}

// Engine is the sync state machine for one editing session.
//
// All exported methods are safe for concurrent use; the autosave ticker is
// the only goroutine the engine starts, and it is not started until the
// initial reconciliation has completed so a half-initialized empty document
// can never overwrite a real draft.
type Engine struct {
	mu      sync.Mutex
	remote  RemoteStore
	draft   DraftStore
	session Session
	log     logging.Logger

	live        model.Document
	lastDraft   *model.Document
	initialized bool
	loading     bool

	conflict *Conflict

	status    Status
	statusGen int

	interval     time.Duration
	autosaveOnce sync.Once
	stopAutosave chan struct{}

	// seam for status-revert timers in tests
	afterFunc func(d time.Duration, f func()) *time.Timer
}

func NewEngine(rs RemoteStore, ds DraftStore, sess Session, interval time.Duration, log logging.Logger) *Engine {
	return &Engine{
		remote:       rs,
		draft:        ds,
		session:      sess,
		log:          log.With("component", "sync"),
		live:         model.New(),
		status:       StatusIdle,
		interval:     interval,
		stopAutosave: make(chan struct{}),
		afterFunc:    time.AfterFunc,
	}
}

// Live returns a copy of the live editing state.
func (e *Engine) Live() model.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live.Clone()
}

// Edit mutates the live editing state under the engine lock.
func (e *Engine) Edit(fn func(doc *model.Document)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.live)
}

// Initialize runs the one-time initial reconciliation and starts the
// autosave ticker. Subsequent calls are no-ops until Reset. A transport
// failure leaves the engine uninitialized so the call can be retried.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}
	e.loading = true

	if err := e.reconcileLocked(ctx); err != nil {
		e.loading = false
		return err
	}

	e.initialized = true
	e.loading = false
	e.startAutosaveLocked()
	return nil
}

func (e *Engine) reconcileLocked(ctx context.Context) error {
	if !e.session.SignedIn() {
		// guest: adopt the local draft if one exists
		if d := e.draft.Load(ctx); d != nil {
			e.live = d.Data
			e.lastDraft = ptr(d.Data.Clone())
		}
		return nil
	}

	stored, err := e.remote.Load(ctx)
	if err != nil {
		return fmt.Errorf("load remote document: %w", err)
	}

	local := e.draft.Load(ctx)

	if stored != nil {
		e.live = stored.Data
		if local != nil && model.Differs(local.Data, stored.Data) {
			e.setConflictLocked(local, stored)
			return nil
		}
		// no divergence: remote is authoritative, the draft is redundant
		e.draft.Clear(ctx)
		return nil
	}

	if local != nil {
		// first sync: push the draft, no conflict possible against an
		// empty remote
		e.live = local.Data
		if err := e.remote.Save(ctx, local.Data); err != nil {
			e.log.Warn(ctx, "first-sync upload failed, keeping draft", "error", err)
			return nil
		}
		e.draft.Clear(ctx)
	}
	return nil
}

// Reset clears the once-guard so the next Initialize reruns the initial
// reconciliation. Called when the user signs out.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialized = false
	e.conflict = nil
}

func (e *Engine) startAutosaveLocked() {
	if e.interval <= 0 {
		return
	}
	e.autosaveOnce.Do(func() {
		go e.autosaveLoop()
	})
}

func (e *Engine) autosaveLoop() {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.SaveToDraft(context.Background())
		case <-e.stopAutosave:
			return
		}
	}
}

// SaveToDraft persists the live state to the local draft store when it has
// content and differs from the last persisted snapshot. Redundant calls are
// skipped. Never returns an error: local persistence failures are swallowed
// by the draft store.
func (e *Engine) SaveToDraft(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.live.HasContent() {
		return
	}
	if e.lastDraft != nil && !model.Differs(e.live, *e.lastDraft) {
		return
	}
	e.draft.Save(ctx, e.live)
	e.lastDraft = ptr(e.live.Clone())
}

// SaveToCloud pushes the live state to the remote store. The local draft is
// written first as a safety net regardless of sign-in state; a guest gets
// common.ErrSignInRequired after that. On success the draft is cleared and
// the status shows "saved" briefly; on failure nothing is lost and the
// status shows "error".
func (e *Engine) SaveToCloud(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// safety net before anything touches the network
	e.draft.Save(ctx, e.live)
	e.lastDraft = ptr(e.live.Clone())

	if !e.session.SignedIn() {
		return false, common.ErrSignInRequired
	}

	e.setStatusLocked(StatusSaving)

	if err := e.remote.Save(ctx, e.live); err != nil {
		e.setStatusTimedLocked(StatusError, errorRevertAfter)
		return false, fmt.Errorf("save to cloud: %w", err)
	}

	e.draft.Clear(ctx)
	e.setStatusTimedLocked(StatusSaved, savedRevertAfter)
	return true, nil
}

// CheckForConflicts compares the local draft against the remote document.
// When they do not differ the draft is cleared (the remote copy subsumes
// it). A detected conflict is remembered as pending until resolved or
// dismissed.
func (e *Engine) CheckForConflicts(ctx context.Context) (Conflict, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	local := e.draft.Load(ctx)
	if local == nil {
		return Conflict{}, nil
	}
	if !e.session.SignedIn() {
		return Conflict{}, nil
	}

	stored, err := e.remote.Load(ctx)
	if err != nil {
		return Conflict{}, fmt.Errorf("load remote document: %w", err)
	}
	if stored == nil {
		return Conflict{}, nil
	}

	if !model.Differs(local.Data, stored.Data) {
		e.draft.Clear(ctx)
		return Conflict{}, nil
	}

	e.setConflictLocked(local, stored)
	return *e.conflict, nil
}

// SyncAfterAuth reconciles after an interactive sign-in or sign-up. The
// guest may have been editing: whichever of the live state or the draft
// carries content is compared against (or uploaded to) the remote store.
func (e *Engine) SyncAfterAuth(ctx context.Context, identity *remote.Identity) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if identity != nil {
		e.log.Info(ctx, "reconciling after sign-in", "username", identity.Username)
	}

	stored, err := e.remote.Load(ctx)
	if err != nil {
		return fmt.Errorf("load remote document: %w", err)
	}

	local := e.draft.Load(ctx)

	if stored == nil {
		var doc model.Document
		switch {
		case e.live.HasContent():
			doc = e.live
		case local != nil:
			doc = local.Data
			e.live = doc
		default:
			return nil
		}
		if err := e.remote.Save(ctx, doc); err != nil {
			return fmt.Errorf("upload after sign-in: %w", err)
		}
		e.draft.Clear(ctx)
		return nil
	}

	// prefer the durable draft over the volatile live state for comparison
	candidate := e.live
	savedAt := time.Now()
	if local != nil {
		candidate = local.Data
		savedAt = local.SavedAt
	} else if !e.live.HasContent() {
		e.live = stored.Data
		return nil
	}

	if !model.Differs(candidate, stored.Data) {
		e.draft.Clear(ctx)
		e.live = stored.Data
		return nil
	}

	e.conflict = &Conflict{
		HasConflict: true,
		LocalData:   ptr(candidate.Clone()),
		ServerData:  ptr(stored.Data.Clone()),
		LocalDate:   savedAt,
		ServerDate:  stored.UpdatedAt,
	}
	return nil
}

// Resolve settles the pending conflict with the given resolution.
//
// Keep-local takes a remote backup first; the backup must settle before the
// overwrite is issued, but the overwrite proceeds whether or not the backup
// succeeded. A failed overwrite leaves both the draft and the remote record
// untouched and the conflict still pending.
func (e *Engine) Resolve(ctx context.Context, r Resolution) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conflict == nil {
		return common.ErrNoConflict
	}

	switch r {
	case ResolutionKeepRemote:
		e.live = e.conflict.ServerData.Clone()
		e.draft.Clear(ctx)
		e.conflict = nil
		return nil

	case ResolutionKeepLocal:
		localDoc := e.conflict.LocalData.Clone()
		if _, err := e.remote.Backup(ctx, common.BackupReasonKeepLocal); err != nil {
			e.log.Warn(ctx, "pre-overwrite backup failed, proceeding", "error", err)
		}
		if err := e.remote.Save(ctx, localDoc); err != nil {
			return fmt.Errorf("overwrite with local document: %w", err)
		}
		e.live = localDoc
		e.draft.Clear(ctx)
		e.conflict = nil
		return nil

	case ResolutionMerge:
		return common.ErrMergeUnsupported

	default:
		return fmt.Errorf("unknown resolution %d: %w", r, common.ErrValidation)
	}
}

// DismissConflict closes the conflict without an explicit choice: the remote
// document stays live, but the draft is preserved so the local work is not
// lost.
func (e *Engine) DismissConflict() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conflict == nil {
		return
	}
	e.live = e.conflict.ServerData.Clone()
	e.conflict = nil
}

// PendingConflict returns the unresolved conflict, or nil.
func (e *Engine) PendingConflict() *Conflict {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conflict
}

// IsLoading reports whether the initial reconciliation is in flight.
func (e *Engine) IsLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// HasPendingSave reports whether a local draft exists that has not been
// subsumed by a remote save.
func (e *Engine) HasPendingSave(ctx context.Context) bool {
	return e.draft.Exists(ctx)
}

// Status returns the current save-to-cloud indicator.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Close stops the autosave ticker after a final best-effort draft save.
// Advisory only; it must never block teardown.
func (e *Engine) Close(ctx context.Context) {
	e.SaveToDraft(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.stopAutosave:
	default:
		close(e.stopAutosave)
	}
}

func (e *Engine) setConflictLocked(local *draft.Draft, stored *remote.Stored) {
	e.conflict = &Conflict{
		HasConflict: true,
		LocalData:   ptr(local.Data.Clone()),
		ServerData:  ptr(stored.Data.Clone()),
		LocalDate:   local.SavedAt,
		ServerDate:  stored.UpdatedAt,
	}
}

func (e *Engine) setStatusLocked(s Status) {
	e.status = s
	e.statusGen++
}

// setStatusTimedLocked sets a transient status that reverts to idle after d
// unless another status change supersedes it first.
func (e *Engine) setStatusTimedLocked(s Status, d time.Duration) {
	e.setStatusLocked(s)
	gen := e.statusGen
	e.afterFunc(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.statusGen == gen {
			e.setStatusLocked(StatusIdle)
		}
	})
}

func ptr(d model.Document) *model.Document { return &d }
