package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cvkeeper/internal/common"
)

type documentResponse struct {
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type documentRequest struct {
	Data json.RawMessage `json:"data"`
}

type backupRequest struct {
	Reason string `json:"reason"`
}

type backupResponse struct {
	Data              json.RawMessage `json:"data"`
	OriginalUpdatedAt time.Time       `json:"originalUpdatedAt"`
	BackedUpAt        time.Time       `json:"backedUpAt"`
	Reason            string          `json:"reason"`
}

func (a *api) getDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	rec, err := a.documents.Load(r.Context(), userID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, documentResponse{Data: rec.Data, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt})
	case errors.Is(err, common.ErrNotFound):
		http.Error(w, "no document", http.StatusNotFound)
	default:
		a.log.Error(r.Context(), "load document failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (a *api) putDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := a.documents.Save(r.Context(), userID, req.Data)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, common.ErrValidation):
		http.Error(w, "document failed validation", http.StatusBadRequest)
	default:
		a.log.Error(r.Context(), "save document failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (a *api) deleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := a.documents.Delete(r.Context(), userID); err != nil {
		a.log.Error(r.Context(), "delete document failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) backup(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req backupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Reason == "" {
		req.Reason = common.BackupReasonManual
	}

	created, err := a.documents.Backup(r.Context(), userID, req.Reason)
	if err != nil {
		a.log.Error(r.Context(), "backup failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"created": created})
}

func (a *api) listBackups(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	snapshots, err := a.documents.ListBackups(r.Context(), userID)
	if err != nil {
		a.log.Error(r.Context(), "list backups failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]backupResponse, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, backupResponse{
			Data:              s.Data,
			OriginalUpdatedAt: s.Record.OriginalUpdatedAt,
			BackedUpAt:        s.Record.BackedUpAt,
			Reason:            s.Record.Reason,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) restore(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	restored, err := a.documents.Restore(r.Context(), userID, req.Data)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"restored": restored})
	case errors.Is(err, common.ErrValidation):
		http.Error(w, "snapshot failed validation", http.StatusBadRequest)
	default:
		a.log.Error(r.Context(), "restore failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
