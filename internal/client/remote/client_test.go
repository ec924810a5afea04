package remote

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvkeeper/internal/common"
	"cvkeeper/internal/logging"
	"cvkeeper/internal/model"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, discardLogger())
}

func TestRegister(t *testing.T) {
	var gotBody map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))

	require.NoError(t, c.Register(context.Background(), "alice", "pw"))
	assert.Equal(t, map[string]string{"username": "alice", "password": "pw"}, gotBody)
}

func TestRegister_Taken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	err := c.Register(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"token": "tok123", "userId": "u1", "username": "alice",
		})
	}))

	id, err := c.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, &Identity{UserID: "u1", Username: "alice", Token: "tok123"}, id)
}

func TestLogin_BadCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLoad(t *testing.T) {
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get(common.AuthorizationHeaderName)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":      map[string]any{"personalInfo": map[string]any{"fullName": "Ada"}},
			"createdAt": created,
			"updatedAt": updated,
		})
	}))
	c.SetAuthToken("tok123")

	stored, err := c.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, "Ada", stored.Data.PersonalInfo.FullName)
	assert.True(t, stored.UpdatedAt.Equal(updated))
}

func TestLoad_NoDocument(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	stored, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestLoad_InvalidPayloadTreatedAsAbsent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"experience": "oops"}})
	}))

	stored, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestLoad_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestLoad_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", discardLogger())

	_, err := c.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestSave(t *testing.T) {
	var gotData json.RawMessage
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/cv", r.URL.Path)
		var body struct {
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotData = body.Data
		w.WriteHeader(http.StatusNoContent)
	}))

	doc := model.New()
	doc.PersonalInfo.FullName = "Ada"
	require.NoError(t, c.Save(context.Background(), doc))

	sent, err := model.Normalize(gotData)
	require.NoError(t, err)
	assert.Equal(t, "Ada", sent.PersonalInfo.FullName)
}

func TestBackup(t *testing.T) {
	var gotReason string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cv/backup", r.URL.Path)
		var body struct {
			Reason string `json:"reason"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotReason = body.Reason
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"created": true})
	}))

	created, err := c.Backup(context.Background(), common.BackupReasonKeepLocal)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, common.BackupReasonKeepLocal, gotReason)
}

func TestListBackups_SkipsInvalid(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cv/backups", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"data": map[string]any{"personalInfo": map[string]any{"fullName": "Good"}}, "reason": "manual_backup"},
			{"data": map[string]any{"skills": "oops"}, "reason": "manual_backup"},
		})
	}))

	backups, err := c.ListBackups(context.Background())
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, "Good", backups[0].Data.PersonalInfo.FullName)
}

func TestRestore(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cv/restore", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"restored": true})
	}))

	restored, err := c.Restore(context.Background(), model.New())
	require.NoError(t, err)
	assert.True(t, restored)
}

func TestDelete(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, c.Delete(context.Background()))
}
