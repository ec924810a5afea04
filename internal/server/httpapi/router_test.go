package httpapi

import (
	"bytes"
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
	"cvkeeper/internal/server/auth"
	"cvkeeper/internal/server/models"
	"cvkeeper/internal/server/services"
)

var testSecret = []byte("router-test-secret")

type fakeUsers struct {
	registerErr error
	loginErr    error
	user        *models.User
	token       string
}

func (f *fakeUsers) Register(_ context.Context, username, _ string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "u1", UserName: username}, nil
}

func (f *fakeUsers) Login(_ context.Context, _, _ string) (*models.User, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return f.user, f.token, nil
}

type fakeDocuments struct {
	rec        *models.DocumentRecord
	saveErr    error
	saved      json.RawMessage
	backups    []*services.BackupSnapshot
	created    bool
	restoreErr error
	deleted    bool
}

func (f *fakeDocuments) Load(_ context.Context, _ string) (*models.DocumentRecord, error) {
	if f.rec == nil {
		return nil, common.ErrNotFound
	}
	return f.rec, nil
}

func (f *fakeDocuments) Save(_ context.Context, _ string, data json.RawMessage) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = data
	return nil
}

func (f *fakeDocuments) Delete(context.Context, string) error {
	f.deleted = true
	return nil
}

func (f *fakeDocuments) Backup(_ context.Context, _ string, _ string) (bool, error) {
	return f.created, nil
}

func (f *fakeDocuments) ListBackups(context.Context, string) ([]*services.BackupSnapshot, error) {
	return f.backups, nil
}

func (f *fakeDocuments) Restore(_ context.Context, _ string, data json.RawMessage) (bool, error) {
	if f.restoreErr != nil {
		return false, f.restoreErr
	}
	f.saved = data
	return true, nil
}

func newTestServer(t *testing.T, users UserProvider, documents DocumentProvider) *httptest.Server {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(NewRouter(users, documents, testSecret, log))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func issueToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, testSecret, time.Minute)
	require.NoError(t, err)
	return token
}

func TestRegister(t *testing.T) {
	srv := newTestServer(t, &fakeUsers{}, &fakeDocuments{})

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/register", "", map[string]string{"username": "alice", "password": "pw"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRegister_Taken(t *testing.T) {
	srv := newTestServer(t, &fakeUsers{registerErr: common.ErrAlreadyExists}, &fakeDocuments{})

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/register", "", map[string]string{"username": "alice", "password": "pw"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_MissingFields(t *testing.T) {
	srv := newTestServer(t, &fakeUsers{}, &fakeDocuments{})

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/register", "", map[string]string{"username": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	users := &fakeUsers{user: &models.User{ID: "u1", UserName: "alice"}, token: "tok123"}
	srv := newTestServer(t, users, &fakeDocuments{})

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/login", "", map[string]string{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out loginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "tok123", out.Token)
	assert.Equal(t, "u1", out.UserID)
	assert.Equal(t, "alice", out.Username)
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := newTestServer(t, &fakeUsers{loginErr: common.ErrUnauthorized}, &fakeDocuments{})

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/login", "", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	docs := &fakeDocuments{rec: &models.DocumentRecord{
		UserID:    "u1",
		Data:      json.RawMessage(`{"personalInfo":{"fullName":"Ada"}}`),
		CreatedAt: now,
		UpdatedAt: now,
	}}
	srv := newTestServer(t, &fakeUsers{}, docs)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/cv", issueToken(t, "u1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out documentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.JSONEq(t, `{"personalInfo":{"fullName":"Ada"}}`, string(out.Data))
	assert.True(t, out.UpdatedAt.Equal(now))
}

func TestGetDocument_NotFound(t *testing.T) {
	srv := newTestServer(t, &fakeUsers{}, &fakeDocuments{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/cv", issueToken(t, "u1"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetDocument_NoToken(t *testing.T) {
	srv := newTestServer(t, &fakeUsers{}, &fakeDocuments{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/cv", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetDocument_BadToken(t *testing.T) {
	srv := newTestServer(t, &fakeUsers{}, &fakeDocuments{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/cv", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPutDocument(t *testing.T) {
	docs := &fakeDocuments{}
	srv := newTestServer(t, &fakeUsers{}, docs)

	body := map[string]any{"data": map[string]any{"personalInfo": map[string]any{"fullName": "Ada"}}}
	resp := doRequest(t, http.MethodPut, srv.URL+"/api/cv", issueToken(t, "u1"), body)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.JSONEq(t, `{"personalInfo":{"fullName":"Ada"}}`, string(docs.saved))
}

func TestPutDocument_Invalid(t *testing.T) {
	docs := &fakeDocuments{saveErr: common.ErrValidation}
	srv := newTestServer(t, &fakeUsers{}, docs)

	resp := doRequest(t, http.MethodPut, srv.URL+"/api/cv", issueToken(t, "u1"), map[string]any{"data": "oops"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteDocument(t *testing.T) {
	docs := &fakeDocuments{}
	srv := newTestServer(t, &fakeUsers{}, docs)

	resp := doRequest(t, http.MethodDelete, srv.URL+"/api/cv", issueToken(t, "u1"), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, docs.deleted)
}

func TestBackup(t *testing.T) {
	docs := &fakeDocuments{created: true}
	srv := newTestServer(t, &fakeUsers{}, docs)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/cv/backup", issueToken(t, "u1"), map[string]string{"reason": common.BackupReasonKeepLocal})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out["created"])
}

func TestListBackups(t *testing.T) {
	backedUp := time.Now().UTC().Truncate(time.Second)
	docs := &fakeDocuments{backups: []*services.BackupSnapshot{
		{
			Record: &models.BackupRecord{Reason: common.BackupReasonPreRestore, BackedUpAt: backedUp},
			Data:   json.RawMessage(`{"personalInfo":{}}`),
		},
	}}
	srv := newTestServer(t, &fakeUsers{}, docs)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/cv/backups", issueToken(t, "u1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []backupResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, common.BackupReasonPreRestore, out[0].Reason)
	assert.True(t, out[0].BackedUpAt.Equal(backedUp))
}

func TestRestore(t *testing.T) {
	docs := &fakeDocuments{}
	srv := newTestServer(t, &fakeUsers{}, docs)

	body := map[string]any{"data": map[string]any{"personalInfo": map[string]any{}}}
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/cv/restore", issueToken(t, "u1"), body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out["restored"])
}

func TestRestore_InvalidSnapshot(t *testing.T) {
	docs := &fakeDocuments{restoreErr: common.ErrValidation}
	srv := newTestServer(t, &fakeUsers{}, docs)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/cv/restore", issueToken(t, "u1"), map[string]any{"data": "oops"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPing(t *testing.T) {
	srv := newTestServer(t, &fakeUsers{}, &fakeDocuments{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/ping", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
