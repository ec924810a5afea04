// Package remote is the HTTP adapter to the cvkeeper document store server.
//
// The adapter keeps the two failure families apart: a payload that does not
// fit the document schema is treated as absence of data (never surfaced as an
// error), while transport problems and server errors are reported as
// common.ErrStoreUnavailable so callers never mistake "could not reach the
// store" for "no document exists".
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cvkeeper/internal/common"
	"cvkeeper/internal/logging"
	"cvkeeper/internal/model"
)

// Identity is the opaque signed-in user identity plus its access token.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Stored is a remote document record as seen by the client: the document and
// the server-assigned timestamps.
type Stored struct {
	Data      model.Document
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Backup is one entry of the remote backup chain.
type Backup struct {
	Data              model.Document
	OriginalUpdatedAt time.Time
	BackedUpAt        time.Time
	Reason            string
}

// Client talks to the document store server over JSON/HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	log     logging.Logger
}

func NewClient(baseURL string, log logging.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		log:     log.With("component", "remote"),
	}
}

// SetAuthToken installs the bearer token used on authenticated requests.
func (c *Client) SetAuthToken(token string) {
	c.token = token
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	resp, err := c.do(ctx, http.MethodPost, "/api/register", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		return fmt.Errorf("username %q is taken: %w", username, common.ErrValidation)
	default:
		return c.statusError(resp.StatusCode, "register")
	}
}

// Login authenticates and returns the identity with its access token.
func (c *Client) Login(ctx context.Context, username, password string) (*Identity, error) {
	body := map[string]string{"username": username, "password": password}
	resp, err := c.do(ctx, http.MethodPost, "/api/login", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var id Identity
		if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
			return nil, fmt.Errorf("decode login response: %w", err)
		}
		return &id, nil
	case http.StatusUnauthorized:
		return nil, common.ErrUnauthorized
	default:
		return nil, c.statusError(resp.StatusCode, "login")
	}
}

type storedJSON struct {
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Load fetches the current remote document. It returns (nil, nil) both when
// no document exists and when the stored payload fails validation; transport
// failures are returned as errors.
func (c *Client) Load(ctx context.Context) (*Stored, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/cv", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var sj storedJSON
		if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
			return nil, fmt.Errorf("decode document response: %w", err)
		}
		doc, err := model.Normalize(sj.Data)
		if err != nil {
			c.log.Warn(ctx, "remote document failed validation, treating as absent", "error", err)
			return nil, nil
		}
		return &Stored{Data: doc, CreatedAt: sj.CreatedAt, UpdatedAt: sj.UpdatedAt}, nil
	case http.StatusNotFound:
		return nil, nil
	case http.StatusUnauthorized:
		return nil, common.ErrUnauthorized
	default:
		return nil, c.statusError(resp.StatusCode, "load")
	}
}

// Save upserts the remote document.
func (c *Client) Save(ctx context.Context, doc model.Document) error {
	body := map[string]any{"data": doc}
	resp, err := c.do(ctx, http.MethodPut, "/api/cv", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	default:
		return c.statusError(resp.StatusCode, "save")
	}
}

// Delete removes the remote document entirely. Account teardown only.
func (c *Client) Delete(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/cv", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	default:
		return c.statusError(resp.StatusCode, "delete")
	}
}

// Backup asks the server to snapshot the live document before an impending
// overwrite. It reports whether a backup was actually created (false means
// there was nothing to back up).
func (c *Client) Backup(ctx context.Context, reason string) (bool, error) {
	body := map[string]string{"reason": reason}
	resp, err := c.do(ctx, http.MethodPost, "/api/cv/backup", body)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out struct {
			Created bool `json:"created"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return false, fmt.Errorf("decode backup response: %w", err)
		}
		return out.Created, nil
	case http.StatusUnauthorized:
		return false, common.ErrUnauthorized
	default:
		return false, c.statusError(resp.StatusCode, "backup")
	}
}

type backupJSON struct {
	Data              json.RawMessage `json:"data"`
	OriginalUpdatedAt time.Time       `json:"originalUpdatedAt"`
	BackedUpAt        time.Time       `json:"backedUpAt"`
	Reason            string          `json:"reason"`
}

// ListBackups returns the backup chain, most recent first. Entries whose
// snapshot fails validation are skipped.
func (c *Client) ListBackups(ctx context.Context) ([]Backup, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/cv/backups", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var items []backupJSON
		if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
			return nil, fmt.Errorf("decode backups response: %w", err)
		}
		backups := make([]Backup, 0, len(items))
		for _, item := range items {
			doc, err := model.Normalize(item.Data)
			if err != nil {
				c.log.Warn(ctx, "skipping invalid backup snapshot", "error", err)
				continue
			}
			backups = append(backups, Backup{
				Data:              doc,
				OriginalUpdatedAt: item.OriginalUpdatedAt,
				BackedUpAt:        item.BackedUpAt,
				Reason:            item.Reason,
			})
		}
		return backups, nil
	case http.StatusUnauthorized:
		return nil, common.ErrUnauthorized
	default:
		return nil, c.statusError(resp.StatusCode, "list backups")
	}
}

// Restore writes a backup snapshot over the live document. The server takes
// its own safety backup first.
func (c *Client) Restore(ctx context.Context, doc model.Document) (bool, error) {
	body := map[string]any{"data": doc}
	resp, err := c.do(ctx, http.MethodPost, "/api/cv/restore", body)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out struct {
			Restored bool `json:"restored"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return false, fmt.Errorf("decode restore response: %w", err)
		}
		return out.Restored, nil
	case http.StatusUnauthorized:
		return false, common.ErrUnauthorized
	default:
		return false, c.statusError(resp.StatusCode, "restore")
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return resp, nil
}

func (c *Client) statusError(status int, op string) error {
	return fmt.Errorf("%w: %s returned status %d", common.ErrStoreUnavailable, op, status)
}
