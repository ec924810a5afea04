// Package models defines the server-side database records.
package models

import (
	"encoding/json"
	"time"
)

// User is an account row. PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// DocumentRecord is the canonical stored CV for one user: at most one row
// per user, upserted on every save. CreatedAt is set once; UpdatedAt moves
// on every write.
type DocumentRecord struct {
	UserID    string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BackupRecord is the metadata row for one immutable backup snapshot. The
// snapshot payload itself lives in object storage under ObjectKey; rows are
// append-only until pruned, never mutated.
type BackupRecord struct {
	ObjectKey         string
	UserID            string
	Reason            string
	OriginalUpdatedAt time.Time
	BackedUpAt        time.Time
}
