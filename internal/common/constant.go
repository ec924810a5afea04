// Package common contains shared constants and sentinel errors used across
// cvkeeper components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token
// on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// Reason codes recorded on backup records. A backup is taken only as a
// precondition of a destructive overwrite of the live remote document.
const (
	BackupReasonKeepLocal  = "conflict_resolution_keep_local"
	BackupReasonPreRestore = "pre_restore_backup"
	BackupReasonManual     = "manual_backup"
)

// MaxBackups bounds the backup chain per user; older records are pruned on
// every new backup.
const MaxBackups = 5
