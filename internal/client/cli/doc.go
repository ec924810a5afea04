// Package cli provides the interactive cvkeeper command-line client.
//
// It wires configuration, the local draft database, the remote document
// store, and an interactive REPL for editing a CV, saving drafts, syncing to
// the cloud, and resolving draft/cloud conflicts.
//
// Key features:
//   - Register / Login / Logout against the document store server
//   - Edit personal info, add entries to any CV section
//   - Local draft autosave with explicit save-to-cloud
//   - Conflict detection and resolution (keep local / keep remote)
//   - Backup listing and restore
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
