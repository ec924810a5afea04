package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cvkeeper/internal/client/sync"
	"cvkeeper/internal/common"
	"cvkeeper/internal/model"
)

// Conflicts compares the local draft against the cloud document and reports
// the outcome. An identical draft is silently absorbed by the cloud copy.
func (a *App) Conflicts(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Log in first.")
		return nil
	}

	c, err := a.engine.CheckForConflicts(ctx)
	if err != nil {
		fmt.Println("Could not reach the cloud store:", err)
		return err
	}
	if !c.HasConflict {
		fmt.Println("No conflict: local draft and cloud copy are in sync.")
		return nil
	}

	fmt.Println("Conflict detected:")
	fmt.Printf("  local draft:  %q saved at %s\n",
		c.LocalData.PersonalInfo.FullName, c.LocalDate.Format("2006-01-02 15:04:05"))
	fmt.Printf("  cloud copy:   %q updated at %s\n",
		c.ServerData.PersonalInfo.FullName, c.ServerDate.Format("2006-01-02 15:04:05"))
	fmt.Println("Resolve with 'resolve local', 'resolve remote' (recommended) or 'resolve dismiss'.")
	return nil
}

// Resolve settles a pending conflict. "remote" keeps the cloud copy and
// drops the draft; "local" backs the cloud copy up and overwrites it;
// "dismiss" keeps the cloud copy live but preserves the draft.
func (a *App) Resolve(ctx context.Context, choice string) error {
	var err error
	switch choice {
	case "remote":
		err = a.engine.Resolve(ctx, sync.ResolutionKeepRemote)
		if err == nil {
			fmt.Println("Kept the cloud copy; local draft discarded.")
		}
	case "local":
		err = a.engine.Resolve(ctx, sync.ResolutionKeepLocal)
		if err == nil {
			fmt.Println("Cloud copy backed up and overwritten with your draft.")
		}
	case "merge":
		err = a.engine.Resolve(ctx, sync.ResolutionMerge)
	case "dismiss":
		a.engine.DismissConflict()
		fmt.Println("Conflict dismissed; cloud copy is live, draft kept as a fallback.")
		return nil
	default:
		fmt.Println("Usage: resolve <local|remote|merge|dismiss>")
		return nil
	}

	switch {
	case errors.Is(err, common.ErrNoConflict):
		fmt.Println("There is no pending conflict.")
	case errors.Is(err, common.ErrMergeUnsupported):
		fmt.Println("Automatic merging is not supported; pick 'local' or 'remote'.")
	case err != nil:
		fmt.Println("Resolution failed, nothing was changed:", err)
	}
	return err
}

// Backups lists the cloud backup chain, most recent first.
func (a *App) Backups(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Log in first.")
		return nil
	}

	backups, err := a.remote.ListBackups(ctx)
	if err != nil {
		fmt.Println("Could not list backups:", err)
		return err
	}
	if len(backups) == 0 {
		fmt.Println("No backups.")
		return nil
	}

	for i, b := range backups {
		fmt.Printf("  %d. %q backed up %s (%s)\n", i+1,
			b.Data.PersonalInfo.FullName, b.BackedUpAt.Format("2006-01-02 15:04:05"), b.Reason)
	}
	return nil
}

// Restore overwrites the cloud document with the numbered backup. The server
// snapshots the current live document first.
func (a *App) Restore(ctx context.Context, arg string) error {
	if !a.isLoggedIn() {
		fmt.Println("Log in first.")
		return nil
	}

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		fmt.Println("Usage: restore <n>  (see 'backups' for numbers)")
		return nil
	}

	backups, err := a.remote.ListBackups(ctx)
	if err != nil {
		fmt.Println("Could not list backups:", err)
		return err
	}
	if n > len(backups) {
		fmt.Printf("There are only %d backups.\n", len(backups))
		return nil
	}

	doc := backups[n-1].Data
	ok, err := a.remote.Restore(ctx, doc)
	if err != nil {
		fmt.Println("Restore failed, cloud document unchanged:", err)
		return err
	}
	if !ok {
		fmt.Println("Nothing was restored.")
		return nil
	}

	a.engine.Edit(func(d *model.Document) { *d = doc.Clone() })
	fmt.Println("Backup restored; it is now the live document.")
	return nil
}
