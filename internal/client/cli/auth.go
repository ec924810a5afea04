package cli

import (
	"context"
	"fmt"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a username and password and creates a new
// account, signing in immediately on success. The post-sign-in
// reconciliation runs before control returns to the REPL, so a conflict
// between local work and an existing cloud document (impossible for a fresh
// account, but the flow is shared with Login) is reported right away.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	a.armPostAuthSync()

	if err := a.session.SignUp(ctx, userName, string(password)); err != nil {
		fmt.Println("Registration failed:", err)
		return err
	}

	fmt.Println("Success!")
	a.reportConflictIfAny()
	return nil
}

// Login prompts the user for credentials and authenticates. After a
// successful sign-in the engine reconciles local work against the cloud
// document; a detected conflict is reported, not auto-resolved.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	a.armPostAuthSync()

	if err := a.session.SignIn(ctx, userName, string(password)); err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	fmt.Println("Logged in.")
	a.reportConflictIfAny()
	return nil
}

// Logout signs out and re-arms the engine's initial reconciliation so the
// next sign-in starts from a clean slate. The local draft is untouched:
// the single draft slot deliberately survives account switches.
func (a *App) Logout(ctx context.Context) error {
	a.session.SignOut(ctx)
	a.engine.Reset()
	fmt.Println("Logged out.")
	return nil
}

// armPostAuthSync arms the one-shot post-auth reconciliation. The callback
// slot is single-occupancy, so calling this before every auth attempt is
// safe: a failed attempt leaves it armed, a repeated arm just replaces it.
func (a *App) armPostAuthSync() {
	a.session.OnNextSignIn(func(ctx context.Context) {
		if err := a.engine.SyncAfterAuth(ctx, a.session.Current()); err != nil {
			a.log.Warn(ctx, "post-sign-in reconciliation failed", "error", err)
		}
	})
}

func (a *App) reportConflictIfAny() {
	if a.engine.PendingConflict() != nil {
		fmt.Println("Your local draft differs from the cloud copy. Run 'conflicts' to review it.")
	}
}
