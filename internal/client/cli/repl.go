package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Show(ctx context.Context) error
	EditPersonal(ctx context.Context) error
	AddEntry(ctx context.Context, section string) error
	EditReferences(ctx context.Context) error
	SaveDraft(ctx context.Context) error
	Save(ctx context.Context) error
	ShowStatus(ctx context.Context) error
	Conflicts(ctx context.Context) error
	Resolve(ctx context.Context, choice string) error
	Backups(ctx context.Context) error
	Restore(ctx context.Context, arg string) error
}

// runREPL starts a simple read–eval–print loop for the cvkeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help           — show available commands
//	  - show           — print the current CV
//	  - personal       — edit personal info
//	  - add <section>  — add an entry (experience, education, project,
//	                     achievement, language, skill)
//	  - references     — edit the references text
//	  - draft          — save the local draft now
//	  - save           — save to the cloud
//	  - status         — show save status and pending draft
//	  - exit | quit    — leave the program
//
//	Not logged in:
//	  - register       — create an account
//	  - login          — authenticate
//
//	Logged in:
//	  - conflicts      — check for a draft/cloud conflict
//	  - resolve <c>    — resolve it (local, remote, merge, dismiss)
//	  - backups        — list cloud backups
//	  - restore <n>    — restore backup number n
//	  - logout         — log out
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cv> %s ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: show, personal, add <section>, references, draft, save, status, exit")
			if a.isLoggedIn() {
				printlnFn("Account: conflicts, resolve <local|remote|merge|dismiss>, backups, restore <n>, logout")
			} else {
				printlnFn("Account: register, login")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "show":
			_ = a.Show(ctx)

		case "personal":
			_ = a.EditPersonal(ctx)

		case "add":
			if len(args) == 0 {
				printlnFn("Usage: add <experience|education|project|achievement|language|skill>")
				continue
			}
			_ = a.AddEntry(ctx, args[0])

		case "references":
			_ = a.EditReferences(ctx)

		case "draft":
			_ = a.SaveDraft(ctx)

		case "save":
			_ = a.Save(ctx)

		case "status":
			_ = a.ShowStatus(ctx)

		case "conflicts":
			_ = a.Conflicts(ctx)

		case "resolve":
			if len(args) == 0 {
				printlnFn("Usage: resolve <local|remote|merge|dismiss>")
				continue
			}
			_ = a.Resolve(ctx, args[0])

		case "backups":
			_ = a.Backups(ctx)

		case "restore":
			if len(args) == 0 {
				printlnFn("Usage: restore <n>")
				continue
			}
			_ = a.Restore(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
