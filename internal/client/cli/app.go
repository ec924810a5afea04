package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"cvkeeper/internal/client/config"
	"cvkeeper/internal/client/draft"
	"cvkeeper/internal/client/kv"
	"cvkeeper/internal/client/remote"
	"cvkeeper/internal/client/session"
	"cvkeeper/internal/client/sync"
	"cvkeeper/internal/logging"
)

type App struct {
	config  *config.Config
	session *session.Manager
	engine  *sync.Engine
	remote  *remote.Client
	log     logging.Logger
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := kv.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init local database: %w", err)
	}

	rc := remote.NewClient(c.ServerURL, log)
	sess := session.NewManager(rc, log)
	drafts := draft.NewStore(kv.NewSQLiteStore(db), log)
	engine := sync.NewEngine(rc, drafts, sess, c.AutoSaveInterval, log)

	return &App{
		config:  c,
		session: sess,
		engine:  engine,
		remote:  rc,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Run performs the initial reconciliation and enters the REPL. Blocks until
// the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	if err := a.engine.Initialize(ctx); err != nil {
		a.log.Warn(ctx, "initial sync failed, starting offline", "error", err)
	}
	defer a.engine.Close(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.session.SignedIn()
}

func (a *App) getStatus() string {
	s := ""
	if id := a.session.Current(); id != nil {
		s = id.Username
	}
	if a.engine.PendingConflict() != nil {
		if s != "" {
			s += " "
		}
		s += "conflict!"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
