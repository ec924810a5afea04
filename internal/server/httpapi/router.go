// Package httpapi exposes the document store over JSON/HTTP.
//
// All document routes require a bearer access token; registration and login
// are public. Handlers translate the service sentinel errors into status
// codes and never leak internal error text to clients.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cvkeeper/internal/logging"
	"cvkeeper/internal/server/models"
	"cvkeeper/internal/server/services"
)

// UserProvider is the slice of UserService the API needs.
type UserProvider interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
}

// DocumentProvider is the slice of DocumentService the API needs.
type DocumentProvider interface {
	Load(ctx context.Context, userID string) (*models.DocumentRecord, error)
	Save(ctx context.Context, userID string, data json.RawMessage) error
	Delete(ctx context.Context, userID string) error
	Backup(ctx context.Context, userID string, reason string) (bool, error)
	ListBackups(ctx context.Context, userID string) ([]*services.BackupSnapshot, error)
	Restore(ctx context.Context, userID string, data json.RawMessage) (bool, error)
}

type api struct {
	users     UserProvider
	documents DocumentProvider
	log       logging.Logger
}

// NewRouter builds the chi router with the full route table.
func NewRouter(users UserProvider, documents DocumentProvider, secretKey []byte, log logging.Logger) *chi.Mux {
	a := &api{users: users, documents: documents, log: log.With("component", "httpapi")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", a.register)
		r.Post("/login", a.login)

		r.Group(func(r chi.Router) {
			r.Use(authenticator(secretKey, a.log))

			r.Get("/cv", a.getDocument)
			r.Put("/cv", a.putDocument)
			r.Delete("/cv", a.deleteDocument)
			r.Post("/cv/backup", a.backup)
			r.Get("/cv/backups", a.listBackups)
			r.Post("/cv/restore", a.restore)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
