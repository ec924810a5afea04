package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cvkeeper/internal/common"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (a *api) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	_, err := a.users.Register(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusCreated)
	case errors.Is(err, common.ErrAlreadyExists):
		http.Error(w, "username is taken", http.StatusConflict)
	default:
		a.log.Error(r.Context(), "register failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (a *api) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := a.users.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, loginResponse{Token: token, UserID: user.ID, Username: user.UserName})
	case errors.Is(err, common.ErrUnauthorized):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	default:
		a.log.Error(r.Context(), "login failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
