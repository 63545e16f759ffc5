package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/arkade-dev/storefront-api/internal/apperr"
	"github.com/arkade-dev/storefront-api/internal/auth"
	"github.com/arkade-dev/storefront-api/internal/redisx"
	"github.com/arkade-dev/storefront-api/internal/users"
)

// AuthHandler carries the minimal login mechanics needed to mint the identity
// the order workflow consumes.
type AuthHandler struct {
	Users    *users.Repo
	Sessions *auth.Sessions
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "please provide name, email and password")
		return
	}

	u := users.User{ID: uuid.NewString(), Name: req.Name, Email: req.Email, Role: auth.RoleUser}
	if err := u.SetPassword(req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	// first account becomes the admin
	n, err := h.Users.Count(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if n == 0 {
		u.Role = auth.RoleAdmin
	}

	saved, err := h.Users.Insert(r.Context(), u)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.startSession(w, r, saved); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": saved})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "please provide email and password")
		return
	}

	u, err := h.Users.FindByEmail(r.Context(), req.Email)
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !u.CheckPassword(req.Password) {
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := h.startSession(w, r, u); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		_ = h.Sessions.Delete(r.Context(), c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeMessage(w, http.StatusOK, "logged out")
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, u users.User) error {
	token, err := h.Sessions.Create(r.Context(), auth.Identity{UserID: u.ID, Role: u.Role})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(redisx.TTLSession.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
