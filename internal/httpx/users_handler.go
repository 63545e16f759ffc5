package httpx

import (
	"net/http"

	"github.com/arkade-dev/storefront-api/internal/users"
)

type UsersHandler struct {
	Repo *users.Repo
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	who, _ := IdentityFrom(r.Context())
	u, err := h.Repo.FindByID(r.Context(), who.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out, "count": len(out)})
}
