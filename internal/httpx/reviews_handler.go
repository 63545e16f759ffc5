package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arkade-dev/storefront-api/internal/catalog"
	"github.com/arkade-dev/storefront-api/internal/reviews"
)

type ReviewsHandler struct {
	Repo    *reviews.Repo
	Catalog catalog.Lookup
}

type reviewReq struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

func (h *ReviewsHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if _, err := h.Catalog.FindByID(r.Context(), productID); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Repo.ListByProduct(r.Context(), productID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": out, "count": len(out)})
}

func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if _, err := h.Catalog.FindByID(r.Context(), productID); err != nil {
		writeError(w, r, err)
		return
	}

	var req reviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeMessage(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	who, _ := IdentityFrom(r.Context())

	rev, err := h.Repo.Insert(r.Context(), reviews.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    who.UserID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"review": rev})
}
