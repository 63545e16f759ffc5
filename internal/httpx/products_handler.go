package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arkade-dev/storefront-api/internal/catalog"
)

type ProductsHandler struct {
	Repo  *catalog.Repo
	Cache *catalog.Cache
}

type productReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  *int64 `json:"price"`
	Image       string `json:"image"`
}

func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": out, "count": len(out)})
}

func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Cache.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.PriceCents == nil {
		writeMessage(w, http.StatusBadRequest, "please provide name and price")
		return
	}
	p, err := h.Repo.Insert(r.Context(), catalog.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  *req.PriceCents,
		Image:       req.Image,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"product": p})
}

func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Description != "" {
		existing.Description = req.Description
	}
	if req.PriceCents != nil {
		existing.PriceCents = *req.PriceCents
	}
	if req.Image != "" {
		existing.Image = req.Image
	}

	p, err := h.Repo.Update(r.Context(), existing)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.Cache.Invalidate(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.Cache.Invalidate(r.Context(), id)
	writeMessage(w, http.StatusOK, "product removed")
}
