package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arkade-dev/storefront-api/internal/orders"
)

type OrdersHandler struct {
	Service *orders.Service
}

// Register mounts the authed order routes; the admin collection listing is
// mounted separately under the admin group.
func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.Create)
	r.Get("/orders/mine", h.ListMine)
	r.Get("/orders/{id}", h.Get)
	r.Patch("/orders/{id}", h.MarkPaid)
}

func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in orders.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	who, _ := IdentityFrom(r.Context())

	order, err := h.Service.Create(r.Context(), in, who)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"order":         order,
		"client_secret": order.ClientSecret,
	})
}

func (h *OrdersHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": out, "count": len(out)})
}

func (h *OrdersHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	who, _ := IdentityFrom(r.Context())
	out, err := h.Service.ListMine(r.Context(), who)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": out, "count": len(out)})
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	who, _ := IdentityFrom(r.Context())
	order, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"), who)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

type markPaidReq struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

func (h *OrdersHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req markPaidReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	who, _ := IdentityFrom(r.Context())

	order, err := h.Service.MarkPaid(r.Context(), chi.URLParam(r, "id"), req.PaymentIntentID, who)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order":          order,
		"payment_intent": order.PaymentIntentID,
	})
}
