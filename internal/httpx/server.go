package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Auth     *AuthHandler
	Users    *UsersHandler
	Products *ProductsHandler
	Reviews  *ReviewsHandler
	Orders   *OrdersHandler
	Sessions SessionReader
}

func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		r.Get("/products", h.Products.List)
		r.Get("/products/{id}", h.Products.Get)
		r.Get("/products/{id}/reviews", h.Reviews.ListForProduct)

		r.Group(func(r chi.Router) {
			r.Use(SessionAuth(h.Sessions))

			r.Post("/products/{id}/reviews", h.Reviews.Create)
			r.Get("/users/me", h.Users.Me)
			h.Orders.Register(r)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Get("/orders", h.Orders.ListAll)
				r.Get("/users", h.Users.List)
				r.Post("/products", h.Products.Create)
				r.Patch("/products/{id}", h.Products.Update)
				r.Delete("/products/{id}", h.Products.Delete)
			})
		})
	})

	return r
}
