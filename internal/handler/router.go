package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/akessab/dzstore-system/internal/middleware"
)

// NewRouter собирает маршрутизатор API. Публичные маршруты доступны
// витрине без токена, админские защищены JWT-мидлварью.
func (h *Handler) NewRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.GzipMiddleware)

	r.Route("/api", func(r chi.Router) {
		// Публичная часть: витрина магазина.
		r.Post("/orders", h.CreateOrder)
		r.Post("/orders/follow-order", h.FollowOrder)
		r.Post("/orders/{orderNumber}", h.AskForPhone)
		r.Get("/coupons", h.GetActiveCoupons)
		r.Post("/coupons/validate", h.ValidateCoupon)
		r.Get("/settings", h.GetSettings)

		// Админская часть.
		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/orders", h.GetOrders)
			r.Put("/orders/{id}", h.UpdateDeliveryPhone)
			r.Delete("/orders/{id}", h.DeleteOrder)
			r.Patch("/orders/toggle-confirm", h.ToggleConfirmOrders)

			r.Post("/coupons/create", h.CreateCoupon)
			r.Get("/coupons/all", h.GetAllCoupons)
			r.Patch("/coupons/toggle/{id}", h.ToggleCouponStatus)
			r.Delete("/coupons/{id}", h.DeleteCoupon)

			r.Put("/settings", h.UpdateSettings)
			r.Get("/analytics", h.GetAnalytics)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	return r
}
