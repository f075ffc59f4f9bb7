package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/akessab/dzstore-system/internal/model"
	"github.com/akessab/dzstore-system/internal/repository"
	"github.com/akessab/dzstore-system/internal/service"
)

type couponResponse struct {
	ID             int64     `json:"id"`
	Code           string    `json:"code"`
	DiscountAmount float64   `json:"discountAmount"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

func newCouponResponse(c *model.Coupon) couponResponse {
	return couponResponse{
		ID:             c.ID,
		Code:           c.Code,
		DiscountAmount: c.DiscountAmount,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
	}
}

type createCouponRequest struct {
	DiscountAmount float64 `json:"discountAmount" validate:"required,gt=0"`
}

// CreateCoupon выпускает новый купон со случайным кодом.
func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if !h.decodeAndValidate(r, &req) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	coupon, err := h.service.CreateCoupon(r.Context(), req.DiscountAmount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDiscount) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		h.logger.Error("create coupon", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, newCouponResponse(coupon))
}

type validateCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// ValidateCoupon проверяет код купона перед оформлением заказа.
// Неактивный купон для покупателя неотличим от несуществующего.
func (h *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if !h.decodeAndValidate(r, &req) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	coupon, err := h.service.ValidateCoupon(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.logger.Error("validate coupon", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, newCouponResponse(coupon))
}

// GetActiveCoupons возвращает только активные купоны.
func (h *Handler) GetActiveCoupons(w http.ResponseWriter, r *http.Request) {
	h.listCoupons(w, r, h.service.GetActiveCoupons)
}

// GetAllCoupons возвращает все купоны независимо от статуса.
func (h *Handler) GetAllCoupons(w http.ResponseWriter, r *http.Request) {
	h.listCoupons(w, r, h.service.GetAllCoupons)
}

func (h *Handler) listCoupons(w http.ResponseWriter, r *http.Request, list func(ctx context.Context) ([]model.Coupon, error)) {
	coupons, err := list(r.Context())
	if err != nil {
		h.logger.Error("list coupons", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resp := make([]couponResponse, 0, len(coupons))
	for i := range coupons {
		resp = append(resp, newCouponResponse(&coupons[i]))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// ToggleCouponStatus включает или выключает купон.
func (h *Handler) ToggleCouponStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromURL(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	coupon, err := h.service.ToggleCouponStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.logger.Error("toggle coupon status", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, newCouponResponse(coupon))
}

// DeleteCoupon удаляет купон без погашения.
func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromURL(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteCoupon(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.logger.Error("delete coupon", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
