// Package handler содержит HTTP-обработчики API магазина.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akessab/dzstore-system/internal/middleware"
	"github.com/akessab/dzstore-system/internal/model"
	"github.com/akessab/dzstore-system/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	CreateOrder(ctx context.Context, input service.CreateOrderInput) (*model.Order, error)
	GetOrders(ctx context.Context) ([]model.Order, error)
	ToggleConfirmOrders(ctx context.Context, ids []int64) (int64, bool, error)
	FollowOrder(ctx context.Context, number string) (*model.TrackingInfo, error)
	UpdateDeliveryPhone(ctx context.Context, id int64, phone string) error
	AskForPhone(ctx context.Context, number string) error
	DeleteOrder(ctx context.Context, id int64) error
	CreateCoupon(ctx context.Context, discount float64) (*model.Coupon, error)
	ValidateCoupon(ctx context.Context, code string) (*model.Coupon, error)
	GetAllCoupons(ctx context.Context) ([]model.Coupon, error)
	GetActiveCoupons(ctx context.Context) ([]model.Coupon, error)
	ToggleCouponStatus(ctx context.Context, id int64) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, id int64) error
	GetSettings(ctx context.Context) (*model.Settings, error)
	AddCategory(ctx context.Context, version int64, category model.Category) (*model.Settings, error)
	RemoveCategory(ctx context.Context, version int64, name string) (*model.Settings, error)
	AddSize(ctx context.Context, version int64, size string) (*model.Settings, error)
	RemoveSize(ctx context.Context, version int64, size string) (*model.Settings, error)
	AddColor(ctx context.Context, version int64, color string) (*model.Settings, error)
	RemoveColor(ctx context.Context, version int64, color string) (*model.Settings, error)
	SetOrderCalculation(ctx context.Context, version int64, mode model.OrderCalculation) (*model.Settings, error)
	SetDeliveryRates(ctx context.Context, version int64, rates []model.DeliveryRate) (*model.Settings, error)
	GetAnalyticsData(ctx context.Context) (*model.AnalyticsData, error)
	GetDailySalesData(ctx context.Context, start, end time.Time) ([]model.DailySales, error)
}

// Handler реализует HTTP-обработчики API магазина.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	validate       *validator.Validate
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		validate:       validator.New(),
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

// decodeAndValidate разбирает JSON-тело запроса и проверяет его правилами
// валидатора. Ошибка формата и ошибка валидации равнозначны для клиента.
func (h *Handler) decodeAndValidate(r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		return false
	}
	return true
}

func idFromURL(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
