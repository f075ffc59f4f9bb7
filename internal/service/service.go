// Package service реализует бизнес-логику магазина: оформление и
// сопровождение заказов, купоны, настройки доставки и аналитику.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/akessab/dzstore-system/internal/model"
	"github.com/akessab/dzstore-system/internal/repository"
)

// ErrInvalidOrder возвращается при некорректных входных данных заказа.
var (
	ErrInvalidOrder = errors.New("invalid order input")
	// ErrInvalidDiscount возвращается при неположительной сумме скидки купона.
	ErrInvalidDiscount = errors.New("discount must be positive")
	// ErrEmptyBatch возвращается при пустом списке заказов в пакетной операции.
	ErrEmptyBatch = errors.New("empty order batch")
	// ErrInvalidCommand возвращается при некорректной команде изменения настроек.
	ErrInvalidCommand = errors.New("invalid settings command")
	// ErrInvalidRange возвращается, если конец диапазона дат раньше начала.
	ErrInvalidRange = errors.New("invalid date range")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error)
	GetOrders(ctx context.Context) ([]model.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*model.Order, error)
	GetConfirmStatuses(ctx context.Context, ids []int64) ([]bool, error)
	SetOrdersConfirmed(ctx context.Context, ids []int64, confirmed bool) (int64, error)
	UpdateDeliveryPhone(ctx context.Context, id int64, phone string) error
	SetAskForPhone(ctx context.Context, number string) error
	DeleteOrder(ctx context.Context, id int64) error
	CreateCoupon(ctx context.Context, code string, discountCents int64) (*model.Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*model.Coupon, error)
	GetAllCoupons(ctx context.Context) ([]model.Coupon, error)
	GetActiveCoupons(ctx context.Context) ([]model.Coupon, error)
	ToggleCouponStatus(ctx context.Context, id int64) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, id int64) error
	GetSettings(ctx context.Context) (*model.Settings, error)
	UpdateSettings(ctx context.Context, s *model.Settings, expectedVersion int64, removedSize, removedColor string) (*model.Settings, error)
	GetAnalyticsCounts(ctx context.Context, confirmedOnly bool) (*repository.AnalyticsCounts, error)
	GetDailySalesRows(ctx context.Context, confirmedOnly bool, start, end time.Time) ([]repository.DailySalesRow, error)
}

// ImageDeleter описывает контракт внешнего хостинга изображений,
// используемый при удалении категории.
type ImageDeleter interface {
	DeleteImage(ctx context.Context, imageURL string) error
}

// Service содержит бизнес-логику магазина.
type Service struct {
	repo   Repository
	images ImageDeleter
	logger *zap.Logger
}

// NewService создаёт новый сервис. images может быть nil, если внешний
// хостинг изображений не настроен.
func NewService(repo Repository, images ImageDeleter, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		images: images,
		logger: logger,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}
