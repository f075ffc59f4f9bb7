package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/akessab/dzstore-system/internal/codes"
	"github.com/akessab/dzstore-system/internal/model"
	"github.com/akessab/dzstore-system/internal/repository"
)

const (
	createOrderMaxRetries  = 5
	createCouponMaxRetries = 5
	retryDelay             = 10 * time.Millisecond
)

// OrderItemInput описывает позицию оформляемого заказа.
type OrderItemInput struct {
	ProductID     int64
	Quantity      int
	Price         float64
	SelectedColor *string
	SelectedSize  *string
}

// CreateOrderInput содержит данные оформления заказа с витрины.
type CreateOrderInput struct {
	OrderNumber   string
	FullName      string
	PhoneNumber   string
	Wilaya        string
	Baladia       string
	DeliveryPlace model.DeliveryPlace
	Items         []OrderItemInput
	CouponCode    string
	TotalAmount   float64
}

func (in *CreateOrderInput) validate() error {
	if in.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidOrder)
	}
	if in.PhoneNumber == "" {
		return fmt.Errorf("%w: phone number is required", ErrInvalidOrder)
	}
	if in.Wilaya == "" {
		return fmt.Errorf("%w: wilaya is required", ErrInvalidOrder)
	}
	if in.Baladia == "" {
		return fmt.Errorf("%w: baladia is required", ErrInvalidOrder)
	}
	if !in.DeliveryPlace.Valid() {
		return fmt.Errorf("%w: unknown delivery place %q", ErrInvalidOrder, in.DeliveryPlace)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order has no items", ErrInvalidOrder)
	}
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item quantity must be at least 1", ErrInvalidOrder)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: item price must not be negative", ErrInvalidOrder)
		}
	}
	if in.TotalAmount < 0 {
		return fmt.Errorf("%w: total amount must not be negative", ErrInvalidOrder)
	}
	return nil
}

// CreateOrder оформляет заказ: фиксирует цену доставки по тарифу вилайи,
// подбирает свободный номер заказа и гасит купон, если код разрешился.
// Номер перегенерируется при конфликте уникальности ограниченное число раз.
// Нерабочий код купона не мешает оформлению — заказ создаётся без скидки.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*model.Order, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	number := input.OrderNumber
	if !codes.IsValidOrderNumber(number) {
		number, err = codes.NewOrderNumber()
		if err != nil {
			return nil, fmt.Errorf("generate order number: %w", err)
		}
	}

	coupon, err := s.resolveCoupon(ctx, input.CouponCode)
	if err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, model.OrderItem{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			Price:         item.Price,
			SelectedColor: item.SelectedColor,
			SelectedSize:  item.SelectedSize,
		})
	}

	var created *model.Order

	backoff := retry.WithMaxRetries(createOrderMaxRetries, retry.NewConstant(retryDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		order := &model.Order{
			Number:        number,
			FullName:      input.FullName,
			PhoneNumber:   input.PhoneNumber,
			Wilaya:        input.Wilaya,
			Baladia:       input.Baladia,
			DeliveryPlace: input.DeliveryPlace,
			DeliveryPrice: resolveDeliveryPrice(settings, input.Wilaya, input.DeliveryPlace),
			Items:         items,
			Coupon:        coupon,
			TotalAmount:   input.TotalAmount,
		}

		res, err := s.repo.CreateOrder(ctx, order)
		if errors.Is(err, repository.ErrOrderNumberTaken) {
			number, err = codes.NewOrderNumber()
			if err != nil {
				return fmt.Errorf("generate order number: %w", err)
			}
			return retry.RetryableError(repository.ErrOrderNumberTaken)
		}
		if err != nil {
			return err
		}

		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// resolveCoupon разрешает код купона в снимок скидки для заказа.
// Код, не разрешившийся в живой купон, не считается ошибкой — заказ
// оформляется без скидки. Флаг is_active при погашении не проверяется:
// достаточно существования купона.
func (s *Service) resolveCoupon(ctx context.Context, code string) (*model.CouponSnapshot, error) {
	if code == "" {
		return nil, nil
	}

	c, err := s.repo.GetCouponByCode(ctx, code)
	if errors.Is(err, repository.ErrCouponNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve coupon: %w", err)
	}

	return &model.CouponSnapshot{Code: c.Code, DiscountAmount: c.DiscountAmount}, nil
}

// GetOrders возвращает все заказы, новые первыми.
func (s *Service) GetOrders(ctx context.Context) ([]model.Order, error) {
	return s.repo.GetOrders(ctx)
}

// ToggleConfirmOrders переключает статус подтверждения пакета заказов.
// Целевой статус — отрицание «все уже подтверждены»: смешанный пакет целиком
// приводится к подтверждённым, полностью подтверждённый — целиком снимается.
// Возвращает число затронутых заказов и новый статус.
func (s *Service) ToggleConfirmOrders(ctx context.Context, ids []int64) (int64, bool, error) {
	if len(ids) == 0 {
		return 0, false, ErrEmptyBatch
	}

	statuses, err := s.repo.GetConfirmStatuses(ctx, ids)
	if err != nil {
		return 0, false, err
	}

	allConfirmed := true
	for _, confirmed := range statuses {
		if !confirmed {
			allConfirmed = false
			break
		}
	}
	newStatus := !allConfirmed

	count, err := s.repo.SetOrdersConfirmed(ctx, ids, newStatus)
	if err != nil {
		return 0, false, err
	}
	return count, newStatus, nil
}

// FollowOrder возвращает публичную проекцию заказа для отслеживания.
// Оценка оставшегося времени доставки пересчитывается на каждый вызов.
func (s *Service) FollowOrder(ctx context.Context, number string) (*model.TrackingInfo, error) {
	order, err := s.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	days := deliveryDaysFor(settings, order.Wilaya)

	return &model.TrackingInfo{
		Number:            order.Number,
		IsConfirmed:       order.IsConfirmed,
		Address:           order.Wilaya + " " + order.Baladia,
		EstimatedDelivery: estimatedDelivery(order, days, time.Now()),
		DeliveryPhone:     order.DeliveryPhone,
		IsAskForPhone:     order.IsAskForPhone,
	}, nil
}

// estimatedDelivery возвращает оценку оставшегося времени доставки в
// миллисекундах. Для неподтверждённого заказа оценка всегда нулевая;
// для подтверждённого она отсчитывается от confirmed_at и не бывает
// отрицательной.
func estimatedDelivery(order *model.Order, deliveryDays int, now time.Time) int64 {
	if !order.IsConfirmed || order.ConfirmedAt == nil {
		return 0
	}

	duration := int64(deliveryDays) * 24 * time.Hour.Milliseconds()
	elapsed := now.Sub(*order.ConfirmedAt).Milliseconds()

	remaining := duration - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// UpdateDeliveryPhone сохраняет телефон курьера для заказа. Формат номера
// здесь не проверяется: это зона ответственности внешней границы.
func (s *Service) UpdateDeliveryPhone(ctx context.Context, id int64, phone string) error {
	return s.repo.UpdateDeliveryPhone(ctx, id, phone)
}

// AskForPhone отмечает запрос телефона курьера покупателем. Идемпотентна.
func (s *Service) AskForPhone(ctx context.Context, number string) error {
	return s.repo.SetAskForPhone(ctx, number)
}

// DeleteOrder удаляет заказ.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	return s.repo.DeleteOrder(ctx, id)
}
