package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sethvargo/go-retry"

	"github.com/akessab/dzstore-system/internal/codes"
	"github.com/akessab/dzstore-system/internal/model"
	"github.com/akessab/dzstore-system/internal/repository"
)

// CreateCoupon создаёт одноразовый купон на указанную сумму скидки.
// Код генерируется случайно и перегенерируется при конфликте уникальности.
func (s *Service) CreateCoupon(ctx context.Context, discount float64) (*model.Coupon, error) {
	if discount <= 0 {
		return nil, ErrInvalidDiscount
	}
	discountCents := int64(math.Round(discount * 100))

	var created *model.Coupon

	backoff := retry.WithMaxRetries(createCouponMaxRetries, retry.NewConstant(retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		code, err := codes.NewCouponCode()
		if err != nil {
			return fmt.Errorf("generate coupon code: %w", err)
		}

		c, err := s.repo.CreateCoupon(ctx, code, discountCents)
		if errors.Is(err, repository.ErrCouponCodeTaken) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}

		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// ValidateCoupon возвращает купон, только если он существует и активен.
// Неактивный купон для витрины неотличим от отсутствующего.
func (s *Service) ValidateCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	c, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, repository.ErrCouponNotFound
	}
	return c, nil
}

// GetAllCoupons возвращает все купоны, новые первыми.
func (s *Service) GetAllCoupons(ctx context.Context) ([]model.Coupon, error) {
	return s.repo.GetAllCoupons(ctx)
}

// GetActiveCoupons возвращает только активные купоны.
func (s *Service) GetActiveCoupons(ctx context.Context) ([]model.Coupon, error) {
	return s.repo.GetActiveCoupons(ctx)
}

// ToggleCouponStatus переключает активность купона.
func (s *Service) ToggleCouponStatus(ctx context.Context, id int64) (*model.Coupon, error) {
	return s.repo.ToggleCouponStatus(ctx, id)
}

// DeleteCoupon удаляет купон.
func (s *Service) DeleteCoupon(ctx context.Context, id int64) error {
	return s.repo.DeleteCoupon(ctx, id)
}
