package service

import (
	"context"
	"fmt"
	"time"

	"github.com/akessab/dzstore-system/internal/model"
)

// GetAnalyticsData возвращает сводный срез аналитики. Режим агрегации
// берётся из настроек: в режиме confirmed выручка и общий счётчик заказов
// считаются только по подтверждённым заказам, счётчики confirmed/pending —
// всегда по всем.
func (s *Service) GetAnalyticsData(ctx context.Context) (*model.AnalyticsData, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	confirmedOnly := settings.OrderCalculation == model.OrderCalculationConfirmed

	counts, err := s.repo.GetAnalyticsCounts(ctx, confirmedOnly)
	if err != nil {
		return nil, err
	}

	ordersTotal := counts.OrdersAll
	if confirmedOnly {
		ordersTotal = counts.OrdersConfirmed
	}

	revenue := float64(counts.RevenueCents) / 100
	revenueNoDelivery := float64(counts.RevenueNoDeliveryCents) / 100
	discounts := float64(counts.DiscountCents) / 100

	var averageDiscount float64
	if counts.DiscountedOrders > 0 {
		averageDiscount = discounts / float64(counts.DiscountedOrders)
	}

	return &model.AnalyticsData{
		Products: model.ProductStats{
			Total:    counts.ProductsTotal,
			Featured: counts.ProductsFeatured,
			Regular:  counts.ProductsTotal - counts.ProductsFeatured,
		},
		Orders: model.OrderStats{
			Total:     ordersTotal,
			Confirmed: counts.OrdersConfirmed,
			Pending:   counts.OrdersAll - counts.OrdersConfirmed,
		},
		Coupons: model.CouponStats{
			Total:    counts.CouponsTotal,
			Active:   counts.CouponsActive,
			Inactive: counts.CouponsTotal - counts.CouponsActive,
		},
		Revenue: model.RevenueStats{
			WithDelivery:       revenue,
			WithoutDelivery:    revenueNoDelivery,
			TotalDiscounts:     discounts,
			AverageDiscount:    averageDiscount,
			NetWithDelivery:    revenue - discounts,
			NetWithoutDelivery: revenueNoDelivery - discounts,
		},
	}, nil
}

// GetDailySalesData возвращает ряд продаж по календарным дням (UTC) в
// диапазоне [start, end] включительно. Каждый день диапазона присутствует
// в ряду ровно один раз, дни без заказов — нулевыми строками.
func (s *Service) GetDailySalesData(ctx context.Context, start, end time.Time) ([]model.DailySales, error) {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)
	if endDay.Before(startDay) {
		return nil, ErrInvalidRange
	}

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	confirmedOnly := settings.OrderCalculation == model.OrderCalculationConfirmed

	rows, err := s.repo.GetDailySalesRows(ctx, confirmedOnly, startDay, endDay)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]model.DailySales, len(rows))
	for _, row := range rows {
		revenue := float64(row.RevenueCents) / 100
		revenueNoDelivery := float64(row.RevenueNoDeliveryCents) / 100
		discounts := float64(row.DiscountCents) / 100

		byDate[row.Date.UTC().Format(time.DateOnly)] = model.DailySales{
			Orders:                 row.Orders,
			RevenueWithDelivery:    revenue,
			RevenueWithoutDelivery: revenueNoDelivery,
			TotalDiscounts:         discounts,
			NetWithDelivery:        revenue - discounts,
			NetWithoutDelivery:     revenueNoDelivery - discounts,
		}
	}

	var series []model.DailySales
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		date := day.Format(time.DateOnly)
		entry := byDate[date]
		entry.Date = date
		series = append(series, entry)
	}

	return series, nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
