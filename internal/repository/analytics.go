package repository

import (
	"context"
	"fmt"
	"time"
)

// AnalyticsCounts содержит сырые агрегаты для сводной аналитики.
// Производные величины (regular, pending, net и т.п.) считает сервис.
type AnalyticsCounts struct {
	ProductsTotal          int64
	ProductsFeatured       int64
	OrdersAll              int64
	OrdersConfirmed        int64
	CouponsTotal           int64
	CouponsActive          int64
	RevenueCents           int64
	RevenueNoDeliveryCents int64
	DiscountCents          int64
	DiscountedOrders       int64
}

// DailySalesRow содержит агрегаты продаж за один день, в котором были заказы.
// Дни без заказов в выборку не попадают: нулевые строки достраивает сервис.
type DailySalesRow struct {
	Date                   time.Time
	Orders                 int64
	RevenueCents           int64
	RevenueNoDeliveryCents int64
	DiscountCents          int64
}

// GetAnalyticsCounts возвращает агрегаты по товарам, заказам, купонам и
// выручке. При confirmedOnly выручка и общий счётчик заказов считаются только
// по подтверждённым заказам; счётчики confirmed/pending — всегда по всем.
func (r *PostgresRepository) GetAnalyticsCounts(ctx context.Context, confirmedOnly bool) (*AnalyticsCounts, error) {
	var c AnalyticsCounts

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_featured) FROM products`,
	).Scan(&c.ProductsTotal, &c.ProductsFeatured)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_confirmed) FROM orders`,
	).Scan(&c.OrdersAll, &c.OrdersConfirmed)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM coupons`,
	).Scan(&c.CouponsTotal, &c.CouponsActive)
	if err != nil {
		return nil, fmt.Errorf("count coupons: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0),
		        COALESCE(SUM(total_amount - delivery_price), 0),
		        COALESCE(SUM(coupon_discount), 0),
		        COUNT(coupon_discount)
		 FROM orders
		 WHERE $1 = FALSE OR is_confirmed`,
		confirmedOnly,
	).Scan(&c.RevenueCents, &c.RevenueNoDeliveryCents, &c.DiscountCents, &c.DiscountedOrders)
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}

	return &c, nil
}

// GetDailySalesRows возвращает агрегаты продаж по календарным дням (UTC)
// в диапазоне [start, end] включительно, по возрастанию даты.
func (r *PostgresRepository) GetDailySalesRows(ctx context.Context, confirmedOnly bool, start, end time.Time) ([]DailySalesRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT (created_at AT TIME ZONE 'UTC')::date AS day,
		        COUNT(*),
		        COALESCE(SUM(total_amount), 0),
		        COALESCE(SUM(total_amount - delivery_price), 0),
		        COALESCE(SUM(coupon_discount), 0)
		 FROM orders
		 WHERE (created_at AT TIME ZONE 'UTC')::date BETWEEN $1::date AND $2::date
		   AND ($3 = FALSE OR is_confirmed)
		 GROUP BY day
		 ORDER BY day`,
		start.UTC(), end.UTC(), confirmedOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("select daily sales: %w", err)
	}
	defer rows.Close()

	var res []DailySalesRow
	for rows.Next() {
		var row DailySalesRow
		err := rows.Scan(&row.Date, &row.Orders, &row.RevenueCents, &row.RevenueNoDeliveryCents, &row.DiscountCents)
		if err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		res = append(res, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}
