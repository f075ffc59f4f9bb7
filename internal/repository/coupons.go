package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akessab/dzstore-system/internal/model"
)

// CreateCoupon сохраняет новый купон. Конфликт кода возвращается как
// ErrCouponCodeTaken, чтобы вызывающая сторона перегенерировала код.
func (r *PostgresRepository) CreateCoupon(ctx context.Context, code string, discountCents int64) (*model.Coupon, error) {
	c := model.Coupon{
		Code:           code,
		DiscountAmount: fromCents(discountCents),
		IsActive:       true,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO coupons (code, discount_amount) VALUES ($1, $2) RETURNING id, created_at`,
		code, discountCents,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrCouponCodeTaken, code)
		}
		return nil, fmt.Errorf("insert coupon: %w", err)
	}

	return &c, nil
}

// GetCouponByCode возвращает купон по коду независимо от флага активности.
func (r *PostgresRepository) GetCouponByCode(ctx context.Context, code string) (*model.Coupon, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, code, discount_amount, is_active, created_at FROM coupons WHERE code = $1`,
		code,
	)

	c, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetAllCoupons возвращает все купоны, новые первыми.
func (r *PostgresRepository) GetAllCoupons(ctx context.Context) ([]model.Coupon, error) {
	return r.selectCoupons(ctx,
		`SELECT id, code, discount_amount, is_active, created_at FROM coupons ORDER BY created_at DESC`)
}

// GetActiveCoupons возвращает только активные купоны, новые первыми.
func (r *PostgresRepository) GetActiveCoupons(ctx context.Context) ([]model.Coupon, error) {
	return r.selectCoupons(ctx,
		`SELECT id, code, discount_amount, is_active, created_at FROM coupons WHERE is_active ORDER BY created_at DESC`)
}

func (r *PostgresRepository) selectCoupons(ctx context.Context, query string) ([]model.Coupon, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return coupons, nil
}

// ToggleCouponStatus переключает флаг активности купона и возвращает
// обновлённый купон.
func (r *PostgresRepository) ToggleCouponStatus(ctx context.Context, id int64) (*model.Coupon, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE coupons SET is_active = NOT is_active WHERE id = $1
		 RETURNING id, code, discount_amount, is_active, created_at`,
		id,
	)

	c, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return c, nil
}

// DeleteCoupon удаляет купон.
func (r *PostgresRepository) DeleteCoupon(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var (
		c             model.Coupon
		discountCents int64
	)

	err := row.Scan(&c.ID, &c.Code, &discountCents, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan coupon: %w", err)
	}

	c.DiscountAmount = fromCents(discountCents)
	return &c, nil
}
