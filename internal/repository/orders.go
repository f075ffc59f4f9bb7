package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akessab/dzstore-system/internal/model"
)

// CreateOrder сохраняет заказ вместе с позициями. Привязанный к заказу купон
// гасится в той же транзакции: строка купона удаляется, снимок значения
// остаётся в заказе. Купон, исчезнувший между разрешением кода и записью,
// снимает скидку с заказа, не мешая оформлению. Конфликт номера заказа
// возвращается как ErrOrderNumberTaken.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if order.Coupon != nil {
		cmdTag, err := tx.Exec(ctx, `DELETE FROM coupons WHERE code = $1`, order.Coupon.Code)
		if err != nil {
			return nil, fmt.Errorf("delete redeemed coupon: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			order.Coupon = nil
		}
	}

	var (
		couponCode  *string
		couponCents *int64
	)
	if order.Coupon != nil {
		couponCode = &order.Coupon.Code
		cents := toCents(order.Coupon.DiscountAmount)
		couponCents = &cents
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (number, full_name, phone_number, wilaya, baladia, delivery_place, delivery_price,
		                     coupon_code, coupon_discount, total_amount)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		order.Number, order.FullName, order.PhoneNumber, order.Wilaya, order.Baladia,
		string(order.DeliveryPlace), toCents(order.DeliveryPrice),
		couponCode, couponCents, toCents(order.TotalAmount),
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrOrderNumberTaken, order.Number)
		}
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price, selected_color, selected_size)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, item.ProductID, item.Quantity, toCents(item.Price), item.SelectedColor, item.SelectedSize,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return order, nil
}

// GetOrders возвращает все заказы, новые первыми, с позициями, дополненными
// названием и изображением товара.
func (r *PostgresRepository) GetOrders(ctx context.Context) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, number, full_name, phone_number, wilaya, baladia, delivery_place, delivery_price,
		        coupon_code, coupon_discount, total_amount, is_confirmed, confirmed_at,
		        delivery_phone, is_ask_for_phone, created_at
		 FROM orders
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	index := make(map[int64]int)
	var ids []int64

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(ids) == 0 {
		return orders, nil
	}

	itemRows, err := r.pool.Query(ctx,
		`SELECT oi.order_id, oi.product_id, COALESCE(p.name, ''), COALESCE(p.image, ''),
		        oi.quantity, oi.price, oi.selected_color, oi.selected_size
		 FROM order_items oi
		 LEFT JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = ANY($1)
		 ORDER BY oi.id`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID    int64
			item       model.OrderItem
			priceCents int64
		)
		err := itemRows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.ProductImage,
			&item.Quantity, &priceCents, &item.SelectedColor, &item.SelectedSize)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.Price = fromCents(priceCents)

		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}

// GetOrderByNumber возвращает заказ по его публичному номеру без позиций.
func (r *PostgresRepository) GetOrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, number, full_name, phone_number, wilaya, baladia, delivery_place, delivery_price,
		        coupon_code, coupon_discount, total_amount, is_confirmed, confirmed_at,
		        delivery_phone, is_ask_for_phone, created_at
		 FROM orders
		 WHERE number = $1`,
		number,
	)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// GetConfirmStatuses возвращает флаги подтверждения заказов пакета.
// Пакет, в котором не нашлось ни одного заказа, — ErrOrderNotFound.
func (r *PostgresRepository) GetConfirmStatuses(ctx context.Context, ids []int64) ([]bool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT is_confirmed FROM orders WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("select batch: %w", err)
	}
	defer rows.Close()

	var statuses []bool
	for rows.Next() {
		var confirmed bool
		if err := rows.Scan(&confirmed); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		statuses = append(statuses, confirmed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(statuses) == 0 {
		return nil, ErrOrderNotFound
	}
	return statuses, nil
}

// SetOrdersConfirmed выставляет статус подтверждения всем заказам пакета.
// При подтверждении confirmed_at проставляется заново, при снятии — очищается.
func (r *PostgresRepository) SetOrdersConfirmed(ctx context.Context, ids []int64, confirmed bool) (int64, error) {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE orders
		 SET is_confirmed = $2,
		     confirmed_at = CASE WHEN $2 THEN now() ELSE NULL END
		 WHERE id = ANY($1)`,
		ids, confirmed,
	)
	if err != nil {
		return 0, fmt.Errorf("update batch: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// UpdateDeliveryPhone сохраняет телефон курьера для заказа.
func (r *PostgresRepository) UpdateDeliveryPhone(ctx context.Context, id int64, phone string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE orders SET delivery_phone = $2 WHERE id = $1`,
		id, phone,
	)
	if err != nil {
		return fmt.Errorf("update delivery phone: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// SetAskForPhone отмечает, что покупатель запросил телефон курьера.
// Повторный вызов ничего не меняет.
func (r *PostgresRepository) SetAskForPhone(ctx context.Context, number string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE orders SET is_ask_for_phone = TRUE WHERE number = $1`,
		number,
	)
	if err != nil {
		return fmt.Errorf("set ask for phone: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// DeleteOrder удаляет заказ вместе с позициями.
func (r *PostgresRepository) DeleteOrder(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o             model.Order
		place         string
		deliveryCents int64
		totalCents    int64
		couponCode    *string
		couponCents   *int64
		confirmedAt   *time.Time
	)

	err := row.Scan(&o.ID, &o.Number, &o.FullName, &o.PhoneNumber, &o.Wilaya, &o.Baladia,
		&place, &deliveryCents, &couponCode, &couponCents, &totalCents,
		&o.IsConfirmed, &confirmedAt, &o.DeliveryPhone, &o.IsAskForPhone, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	o.DeliveryPlace = model.DeliveryPlace(place)
	o.DeliveryPrice = fromCents(deliveryCents)
	o.TotalAmount = fromCents(totalCents)
	o.ConfirmedAt = confirmedAt

	if couponCode != nil {
		snapshot := model.CouponSnapshot{Code: *couponCode}
		if couponCents != nil {
			snapshot.DiscountAmount = fromCents(*couponCents)
		}
		o.Coupon = &snapshot
	}

	return &o, nil
}
