package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/akessab/dzstore-system/internal/model"
)

// GetSettings возвращает единственный документ настроек. Если документа ещё
// нет, он создаётся с таблицей тарифов по умолчанию для всех 58 вилай.
func (r *PostgresRepository) GetSettings(ctx context.Context) (*model.Settings, error) {
	s, err := r.selectSettings(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	defaults := model.DefaultSettings()

	deliveryJSON, err := json.Marshal(defaults.Delivery)
	if err != nil {
		return nil, fmt.Errorf("marshal default delivery: %w", err)
	}

	// ON CONFLICT покрывает гонку двух одновременных первых чтений.
	_, err = r.pool.Exec(ctx,
		`INSERT INTO settings (id, delivery, order_calculation, categories, sizes, colors)
		 VALUES (1, $1, $2, '[]', '{}', '{}')
		 ON CONFLICT (id) DO NOTHING`,
		deliveryJSON, string(defaults.OrderCalculation),
	)
	if err != nil {
		return nil, fmt.Errorf("insert default settings: %w", err)
	}

	return r.selectSettings(ctx)
}

func (r *PostgresRepository) selectSettings(ctx context.Context) (*model.Settings, error) {
	var (
		s              model.Settings
		deliveryJSON   []byte
		categoriesJSON []byte
		calculation    string
	)

	err := r.pool.QueryRow(ctx,
		`SELECT delivery, order_calculation, categories, sizes, colors, version FROM settings WHERE id = 1`,
	).Scan(&deliveryJSON, &calculation, &categoriesJSON, &s.Sizes, &s.Colors, &s.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("select settings: %w", err)
	}

	if err := json.Unmarshal(deliveryJSON, &s.Delivery); err != nil {
		return nil, fmt.Errorf("unmarshal delivery: %w", err)
	}
	if err := json.Unmarshal(categoriesJSON, &s.Categories); err != nil {
		return nil, fmt.Errorf("unmarshal categories: %w", err)
	}

	s.OrderCalculation = model.OrderCalculation(calculation)

	// Массивы не бывают nil: форма документа нормализуется при чтении,
	// а не лечится хуками на записи.
	if s.Delivery == nil {
		s.Delivery = []model.DeliveryRate{}
	}
	if s.Categories == nil {
		s.Categories = []model.Category{}
	}
	if s.Sizes == nil {
		s.Sizes = []string{}
	}
	if s.Colors == nil {
		s.Colors = []string{}
	}

	return &s, nil
}

// UpdateSettings записывает настройки целиком с проверкой версии. Если
// expectedVersion устарела, возвращается ErrSettingsConflict и запись не
// применяется. removedSize и removedColor задают каскадную очистку ссылок
// в товарах и позициях заказов; пустая строка означает «без каскада».
func (r *PostgresRepository) UpdateSettings(ctx context.Context, s *model.Settings, expectedVersion int64, removedSize, removedColor string) (*model.Settings, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	deliveryJSON, err := json.Marshal(s.Delivery)
	if err != nil {
		return nil, fmt.Errorf("marshal delivery: %w", err)
	}
	categoriesJSON, err := json.Marshal(s.Categories)
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}

	var newVersion int64
	err = tx.QueryRow(ctx,
		`UPDATE settings
		 SET delivery = $1, order_calculation = $2, categories = $3, sizes = $4, colors = $5,
		     version = version + 1
		 WHERE id = 1 AND version = $6
		 RETURNING version`,
		deliveryJSON, string(s.OrderCalculation), categoriesJSON, s.Sizes, s.Colors, expectedVersion,
	).Scan(&newVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsConflict
		}
		return nil, fmt.Errorf("update settings: %w", err)
	}

	if removedSize != "" {
		_, err = tx.Exec(ctx,
			`UPDATE order_items SET selected_size = NULL WHERE selected_size = $1`, removedSize)
		if err != nil {
			return nil, fmt.Errorf("clear size in order items: %w", err)
		}
		_, err = tx.Exec(ctx,
			`UPDATE products SET sizes = array_remove(sizes, $1) WHERE $1 = ANY(sizes)`, removedSize)
		if err != nil {
			return nil, fmt.Errorf("clear size in products: %w", err)
		}
	}

	if removedColor != "" {
		_, err = tx.Exec(ctx,
			`UPDATE order_items SET selected_color = NULL WHERE selected_color = $1`, removedColor)
		if err != nil {
			return nil, fmt.Errorf("clear color in order items: %w", err)
		}
		_, err = tx.Exec(ctx,
			`UPDATE products SET colors = array_remove(colors, $1) WHERE $1 = ANY(colors)`, removedColor)
		if err != nil {
			return nil, fmt.Errorf("clear color in products: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	updated := *s
	updated.Version = newVersion
	return &updated, nil
}
