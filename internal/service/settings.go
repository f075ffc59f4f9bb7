package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/akessab/dzstore-system/internal/model"
	"github.com/akessab/dzstore-system/internal/repository"
)

// GetSettings возвращает настройки магазина, лениво создавая документ
// с таблицей тарифов по умолчанию при первом обращении.
func (s *Service) GetSettings(ctx context.Context) (*model.Settings, error) {
	return s.repo.GetSettings(ctx)
}

// Настройки меняются явными типизированными командами. Каждая команда несёт
// версию документа, от которой отталкивался админ: при расхождении запись
// отклоняется с ErrSettingsConflict вместо молчаливой перезаписи.

// AddCategory добавляет категорию каталога.
func (s *Service) AddCategory(ctx context.Context, version int64, category model.Category) (*model.Settings, error) {
	if category.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidCommand)
	}

	settings, err := s.loadForUpdate(ctx, version)
	if err != nil {
		return nil, err
	}

	for _, c := range settings.Categories {
		if c.Name == category.Name {
			return nil, fmt.Errorf("%w: category %q already exists", ErrInvalidCommand, category.Name)
		}
	}

	settings.Categories = append(settings.Categories, category)
	return s.repo.UpdateSettings(ctx, settings, version, "", "")
}

// RemoveCategory удаляет категорию каталога. Изображение категории удаляется
// из внешнего хостинга после записи; сбой удаления не отменяет команду.
func (s *Service) RemoveCategory(ctx context.Context, version int64, name string) (*model.Settings, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidCommand)
	}

	settings, err := s.loadForUpdate(ctx, version)
	if err != nil {
		return nil, err
	}

	var removedImage string
	kept := settings.Categories[:0]
	for _, c := range settings.Categories {
		if c.Name == name {
			removedImage = c.Image
			continue
		}
		kept = append(kept, c)
	}
	settings.Categories = kept

	updated, err := s.repo.UpdateSettings(ctx, settings, version, "", "")
	if err != nil {
		return nil, err
	}

	if removedImage != "" && s.images != nil {
		if err := s.images.DeleteImage(ctx, removedImage); err != nil {
			s.logger.Warn("delete category image",
				zap.String("category", name), zap.String("image", removedImage), zap.Error(err))
		}
	}

	return updated, nil
}

// AddSize добавляет размер в словарь.
func (s *Service) AddSize(ctx context.Context, version int64, size string) (*model.Settings, error) {
	if size == "" {
		return nil, fmt.Errorf("%w: size is required", ErrInvalidCommand)
	}

	settings, err := s.loadForUpdate(ctx, version)
	if err != nil {
		return nil, err
	}

	settings.Sizes = appendUnique(settings.Sizes, size)
	return s.repo.UpdateSettings(ctx, settings, version, "", "")
}

// RemoveSize удаляет размер из словаря и вычищает ссылки на него из товаров
// и позиций существующих заказов.
func (s *Service) RemoveSize(ctx context.Context, version int64, size string) (*model.Settings, error) {
	if size == "" {
		return nil, fmt.Errorf("%w: size is required", ErrInvalidCommand)
	}

	settings, err := s.loadForUpdate(ctx, version)
	if err != nil {
		return nil, err
	}

	settings.Sizes = removeValue(settings.Sizes, size)
	return s.repo.UpdateSettings(ctx, settings, version, size, "")
}

// AddColor добавляет цвет в словарь.
func (s *Service) AddColor(ctx context.Context, version int64, color string) (*model.Settings, error) {
	if color == "" {
		return nil, fmt.Errorf("%w: color is required", ErrInvalidCommand)
	}

	settings, err := s.loadForUpdate(ctx, version)
	if err != nil {
		return nil, err
	}

	settings.Colors = appendUnique(settings.Colors, color)
	return s.repo.UpdateSettings(ctx, settings, version, "", "")
}

// RemoveColor удаляет цвет из словаря и вычищает ссылки на него из товаров
// и позиций существующих заказов.
func (s *Service) RemoveColor(ctx context.Context, version int64, color string) (*model.Settings, error) {
	if color == "" {
		return nil, fmt.Errorf("%w: color is required", ErrInvalidCommand)
	}

	settings, err := s.loadForUpdate(ctx, version)
	if err != nil {
		return nil, err
	}

	settings.Colors = removeValue(settings.Colors, color)
	return s.repo.UpdateSettings(ctx, settings, version, "", color)
}

// SetOrderCalculation задаёт режим агрегации заказов в аналитике.
func (s *Service) SetOrderCalculation(ctx context.Context, version int64, mode model.OrderCalculation) (*model.Settings, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown order calculation %q", ErrInvalidCommand, mode)
	}

	settings, err := s.loadForUpdate(ctx, version)
	if err != nil {
		return nil, err
	}

	settings.OrderCalculation = mode
	return s.repo.UpdateSettings(ctx, settings, version, "", "")
}

// SetDeliveryRates заменяет таблицу тарифов доставки целиком.
func (s *Service) SetDeliveryRates(ctx context.Context, version int64, rates []model.DeliveryRate) (*model.Settings, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: delivery table is empty", ErrInvalidCommand)
	}
	for _, rate := range rates {
		if rate.State == "" {
			return nil, fmt.Errorf("%w: delivery state is required", ErrInvalidCommand)
		}
		if rate.OfficePrice < 0 || rate.HomePrice < 0 {
			return nil, fmt.Errorf("%w: delivery price must not be negative", ErrInvalidCommand)
		}
		if rate.DeliveryDays < 1 {
			return nil, fmt.Errorf("%w: delivery days must be at least 1", ErrInvalidCommand)
		}
	}

	settings, err := s.loadForUpdate(ctx, version)
	if err != nil {
		return nil, err
	}

	settings.Delivery = rates
	return s.repo.UpdateSettings(ctx, settings, version, "", "")
}

// loadForUpdate читает настройки и сверяет версию до мутации, чтобы не
// применять команду к ушедшему вперёд документу. Финальную атомарную
// проверку выполняет запись в репозитории.
func (s *Service) loadForUpdate(ctx context.Context, version int64) (*model.Settings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.Version != version {
		return nil, repository.ErrSettingsConflict
	}
	return settings, nil
}

// resolveDeliveryPrice возвращает цену доставки для вилайи и места доставки.
// Вилайя без тарифа стоит 0 — в отличие от срока доставки, у которого
// свой fallback (см. deliveryDaysFor).
func resolveDeliveryPrice(settings *model.Settings, wilaya string, place model.DeliveryPlace) float64 {
	for _, rate := range settings.Delivery {
		if rate.State != wilaya {
			continue
		}
		if place == model.DeliveryPlaceOffice {
			return rate.OfficePrice
		}
		return rate.HomePrice
	}
	return 0
}

// deliveryDaysFor возвращает срок доставки для вилайи, по умолчанию
// model.DefaultDeliveryDays при отсутствии тарифа.
func deliveryDaysFor(settings *model.Settings, wilaya string) int {
	for _, rate := range settings.Delivery {
		if rate.State == wilaya {
			return rate.DeliveryDays
		}
	}
	return model.DefaultDeliveryDays
}

func appendUnique(values []string, v string) []string {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}

func removeValue(values []string, v string) []string {
	res := values[:0]
	for _, existing := range values {
		if existing != v {
			res = append(res, existing)
		}
	}
	return res
}
