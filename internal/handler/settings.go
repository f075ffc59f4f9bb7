package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/akessab/dzstore-system/internal/model"
	"github.com/akessab/dzstore-system/internal/repository"
	"github.com/akessab/dzstore-system/internal/service"
)

type settingsResponse struct {
	Delivery         []model.DeliveryRate `json:"delivery"`
	OrderCalculation string               `json:"orderCalculation"`
	Categories       []model.Category     `json:"categories"`
	Sizes            []string             `json:"sizes"`
	Colors           []string             `json:"colors"`
	Version          int64                `json:"version"`
}

func newSettingsResponse(s *model.Settings) settingsResponse {
	return settingsResponse{
		Delivery:         s.Delivery,
		OrderCalculation: string(s.OrderCalculation),
		Categories:       s.Categories,
		Sizes:            s.Sizes,
		Colors:           s.Colors,
		Version:          s.Version,
	}
}

// GetSettings возвращает текущие настройки магазина.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		h.logger.Error("get settings", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, newSettingsResponse(settings))
}

// Действия команды обновления настроек.
const (
	actionAddCategory         = "addCategory"
	actionRemoveCategory      = "removeCategory"
	actionAddSize             = "addSize"
	actionRemoveSize          = "removeSize"
	actionAddColor            = "addColor"
	actionRemoveColor         = "removeColor"
	actionSetOrderCalculation = "setOrderCalculation"
	actionSetDeliveryRates    = "setDeliveryRates"
)

type updateSettingsRequest struct {
	Action           string               `json:"action" validate:"required,oneof=addCategory removeCategory addSize removeSize addColor removeColor setOrderCalculation setDeliveryRates"`
	Version          int64                `json:"version" validate:"required,gt=0"`
	Category         *model.Category      `json:"category,omitempty"`
	Name             string               `json:"name,omitempty"`
	Size             string               `json:"size,omitempty"`
	Color            string               `json:"color,omitempty"`
	OrderCalculation string               `json:"orderCalculation,omitempty"`
	Delivery         []model.DeliveryRate `json:"delivery,omitempty"`
}

// UpdateSettings применяет одну команду изменения настроек. Клиент передаёт
// версию, с которой он работал; устаревшая версия отклоняется конфликтом.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if !h.decodeAndValidate(r, &req) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var (
		settings *model.Settings
		err      error
	)
	ctx := r.Context()

	switch req.Action {
	case actionAddCategory:
		if req.Category == nil || req.Category.Name == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		settings, err = h.service.AddCategory(ctx, req.Version, *req.Category)
	case actionRemoveCategory:
		if req.Name == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		settings, err = h.service.RemoveCategory(ctx, req.Version, req.Name)
	case actionAddSize:
		if req.Size == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		settings, err = h.service.AddSize(ctx, req.Version, req.Size)
	case actionRemoveSize:
		if req.Size == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		settings, err = h.service.RemoveSize(ctx, req.Version, req.Size)
	case actionAddColor:
		if req.Color == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		settings, err = h.service.AddColor(ctx, req.Version, req.Color)
	case actionRemoveColor:
		if req.Color == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		settings, err = h.service.RemoveColor(ctx, req.Version, req.Color)
	case actionSetOrderCalculation:
		settings, err = h.service.SetOrderCalculation(ctx, req.Version, model.OrderCalculation(req.OrderCalculation))
	case actionSetDeliveryRates:
		settings, err = h.service.SetDeliveryRates(ctx, req.Version, req.Delivery)
	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCommand):
			http.Error(w, "Bad Request", http.StatusBadRequest)
		case errors.Is(err, repository.ErrSettingsConflict):
			http.Error(w, "Conflict", http.StatusConflict)
		default:
			h.logger.Error("update settings", zap.Error(err), zap.String("action", req.Action))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, newSettingsResponse(settings))
}
