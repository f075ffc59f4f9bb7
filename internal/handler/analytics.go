package handler

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/akessab/dzstore-system/internal/model"
	"github.com/akessab/dzstore-system/internal/service"
)

// defaultAnalyticsDays задаёт глубину дневной выборки, когда клиент
// не указал диапазон.
const defaultAnalyticsDays = 30

type analyticsResponse struct {
	Summary *model.AnalyticsData `json:"summary"`
	Daily   []model.DailySales   `json:"daily"`
}

// GetAnalytics возвращает сводные показатели и дневную динамику продаж.
// Диапазон задаётся параметрами startDate и endDate в формате YYYY-MM-DD.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -(defaultAnalyticsDays - 1))

	var err error
	if v := r.URL.Query().Get("startDate"); v != "" {
		start, err = time.Parse(time.DateOnly, v)
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		end, err = time.Parse(time.DateOnly, v)
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
	}

	summary, err := h.service.GetAnalyticsData(r.Context())
	if err != nil {
		h.logger.Error("get analytics", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	daily, err := h.service.GetDailySalesData(r.Context(), start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		h.logger.Error("get daily sales", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, analyticsResponse{Summary: summary, Daily: daily})
}
