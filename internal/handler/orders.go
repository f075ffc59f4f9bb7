package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/akessab/dzstore-system/internal/model"
	"github.com/akessab/dzstore-system/internal/repository"
	"github.com/akessab/dzstore-system/internal/service"
)

type orderItemRequest struct {
	ProductID     int64   `json:"productId" validate:"required,gt=0"`
	Quantity      int     `json:"quantity" validate:"required,min=1"`
	Price         float64 `json:"price" validate:"min=0"`
	SelectedColor *string `json:"selectedColor"`
	SelectedSize  *string `json:"selectedSize"`
}

type createOrderRequest struct {
	OrderNumber   string             `json:"orderNumber"`
	FullName      string             `json:"fullName" validate:"required"`
	PhoneNumber   string             `json:"phoneNumber" validate:"required"`
	Wilaya        string             `json:"wilaya" validate:"required"`
	Baladia       string             `json:"baladia" validate:"required"`
	DeliveryPlace string             `json:"deliveryPlace" validate:"required,oneof=home office"`
	Products      []orderItemRequest `json:"products" validate:"required,min=1,dive"`
	CouponCode    string             `json:"couponCode"`
	TotalAmount   float64            `json:"totalAmount" validate:"min=0"`
}

type orderItemResponse struct {
	ProductID     int64   `json:"productId"`
	ProductName   string  `json:"productName,omitempty"`
	ProductImage  string  `json:"productImage,omitempty"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	SelectedColor *string `json:"selectedColor,omitempty"`
	SelectedSize  *string `json:"selectedSize,omitempty"`
}

type couponSnapshotResponse struct {
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discountAmount"`
}

type orderResponse struct {
	ID            int64                   `json:"id"`
	OrderNumber   string                  `json:"orderNumber"`
	FullName      string                  `json:"fullName"`
	PhoneNumber   string                  `json:"phoneNumber"`
	Wilaya        string                  `json:"wilaya"`
	Baladia       string                  `json:"baladia"`
	DeliveryPlace string                  `json:"deliveryPlace"`
	DeliveryPrice float64                 `json:"deliveryPrice"`
	Products      []orderItemResponse     `json:"products"`
	Coupon        *couponSnapshotResponse `json:"coupon,omitempty"`
	TotalAmount   float64                 `json:"totalAmount"`
	IsConfirmed   bool                    `json:"isConfirmed"`
	ConfirmedAt   *time.Time              `json:"confirmedAt,omitempty"`
	DeliveryPhone *string                 `json:"deliveryPhone,omitempty"`
	IsAskForPhone bool                    `json:"isAskForPhone"`
	CreatedAt     time.Time               `json:"createdAt"`
}

func newOrderResponse(o *model.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			ProductImage:  item.ProductImage,
			Quantity:      item.Quantity,
			Price:         item.Price,
			SelectedColor: item.SelectedColor,
			SelectedSize:  item.SelectedSize,
		})
	}

	resp := orderResponse{
		ID:            o.ID,
		OrderNumber:   o.Number,
		FullName:      o.FullName,
		PhoneNumber:   o.PhoneNumber,
		Wilaya:        o.Wilaya,
		Baladia:       o.Baladia,
		DeliveryPlace: string(o.DeliveryPlace),
		DeliveryPrice: o.DeliveryPrice,
		Products:      items,
		TotalAmount:   o.TotalAmount,
		IsConfirmed:   o.IsConfirmed,
		ConfirmedAt:   o.ConfirmedAt,
		DeliveryPhone: o.DeliveryPhone,
		IsAskForPhone: o.IsAskForPhone,
		CreatedAt:     o.CreatedAt,
	}
	if o.Coupon != nil {
		resp.Coupon = &couponSnapshotResponse{
			Code:           o.Coupon.Code,
			DiscountAmount: o.Coupon.DiscountAmount,
		}
	}
	return resp
}

// CreateOrder обрабатывает оформление заказа покупателем.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !h.decodeAndValidate(r, &req) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Products))
	for _, item := range req.Products {
		items = append(items, service.OrderItemInput{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			Price:         item.Price,
			SelectedColor: item.SelectedColor,
			SelectedSize:  item.SelectedSize,
		})
	}

	order, err := h.service.CreateOrder(r.Context(), service.CreateOrderInput{
		OrderNumber:   req.OrderNumber,
		FullName:      req.FullName,
		PhoneNumber:   req.PhoneNumber,
		Wilaya:        req.Wilaya,
		Baladia:       req.Baladia,
		DeliveryPlace: model.DeliveryPlace(req.DeliveryPlace),
		Items:         items,
		CouponCode:    req.CouponCode,
		TotalAmount:   req.TotalAmount,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrder) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		h.logger.Error("create order", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, newOrderResponse(order))
}

// GetOrders возвращает все заказы, отсортированные от новых к старым.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetOrders(r.Context())
	if err != nil {
		h.logger.Error("get orders", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, newOrderResponse(&orders[i]))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type editOrderRequest struct {
	DeliveryPhone string `json:"deliveryPhone" validate:"required"`
}

// UpdateDeliveryPhone сохраняет телефон доставки для заказа.
func (h *Handler) UpdateDeliveryPhone(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromURL(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var req editOrderRequest
	if !h.decodeAndValidate(r, &req) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateDeliveryPhone(r.Context(), id, req.DeliveryPhone); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.logger.Error("update delivery phone", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteOrder удаляет заказ вместе с его позициями.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromURL(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.logger.Error("delete order", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type toggleConfirmRequest struct {
	OrderIDs []int64 `json:"orderIds" validate:"required,min=1,dive,gt=0"`
}

type toggleConfirmResponse struct {
	UpdatedCount int64 `json:"updatedCount"`
	NewStatus    bool  `json:"newStatus"`
}

// ToggleConfirmOrders переключает статус подтверждения пакета заказов.
func (h *Handler) ToggleConfirmOrders(w http.ResponseWriter, r *http.Request) {
	var req toggleConfirmRequest
	if !h.decodeAndValidate(r, &req) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	count, newStatus, err := h.service.ToggleConfirmOrders(r.Context(), req.OrderIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyBatch):
			http.Error(w, "Bad Request", http.StatusBadRequest)
		case errors.Is(err, repository.ErrOrderNotFound):
			http.Error(w, "Not Found", http.StatusNotFound)
		default:
			h.logger.Error("toggle confirm orders", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, toggleConfirmResponse{UpdatedCount: count, NewStatus: newStatus})
}

type followOrderRequest struct {
	OrderNumber string `json:"orderNumber" validate:"required"`
}

type trackingResponse struct {
	OrderNumber       string  `json:"orderNumber"`
	IsConfirmed       bool    `json:"isConfirmed"`
	Address           string  `json:"address"`
	EstimatedDelivery int64   `json:"estimatedDelivery"`
	DeliveryPhone     *string `json:"deliveryPhone,omitempty"`
	IsAskForPhone     bool    `json:"isAskForPhone"`
}

// FollowOrder возвращает покупателю публичный статус заказа по номеру.
func (h *Handler) FollowOrder(w http.ResponseWriter, r *http.Request) {
	var req followOrderRequest
	if !h.decodeAndValidate(r, &req) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	info, err := h.service.FollowOrder(r.Context(), req.OrderNumber)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.logger.Error("follow order", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, trackingResponse{
		OrderNumber:       info.Number,
		IsConfirmed:       info.IsConfirmed,
		Address:           info.Address,
		EstimatedDelivery: info.EstimatedDelivery,
		DeliveryPhone:     info.DeliveryPhone,
		IsAskForPhone:     info.IsAskForPhone,
	})
}

// AskForPhone помечает заказ флагом запроса телефона у покупателя.
func (h *Handler) AskForPhone(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "orderNumber")
	if number == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.service.AskForPhone(r.Context(), number); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.logger.Error("ask for phone", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
