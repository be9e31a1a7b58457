package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/model"
	"storefront/internal/payment"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles checkout, payment callbacks and order reads.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// parseOrderID reads an order ID, treating malformed IDs as not found.
func (h *OrderHandler) parseOrderID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "Order not found!", h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /api/shop/order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	var req model.CheckoutRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	resp, err := h.service.CreateOrder(r.Context(), p.UserID, req.AddressID, req.PaymentMethod)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListMine handles GET /api/shop/order.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	filter, err := orderFilter(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	filter.UserID = p.UserID

	orders, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetMine handles GET /api/shop/order/{id}.
func (h *OrderHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseOrderID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.service.GetOrderForUser(r.Context(), p.UserID, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Capture handles POST /api/shop/order/capture. Only the order's owner may
// report its payment.
func (h *OrderHandler) Capture(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	var req model.CaptureRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.PaymentID == "" || req.PayerID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "paymentId and payerId are required", h.logger)
		return
	}
	id, ok := h.parseOrderID(w, req.OrderID)
	if !ok {
		return
	}

	if _, err := h.service.GetOrderForUser(r.Context(), p.UserID, id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	order, err := h.service.ConfirmPayment(r.Context(), id, req.PaymentID, req.PayerID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Cancel handles POST /api/shop/order/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	var req model.CancelPaymentRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	id, ok := h.parseOrderID(w, req.OrderID)
	if !ok {
		return
	}

	if _, err := h.service.GetOrderForUser(r.Context(), p.UserID, id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	order, err := h.service.FailPayment(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Return handles GET /api/shop/order/return, the target of the gateway
// redirect. It carries no bearer token.
func (h *OrderHandler) Return(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cancelled, _ := strconv.ParseBool(q.Get("cancel"))

	order, err := h.service.HandleReturn(r.Context(), payment.ReturnParams{
		Token:     q.Get("token"),
		PaymentID: q.Get("paymentId"),
		PayerID:   q.Get("PayerID"),
		Cancelled: cancelled,
	})
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// AdminList handles GET /api/admin/orders.
func (h *OrderHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	filter, err := orderFilter(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	filter.UserID = r.URL.Query().Get("userId")

	orders, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// AdminGet handles GET /api/admin/orders/{id}.
func (h *OrderHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseOrderID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PUT /api/admin/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseOrderID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req model.OrderStatusRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	order, err := h.service.SetStatus(r.Context(), p.UserID, id, req.OrderStatus)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func orderFilter(r *http.Request) (model.OrderFilter, error) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return model.OrderFilter{}, err
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		return model.OrderFilter{}, err
	}

	filter := model.OrderFilter{Limit: limit, Offset: offset}
	if s := r.URL.Query().Get("orderStatus"); s != "" {
		status, err := model.ParseOrderStatus(s)
		if err != nil {
			return model.OrderFilter{}, model.NewValidationError(err.Error())
		}
		filter.OrderStatus = status
	}
	switch s := model.PaymentStatus(r.URL.Query().Get("paymentStatus")); s {
	case "":
	case model.PaymentStatusPending, model.PaymentStatusPaid, model.PaymentStatusFailed:
		filter.PaymentStatus = s
	default:
		return model.OrderFilter{}, model.NewValidationError("unknown payment status " + string(s))
	}
	return filter, nil
}
