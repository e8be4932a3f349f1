package order_api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-railway/internal/apperr"
	"ms-railway/internal/auth"
	"ms-railway/internal/logger"
	"ms-railway/internal/models"
	"ms-railway/internal/order"
	"ms-railway/internal/utils"
)

type Handler struct {
	OrderService *order.OrderService
	Logger       *logger.Logger
}

func NewHandler(orderService *order.OrderService, log *logger.Logger) *Handler {
	return &Handler{OrderService: orderService, Logger: log}
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var in order.CreateOrderInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}

	o, err := h.OrderService.CreateOrder(r.Context(), userID, in)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Order created", "order", o)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	orders, err := h.OrderService.ListOrders(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	o, err := h.OrderService.GetOrder(r.Context(), userID, id)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.OrderService.PayOrder, "Order paid")
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.OrderService.CancelOrder, "Order cancelled")
}

func (h *Handler) RefundOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.OrderService.RefundOrder, "Order refunded")
}

func (h *Handler) BoardingPass(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	png, err := h.OrderService.BoardingPass(r.Context(), userID, id)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

type transitionFunc func(ctx context.Context, userID, id int64) (*models.Order, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc, message string) {
	userID, _ := auth.UserID(r.Context())
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	o, err := fn(r.Context(), userID, id)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, message, "order", o)
}

// orderID treats a non-numeric id as a missing order.
func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, h.Logger, apperr.NotFound("order"))
		return 0, false
	}
	return id, true
}
