package catering_api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-railway/internal/apperr"
	"ms-railway/internal/auth"
	"ms-railway/internal/catering"
	"ms-railway/internal/logger"
	"ms-railway/internal/utils"
)

type Handler struct {
	Service *catering.Service
	Logger  *logger.Logger
}

func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.Service.ListBrands(r.Context())
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, brands)
}

func (h *Handler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var in catering.BrandInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	b, err := h.Service.CreateBrand(r.Context(), in)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Brand created", "brand", b)
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	var brandID int64
	if raw := r.URL.Query().Get("brandId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.WriteError(w, h.Logger, apperr.ValidationError{Field: "brandId", Msg: "brandId must be a number"})
			return
		}
		brandID = id
	}

	items, err := h.Service.ListItems(r.Context(), brandID, r.URL.Query().Get("itemType"))
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var in catering.ItemInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	item, err := h.Service.CreateItem(r.Context(), in)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Item created", "item", item)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var in catering.OrderInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	o, err := h.Service.CreateOrder(r.Context(), userID, in)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Catering order created", "catering_order", o)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	orders, err := h.Service.ListOrders(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, h.Logger, apperr.NotFound("catering order"))
		return
	}
	o, err := h.Service.PayOrder(r.Context(), userID, id)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Catering order paid", "catering_order", o)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, h.Logger, apperr.NotFound("catering order"))
		return
	}
	o, err := h.Service.CancelOrder(r.Context(), userID, id)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Catering order cancelled", "catering_order", o)
}
