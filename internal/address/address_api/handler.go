package address_api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-railway/internal/address"
	"ms-railway/internal/apperr"
	"ms-railway/internal/auth"
	"ms-railway/internal/logger"
	"ms-railway/internal/utils"
)

type Handler struct {
	Service *address.Service
	Logger  *logger.Logger
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	addresses, err := h.Service.List(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, addresses)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var in address.CreateInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}

	a, err := h.Service.Create(r.Context(), userID, in)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Address added", "address", a)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, h.Logger, apperr.NotFound("address"))
		return
	}

	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Address deleted", "", nil)
}
