package catalog_api

import (
	"net/http"

	"ms-railway/internal/catalog"
	"ms-railway/internal/logger"
	"ms-railway/internal/utils"
)

type Handler struct {
	Service *catalog.Service
	Logger  *logger.Logger
}

func (h *Handler) SearchStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Service.SearchStations(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (h *Handler) HotStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Service.HotStations(r.Context())
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (h *Handler) SearchTrains(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	trains, err := h.Service.SearchTrains(r.Context(), q.Get("from"), q.Get("to"), q.Get("date"))
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, trains)
}
