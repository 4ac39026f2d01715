package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/skilldesk/marketplace/internal/httputil"
	"github.com/skilldesk/marketplace/internal/logger"
	"github.com/skilldesk/marketplace/internal/reporting"
	"go.uber.org/zap"
)

type BestProfessionResponse struct {
	BestProfession string `json:"bestProfession"`
}

type BestClientsResponse struct {
	BestClients []reporting.ClientTotal `json:"bestClients"`
}

func (h *Handler) BestProfession(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}

	profession, err := h.Reports.BestProfession(r.Context(), start, end)
	if err != nil {
		logger.Log.Error("best-profession query failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "report failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BestProfessionResponse{BestProfession: profession})
}

func (h *Handler) BestClients(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}

	limit := 1
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	clients, err := h.Reports.BestClients(r.Context(), start, end, limit)
	if err != nil {
		logger.Log.Error("best-clients query failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "report failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BestClientsResponse{BestClients: clients})
}

func parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	start, err := parseDate(r.URL.Query().Get("start"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid start date")
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDate(r.URL.Query().Get("end"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid end date")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
