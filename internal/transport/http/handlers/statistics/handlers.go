package statisticshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inflow/internal/domain/statistics"
	"inflow/internal/platform/requestctx"
	"inflow/internal/transport/http/api"
)

type Handler struct {
	Store *statistics.Store
}

func NewHandler(store *statistics.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/statistics", func(r chi.Router) {
		r.Get("/headcount", h.handleHeadcount)
		r.Get("/overtime/{year}", h.handleOvertimeYear)
		r.Get("/overtime/{year}/{month}", h.handleOvertimeMonth)
	})
}

func (h *Handler) handleHeadcount(w http.ResponseWriter, r *http.Request) {
	headcounts, err := h.Store.HeadcountByDepartment(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "headcount_failed", "failed to load headcount", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, headcounts, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleOvertimeYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid year", requestctx.GetRequestID(r.Context()))
		return
	}
	totals, err := h.Store.OvertimeByYear(r.Context(), year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "overtime_failed", "failed to load overtime totals", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, totals, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleOvertimeMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid year", requestctx.GetRequestID(r.Context()))
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid month", requestctx.GetRequestID(r.Context()))
		return
	}
	totals, err := h.Store.OvertimeByMonth(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "overtime_failed", "failed to load overtime totals", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, totals, requestctx.GetRequestID(r.Context()))
}
