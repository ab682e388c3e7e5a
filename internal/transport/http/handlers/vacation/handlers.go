package vacationhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inflow/internal/auth"
	"inflow/internal/domain/vacation"
	"inflow/internal/platform/requestctx"
	"inflow/internal/transport/http/api"
	"inflow/internal/transport/http/middleware"
	"inflow/internal/transport/http/shared"
)

type Handler struct {
	Store *vacation.Store
}

func NewHandler(store *vacation.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/vacations", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{vacationID}", h.handleGet)
		r.Post("/{vacationID}/approve", h.handleApprove)
		r.Post("/{vacationID}/reject", h.handleReject)
		r.Post("/{vacationID}/cancel", h.handleCancel)
	})
}

type createRequest struct {
	VacationType string `json:"vacationType"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Reason       string `json:"reason"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	startDate, err := shared.ParseDate(payload.StartDate)
	if err != nil || startDate.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid startDate", requestctx.GetRequestID(r.Context()))
		return
	}
	endDate, err := shared.ParseDate(payload.EndDate)
	if err != nil || endDate.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid endDate", requestctx.GetRequestID(r.Context()))
		return
	}

	created, err := h.Store.Create(r.Context(), vacation.Vacation{
		EmployeeNumber: user.EmployeeNumber,
		VacationType:   payload.VacationType,
		StartDate:      startDate,
		EndDate:        endDate,
		Reason:         payload.Reason,
	})
	if err != nil {
		if errors.Is(err, vacation.ErrInvalidRange) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "endDate before startDate", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create vacation", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	employeeNumber := user.EmployeeNumber
	if other := r.URL.Query().Get("employeeNumber"); other != "" && user.Role != auth.RoleEmployee {
		employeeNumber = other
	}

	page := shared.ParsePagination(r, 50, 200)
	vacations, err := h.Store.ListByEmployee(r.Context(), employeeNumber, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list vacations", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, vacations, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	vac, err := h.Store.Get(r.Context(), chi.URLParam(r, "vacationID"))
	if err != nil {
		if errors.Is(err, vacation.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "vacation not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "get_failed", "failed to load vacation", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, vac, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, vacation.StatusApproved)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, vacation.StatusRejected)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, status string) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	if user.Role == auth.RoleEmployee {
		api.Fail(w, http.StatusForbidden, "forbidden", "approver role required", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.UpdateStatus(r.Context(), chi.URLParam(r, "vacationID"), status); err != nil {
		if errors.Is(err, vacation.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "vacation not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "decide_failed", "failed to update vacation", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": status}, requestctx.GetRequestID(r.Context()))
}

// handleCancel lets the requester take back their own pending vacation.
func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "vacationID"), user.EmployeeNumber); err != nil {
		if errors.Is(err, vacation.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "no pending vacation to cancel", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "cancel_failed", "failed to cancel vacation", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": vacation.StatusCanceled}, requestctx.GetRequestID(r.Context()))
}
