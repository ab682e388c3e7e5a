package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inflow/internal/auth"
	"inflow/internal/domain/attendance"
	"inflow/internal/platform/requestctx"
	"inflow/internal/transport/http/api"
	"inflow/internal/transport/http/middleware"
	"inflow/internal/transport/http/shared"
)

type Handler struct {
	Store *attendance.Store
}

func NewHandler(store *attendance.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance-requests", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{requestID}", h.handleGet)
		r.Post("/{requestID}/approve", h.handleApprove)
		r.Post("/{requestID}/reject", h.handleReject)
		r.Delete("/{requestID}", h.handleDelete)
	})
}

type createRequest struct {
	RequestType string `json:"requestType"`
	StartAt     string `json:"startAt"`
	EndAt       string `json:"endAt"`
	Reason      string `json:"reason"`
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
	startAt, err := shared.ParseDate(payload.StartAt)
	if err != nil || startAt.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid startAt", requestctx.GetRequestID(r.Context()))
		return
	}
	endAt, err := shared.ParseDate(payload.EndAt)
	if err != nil || endAt.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid endAt", requestctx.GetRequestID(r.Context()))
		return
	}
	if endAt.Before(startAt) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "endAt before startAt", requestctx.GetRequestID(r.Context()))
		return
	}

	created, err := h.Store.Create(r.Context(), attendance.Request{
		EmployeeNumber: user.EmployeeNumber,
		RequestType:    payload.RequestType,
		StartAt:        startAt,
		EndAt:          endAt,
		Reason:         payload.Reason,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create attendance request", requestctx.GetRequestID(r.Context()))
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

	// HR and managers may inspect another employee's requests.
	employeeNumber := user.EmployeeNumber
	if other := r.URL.Query().Get("employeeNumber"); other != "" && user.Role != auth.RoleEmployee {
		employeeNumber = other
	}

	page := shared.ParsePagination(r, 50, 200)
	requests, err := h.Store.ListByEmployee(r.Context(), employeeNumber, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list attendance requests", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	request, err := h.Store.Get(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		if errors.Is(err, attendance.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "attendance request not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "get_failed", "failed to load attendance request", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, request, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, attendance.StatusApproved)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, attendance.StatusRejected)
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

	if err := h.Store.UpdateStatus(r.Context(), chi.URLParam(r, "requestID"), status); err != nil {
		if errors.Is(err, attendance.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "attendance request not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "decide_failed", "failed to update attendance request", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": status}, requestctx.GetRequestID(r.Context()))
}

// handleDelete withdraws the caller's own pending request.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "requestID"), user.EmployeeNumber); err != nil {
		if errors.Is(err, attendance.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "no pending request to withdraw", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "delete_failed", "failed to withdraw attendance request", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "withdrawn"}, requestctx.GetRequestID(r.Context()))
}
