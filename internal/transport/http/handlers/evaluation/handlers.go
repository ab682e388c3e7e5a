package evaluationhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"inflow/internal/domain/evaluation"
	"inflow/internal/platform/requestctx"
	"inflow/internal/transport/http/api"
	"inflow/internal/transport/http/middleware"
)

type Handler struct {
	Store *evaluation.Store
}

func NewHandler(store *evaluation.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluations", func(r chi.Router) {
		r.Get("/taskType", h.handleListTaskTypes)
		r.Post("/taskType/create", h.handleCreateTaskType)
		r.Patch("/taskType/{taskTypeID}", h.handleRenameTaskType)
		r.Delete("/taskType/{taskTypeID}", h.handleDeleteTaskType)
		r.Get("/feedback/{employeeNumber}", h.handleListFeedback)
		r.Post("/feedback", h.handleCreateFeedback)
		r.Patch("/feedback/{feedbackID}", h.handleUpdateFeedback)
	})
}

func (h *Handler) handleListTaskTypes(w http.ResponseWriter, r *http.Request) {
	taskTypes, err := h.Store.ListTaskTypes(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list task types", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, taskTypes, requestctx.GetRequestID(r.Context()))
}

type taskTypeRequest struct {
	Name string `json:"taskTypeName"`
}

func (h *Handler) handleCreateTaskType(w http.ResponseWriter, r *http.Request) {
	var payload taskTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Name) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "taskTypeName required", requestctx.GetRequestID(r.Context()))
		return
	}
	taskType, err := h.Store.CreateTaskType(r.Context(), payload.Name)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create task type", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, taskType, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleRenameTaskType(w http.ResponseWriter, r *http.Request) {
	var payload taskTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Name) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "taskTypeName required", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.RenameTaskType(r.Context(), chi.URLParam(r, "taskTypeID"), payload.Name); err != nil {
		if errors.Is(err, evaluation.ErrTaskTypeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "task type not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to rename task type", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "renamed"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteTaskType(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteTaskType(r.Context(), chi.URLParam(r, "taskTypeID")); err != nil {
		if errors.Is(err, evaluation.ErrTaskTypeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "task type not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "delete_failed", "failed to delete task type", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.Store.ListFeedback(r.Context(), chi.URLParam(r, "employeeNumber"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list feedback", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, feedbacks, requestctx.GetRequestID(r.Context()))
}

type feedbackRequest struct {
	EmployeeNumber string `json:"employeeNumber"`
	Content        string `json:"content"`
	Score          int    `json:"score"`
}

func (h *Handler) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	var payload feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeNumber == "" || strings.TrimSpace(payload.Content) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeNumber and content required", requestctx.GetRequestID(r.Context()))
		return
	}
	if payload.Score < 1 || payload.Score > 5 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "score must be between 1 and 5", requestctx.GetRequestID(r.Context()))
		return
	}

	feedback, err := h.Store.CreateFeedback(r.Context(), evaluation.Feedback{
		EmployeeNumber: payload.EmployeeNumber,
		ReviewerNumber: user.EmployeeNumber,
		Content:        payload.Content,
		Score:          payload.Score,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create feedback", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, feedback, requestctx.GetRequestID(r.Context()))
}

// handleUpdateFeedback only touches feedback the caller wrote.
func (h *Handler) handleUpdateFeedback(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	var payload feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if payload.Score < 1 || payload.Score > 5 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "score must be between 1 and 5", requestctx.GetRequestID(r.Context()))
		return
	}

	err := h.Store.UpdateFeedback(r.Context(), chi.URLParam(r, "feedbackID"), user.EmployeeNumber, payload.Content, payload.Score)
	if err != nil {
		if errors.Is(err, evaluation.ErrFeedbackNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "feedback not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update feedback", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, requestctx.GetRequestID(r.Context()))
}
