package departmenthandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"inflow/internal/domain/department"
	"inflow/internal/platform/requestctx"
	"inflow/internal/transport/http/api"
	"inflow/internal/transport/http/shared"
)

type Handler struct {
	Service *department.Service
}

func NewHandler(service *department.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.Get("/hierarchy", h.handleHierarchy)
		r.Get("/dropdown", h.handleList)
		r.Get("/search/members", h.handleSearchMembers)
		r.Get("/my-department/{departmentCode}/members", h.handleMembersOf)
		r.Post("/add-department", h.handleCreate)
		r.Patch("/{departmentCode}", h.handleUpdate)
		r.Delete("/{departmentCode}", h.handleDelete)
	})
}

// handleList backs the department dropdowns, so it returns the flat list.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list departments", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, departments, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.Service.Hierarchy(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hierarchy_failed", "failed to build hierarchy", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, nodes, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleSearchMembers(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	page := shared.ParsePagination(r, 20, 100)
	members, err := h.Service.SearchMembers(r.Context(), keyword, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "search_failed", "failed to search members", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, members, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleMembersOf(w http.ResponseWriter, r *http.Request) {
	members, err := h.Service.MembersOf(r.Context(), chi.URLParam(r, "departmentCode"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "members_failed", "failed to list members", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, members, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload department.Department
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if payload.Code == "" || payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "departmentCode and departmentName required", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.Create(r.Context(), payload); err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create department", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, payload, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name       *string `json:"departmentName"`
		ParentCode *string `json:"parentDepartmentCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	err := h.Service.Update(r.Context(), chi.URLParam(r, "departmentCode"), payload.Name, payload.ParentCode)
	if err != nil {
		if errors.Is(err, department.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "department not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update department", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.Service.Delete(r.Context(), chi.URLParam(r, "departmentCode"))
	if err != nil {
		switch {
		case errors.Is(err, department.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "department not found", requestctx.GetRequestID(r.Context()))
		case errors.Is(err, department.ErrHasMembers):
			api.Fail(w, http.StatusConflict, "department_in_use", "department still has members", requestctx.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "delete_failed", "failed to delete department", requestctx.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}
