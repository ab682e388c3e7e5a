package employeehandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"inflow/internal/domain/employee"
	"inflow/internal/platform/requestctx"
	"inflow/internal/transport/http/api"
	"inflow/internal/transport/http/shared"
)

const (
	maxContractFileBytes      = 5 * 1024 * 1024
	maxContractMultipartBytes = 8 * 1024 * 1024
)

type Handler struct {
	Service   *employee.Service
	validator *validator.Validate
}

func NewHandler(service *employee.Service) *Handler {
	return &Handler{Service: service, validator: validator.New()}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Post("/", h.handleRegister)
		r.Get("/", h.handleList)
		r.Get("/{employeeNumber}", h.handleGet)
		r.Patch("/{employeeNumber}/contact", h.handleUpdateContact)
		r.Post("/{employeeNumber}/resign", h.handleResign)
		r.Get("/{employeeNumber}/contracts", h.handleListContracts)
		r.Post("/contracts/{contractID}/file", h.handleUploadContractFile)
	})
}

// handleRegister provisions a batch of new hires in one call.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload []employee.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if len(payload) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "at least one employee required", requestctx.GetRequestID(r.Context()))
		return
	}
	for _, input := range payload {
		if err := h.validator.Struct(input); err != nil {
			var details []string
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) {
				for _, fieldErr := range fieldErrs {
					details = append(details, fieldErr.Field()+": "+fieldErr.Tag())
				}
			}
			api.FailWithDetails(w, http.StatusBadRequest, "validation_failed", "invalid employee data", details, requestctx.GetRequestID(r.Context()))
			return
		}
	}

	created, err := h.Service.Register(r.Context(), payload)
	if err != nil {
		if errors.Is(err, employee.ErrDuplicateEmployee) {
			api.Fail(w, http.StatusConflict, "duplicate_employee", "employee number already registered", requestctx.GetRequestID(r.Context()))
			return
		}
		slog.Error("employee registration failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
		api.Fail(w, http.StatusBadRequest, "register_failed", "could not register employees", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	employees, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list employees", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeNumber"))
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "get_failed", "failed to load employee", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var payload employee.ContactUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Service.UpdateContact(r.Context(), chi.URLParam(r, "employeeNumber"), payload)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update employee", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleResign(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Resign(r.Context(), chi.URLParam(r, "employeeNumber")); err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "resign_failed", "failed to resign employee", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "resigned"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.Service.Contracts(r.Context(), chi.URLParam(r, "employeeNumber"))
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "contracts_failed", "failed to list contracts", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, contracts, requestctx.GetRequestID(r.Context()))
}

// handleUploadContractFile registers the signed copy of a contract. A
// contract that already has a file keeps it; re-uploads are refused.
func (h *Handler) handleUploadContractFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxContractMultipartBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "multipart form required", requestctx.GetRequestID(r.Context()))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "file field required", requestctx.GetRequestID(r.Context()))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxContractFileBytes+1))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "failed to read file", requestctx.GetRequestID(r.Context()))
		return
	}
	if len(data) > maxContractFileBytes {
		api.Fail(w, http.StatusRequestEntityTooLarge, "file_too_large", "contract file exceeds size limit", requestctx.GetRequestID(r.Context()))
		return
	}

	contract, err := h.Service.RegisterSignedContract(r.Context(), chi.URLParam(r, "contractID"), header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, employee.ErrContractNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "contract not found", requestctx.GetRequestID(r.Context()))
		case errors.Is(err, employee.ErrContractHasFile):
			api.Fail(w, http.StatusConflict, "contract_file_exists", "contract already has a registered file", requestctx.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "upload_failed", "failed to register contract file", requestctx.GetRequestID(r.Context()))
		}
		return
	}
	api.Created(w, contract, requestctx.GetRequestID(r.Context()))
}
