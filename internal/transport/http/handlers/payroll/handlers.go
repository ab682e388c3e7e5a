package payrollhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"inflow/internal/auth"
	"inflow/internal/domain/payroll"
	"inflow/internal/platform/requestctx"
	"inflow/internal/transport/http/api"
	"inflow/internal/transport/http/middleware"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payrolls", func(r chi.Router) {
		r.Get("/details", h.handleDetails)
		r.Get("/all", h.handleAll)
		r.Get("/period", h.handlePeriod)
		r.HandleFunc("/list", h.handleListByYear)
		r.Get("/payslip", h.handlePayslip)
		r.Post("/", h.handleCreate)
	})
	r.Route("/non-taxable-payrolls", func(r chi.Router) {
		r.Get("/", h.handleNonTaxable)
	})
	r.Route("/irregular-allowances", func(r chi.Router) {
		r.Get("/", h.handleIrregularAllowances)
		r.Post("/", h.handleCreateIrregularAllowance)
	})
	r.Route("/severance-pay", func(r chi.Router) {
		r.Get("/estimate", h.handleSeveranceSelf)
		r.Get("/calculate/{employeeNumber}", h.handleSeveranceFor)
	})
}

// subject resolves whose records the request is about: the caller's own, or,
// for HR and managers, the employee named in the query.
func subject(r *http.Request) (string, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		return "", false
	}
	if other := r.URL.Query().Get("employeeNumber"); other != "" && user.Role != auth.RoleEmployee {
		return other, true
	}
	return user.EmployeeNumber, true
}

func yearMonth(r *http.Request) (int, int, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, errors.New("invalid year")
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("invalid month")
	}
	return year, month, nil
}

func (h *Handler) handleDetails(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := subject(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	year, month, err := yearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	detail, err := h.Service.DetailsByMonth(r.Context(), employeeNumber, year, month)
	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "no payroll for that month", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "details_failed", "failed to load payroll", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, detail, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := subject(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	payrolls, err := h.Service.Store.ListAll(r.Context(), employeeNumber)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list payrolls", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, payrolls, requestctx.GetRequestID(r.Context()))
}

// handlePeriod returns one month's summary without the item breakdown.
func (h *Handler) handlePeriod(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := subject(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	year, month, err := yearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	summary, err := h.Service.Store.GetByMonth(r.Context(), employeeNumber, year, month)
	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "no payroll for that month", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "period_failed", "failed to load payroll", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListByYear(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := subject(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid year", requestctx.GetRequestID(r.Context()))
			return
		}
		year = parsed
	}

	payrolls, err := h.Service.Store.ListByYear(r.Context(), employeeNumber, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list payrolls", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, payrolls, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := subject(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	year, month, err := yearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	url, err := h.Service.GeneratePayslipPDF(r.Context(), employeeNumber, year, month)
	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "no payroll for that month", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to generate payslip", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"url": url}, requestctx.GetRequestID(r.Context()))
}

type createRequest struct {
	EmployeeNumber string `json:"employeeNumber"`
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	BaseSalary     int64  `json:"baseSalary"`
	Lines          []struct {
		Name    string `json:"name"`
		Type    string `json:"itemType"`
		Amount  int64  `json:"amount"`
		Taxable bool   `json:"taxable"`
	} `json:"items"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	if user.Role != auth.RoleHR && user.Role != auth.RoleAdmin {
		api.Fail(w, http.StatusForbidden, "forbidden", "hr role required", requestctx.GetRequestID(r.Context()))
		return
	}

	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeNumber == "" || payload.Month < 1 || payload.Month > 12 || payload.BaseSalary <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeNumber, year, month and baseSalary required", requestctx.GetRequestID(r.Context()))
		return
	}

	lines := make([]payroll.InputLine, 0, len(payload.Lines))
	for _, line := range payload.Lines {
		lines = append(lines, payroll.InputLine{Name: line.Name, Type: line.Type, Amount: line.Amount, Taxable: line.Taxable})
	}

	created, err := h.Service.Store.Create(r.Context(), payroll.Payroll{
		EmployeeNumber: payload.EmployeeNumber,
		Year:           payload.Year,
		Month:          payload.Month,
		BaseSalary:     payload.BaseSalary,
	}, lines)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create payroll", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

// handleNonTaxable returns only the non-taxable earnings of one month.
func (h *Handler) handleNonTaxable(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := subject(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	year, month, err := yearMonth(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	detail, err := h.Service.DetailsByMonth(r.Context(), employeeNumber, year, month)
	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "no payroll for that month", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to load payroll", requestctx.GetRequestID(r.Context()))
		return
	}

	nonTaxable := make([]payroll.Item, 0)
	for _, item := range detail.Items {
		if item.ItemType == payroll.ItemTypeEarning && !item.Taxable {
			nonTaxable = append(nonTaxable, item)
		}
	}
	api.Success(w, nonTaxable, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleIrregularAllowances(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := subject(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid year", requestctx.GetRequestID(r.Context()))
			return
		}
		year = parsed
	}

	allowances, err := h.Service.Store.IrregularAllowances(r.Context(), employeeNumber, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list allowances", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, allowances, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateIrregularAllowance(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	if user.Role != auth.RoleHR && user.Role != auth.RoleAdmin {
		api.Fail(w, http.StatusForbidden, "forbidden", "hr role required", requestctx.GetRequestID(r.Context()))
		return
	}

	var payload payroll.IrregularAllowance
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeNumber == "" || payload.Name == "" || payload.Amount <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeNumber, name and amount required", requestctx.GetRequestID(r.Context()))
		return
	}

	created, err := h.Service.Store.CreateIrregularAllowance(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create allowance", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleSeveranceSelf(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	h.severance(w, r, user.EmployeeNumber)
}

func (h *Handler) handleSeveranceFor(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	employeeNumber := chi.URLParam(r, "employeeNumber")
	if employeeNumber != user.EmployeeNumber && user.Role == auth.RoleEmployee {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", requestctx.GetRequestID(r.Context()))
		return
	}
	h.severance(w, r, employeeNumber)
}

func (h *Handler) severance(w http.ResponseWriter, r *http.Request, employeeNumber string) {
	estimate, err := h.Service.Severance(r.Context(), employeeNumber)
	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "estimate_failed", "failed to estimate severance", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, estimate, requestctx.GetRequestID(r.Context()))
}
