package authhandler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"inflow/internal/auth"
	"inflow/internal/platform/requestctx"
	"inflow/internal/platform/sms"
	"inflow/internal/transport/http/api"
)

// PrincipalStore is the slice of the employee store the login and password
// reset flows need.
type PrincipalStore interface {
	FindPrincipal(ctx context.Context, employeeNumber string) (auth.Principal, error)
	UpdatePassword(ctx context.Context, employeeNumber, hash string) error
	CreatePasswordReset(ctx context.Context, employeeNumber, tokenHash string, expires time.Time) error
	PasswordResetEmployeeNumber(ctx context.Context, tokenHash string) (string, error)
	MarkPasswordResetUsed(ctx context.Context, tokenHash string) error
	PhoneNumber(ctx context.Context, employeeNumber string) (string, error)
}

type Handler struct {
	Codec *auth.Codec
	Store PrincipalStore
	SMS   sms.Sender
}

func NewHandler(codec *auth.Codec, store PrincipalStore, sender sms.Sender) *Handler {
	return &Handler{Codec: codec, Store: store, SMS: sender}
}

type loginRequest struct {
	EmployeeNumber string `json:"employeeNumber"`
	Password       string `json:"password"`
}

type resetRequest struct {
	EmployeeNumber string `json:"employeeNumber"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	principal, err := h.Store.FindPrincipal(r.Context(), payload.EmployeeNumber)
	if err != nil {
		// Burn a comparison so a missing account costs the same as a wrong
		// password.
		auth.BurnComparison(payload.Password)
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := auth.CheckPassword(principal.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}

	token, err := h.Codec.Issue(principal.EmployeeNumber, principal.Role)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestctx.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	api.Success(w, map[string]any{
		"token":          token,
		"employeeNumber": principal.EmployeeNumber,
		"role":           principal.Role,
		"expiresIn":      int(h.Codec.TTL().Seconds()),
	}, requestctx.GetRequestID(r.Context()))
}

// HandleRequestReset always answers the same way so it cannot be used to
// probe which employee numbers exist.
func (h *Handler) HandleRequestReset(w http.ResponseWriter, r *http.Request) {
	var payload resetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	if _, err := h.Store.FindPrincipal(r.Context(), payload.EmployeeNumber); err == nil {
		token, err := auth.NewResetToken()
		if err != nil {
			slog.Warn("password reset token generation failed", "employeeNumber", payload.EmployeeNumber, "err", err)
			api.Success(w, map[string]string{"status": "reset_requested"}, requestctx.GetRequestID(r.Context()))
			return
		}
		expires := time.Now().Add(2 * time.Hour)
		if err := h.Store.CreatePasswordReset(r.Context(), payload.EmployeeNumber, auth.HashToken(token), expires); err != nil {
			slog.Warn("password reset insert failed", "employeeNumber", payload.EmployeeNumber, "err", err)
		} else if phone, err := h.Store.PhoneNumber(r.Context(), payload.EmployeeNumber); err == nil && phone != "" {
			if err := h.SMS.Send(r.Context(), phone, "Password reset code: "+token); err != nil {
				slog.Warn("password reset sms failed", "employeeNumber", payload.EmployeeNumber, "err", err)
			}
		}
	}

	api.Success(w, map[string]string{"status": "reset_requested"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	employeeNumber, err := h.Store.PasswordResetEmployeeNumber(r.Context(), auth.HashToken(payload.Token))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_token", "invalid or expired token", requestctx.GetRequestID(r.Context()))
		return
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to update password", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.UpdatePassword(r.Context(), employeeNumber, hash); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update password", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.MarkPasswordResetUsed(r.Context(), auth.HashToken(payload.Token)); err != nil {
		slog.Warn("password reset mark used failed", "err", err)
	}

	api.Success(w, map[string]string{"status": "password_reset"}, requestctx.GetRequestID(r.Context()))
}
