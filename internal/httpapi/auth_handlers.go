package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"acadcollab.org/internal/audit"
	"acadcollab.org/internal/identity"
	"acadcollab.org/internal/obs"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Ticket   string `json:"token"`
	Password string `json:"newPassword"`
}

type sessionResponse struct {
	User  identity.PublicUser `json:"user"`
	Token string              `json:"token"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.identity.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrDuplicateEmail):
			writeError(w, r, http.StatusConflict, "email already registered")
		case errors.Is(err, identity.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			obs.LogError("register failed", err, nil)
			writeError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	token, _, err := a.authority.Issue(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		obs.LogError("token issue failed", err, nil)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	audit.LogEvent(r.Context(), "auth.register", map[string]any{
		"user_id": strconv.FormatInt(user.ID, 10),
		"role":    string(user.Role),
	})
	writeJSON(w, http.StatusCreated, sessionResponse{User: user.Public(), Token: token})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.identity.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		obs.LogError("login failed", err, nil)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	token, _, err := a.authority.Issue(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		obs.LogError("token issue failed", err, nil)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"user_id": strconv.FormatInt(user.ID, 10),
	})
	writeJSON(w, http.StatusOK, sessionResponse{User: user.Public(), Token: token})
}

// handleForgotPassword answers 200 whether or not the email is known.
func (a *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ticket, expiresAt, err := a.identity.IssueResetTicket(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		obs.LogError("reset ticket issue failed", err, nil)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if ticket != "" {
		if err := a.notifier.PasswordReset(r.Context(), req.Email, ticket, expiresAt); err != nil {
			obs.LogError("reset notification failed", err, nil)
		}
	}

	audit.LogEvent(r.Context(), "auth.reset.request", nil)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.identity.ConsumeResetTicket(r.Context(), req.Ticket, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidTicket):
			writeError(w, r, http.StatusBadRequest, "invalid or expired ticket")
		case errors.Is(err, identity.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			obs.LogError("reset consume failed", err, nil)
			writeError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	audit.LogEvent(r.Context(), "auth.reset.consume", map[string]any{
		"user_id": strconv.FormatInt(user.ID, 10),
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
