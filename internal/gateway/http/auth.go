package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/session"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/bookingapi"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/httpx"
)

// AuthHandler serves the dashboards' session endpoints.
type AuthHandler struct {
	Session *session.Manager
	Logger  *slog.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionView is the state shape returned to the dashboards.
type sessionView struct {
	Authenticated bool                             `json:"authenticated"`
	Loading       bool                             `json:"loading"`
	User          *userView                        `json:"user,omitempty"`
	Permissions   map[string]bookingapi.Permission `json:"permissions,omitempty"`
	Error         string                           `json:"error,omitempty"`
}

type userView struct {
	ID       int64  `json:"id"`
	UserName string `json:"userName"`
	RoleID   int64  `json:"roleId"`
	IsAdmin  bool   `json:"isAdmin"`
	IsActive bool   `json:"isActive"`
}

func viewOf(state session.State) sessionView {
	v := sessionView{
		Authenticated: state.Authenticated,
		Loading:       state.Loading,
		Permissions:   state.Permissions,
		Error:         state.Err,
	}
	if state.Authenticated {
		v.User = &userView{
			ID:       state.Claims.UserID,
			UserName: state.Claims.UserName,
			RoleID:   state.Claims.RoleID,
			IsAdmin:  state.Claims.IsAdmin,
			IsActive: state.Claims.IsActive,
		}
	}
	return v
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	state, err := h.Session.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		var apiErr *bookingapi.APIError
		if errors.As(err, &apiErr) {
			// Propagate the upstream failure shape unchanged.
			httpx.WriteError(w, apiErr.StatusCode, apiErr.Code, apiErr.Message)
			return
		}

		h.Logger.ErrorContext(r.Context(), "login failed", "error", err)
		httpx.WriteError(w, http.StatusBadGateway, "upstream_error", "could not reach the booking API")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, viewOf(state))
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Logout(r.Context()); err != nil {
		h.Logger.ErrorContext(r.Context(), "logout failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "could not clear the session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, viewOf(h.Session.Snapshot()))
}
