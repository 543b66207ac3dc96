package handlers

import (
	"errors"
	"net/http"

	"github.com/amaumene/showtrack/internal/api/middleware"
	"github.com/amaumene/showtrack/internal/controllers"
	"github.com/amaumene/showtrack/internal/models"
	"github.com/sirupsen/logrus"
)

// AuthHandler serves the username-only account endpoints
type AuthHandler struct {
	accounts *controllers.AccountController
	gate     *middleware.SessionGate
	logger   *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts *controllers.AccountController, gate *middleware.SessionGate, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		gate:     gate,
		logger:   logger,
	}
}

type usernameRequest struct {
	Username string `json:"username"`
}

// CheckUserResponse reports whether a username is taken
type CheckUserResponse struct {
	Exists bool         `json:"exists"`
	User   *models.User `json:"user"`
}

// CheckUser handles POST /api/auth/check-user
func (h *AuthHandler) CheckUser(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err, "Could not check user")
		return
	}

	user, err := h.accounts.CheckUser(r.Context(), req.Username)
	if err != nil {
		writeError(w, h.logger, err, "Could not check user")
		return
	}
	writeJSON(w, http.StatusOK, CheckUserResponse{Exists: user != nil, User: user})
}

// CreateUser handles POST /api/auth/create-user and logs the new user in
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err, "Could not create user")
		return
	}

	user, err := h.accounts.CreateUser(r.Context(), req.Username)
	if err != nil {
		writeError(w, h.logger, err, "Could not create user")
		return
	}
	if err := h.gate.Start(w, r, user.ID); err != nil {
		writeError(w, h.logger, err, "Could not create session")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err, "Could not log in")
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Username)
	if errors.Is(err, models.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeError(w, h.logger, err, "Could not log in")
		return
	}
	if err := h.gate.Start(w, r, user.ID); err != nil {
		writeError(w, h.logger, err, "Could not create session")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout. Calling it without a session is
// harmless.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.End(w, r); err != nil {
		h.logger.WithError(err).Error("Failed to log out")
		writeMessage(w, http.StatusInternalServerError, "Could not log out")
		return
	}
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// CurrentUser handles GET /api/auth/user. A session whose user is gone is
// treated as unauthenticated.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.accounts.CurrentUser(r.Context(), userID)
	if errors.Is(err, models.ErrNotFound) {
		writeMessage(w, http.StatusUnauthorized, "User not found")
		return
	}
	if err != nil {
		writeError(w, h.logger, err, "Could not load user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
