package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amaumene/showtrack/internal/api/middleware"
	"github.com/amaumene/showtrack/internal/controllers"
	"github.com/amaumene/showtrack/internal/models"
	"github.com/sirupsen/logrus"
)

// ShowsHandler serves the watchlist endpoints. Every route is behind the
// session gate.
type ShowsHandler struct {
	shows  *controllers.ShowController
	logger *logrus.Logger
}

// NewShowsHandler creates a new shows handler
func NewShowsHandler(shows *controllers.ShowController, logger *logrus.Logger) *ShowsHandler {
	return &ShowsHandler{
		shows:  shows,
		logger: logger,
	}
}

type createShowRequest struct {
	Title    string          `json:"title"`
	Platform models.Platform `json:"platform"`
	Status   models.Status   `json:"status"`
}

type updateShowRequest struct {
	Status models.Status `json:"status"`
	Action models.Action `json:"action"`
}

// List handles GET /api/shows
func (h *ShowsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := controllers.ShowFilter{
		Status: models.Status(query.Get("status")),
		Since:  query.Get("since"),
	}
	shows, err := h.shows.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, h.logger, err, "Failed to fetch shows")
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

// Create handles POST /api/shows
func (h *ShowsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	var req createShowRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err, "Failed to create show")
		return
	}

	show, err := h.shows.Create(r.Context(), userID, controllers.CreateShowInput{
		Title:    req.Title,
		Platform: req.Platform,
		Status:   req.Status,
	})
	if errors.Is(err, models.ErrNotFound) {
		writeMessage(w, http.StatusUnauthorized, "User not found")
		return
	}
	if err != nil {
		writeError(w, h.logger, err, "Failed to create show")
		return
	}
	writeJSON(w, http.StatusOK, show)
}

// Update handles PATCH /api/shows/{id} with either a target status or a
// named action
func (h *ShowsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	showID, err := parseShowID(r)
	if err != nil {
		writeError(w, h.logger, err, "Failed to update show")
		return
	}

	var req updateShowRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err, "Failed to update show")
		return
	}

	var show *models.Show
	switch {
	case req.Action != "":
		show, err = h.shows.ApplyAction(r.Context(), userID, showID, req.Action)
	case req.Status != "":
		show, err = h.shows.UpdateStatus(r.Context(), userID, showID, req.Status)
	default:
		err = &models.ValidationError{Field: "status", Reason: "must not be empty"}
	}
	if errors.Is(err, models.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Show not found")
		return
	}
	if err != nil {
		writeError(w, h.logger, err, "Failed to update show")
		return
	}
	writeJSON(w, http.StatusOK, show)
}

// Delete handles DELETE /api/shows/{id}
func (h *ShowsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	showID, err := parseShowID(r)
	if err != nil {
		writeError(w, h.logger, err, "Failed to delete show")
		return
	}

	if err := h.shows.Delete(r.Context(), userID, showID); err != nil {
		writeError(w, h.logger, err, "Failed to delete show")
		return
	}
	writeMessage(w, http.StatusOK, "Show deleted successfully")
}

// Stats handles GET /api/stats
func (h *ShowsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	stats, err := h.shows.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err, "Failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *ShowsHandler) user(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
	}
	return userID, ok
}

func parseShowID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, &models.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}
