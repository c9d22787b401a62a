package handlers

import (
	"log/slog"
	"net/http"
)

// RootHandler serves the welcome message at /
type RootHandler struct {
	title  string
	logger *slog.Logger
}

// NewRootHandler creates a welcome handler for the named application
func NewRootHandler(title string, logger *slog.Logger) *RootHandler {
	return &RootHandler{
		title:  title,
		logger: logger,
	}
}

// WelcomeResponse is the body returned by GET /
type WelcomeResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, WelcomeResponse{
		Message: "Welcome to " + h.title + "!",
		Status:  "running",
	}, h.logger)
}
