package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/platos-api/internal/models"
	"github.com/Lixing-Zhang/platos-api/internal/repository"
	"github.com/Lixing-Zhang/platos-api/internal/service"
	"github.com/go-chi/chi/v5"
)

const (
	msgDishNotFound   = "Dish not found"
	msgInvalidID      = "Invalid ID supplied"
	msgInvalidBody    = "Invalid request body"
	msgInvalidDish    = "Invalid dish"
	msgInternalError  = "Internal server error"
	maxRequestBodyLen = 1 << 20
)

// DishHandler handles dish-related HTTP requests
type DishHandler struct {
	service *service.DishService
	logger  *slog.Logger
}

// NewDishHandler creates a new dish handler
func NewDishHandler(service *service.DishService, logger *slog.Logger) *DishHandler {
	return &DishHandler{
		service: service,
		logger:  logger,
	}
}

// Routes mounts the dish endpoints on r. Paths are relative, so the
// caller decides the prefix (/platos).
func (h *DishHandler) Routes(r chi.Router) {
	r.Get("/", h.ListDishes)
	r.Post("/", h.CreateDish)
	r.Get("/{id}", h.GetDish)
	r.Put("/{id}", h.UpdateDish)
	r.Delete("/{id}", h.DeleteDish)
}

// ListDishes handles GET /platos
func (h *DishHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.service.ListDishes(r.Context())
	if err != nil {
		h.logger.Error("failed to list dishes", "error", err)
		WriteError(w, http.StatusInternalServerError, msgInternalError, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, dishes, h.logger)
}

// GetDish handles GET /platos/{id}
func (h *DishHandler) GetDish(w http.ResponseWriter, r *http.Request) {
	id, ok := h.dishID(w, r)
	if !ok {
		return
	}

	dish, err := h.service.GetDish(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "failed to get dish", id, err)
		return
	}

	WriteJSON(w, http.StatusOK, dish, h.logger)
}

// CreateDish handles POST /platos
func (h *DishHandler) CreateDish(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	dish, err := h.service.CreateDish(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, "failed to create dish", 0, err)
		return
	}

	h.logger.Info("dish created", "id", dish.ID, "name", dish.Name)
	WriteJSON(w, http.StatusCreated, dish, h.logger)
}

// UpdateDish handles PUT /platos/{id}
func (h *DishHandler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	id, ok := h.dishID(w, r)
	if !ok {
		return
	}

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	dish, err := h.service.UpdateDish(r.Context(), id, in)
	if err != nil {
		h.writeServiceError(w, "failed to update dish", id, err)
		return
	}

	h.logger.Info("dish updated", "id", dish.ID)
	WriteJSON(w, http.StatusOK, dish, h.logger)
}

// DeleteDish handles DELETE /platos/{id}
func (h *DishHandler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	id, ok := h.dishID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteDish(r.Context(), id); err != nil {
		h.writeServiceError(w, "failed to delete dish", id, err)
		return
	}

	h.logger.Info("dish deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// dishID parses the {id} path parameter, writing a 422 when it is not an integer
func (h *DishHandler) dishID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid dish ID format", "id", raw, "error", err)
		WriteError(w, http.StatusUnprocessableEntity, msgInvalidID, h.logger)
		return 0, false
	}

	return id, true
}

func (h *DishHandler) decodeInput(w http.ResponseWriter, r *http.Request) (models.DishInput, bool) {
	var in models.DishInput

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyLen)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&in); err != nil {
		h.logger.Warn("failed to decode dish request", "error", err)
		WriteError(w, http.StatusUnprocessableEntity, msgInvalidBody, h.logger)
		return in, false
	}

	// the body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		h.logger.Warn("trailing data after dish request", "error", err)
		WriteError(w, http.StatusUnprocessableEntity, msgInvalidBody, h.logger)
		return in, false
	}

	return in, true
}

func (h *DishHandler) writeServiceError(w http.ResponseWriter, msg string, id int64, err error) {
	switch {
	case errors.Is(err, repository.ErrDishNotFound):
		h.logger.Info("dish not found", "id", id)
		WriteError(w, http.StatusNotFound, msgDishNotFound, h.logger)
	case errors.Is(err, service.ErrInvalidDish):
		h.logger.Warn("dish validation failed", "error", err)
		WriteValidationError(w, msgInvalidDish, err, h.logger)
	default:
		h.logger.Error(msg, "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, msgInternalError, h.logger)
	}
}
