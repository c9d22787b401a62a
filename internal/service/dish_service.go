package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Lixing-Zhang/platos-api/internal/models"
	"github.com/Lixing-Zhang/platos-api/internal/repository"
)

var (
	ErrInvalidDish = errors.New("invalid dish")
)

// DishGauge receives the collection size after every change.
// Implemented by metrics.Metrics.
type DishGauge interface {
	SetDishes(n int)
}

// DishService handles business logic for dishes
type DishService struct {
	repo  repository.DishRepository
	gauge DishGauge
}

// NewDishService creates a new dish service. gauge may be nil.
func NewDishService(repo repository.DishRepository, gauge DishGauge) *DishService {
	s := &DishService{
		repo:  repo,
		gauge: gauge,
	}
	s.refreshGauge(context.Background())
	return s
}

// ListDishes returns all dishes in insertion order
func (s *DishService) ListDishes(ctx context.Context) ([]models.Dish, error) {
	return s.repo.GetAll(ctx)
}

// GetDish returns a dish by ID
func (s *DishService) GetDish(ctx context.Context, id int64) (*models.Dish, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateDish validates the input and stores a new dish
func (s *DishService) CreateDish(ctx context.Context, in models.DishInput) (*models.Dish, error) {
	if err := ValidateDishInput(in); err != nil {
		return nil, err
	}

	dish, err := s.repo.Create(ctx, in.Name, *in.Precio)
	if err != nil {
		return nil, fmt.Errorf("create dish: %w", err)
	}

	s.refreshGauge(ctx)
	return dish, nil
}

// UpdateDish validates the input and replaces name and price of an existing dish
func (s *DishService) UpdateDish(ctx context.Context, id int64, in models.DishInput) (*models.Dish, error) {
	if err := ValidateDishInput(in); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, in.Name, *in.Precio)
}

// DeleteDish removes a dish
func (s *DishService) DeleteDish(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.refreshGauge(ctx)
	return nil
}

// ValidateDishInput checks the input without modifying it. A name made only
// of whitespace counts as missing, but names are stored exactly as sent.
// On failure the returned error matches ErrInvalidDish and wraps the
// per-field validation.Errors.
func ValidateDishInput(in models.DishInput) error {
	check := in
	check.Name = strings.TrimSpace(in.Name)

	err := validation.ValidateStruct(&check,
		validation.Field(&check.Name, validation.Required),
		validation.Field(&check.Precio,
			validation.NotNil,
			validation.Min(0.0),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDish, err)
	}

	return nil
}

func (s *DishService) refreshGauge(ctx context.Context) {
	if s.gauge == nil {
		return
	}
	if n, err := s.repo.Count(ctx); err == nil {
		s.gauge.SetDishes(n)
	}
}
