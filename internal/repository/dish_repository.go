package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Lixing-Zhang/platos-api/internal/models"
)

var (
	ErrDishNotFound = errors.New("dish not found")
)

// DishRepository defines the interface for dish data access
type DishRepository interface {
	GetAll(ctx context.Context) ([]models.Dish, error)
	GetByID(ctx context.Context, id int64) (*models.Dish, error)
	Create(ctx context.Context, name string, precio float64) (*models.Dish, error)
	Update(ctx context.Context, id int64, name string, precio float64) (*models.Dish, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// InMemoryDishRepository implements DishRepository with in-memory storage.
// Ids come from a counter that only moves forward, so deleted ids are never reused.
type InMemoryDishRepository struct {
	dishes map[int64]models.Dish
	nextID int64
	mu     sync.RWMutex
}

// SeedDishes returns the dishes every new repository starts with
func SeedDishes() []models.Dish {
	return []models.Dish{
		{ID: 1, Name: "Milanesa con papas", Precio: 12.5},
		{ID: 2, Name: "Ensalada César", Precio: 9.0},
		{ID: 3, Name: "Pizza Margarita", Precio: 15.0},
		{ID: 4, Name: "Sopa de tomate", Precio: 7.5},
		{ID: 5, Name: "Hamburguesa clásica", Precio: 13.0},
		{ID: 6, Name: "Tacos al pastor", Precio: 11.0},
		{ID: 7, Name: "Paella valenciana", Precio: 18.0},
		{ID: 8, Name: "Pollo al curry", Precio: 14.0},
		{ID: 9, Name: "Sushi variado", Precio: 20.0},
		{ID: 10, Name: "Lasaña de carne", Precio: 16.5},
	}
}

// NewInMemoryDishRepository creates a new in-memory dish repository with seed data
func NewInMemoryDishRepository() *InMemoryDishRepository {
	return NewInMemoryDishRepositoryWith(SeedDishes())
}

// NewInMemoryDishRepositoryWith creates a repository holding the given dishes.
// The id counter starts above the highest seeded id.
func NewInMemoryDishRepositoryWith(seed []models.Dish) *InMemoryDishRepository {
	dishes := make(map[int64]models.Dish, len(seed))
	var maxID int64
	for _, d := range seed {
		dishes[d.ID] = d
		if d.ID > maxID {
			maxID = d.ID
		}
	}

	return &InMemoryDishRepository{
		dishes: dishes,
		nextID: maxID + 1,
	}
}

// GetAll returns all dishes in insertion order
func (r *InMemoryDishRepository) GetAll(ctx context.Context) ([]models.Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dishes := make([]models.Dish, 0, len(r.dishes))
	for _, dish := range r.dishes {
		dishes = append(dishes, dish)
	}

	// ids are handed out in increasing order, so sorting by id restores insertion order
	sort.Slice(dishes, func(i, j int) bool { return dishes[i].ID < dishes[j].ID })

	return dishes, nil
}

// GetByID returns a dish by its ID
func (r *InMemoryDishRepository) GetByID(ctx context.Context, id int64) (*models.Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dish, exists := r.dishes[id]
	if !exists {
		return nil, ErrDishNotFound
	}
	return &dish, nil
}

// Create stores a new dish under the next free id
func (r *InMemoryDishRepository) Create(ctx context.Context, name string, precio float64) (*models.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dish := models.Dish{ID: r.nextID, Name: name, Precio: precio}
	r.dishes[dish.ID] = dish
	r.nextID++

	return &dish, nil
}

// Update replaces the name and price of an existing dish
func (r *InMemoryDishRepository) Update(ctx context.Context, id int64, name string, precio float64) (*models.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dishes[id]; !exists {
		return nil, ErrDishNotFound
	}

	dish := models.Dish{ID: id, Name: name, Precio: precio}
	r.dishes[id] = dish

	return &dish, nil
}

// Delete removes a dish
func (r *InMemoryDishRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dishes[id]; !exists {
		return ErrDishNotFound
	}
	delete(r.dishes, id)

	return nil
}

// Count returns the number of stored dishes
func (r *InMemoryDishRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.dishes), nil
}
