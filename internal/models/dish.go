package models

// Dish represents a dish on the menu
type Dish struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Precio float64 `json:"precio"`
}

// DishInput is the request body for creating or replacing a dish.
// Any id sent by the client is ignored; Precio is a pointer so a missing
// price can be told apart from a zero price.
type DishInput struct {
	Name   string   `json:"name"`
	Precio *float64 `json:"precio"`
}
