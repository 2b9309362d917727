package model

import "time"

// Ingredient is a recipe line item. An identical line (name, form,
// quantity, unit) is shared by reference across recipes, so it carries no
// recipe ID.
type Ingredient struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Form      string    `json:"form"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
}

// InventoryKind distinguishes the two per-user ingredient containers.
type InventoryKind string

const (
	KindPantry       InventoryKind = "pantry"
	KindShoppingList InventoryKind = "shopping_list"
)

// Inventory is a per-user container of items — either the pantry or the
// shopping list. At most one of each kind exists per user.
type Inventory struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	Kind      InventoryKind `json:"kind"`
	CreatedAt time.Time     `json:"created_at"`
}

// InventoryItem is an ingredient line owned by exactly one inventory.
type InventoryItem struct {
	ID          int64     `json:"id"`
	InventoryID int64     `json:"inventory_id"`
	Name        string    `json:"name"`
	Form        string    `json:"form"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
