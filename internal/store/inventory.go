package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/larder/internal/model"
)

// InventoryStore manages the pantry and shopping list containers and
// their items. The two containers share a schema and differ only by kind.
type InventoryStore struct {
	db *sql.DB
}

func NewInventoryStore(db *sql.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

func scanInventory(scanner interface{ Scan(...any) error }) (*model.Inventory, error) {
	var inv model.Inventory
	err := scanner.Scan(&inv.ID, &inv.UserID, &inv.Kind, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func scanItem(scanner interface{ Scan(...any) error }) (*model.InventoryItem, error) {
	var it model.InventoryItem
	err := scanner.Scan(&it.ID, &it.InventoryID, &it.Name, &it.Form, &it.Quantity, &it.Unit, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

const (
	inventoryCols = `id, user_id, kind, created_at`
	itemCols      = `id, inventory_id, name, form, quantity, unit, created_at, updated_at`
)

// GetOrCreate returns the user's inventory of the given kind, creating it
// lazily on first use.
func (s *InventoryStore) GetOrCreate(userID int64, kind model.InventoryKind) (*model.Inventory, error) {
	row := s.db.QueryRow(
		`SELECT `+inventoryCols+` FROM inventories WHERE user_id = ? AND kind = ?`,
		userID, string(kind),
	)
	inv, err := scanInventory(row)
	if err == nil {
		return inv, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get inventory: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO inventories (user_id, kind) VALUES (?, ?)`,
		userID, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("insert inventory: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row = s.db.QueryRow(`SELECT `+inventoryCols+` FROM inventories WHERE id = ?`, id)
	return scanInventory(row)
}

func (s *InventoryStore) ListItems(inventoryID int64) ([]model.InventoryItem, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM inventory_items WHERE inventory_id = ? ORDER BY name ASC, form ASC`,
		inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *InventoryStore) GetItemByID(id int64) (*model.InventoryItem, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM inventory_items WHERE id = ?`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// FindItem looks up an item by name+form within an inventory. Matching is
// case-insensitive (NOCASE columns); inputs are trimmed here.
func (s *InventoryStore) FindItem(inventoryID int64, name, form string) (*model.InventoryItem, error) {
	row := s.db.QueryRow(
		`SELECT `+itemCols+` FROM inventory_items WHERE inventory_id = ? AND name = ? AND form = ?`,
		inventoryID, strings.TrimSpace(name), strings.TrimSpace(form),
	)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	return it, nil
}

func (s *InventoryStore) CreateItem(inventoryID int64, name, form string, quantity float64, unit string) (*model.InventoryItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO inventory_items (inventory_id, name, form, quantity, unit) VALUES (?, ?, ?, ?, ?)`,
		inventoryID, strings.TrimSpace(name), strings.TrimSpace(form), quantity, unit,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", mapConstraint(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItemByID(id)
}

func (s *InventoryStore) UpdateItem(id int64, name, form string, quantity float64, unit string) (*model.InventoryItem, error) {
	_, err := s.db.Exec(
		`UPDATE inventory_items SET name = ?, form = ?, quantity = ?, unit = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		strings.TrimSpace(name), strings.TrimSpace(form), quantity, unit, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", mapConstraint(err))
	}
	return s.GetItemByID(id)
}

func (s *InventoryStore) DeleteItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM inventory_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
