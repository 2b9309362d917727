package store

import (
	"testing"

	"github.com/dukerupert/larder/internal/model"
)

func testIngredients() []model.Ingredient {
	return []model.Ingredient{
		{Name: "Flour", Form: "all-purpose", Quantity: 500, Unit: "gram"},
		{Name: "Milk", Form: "whole", Quantity: 250, Unit: "milliliter"},
	}
}

func TestRecipeCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	rs, us := NewRecipeStore(db), NewUserStore(db)

	u, err := us.Create("alice1", "alice@example.com", "h")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	r, err := rs.Create(u.ID, "Pancakes", "Mix and fry.", 10, 15, []string{"vegetarian"}, testIngredients())
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	if r.Name != "Pancakes" {
		t.Errorf("name = %q, want Pancakes", r.Name)
	}
	if len(r.Ingredients) != 2 {
		t.Fatalf("ingredients = %d, want 2", len(r.Ingredients))
	}
	if len(r.DietTags) != 1 || r.DietTags[0] != "vegetarian" {
		t.Errorf("diet tags = %v", r.DietTags)
	}

	got, err := rs.GetByID(r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ID != r.ID {
		t.Error("expected the created recipe")
	}
}

func TestRecipeIngredientSharedByReference(t *testing.T) {
	db := setupTestDB(t)
	rs, us := NewRecipeStore(db), NewUserStore(db)

	u, _ := us.Create("alice1", "alice@example.com", "h")

	r1, err := rs.Create(u.ID, "Pancakes", "", 10, 15, nil, testIngredients())
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	r2, err := rs.Create(u.ID, "Crepes", "", 10, 10, nil, testIngredients())
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if r1.Ingredients[0].ID != r2.Ingredients[0].ID {
		t.Error("identical ingredient lines should share one row")
	}

	var count int
	db.QueryRow(`SELECT COUNT(*) FROM ingredients`).Scan(&count)
	if count != 2 {
		t.Errorf("expected 2 shared ingredient rows, got %d", count)
	}
}

func TestRecipeNameUniquePerUser(t *testing.T) {
	db := setupTestDB(t)
	rs, us := NewRecipeStore(db), NewUserStore(db)

	alice, _ := us.Create("alice1", "alice@example.com", "h")
	bob, _ := us.Create("bobby1", "bob@example.com", "h")

	if _, err := rs.Create(alice.ID, "Pancakes", "", 0, 0, nil, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Same name, same user — rejected (case-insensitive)
	if _, err := rs.Create(alice.ID, "pancakes", "", 0, 0, nil, nil); err == nil {
		t.Error("expected unique violation for duplicate recipe name")
	}
	// Same name, different user — fine
	if _, err := rs.Create(bob.ID, "Pancakes", "", 0, 0, nil, nil); err != nil {
		t.Errorf("other user's recipe: %v", err)
	}

	exists, err := rs.NameExists(alice.ID, "PANCAKES", 0)
	if err != nil {
		t.Fatalf("name exists: %v", err)
	}
	if !exists {
		t.Error("expected case-insensitive name match")
	}
}

func TestRecipeUpdateReplacesIngredients(t *testing.T) {
	db := setupTestDB(t)
	rs, us := NewRecipeStore(db), NewUserStore(db)

	u, _ := us.Create("alice1", "alice@example.com", "h")
	r, err := rs.Create(u.ID, "Pancakes", "", 10, 15, nil, testIngredients())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := rs.Update(r.ID, "Waffles", "Use the iron.", 15, 10, []string{"vegetarian"}, []model.Ingredient{
		{Name: "Flour", Form: "all-purpose", Quantity: 300, Unit: "gram"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Waffles" {
		t.Errorf("name = %q, want Waffles", updated.Name)
	}
	if len(updated.Ingredients) != 1 {
		t.Fatalf("ingredients = %d, want 1", len(updated.Ingredients))
	}
	if updated.Ingredients[0].Quantity != 300 {
		t.Errorf("quantity = %v, want 300", updated.Ingredients[0].Quantity)
	}
}

func TestRecipeDelete(t *testing.T) {
	db := setupTestDB(t)
	rs, us := NewRecipeStore(db), NewUserStore(db)

	u, _ := us.Create("alice1", "alice@example.com", "h")
	r, _ := rs.Create(u.ID, "Pancakes", "", 0, 0, nil, testIngredients())

	if err := rs.Delete(r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := rs.GetByID(r.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestRecipeListByUser(t *testing.T) {
	db := setupTestDB(t)
	rs, us := NewRecipeStore(db), NewUserStore(db)

	alice, _ := us.Create("alice1", "alice@example.com", "h")
	bob, _ := us.Create("bobby1", "bob@example.com", "h")
	rs.Create(alice.ID, "Pancakes", "", 0, 0, nil, testIngredients())
	rs.Create(alice.ID, "Crepes", "", 0, 0, nil, nil)
	rs.Create(bob.ID, "Toast", "", 0, 0, nil, nil)

	recipes, err := rs.ListByUser(alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("len = %d, want 2", len(recipes))
	}
	// Sorted by name
	if recipes[0].Name != "Crepes" || recipes[1].Name != "Pancakes" {
		t.Errorf("order = %q, %q", recipes[0].Name, recipes[1].Name)
	}
	if len(recipes[1].Ingredients) != 2 {
		t.Errorf("pancakes ingredients = %d, want 2", len(recipes[1].Ingredients))
	}
}
