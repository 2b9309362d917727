package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dukerupert/larder/internal/model"
)

type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

func scanRecipe(scanner interface{ Scan(...any) error }) (*model.Recipe, error) {
	var r model.Recipe
	var tags string
	err := scanner.Scan(&r.ID, &r.UserID, &r.Name, &r.Instructions, &r.PrepTimeMinutes, &r.CookTimeMinutes, &tags, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &r.DietTags); err != nil {
		return nil, fmt.Errorf("decode diet tags: %w", err)
	}
	return &r, nil
}

func scanIngredient(scanner interface{ Scan(...any) error }) (*model.Ingredient, error) {
	var ing model.Ingredient
	err := scanner.Scan(&ing.ID, &ing.Name, &ing.Form, &ing.Quantity, &ing.Unit, &ing.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

const (
	recipeCols     = `id, user_id, name, instructions, prep_time_minutes, cook_time_minutes, diet_tags, created_at, updated_at`
	ingredientCols = `id, name, form, quantity, unit, created_at`
)

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode diet tags: %w", err)
	}
	return string(b), nil
}

// Create inserts a recipe and its ingredient lines in one transaction.
// An ingredient line whose name, form, quantity, and unit all match an
// existing row is shared by reference instead of duplicated.
func (s *RecipeStore) Create(userID int64, name, instructions string, prepMinutes, cookMinutes int, dietTags []string, ingredients []model.Ingredient) (*model.Recipe, error) {
	tags, err := encodeTags(dietTags)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin create recipe: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO recipes (user_id, name, instructions, prep_time_minutes, cook_time_minutes, diet_tags) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, strings.TrimSpace(name), instructions, prepMinutes, cookMinutes, tags,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", mapConstraint(err))
	}
	recipeID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := s.linkIngredients(tx, recipeID, ingredients); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create recipe: %w", err)
	}
	return s.GetByID(recipeID)
}

// linkIngredients resolves each ingredient line to a shared row (creating
// one when no identical row exists) and links it to the recipe.
func (s *RecipeStore) linkIngredients(tx *sql.Tx, recipeID int64, ingredients []model.Ingredient) error {
	for _, ing := range ingredients {
		name := strings.TrimSpace(ing.Name)
		form := strings.TrimSpace(ing.Form)

		var ingredientID int64
		err := tx.QueryRow(
			`SELECT id FROM ingredients WHERE name = ? AND form = ? AND quantity = ? AND unit = ?`,
			name, form, ing.Quantity, ing.Unit,
		).Scan(&ingredientID)
		if err == sql.ErrNoRows {
			result, err := tx.Exec(
				`INSERT INTO ingredients (name, form, quantity, unit) VALUES (?, ?, ?, ?)`,
				name, form, ing.Quantity, ing.Unit,
			)
			if err != nil {
				return fmt.Errorf("insert ingredient: %w", err)
			}
			ingredientID, err = result.LastInsertId()
			if err != nil {
				return fmt.Errorf("last insert id: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("find ingredient: %w", err)
		}

		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO recipe_ingredients (recipe_id, ingredient_id) VALUES (?, ?)`,
			recipeID, ingredientID,
		); err != nil {
			return fmt.Errorf("link ingredient: %w", err)
		}
	}
	return nil
}

func (s *RecipeStore) GetByID(id int64) (*model.Recipe, error) {
	row := s.db.QueryRow(`SELECT `+recipeCols+` FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	ingredients, err := s.listIngredients(id)
	if err != nil {
		return nil, err
	}
	r.Ingredients = ingredients
	return r, nil
}

func (s *RecipeStore) listIngredients(recipeID int64) ([]model.Ingredient, error) {
	rows, err := s.db.Query(
		`SELECT i.id, i.name, i.form, i.quantity, i.unit, i.created_at
		 FROM ingredients i
		 JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
		 WHERE ri.recipe_id = ?
		 ORDER BY i.name ASC, i.form ASC`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []model.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ingredients = append(ingredients, *ing)
	}
	return ingredients, rows.Err()
}

func (s *RecipeStore) ListByUser(userID int64) ([]model.Recipe, error) {
	rows, err := s.db.Query(`SELECT `+recipeCols+` FROM recipes WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range recipes {
		ingredients, err := s.listIngredients(recipes[i].ID)
		if err != nil {
			return nil, err
		}
		recipes[i].Ingredients = ingredients
	}
	return recipes, nil
}

// NameExists reports whether the user already has a recipe with this name
// (case-insensitive), excluding the given recipe ID.
func (s *RecipeStore) NameExists(userID int64, name string, excludeID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM recipes WHERE user_id = ? AND name = ? AND id != ?`,
		userID, strings.TrimSpace(name), excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check recipe name: %w", err)
	}
	return count > 0, nil
}

// Update rewrites the recipe's fields and replaces its ingredient links.
func (s *RecipeStore) Update(id int64, name, instructions string, prepMinutes, cookMinutes int, dietTags []string, ingredients []model.Ingredient) (*model.Recipe, error) {
	tags, err := encodeTags(dietTags)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin update recipe: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE recipes SET name = ?, instructions = ?, prep_time_minutes = ?, cook_time_minutes = ?, diet_tags = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		strings.TrimSpace(name), instructions, prepMinutes, cookMinutes, tags, id,
	); err != nil {
		return nil, fmt.Errorf("update recipe: %w", mapConstraint(err))
	}

	if _, err := tx.Exec(`DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
		return nil, fmt.Errorf("unlink ingredients: %w", err)
	}

	if err := s.linkIngredients(tx, id, ingredients); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update recipe: %w", err)
	}
	return s.GetByID(id)
}

func (s *RecipeStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
