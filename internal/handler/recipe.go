package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/larder/internal/auth"
	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/pantry"
	"github.com/dukerupert/larder/internal/store"
	"github.com/dukerupert/larder/internal/validate"
	ws "github.com/dukerupert/larder/internal/websocket"
)

type RecipeHandler struct {
	recipes     *store.RecipeStore
	inventories *store.InventoryStore
	hub         *ws.Hub
	logger      *slog.Logger
}

func NewRecipeHandler(rs *store.RecipeStore, is *store.InventoryStore, hub *ws.Hub, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: rs, inventories: is, hub: hub, logger: logger}
}

type recipeRequest struct {
	Name            string             `json:"name"`
	Instructions    string             `json:"instructions"`
	PrepTimeMinutes int                `json:"prep_time_minutes"`
	CookTimeMinutes int                `json:"cook_time_minutes"`
	DietTags        []string           `json:"diet_tags"`
	Ingredients     []model.Ingredient `json:"ingredients"`
}

func (req *recipeRequest) validate() *validate.Result {
	rules := []validate.Rule{validate.Required("name", req.Name)}
	for i, ing := range req.Ingredients {
		prefix := fmt.Sprintf("ingredients[%d].", i)
		rules = append(rules,
			validate.Required(prefix+"name", ing.Name),
			validate.Positive(prefix+"quantity", ing.Quantity),
			validate.Required(prefix+"unit", ing.Unit),
		)
	}
	return validate.Check(rules...)
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeAuthError(w, auth.ErrUnauthorized)
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if result := req.validate(); !result.OK() {
		writeValidationErrors(w, result)
		return
	}

	exists, err := h.recipes.NameExists(ac.UserID, req.Name, 0)
	if err != nil {
		h.logger.Error("check recipe name", "error", err)
		writeAuthError(w, err)
		return
	}
	if exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a recipe with that name already exists"})
		return
	}

	recipe, err := h.recipes.Create(ac.UserID, req.Name, req.Instructions, req.PrepTimeMinutes, req.CookTimeMinutes, req.DietTags, req.Ingredients)
	if err != nil {
		h.logger.Error("create recipe", "error", err)
		writeAuthError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("recipe", "created", recipe.ID))
	writeJSON(w, http.StatusCreated, recipe)
}

// List returns the caller's recipes. With ?highlight=true each recipe's
// ingredients are annotated against the caller's pantry.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeAuthError(w, auth.ErrUnauthorized)
		return
	}

	recipes, err := h.recipes.ListByUser(ac.UserID)
	if err != nil {
		h.logger.Error("list recipes", "error", err)
		writeAuthError(w, err)
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}

	if !highlightRequested(r) {
		writeJSON(w, http.StatusOK, recipes)
		return
	}

	pantryItems, err := h.pantryItems(ac.UserID)
	if err != nil {
		h.logger.Error("load pantry", "error", err)
		writeAuthError(w, err)
		return
	}

	type annotatedRecipe struct {
		model.Recipe
		AnnotatedIngredients []pantry.AnnotatedIngredient `json:"annotated_ingredients"`
	}
	annotated := make([]annotatedRecipe, 0, len(recipes))
	for _, rec := range recipes {
		annotated = append(annotated, annotatedRecipe{
			Recipe:               rec,
			AnnotatedIngredients: pantry.Annotate(rec.Ingredients, pantryItems),
		})
	}
	writeJSON(w, http.StatusOK, annotated)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	ac, recipe, ok := h.ownedRecipe(w, r)
	if !ok {
		return
	}

	if !highlightRequested(r) {
		writeJSON(w, http.StatusOK, recipe)
		return
	}

	pantryItems, err := h.pantryItems(ac.UserID)
	if err != nil {
		h.logger.Error("load pantry", "error", err)
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recipe":                recipe,
		"annotated_ingredients": pantry.Annotate(recipe.Ingredients, pantryItems),
	})
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	ac, recipe, ok := h.ownedRecipe(w, r)
	if !ok {
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if result := req.validate(); !result.OK() {
		writeValidationErrors(w, result)
		return
	}

	exists, err := h.recipes.NameExists(ac.UserID, req.Name, recipe.ID)
	if err != nil {
		h.logger.Error("check recipe name", "error", err)
		writeAuthError(w, err)
		return
	}
	if exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a recipe with that name already exists"})
		return
	}

	updated, err := h.recipes.Update(recipe.ID, req.Name, req.Instructions, req.PrepTimeMinutes, req.CookTimeMinutes, req.DietTags, req.Ingredients)
	if err != nil {
		h.logger.Error("update recipe", "error", err)
		writeAuthError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("recipe", "updated", updated.ID))
	writeJSON(w, http.StatusOK, updated)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, recipe, ok := h.ownedRecipe(w, r)
	if !ok {
		return
	}

	if err := h.recipes.Delete(recipe.ID); err != nil {
		h.logger.Error("delete recipe", "error", err)
		writeAuthError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("recipe", "deleted", recipe.ID))
	w.WriteHeader(http.StatusNoContent)
}

// ownedRecipe loads the path recipe and enforces ownership: 404 for a
// missing ID, 403 when it belongs to someone else.
func (h *RecipeHandler) ownedRecipe(w http.ResponseWriter, r *http.Request) (auth.AuthContext, *model.Recipe, bool) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeAuthError(w, auth.ErrUnauthorized)
		return ac, nil, false
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return ac, nil, false
	}

	recipe, err := h.recipes.GetByID(id)
	if err != nil {
		h.logger.Error("get recipe", "error", err)
		writeAuthError(w, err)
		return ac, nil, false
	}
	if recipe == nil {
		writeAuthError(w, auth.ErrNotFound)
		return ac, nil, false
	}
	if recipe.UserID != ac.UserID {
		writeAuthError(w, auth.ErrForbidden)
		return ac, nil, false
	}
	return ac, recipe, true
}

func (h *RecipeHandler) pantryItems(userID int64) ([]model.InventoryItem, error) {
	inv, err := h.inventories.GetOrCreate(userID, model.KindPantry)
	if err != nil {
		return nil, err
	}
	return h.inventories.ListItems(inv.ID)
}

func highlightRequested(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("highlight"), "true")
}
