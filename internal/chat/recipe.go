package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/homesync/homesync/internal/inventory"
)

// RecipeRule names a dish and the full ingredient set it requires.
type RecipeRule struct {
	Name        string
	Ingredients []string
}

// Rules are checked in order; the first rule fully stocked wins.
var recipeRules = []RecipeRule{
	{Name: "Fruit Salad", Ingredients: []string{"apple", "banana"}},
	{Name: "Chicken Stew", Ingredients: []string{"chicken", "potato", "carrot"}},
	{Name: "Pasta with Tomato Sauce", Ingredients: []string{"pasta", "tomato", "cheese"}},
}

// GenerateRecipe reads current stock and returns the first recipe whose
// ingredients are all available. It never calls the language model.
func GenerateRecipe(ctx context.Context, store inventory.Store) (string, error) {
	items, err := store.ListAvailable(ctx)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "No items available in the inventory.", nil
	}

	available := make(map[string]struct{}, len(items))
	for _, item := range items {
		available[item.Name] = struct{}{}
	}

	for _, rule := range recipeRules {
		stocked := true
		for _, ingredient := range rule.Ingredients {
			if _, ok := available[ingredient]; !ok {
				stocked = false
				break
			}
		}
		if stocked {
			return fmt.Sprintf("Recipe: %s\nIngredients: %s", rule.Name, strings.Join(rule.Ingredients, ", ")), nil
		}
	}

	return "No recipe found with the available items.", nil
}
