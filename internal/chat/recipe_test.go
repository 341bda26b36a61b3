package chat

import (
	"context"
	"testing"

	"github.com/homesync/homesync/internal/inventory"
)

func TestGenerateRecipeFruitSalad(t *testing.T) {
	store := &fakeStore{items: []inventory.Item{
		{Name: "apple", Quantity: 5},
		{Name: "banana", Quantity: 3},
	}}

	got, err := GenerateRecipe(context.Background(), store)
	if err != nil {
		t.Fatalf("GenerateRecipe() error = %v", err)
	}
	if got != "Recipe: Fruit Salad\nIngredients: apple, banana" {
		t.Fatalf("GenerateRecipe() = %q", got)
	}
}

func TestGenerateRecipeEmptyInventory(t *testing.T) {
	store := &fakeStore{}

	got, err := GenerateRecipe(context.Background(), store)
	if err != nil {
		t.Fatalf("GenerateRecipe() error = %v", err)
	}
	if got != "No items available in the inventory." {
		t.Fatalf("GenerateRecipe() = %q", got)
	}
}

func TestGenerateRecipeFirstSatisfiedRuleWins(t *testing.T) {
	store := &fakeStore{items: []inventory.Item{
		{Name: "apple", Quantity: 1},
		{Name: "banana", Quantity: 1},
		{Name: "chicken", Quantity: 1},
		{Name: "potato", Quantity: 1},
		{Name: "carrot", Quantity: 1},
	}}

	got, err := GenerateRecipe(context.Background(), store)
	if err != nil {
		t.Fatalf("GenerateRecipe() error = %v", err)
	}
	if got != "Recipe: Fruit Salad\nIngredients: apple, banana" {
		t.Fatalf("GenerateRecipe() = %q", got)
	}
}

func TestGenerateRecipeNoRuleSatisfied(t *testing.T) {
	store := &fakeStore{items: []inventory.Item{
		{Name: "rice", Quantity: 2},
		{Name: "apple", Quantity: 1},
	}}

	got, err := GenerateRecipe(context.Background(), store)
	if err != nil {
		t.Fatalf("GenerateRecipe() error = %v", err)
	}
	if got != "No recipe found with the available items." {
		t.Fatalf("GenerateRecipe() = %q", got)
	}
}
