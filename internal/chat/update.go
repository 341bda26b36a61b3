package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/homesync/homesync/internal/inventory"
	"github.com/homesync/homesync/internal/observability"
)

// UpdateInventory sets an item's quantity and renders the outcome as a
// user-facing string. It never returns an error; store failures become
// the "an error occurred" message.
func UpdateInventory(ctx context.Context, store inventory.Store, itemName string, newQuantity int) string {
	err := store.UpdateQuantity(ctx, itemName, newQuantity)
	switch {
	case err == nil:
		observability.IncrementInventoryUpdate("updated")
		return fmt.Sprintf("Successfully updated %s quantity to %d.", itemName, newQuantity)
	case errors.Is(err, inventory.ErrNotFound):
		observability.IncrementInventoryUpdate("not_found")
		return fmt.Sprintf("Item '%s' not found in the inventory.", itemName)
	default:
		observability.IncrementInventoryUpdate("error")
		return fmt.Sprintf("An error occurred: %s", err)
	}
}
