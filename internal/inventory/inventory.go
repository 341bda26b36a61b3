package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("inventory: item not found")

// Item is a single tracked inventory row.
type Item struct {
	Name     string
	Quantity int
}

// ResultSet holds the columns and rows returned by an ad-hoc read query.
// Values are rendered to strings at scan time so the set can be shown to
// the language model without further type handling.
type ResultSet struct {
	Columns []string
	Rows    [][]string
}

// Format renders the result set as a compact text table, one row per
// line with values joined by ", ". An empty set renders as "(no rows)".
func (rs ResultSet) Format() string {
	if len(rs.Rows) == 0 {
		return "(no rows)"
	}
	var b strings.Builder
	b.WriteString(strings.Join(rs.Columns, ", "))
	for _, row := range rs.Rows {
		b.WriteString("\n")
		b.WriteString(strings.Join(row, ", "))
	}
	return b.String()
}

// Store is the persistence surface used by the chat pipeline and the
// inventory API.
type Store interface {
	HealthCheck(ctx context.Context) error

	// SchemaText renders the live inventory schema as DDL-like text
	// suitable for inclusion in a model prompt.
	SchemaText(ctx context.Context) (string, error)

	// RunRead executes an arbitrary read query and returns its rows.
	RunRead(ctx context.Context, query string) (ResultSet, error)

	// RunWrite executes an arbitrary statement and commits it.
	RunWrite(ctx context.Context, query string) error

	GetItem(ctx context.Context, name string) (Item, error)
	ListAll(ctx context.Context) ([]Item, error)
	ListAvailable(ctx context.Context) ([]Item, error)
	ListBelow(ctx context.Context, threshold int) ([]Item, error)

	// UpdateQuantity sets the quantity for an existing item. It returns
	// ErrNotFound when no item with the given name exists.
	UpdateQuantity(ctx context.Context, name string, quantity int) error
}

// RenderAvailable formats non-empty stock the way chat replies show it.
func RenderAvailable(items []Item) string {
	if len(items) == 0 {
		return "No items available in the inventory."
	}
	var b strings.Builder
	b.WriteString("Items present in inventory:")
	for _, item := range items {
		b.WriteString(fmt.Sprintf("\n%s: %d", item.Name, item.Quantity))
	}
	return b.String()
}
