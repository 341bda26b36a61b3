package chat

import (
	"context"
	"errors"

	"github.com/homesync/homesync/internal/inventory"
)

// fakeStore counts calls so tests can assert the dispatcher short-
// circuits before touching the database.
type fakeStore struct {
	items      []inventory.Item
	schema     string
	readResult inventory.ResultSet
	readSQL    []string
	writeSQL   []string

	listErr   error
	schemaErr error
	readErr   error
	writeErr  error
	updateErr error

	calls int
}

func (f *fakeStore) HealthCheck(context.Context) error { f.calls++; return nil }

func (f *fakeStore) SchemaText(context.Context) (string, error) {
	f.calls++
	if f.schemaErr != nil {
		return "", f.schemaErr
	}
	if f.schema == "" {
		return "CREATE TABLE inventory (item text, quantity integer);", nil
	}
	return f.schema, nil
}

func (f *fakeStore) RunRead(_ context.Context, query string) (inventory.ResultSet, error) {
	f.calls++
	f.readSQL = append(f.readSQL, query)
	if f.readErr != nil {
		return inventory.ResultSet{}, f.readErr
	}
	return f.readResult, nil
}

func (f *fakeStore) RunWrite(_ context.Context, query string) error {
	f.calls++
	f.writeSQL = append(f.writeSQL, query)
	return f.writeErr
}

func (f *fakeStore) GetItem(_ context.Context, name string) (inventory.Item, error) {
	f.calls++
	for _, item := range f.items {
		if item.Name == name {
			return item, nil
		}
	}
	return inventory.Item{}, inventory.ErrNotFound
}

func (f *fakeStore) ListAll(context.Context) ([]inventory.Item, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeStore) ListAvailable(context.Context) ([]inventory.Item, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var available []inventory.Item
	for _, item := range f.items {
		if item.Quantity > 0 {
			available = append(available, item)
		}
	}
	return available, nil
}

func (f *fakeStore) ListBelow(_ context.Context, threshold int) ([]inventory.Item, error) {
	f.calls++
	var below []inventory.Item
	for _, item := range f.items {
		if item.Quantity < threshold {
			below = append(below, item)
		}
	}
	return below, nil
}

func (f *fakeStore) UpdateQuantity(_ context.Context, name string, quantity int) error {
	f.calls++
	if f.updateErr != nil {
		return f.updateErr
	}
	for i, item := range f.items {
		if item.Name == name {
			f.items[i].Quantity = quantity
			return nil
		}
	}
	return inventory.ErrNotFound
}

// fakeModel replies from a queue, one completion per call.
type fakeModel struct {
	replies []string
	prompts []string
	err     error
}

func (f *fakeModel) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("fakeModel: no replies queued")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

var errStoreDown = errors.New("connection refused")
