package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/homesync/homesync/internal/inventory"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping inventory db: %w", err)
	}
	return nil
}

// SchemaText reads column metadata for the inventory table and renders
// it as DDL-like text. It is regenerated on every call so prompts always
// reflect the live schema.
func (s *Store) SchemaText(ctx context.Context) (string, error) {
	query := `
SELECT column_name, data_type, is_nullable, COALESCE(column_default, '')
FROM information_schema.columns
WHERE table_schema = 'public' AND table_name = 'inventory'
ORDER BY ordinal_position ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("read inventory schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var name, dataType, nullable, columnDefault string
		if err := rows.Scan(&name, &dataType, &nullable, &columnDefault); err != nil {
			return "", fmt.Errorf("scan schema row: %w", err)
		}
		line := fmt.Sprintf("  %s %s", name, dataType)
		if nullable == "NO" {
			line += " NOT NULL"
		}
		if columnDefault != "" {
			line += " DEFAULT " + columnDefault
		}
		columns = append(columns, line)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate schema rows: %w", err)
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("inventory table has no columns; run migrations first")
	}

	return fmt.Sprintf("CREATE TABLE inventory (\n%s\n);", strings.Join(columns, ",\n")), nil
}

// RunRead executes the query as written and renders every value as a
// string. Callers own query safety; the store adds no rewriting.
func (s *Store) RunRead(ctx context.Context, query string) (inventory.ResultSet, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return inventory.ResultSet{}, fmt.Errorf("run read query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return inventory.ResultSet{}, fmt.Errorf("read query columns: %w", err)
	}

	result := inventory.ResultSet{Columns: columns}
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return inventory.ResultSet{}, fmt.Errorf("scan query row: %w", err)
		}
		row := make([]string, len(columns))
		for i, value := range values {
			if value.Valid {
				row[i] = value.String
			} else {
				row[i] = "NULL"
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return inventory.ResultSet{}, fmt.Errorf("iterate query rows: %w", err)
	}
	return result, nil
}

// RunWrite executes the statement as written inside its own committed
// transaction. As with RunRead, callers own statement safety.
func (s *Store) RunWrite(ctx context.Context, query string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("run write statement: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit write: %w", err)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, name string) (inventory.Item, error) {
	query := `
SELECT item, quantity
FROM inventory
WHERE item = $1`

	var item inventory.Item
	if err := s.db.QueryRowContext(ctx, query, name).Scan(&item.Name, &item.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return inventory.Item{}, inventory.ErrNotFound
		}
		return inventory.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *Store) ListAll(ctx context.Context) ([]inventory.Item, error) {
	query := `
SELECT item, quantity
FROM inventory
ORDER BY item ASC`
	return s.listItems(ctx, query)
}

func (s *Store) ListAvailable(ctx context.Context) ([]inventory.Item, error) {
	query := `
SELECT item, quantity
FROM inventory
WHERE quantity > 0
ORDER BY item ASC`
	return s.listItems(ctx, query)
}

func (s *Store) ListBelow(ctx context.Context, threshold int) ([]inventory.Item, error) {
	query := `
SELECT item, quantity
FROM inventory
WHERE quantity < $1
ORDER BY item ASC`
	return s.listItems(ctx, query, threshold)
}

func (s *Store) listItems(ctx context.Context, query string, args ...any) ([]inventory.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]inventory.Item, 0)
	for rows.Next() {
		var item inventory.Item
		if err := rows.Scan(&item.Name, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}
	return items, nil
}

// UpdateQuantity looks the item up and writes the new quantity inside a
// single transaction so concurrent updates cannot interleave between the
// existence check and the write.
func (s *Store) UpdateQuantity(ctx context.Context, name string, quantity int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}

	var itemID int64
	err = tx.QueryRowContext(ctx, `
SELECT item_id
FROM inventory
WHERE item = $1
FOR UPDATE`, name).Scan(&itemID)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return inventory.ErrNotFound
		}
		return fmt.Errorf("lookup item for update: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE inventory
SET quantity = $2, updated_at = now()
WHERE item_id = $1`, itemID, quantity); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update item quantity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}
