package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/storefront/internal/platform/httpx"
)

// Repository defines persistence operations for products.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	SKUExists(ctx context.Context, ownerID int64, sku string, excludeID int64) (bool, error)
	Create(ctx context.Context, product Product) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const productColumns = "id, owner_id, name, sku, description, price, stock, is_active, updated_at"

// List returns every product, most recently updated first.
func (r *PGRepository) List(ctx context.Context) ([]Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products ORDER BY updated_at DESC", productColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	return scanProducts(rows)
}

// ListByOwner returns the owner's products, most recently updated first.
func (r *PGRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE owner_id = $1 ORDER BY updated_at DESC", productColumns)
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("products: list by owner: %w", err)
	}
	return scanProducts(rows)
}

// Get fetches a product by primary key.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	var p Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.SKU, &p.Description,
		&p.Price, &p.Stock, &p.IsActive, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("products: get: %w", err)
	}
	return &p, nil
}

// SKUExists reports whether another product of the same owner already uses
// the sku. excludeID skips the row being updated; pass 0 on create.
func (r *PGRepository) SKUExists(ctx context.Context, ownerID int64, sku string, excludeID int64) (bool, error) {
	const query = "SELECT EXISTS (SELECT 1 FROM products WHERE owner_id = $1 AND sku = $2 AND id <> $3)"
	var exists bool
	if err := r.pool.QueryRow(ctx, query, ownerID, sku, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("products: sku exists: %w", err)
	}
	return exists, nil
}

// Create inserts a product row and returns the generated id. A unique
// violation on (owner_id, sku) is surfaced as ErrDuplicate; the index is
// the enforcement authority, the service pre-check only a fast path.
func (r *PGRepository) Create(ctx context.Context, product Product) (int64, error) {
	const query = `
		INSERT INTO products (owner_id, name, sku, description, price, stock, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		product.OwnerID, product.Name, product.SKU, product.Description,
		product.Price, product.Stock, product.IsActive,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, httpx.ErrDuplicate
		}
		return 0, fmt.Errorf("products: insert: %w", err)
	}
	return id, nil
}

// Update applies a partial column update. Only keys present in updates are
// written; updated_at is always refreshed.
func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE products SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"name", "sku", "description", "price", "stock", "is_active"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return httpx.ErrDuplicate
		}
		return fmt.Errorf("products: update: %w", err)
	}
	return nil
}

// Delete removes a product row. Deleting an absent row is not an error at
// this layer; existence is checked by the service first.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id); err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	items := make([]Product, 0)
	for rows.Next() {
		var p Product
		err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Name, &p.SKU, &p.Description,
			&p.Price, &p.Stock, &p.IsActive, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("products: scan: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PGRepository)(nil)
