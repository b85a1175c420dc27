package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatto/loja-api/internal/domain/order"
	"github.com/mercatto/loja-api/internal/pricing"
)

const (
	createOrderSQL = `INSERT INTO orders (id, customer_id, items, modality, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	orderColumns = `id, customer_id, items, modality, total, status, created_at, archived_at`

	listOrdersSQL = `SELECT ` + orderColumns + `
		FROM orders WHERE status <> 'archived' ORDER BY created_at DESC`

	listAllOrdersSQL = `SELECT ` + orderColumns + `
		FROM orders ORDER BY created_at DESC`

	getOrderByIDSQL = `SELECT ` + orderColumns + `
		FROM orders WHERE id = $1`

	archiveOrderSQL = `UPDATE orders SET status = 'archived', archived_at = $2
		WHERE id = $1 AND status <> 'archived'`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. The order items, unit prices included, are
// serialized to JSON for storage in the JSONB column.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	var customerID *string
	if o.CustomerID != "" {
		customerID = &o.CustomerID
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, customerID, itemsJSON, string(o.Modality), o.Total, string(o.Status), o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	return nil
}

// List returns orders newest first, skipping archived ones unless asked.
func (r *OrderRepository) List(ctx context.Context, includeArchived bool) ([]order.Order, error) {
	query := listOrdersSQL
	if includeArchived {
		query = listAllOrdersSQL
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// Archive marks an order archived. Archiving an already-archived or missing
// order returns order.ErrNotFound.
func (r *OrderRepository) Archive(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, archiveOrderSQL, id, at)
	if err != nil {
		return fmt.Errorf("archiving order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o          order.Order
		customerID *string
		itemsJSON  []byte
		modality   string
		status     string
	)
	err := row.Scan(
		&o.ID, &customerID, &itemsJSON, &modality, &o.Total, &status,
		&o.CreatedAt, &o.ArchivedAt,
	)
	if err != nil {
		return o, err
	}

	if customerID != nil {
		o.CustomerID = *customerID
	}
	o.Modality = pricing.Modality(modality)
	o.Status = order.Status(status)

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshaling items for order %q: %w", o.ID, err)
	}
	return o, nil
}
