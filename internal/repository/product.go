package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatto/loja-api/internal/domain/product"
)

const (
	productColumns = `id, code, name, brand, category,
		preco, preco_varejo, preco_cartao, preco_pix, preco_dinheiro,
		active, created_at, updated_at`

	listProductsSQL = `SELECT ` + productColumns + `
		FROM products WHERE active = TRUE ORDER BY name, id`

	getProductByIDSQL = `SELECT ` + productColumns + `
		FROM products WHERE id = $1`

	getProductsByIDsSQL = `SELECT ` + productColumns + `
		FROM products WHERE id = ANY($1)`

	insertProductSQL = `INSERT INTO products
		(id, code, name, brand, category,
		 preco, preco_varejo, preco_cartao, preco_pix, preco_dinheiro, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	updateProductSQL = `UPDATE products SET
		code = $2, name = $3, brand = $4, category = $5,
		preco = $6, preco_varejo = $7, preco_cartao = $8, preco_pix = $9, preco_dinheiro = $10,
		active = $11, updated_at = now()
		WHERE id = $1`

	deleteProductSQL = `UPDATE products SET active = FALSE, updated_at = now() WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all active products ordered by name.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs in a single query.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, insertProductSQL,
		p.ID, p.Code, p.Name, p.Brand, p.Category,
		p.Prices.Preco, p.Prices.PrecoVarejo, p.Prices.PrecoCartao,
		p.Prices.PrecoPix, p.Prices.PrecoDinheiro, p.Active,
	)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

// Update overwrites an existing product. Returns product.ErrNotFound when the
// id does not exist.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Code, p.Name, p.Brand, p.Category,
		p.Prices.Preco, p.Prices.PrecoVarejo, p.Prices.PrecoCartao,
		p.Prices.PrecoPix, p.Prices.PrecoDinheiro, p.Active,
	)
	if err != nil {
		return fmt.Errorf("updating product %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a product so historical orders keep their references.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Brand, &p.Category,
		&p.Prices.Preco, &p.Prices.PrecoVarejo, &p.Prices.PrecoCartao,
		&p.Prices.PrecoPix, &p.Prices.PrecoDinheiro,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
