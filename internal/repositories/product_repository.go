package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"market-chat-service/internal/models"
)

// ProductRepository abstracts product lookups for the chat core.
type ProductRepository interface {
	Get(ctx context.Context, productID int64) (models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
}

// ProductRepo is a sqlx implementation of ProductRepository.
type ProductRepo struct {
	db *sqlx.DB
}

// NewProductRepo constructs a ProductRepo.
func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// Get fetches a product by id.
func (r *ProductRepo) Get(ctx context.Context, productID int64) (models.Product, error) {
	var product models.Product
	err := r.db.GetContext(ctx, &product, `SELECT id, seller_id, title, price, created_at FROM products WHERE id=$1`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return product, err
}

// List returns listings newest first.
func (r *ProductRepo) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.SelectContext(ctx, &products, `SELECT id, seller_id, title, price, created_at FROM products ORDER BY created_at DESC`)
	return products, err
}
