package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/romanbrito/onlineStorePrisma/internal/models"
)

const cartColumns = `id, user_id, item_id, quantity, created_at`

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) FindByUserAndItem(ctx context.Context, userID string, itemID string) (models.CartItem, error) {
	query := `SELECT ` + cartColumns + ` FROM cart_items WHERE user_id = $1 AND item_id = $2`
	return scanCartItem(r.pool.QueryRow(ctx, query, userID, itemID))
}

// Create inserts a cart row. If the (user, item) pair already exists the
// existing row's quantity is incremented instead, keeping one row per pair.
func (r *CartRepository) Create(ctx context.Context, ci models.CartItem) (models.CartItem, error) {
	query := `
		INSERT INTO cart_items (id, user_id, item_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING ` + cartColumns

	return scanCartItem(r.pool.QueryRow(ctx, query, ci.ID, ci.UserID, ci.ItemID, ci.Quantity))
}

func (r *CartRepository) IncrementQuantity(ctx context.Context, id string, delta int) (models.CartItem, error) {
	query := `UPDATE cart_items SET quantity = quantity + $2 WHERE id = $1 RETURNING ` + cartColumns
	return scanCartItem(r.pool.QueryRow(ctx, query, id, delta))
}

func (r *CartRepository) GetByID(ctx context.Context, id string) (models.CartItem, error) {
	query := `SELECT ` + cartColumns + ` FROM cart_items WHERE id = $1`
	return scanCartItem(r.pool.QueryRow(ctx, query, id))
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// ListByUser returns the user's cart with each row's item loaded. Rows whose
// item has been deleted come back with a nil Item.
func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	const query = `
		SELECT c.id, c.user_id, c.item_id, c.quantity, c.created_at,
		       i.id, i.title, i.description, i.price, i.image, i.large_image, i.user_id, i.created_at, i.updated_at
		FROM cart_items c
		LEFT JOIN items i ON i.id = c.item_id
		WHERE c.user_id = $1
		ORDER BY c.created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cart []models.CartItem
	for rows.Next() {
		var (
			ci   models.CartItem
			item nullableItem
		)
		if err := rows.Scan(
			&ci.ID,
			&ci.UserID,
			&ci.ItemID,
			&ci.Quantity,
			&ci.CreatedAt,
			&item.ID,
			&item.Title,
			&item.Description,
			&item.Price,
			&item.Image,
			&item.LargeImage,
			&item.UserID,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		ci.Item = item.toModel()
		cart = append(cart, ci)
	}
	return cart, rows.Err()
}

func scanCartItem(row pgx.Row) (models.CartItem, error) {
	var ci models.CartItem
	if err := row.Scan(&ci.ID, &ci.UserID, &ci.ItemID, &ci.Quantity, &ci.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CartItem{}, ErrCartItemNotFound
		}
		return models.CartItem{}, err
	}
	return ci, nil
}
