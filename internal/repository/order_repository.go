package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/romanbrito/onlineStorePrisma/internal/models"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CreateFromCart stores the order with its item snapshots and deletes the
// charged cart rows in one transaction.
func (r *OrderRepository) CreateFromCart(ctx context.Context, order models.Order, cartItemIDs []string) (models.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
		INSERT INTO orders (id, user_id, total, charge_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	if err := tx.QueryRow(ctx, insertOrder, order.ID, order.UserID, order.Total, order.ChargeID).
		Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}

	const insertItem = `
		INSERT INTO order_items (id, order_id, title, description, price, image, large_image, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	batch := &pgx.Batch{}
	for _, oi := range order.Items {
		batch.Queue(insertItem, oi.ID, order.ID, oi.Title, oi.Description, oi.Price, oi.Image, oi.LargeImage, oi.Quantity)
	}
	if len(cartItemIDs) > 0 {
		batch.Queue(`DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`, order.UserID, cartItemIDs)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return models.Order{}, fmt.Errorf("write order items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("commit order: %w", err)
	}

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return order, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (models.Order, error) {
	const query = `SELECT id, user_id, total, charge_id, created_at, updated_at FROM orders WHERE id = $1`

	var order models.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.Total, &order.ChargeID, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}

	items, err := r.itemsFor(ctx, []string{order.ID})
	if err != nil {
		return models.Order{}, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	const query = `
		SELECT id, user_id, total, charge_id, created_at, updated_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		orders []models.Order
		ids    []string
	)
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.Total, &order.ChargeID, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *OrderRepository) itemsFor(ctx context.Context, orderIDs []string) (map[string][]models.OrderItem, error) {
	const query = `
		SELECT id, order_id, title, description, price, image, large_image, quantity
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]models.OrderItem, len(orderIDs))
	for rows.Next() {
		var oi models.OrderItem
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.Title, &oi.Description, &oi.Price, &oi.Image, &oi.LargeImage, &oi.Quantity); err != nil {
			return nil, err
		}
		out[oi.OrderID] = append(out[oi.OrderID], oi)
	}
	return out, rows.Err()
}
