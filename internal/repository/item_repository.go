package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/romanbrito/onlineStorePrisma/internal/models"
)

const itemColumns = `id, title, description, price, image, large_image, user_id, created_at, updated_at`

var itemOrderClauses = map[models.ItemOrder]string{
	models.ItemOrderCreatedAtDesc: "created_at DESC",
	models.ItemOrderCreatedAtAsc:  "created_at ASC",
	models.ItemOrderPriceAsc:      "price ASC",
	models.ItemOrderPriceDesc:     "price DESC",
	models.ItemOrderTitleAsc:      "title ASC",
	models.ItemOrderTitleDesc:     "title DESC",
}

type ItemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

func (r *ItemRepository) Create(ctx context.Context, item models.Item) (models.Item, error) {
	query := `
		INSERT INTO items (
			id, title, description, price, image, large_image, user_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
		RETURNING ` + itemColumns

	return scanItem(r.pool.QueryRow(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Price,
		item.Image,
		item.LargeImage,
		item.UserID,
	))
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return scanItem(r.pool.QueryRow(ctx, query, id))
}

func (r *ItemRepository) Update(ctx context.Context, id string, patch models.ItemPatch) (models.Item, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	var (
		sets []string
		args = []any{id}
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Image != nil {
		add("image", *patch.Image)
	}
	if patch.LargeImage != nil {
		add("large_image", *patch.LargeImage)
	}

	query := `UPDATE items SET ` + strings.Join(sets, ", ") + `, updated_at = NOW() WHERE id = $1 RETURNING ` + itemColumns
	return scanItem(r.pool.QueryRow(ctx, query, args...))
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) List(ctx context.Context, q models.ItemQuery) ([]models.Item, error) {
	where, args := itemWhere(q.Filter)

	order, ok := itemOrderClauses[q.OrderBy]
	if !ok {
		order = itemOrderClauses[models.ItemOrderCreatedAtDesc]
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + itemColumns + ` FROM items`)
	sb.WriteString(where)
	sb.WriteString(` ORDER BY ` + order + `, id`)
	if q.First > 0 {
		args = append(args, q.First)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if q.Skip > 0 {
		args = append(args, q.Skip)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ItemRepository) Count(ctx context.Context, filter models.ItemFilter) (int, error) {
	where, args := itemWhere(filter)
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items`+where, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func itemWhere(f models.ItemFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.TitleContains != nil {
		args = append(args, likeEscaper.Replace(*f.TitleContains))
		conds = append(conds, fmt.Sprintf("title ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if f.DescriptionContains != nil {
		args = append(args, likeEscaper.Replace(*f.DescriptionContains))
		conds = append(conds, fmt.Sprintf("description ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if f.Search != nil {
		args = append(args, likeEscaper.Replace(*f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')", n, n))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanItem(row pgx.Row) (models.Item, error) {
	var item models.Item
	if err := row.Scan(
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
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Item{}, ErrItemNotFound
		}
		return models.Item{}, err
	}
	return item, nil
}
