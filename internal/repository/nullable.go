package repository

import (
	"time"

	"github.com/romanbrito/onlineStorePrisma/internal/models"
)

// nullableItem receives the columns of a LEFT JOINed item.
type nullableItem struct {
	ID          *string
	Title       *string
	Description *string
	Price       *int
	Image       *string
	LargeImage  *string
	UserID      *string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

func (n nullableItem) toModel() *models.Item {
	if n.ID == nil {
		return nil
	}
	item := &models.Item{ID: *n.ID, UserID: n.UserID}
	if n.Title != nil {
		item.Title = *n.Title
	}
	if n.Description != nil {
		item.Description = *n.Description
	}
	if n.Price != nil {
		item.Price = *n.Price
	}
	if n.Image != nil {
		item.Image = *n.Image
	}
	if n.LargeImage != nil {
		item.LargeImage = *n.LargeImage
	}
	if n.CreatedAt != nil {
		item.CreatedAt = *n.CreatedAt
	}
	if n.UpdatedAt != nil {
		item.UpdatedAt = *n.UpdatedAt
	}
	return item
}
