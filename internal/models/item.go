package models

import "time"

// Item is a catalogue entry. Price is in minor currency units (cents).
type Item struct {
	ID          string
	Title       string
	Description string
	Price       int
	Image       string
	LargeImage  string
	UserID      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemPatch carries the fields of an update; nil fields are left as they are.
type ItemPatch struct {
	Title       *string
	Description *string
	Price       *int
	Image       *string
	LargeImage  *string
}

func (p ItemPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.Image == nil && p.LargeImage == nil
}

type ItemFilter struct {
	TitleContains       *string
	DescriptionContains *string
	// Search matches title or description.
	Search *string
}

type ItemOrder string

const (
	ItemOrderCreatedAtDesc ItemOrder = "createdAt_DESC"
	ItemOrderCreatedAtAsc  ItemOrder = "createdAt_ASC"
	ItemOrderPriceAsc      ItemOrder = "price_ASC"
	ItemOrderPriceDesc     ItemOrder = "price_DESC"
	ItemOrderTitleAsc      ItemOrder = "title_ASC"
	ItemOrderTitleDesc     ItemOrder = "title_DESC"
)

type ItemQuery struct {
	Filter  ItemFilter
	OrderBy ItemOrder
	Skip    int
	// First limits the result; zero means no limit.
	First int
}
