package models

import "time"

type Order struct {
	ID        string
	UserID    string
	Total     int64
	ChargeID  string
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a snapshot of an item at checkout time.
type OrderItem struct {
	ID          string
	OrderID     string
	Title       string
	Description string
	Price       int
	Image       string
	LargeImage  string
	Quantity    int
}

type ChargeRequest struct {
	Amount      int64
	Currency    string
	Source      string
	Description string
	Email       string
}

type Charge struct {
	ID       string
	Amount   int64
	Currency string
	Status   string
}
