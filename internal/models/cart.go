package models

import "time"

type CartItem struct {
	ID        string
	UserID    string
	ItemID    string
	Quantity  int
	CreatedAt time.Time
	// Item is populated when the cart is loaded for display or checkout.
	Item *Item
}

// CartTotal sums price × quantity over entries with a loaded item.
func CartTotal(cart []CartItem) int64 {
	var total int64
	for _, ci := range cart {
		if ci.Item == nil {
			continue
		}
		total += int64(ci.Item.Price) * int64(ci.Quantity)
	}
	return total
}
