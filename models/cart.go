package models

import "time"

// Cart lives inside the session record, never in the relational store.
// Prices carried here are display snapshots; checkout re-reads the
// product rows under lock and snapshots the price it actually charges.
type Cart struct {
	Items []CartItem `json:"items"`
}

type CartItem struct {
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ImageURL  string    `json:"image_url"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Find returns the item for a product id, or nil.
func (c *Cart) Find(productID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Remove deletes the item for a product id, reporting whether it existed.
func (c *Cart) Remove(productID uint) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Items = nil
}

// TotalItems is the summed quantity across all items.
func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Subtotal is the display subtotal from the snapshot prices.
func (c *Cart) Subtotal() float64 {
	var t float64
	for _, it := range c.Items {
		t += it.Price * float64(it.Quantity)
	}
	return t
}
