package models

import "time"

// Cart is a user's draft order. It lives in the cache, not in the store.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	ColorID   string `json:"colorId"`
	SizeID    string `json:"sizeId"`
	Quantity  int    `json:"quantity"`
}
