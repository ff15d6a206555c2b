package models

// Advertisement represents a single normalized P2P listing: one merchant's
// offer to trade the tracked asset at a stated price within size bounds.
// Field names follow the wire format served by the API.
type Advertisement struct {
	Price           float64  `json:"price"`
	AvailableAmount float64  `json:"available_amount"`
	MinAmount       float64  `json:"min_amount"`
	MaxAmount       float64  `json:"max_amount"`
	Merchant        string   `json:"merchant"`
	PaymentMethods  []string `json:"payment_methods"`
}
