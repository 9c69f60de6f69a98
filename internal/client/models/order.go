package models

// Order is a past purchase as listed by the orders endpoint. Only the
// fields the dashboard aggregates are decoded.
type Order struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	TotalAmount Money  `json:"total_amount"`
	CreatedAt   string `json:"created_at"`
}
