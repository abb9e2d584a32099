package domain

// Order statuses. New orders always start as pending/pending; the payment
// gateway webhook (out of scope here) is what would move them forward.
const (
	OrderStatusPending   = "pending"
	PaymentStatusPending = "pending"
)

// Order is the persisted order header. PaymentID stays nil until the
// gateway accepts the payment request; a gateway failure leaves the order
// in pending state with PaymentID nil, which is an accepted visible state.
type Order struct {
	ID            int64   `json:"id"`
	OrderNumber   string  `json:"order_number"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	CustomerPhone string  `json:"customer_phone"`
	TotalAmount   float64 `json:"total_amount"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	PaymentID     *string `json:"payment_id,omitempty"`
}

// OrderItem is a line item owned by its order and written in the same
// transaction. Exactly one of ProductID/ServiceID is expected to be set by
// the caller; the API does not enforce this server-side.
type OrderItem struct {
	ProductID *int64  `json:"product_id,omitempty"`
	ServiceID *int64  `json:"service_id,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// SeedResult reports the catalog row totals after a seeding run.
type SeedResult struct {
	Products int `json:"products"`
	Services int `json:"services"`
}
