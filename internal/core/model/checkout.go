package model

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// PendingCheckout is handed from the storefront to the invoice page.
type PendingCheckout struct {
	Items    []LineItem `json:"items"`
	Total    float64    `json:"total"`
	Customer Customer   `json:"customer"`
	OrderID  string     `json:"orderId"`
}
