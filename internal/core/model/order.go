package model

import (
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusToShip    OrderStatus = "To Ship"
	StatusToReceive OrderStatus = "To Receive"
	StatusCompleted OrderStatus = "Completed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusToShip, StatusToReceive, StatusCompleted:
		return true
	}
	return false
}

// RefundStatus is absent on orders that never entered the refund flow; the
// empty value stands for None.
type RefundStatus string

const (
	RefundNone      RefundStatus = ""
	RefundRequested RefundStatus = "requested"
	RefundApproved  RefundStatus = "approved"
	RefundCompleted RefundStatus = "completed"
)

// Rank orders refund states along None → Requested → Approved → Completed.
// Unknown values rank -1.
func (r RefundStatus) Rank() int {
	switch r {
	case RefundNone:
		return 0
	case RefundRequested:
		return 1
	case RefundApproved:
		return 2
	case RefundCompleted:
		return 3
	}
	return -1
}

func (r RefundStatus) Valid() bool { return r.Rank() >= 0 }

// LineItem is a copy of a product taken at the time it entered the cart,
// plus a quantity. The same shape is used for cart entries and order items.
type LineItem struct {
	ProductID   int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
}

func NewLineItem(p Product, quantity int) LineItem {
	return LineItem{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		Quantity:    quantity,
	}
}

type Order struct {
	ID            string       `json:"id"`
	Date          string       `json:"date,omitempty"`      // legacy date string
	CreatedAt     *int64       `json:"timestamp,omitempty"` // epoch ms, authoritative
	Total         float64      `json:"total"`
	Status        OrderStatus  `json:"status"`
	Items         []LineItem   `json:"items"`
	Rated         bool         `json:"rated"`
	Rating        int          `json:"rating"`
	Review        string       `json:"review"`
	RefundStatus  RefundStatus `json:"refund_status,omitempty"`
	PaymentMethod string       `json:"paymentMethod,omitempty"`
}

// EffectiveTime is the sort key for cross-user order views: the numeric
// timestamp when present, otherwise the parsed legacy date, otherwise 0.
func (o *Order) EffectiveTime() int64 {
	if o.CreatedAt != nil && *o.CreatedAt != 0 {
		return *o.CreatedAt
	}
	ms, _ := ParseLegacyDate(o.Date)
	return ms
}

// Contains reports whether any line of the order is for productID.
func (o *Order) Contains(productID int) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func (o Order) Clone() Order {
	if o.Items != nil {
		o.Items = append([]LineItem(nil), o.Items...)
	}
	if o.CreatedAt != nil {
		ts := *o.CreatedAt
		o.CreatedAt = &ts
	}
	return o
}

// SumItems returns Σ price × quantity, summed in decimal so a total of
// cents-valued prices does not pick up binary rounding noise.
func SumItems(items []LineItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum.InexactFloat64()
}

// SumTotals adds up order totals in decimal.
func SumTotals(orders []Order) float64 {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(decimal.NewFromFloat(o.Total))
	}
	return sum.InexactFloat64()
}

// FormatAmount renders an amount with two decimals and no grouping.
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
