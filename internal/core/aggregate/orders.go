// Package aggregate derives the cross-user views the admin panel and the
// storefront product cards are built from. Everything here is a pure function
// of the user collection.
package aggregate

import (
	"mdstore/internal/core/model"
	"sort"

	"github.com/shopspring/decimal"
)

// FlatOrder is an order enriched with the identity of the user who owns it.
type FlatOrder struct {
	model.Order
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	OwnerEmail    string `json:"userId"`
}

// FlattenOrders lists every order of every user, in user then order
// position. The orders are deep copies.
func FlattenOrders(users []model.User) []FlatOrder {
	var out []FlatOrder
	for _, user := range users {
		for _, order := range user.Orders {
			out = append(out, FlatOrder{
				Order:         order.Clone(),
				CustomerName:  user.FullName,
				CustomerEmail: user.Email,
				OwnerEmail:    user.Email,
			})
		}
	}
	return out
}

// SortByRecency sorts orders by effective time, newest first. The sort is
// stable: orders with equal effective time keep their flattened order, and
// orders without a readable time (effective 0) go last.
func SortByRecency(orders []FlatOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].EffectiveTime() > orders[j].EffectiveTime()
	})
}

// SortedOrders flattens and sorts in one step.
func SortedOrders(users []model.User) []FlatOrder {
	orders := FlattenOrders(users)
	SortByRecency(orders)
	return orders
}

// Revenue sums order totals.
func Revenue(orders []FlatOrder) float64 {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(decimal.NewFromFloat(o.Total))
	}
	return sum.InexactFloat64()
}

// RecentOrders returns at most n of the given orders from the front; pass an
// already sorted slice.
func RecentOrders(orders []FlatOrder, n int) []FlatOrder {
	if n < 0 {
		n = 0
	}
	if len(orders) > n {
		orders = orders[:n]
	}
	return append([]FlatOrder(nil), orders...)
}

// FindOrder looks an order up by owner and id in a flattened list.
func FindOrder(orders []FlatOrder, ownerEmail, orderID string) (FlatOrder, bool) {
	for _, o := range orders {
		if o.OwnerEmail == ownerEmail && o.ID == orderID {
			return o, true
		}
	}
	return FlatOrder{}, false
}
