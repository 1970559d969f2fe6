package aggregate

import (
	"mdstore/internal/core/model"
)

const DashboardRecentOrders = 5

type DashboardStats struct {
	ProductCount  int         `json:"products"`
	OrderCount    int         `json:"orders"`
	CustomerCount int         `json:"customers"`
	Revenue       float64     `json:"revenue"`
	RecentOrders  []FlatOrder `json:"recentOrders"`
}

func Dashboard(users []model.User, products []model.Product) DashboardStats {
	orders := SortedOrders(users)
	return DashboardStats{
		ProductCount:  len(products),
		OrderCount:    len(orders),
		CustomerCount: len(users),
		Revenue:       Revenue(orders),
		RecentOrders:  RecentOrders(orders, DashboardRecentOrders),
	}
}

// CustomerSummary is one row of the admin customers page.
type CustomerSummary struct {
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Address    string  `json:"address"`
	OrderCount int     `json:"orderCount"`
	TotalSpent float64 `json:"totalSpent"`
}

func Customers(users []model.User) []CustomerSummary {
	out := make([]CustomerSummary, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, CustomerSummary{
			FullName:   u.FullName,
			Email:      u.Email,
			Phone:      u.Phone,
			Address:    u.Address,
			OrderCount: len(u.Orders),
			TotalSpent: u.TotalSpent(),
		})
	}
	return out
}
