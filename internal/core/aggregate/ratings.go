package aggregate

import (
	"mdstore/internal/core/model"
)

type RatingDetails struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// ProductRating averages the ratings of every rated order that contains
// productID. Ratings are per order, so an order holding several products
// counts once toward each of them.
func ProductRating(users []model.User, productID int) RatingDetails {
	sum, count := 0, 0
	for _, user := range users {
		for i := range user.Orders {
			order := &user.Orders[i]
			if !order.Rated || order.Rating == 0 || !order.Contains(productID) {
				continue
			}
			sum += order.Rating
			count++
		}
	}
	if count == 0 {
		return RatingDetails{}
	}
	return RatingDetails{Average: float64(sum) / float64(count), Count: count}
}

// CatalogRatings computes ProductRating for every product in one pass.
func CatalogRatings(users []model.User, products []model.Product) map[int]RatingDetails {
	sums := make(map[int]int)
	counts := make(map[int]int)
	for _, user := range users {
		for i := range user.Orders {
			order := &user.Orders[i]
			if !order.Rated || order.Rating == 0 {
				continue
			}
			seen := make(map[int]bool)
			for _, item := range order.Items {
				if seen[item.ProductID] {
					continue
				}
				seen[item.ProductID] = true
				sums[item.ProductID] += order.Rating
				counts[item.ProductID]++
			}
		}
	}

	out := make(map[int]RatingDetails, len(products))
	for _, p := range products {
		if c := counts[p.ID]; c > 0 {
			out[p.ID] = RatingDetails{Average: float64(sums[p.ID]) / float64(c), Count: c}
		} else {
			out[p.ID] = RatingDetails{}
		}
	}
	return out
}
