package aggregate

import (
	"mdstore/internal/core/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductRating(t *testing.T) {
	twoProducts := []model.LineItem{{ProductID: 1}, {ProductID: 2}}
	users := []model.User{
		{Email: "a@x.com", Orders: []model.Order{
			{ID: "1", Rated: true, Rating: 4, Items: twoProducts},
			{ID: "2", Rated: false, Items: twoProducts},
		}},
		{Email: "b@x.com", Orders: []model.Order{
			{ID: "3", Rated: true, Rating: 5, Items: []model.LineItem{{ProductID: 1}}},
		}},
	}

	tests := []struct {
		name      string
		users     []model.User
		productID int
		want      RatingDetails
	}{
		{name: "order with two products counts for A", users: users[:1], productID: 1, want: RatingDetails{Average: 4, Count: 1}},
		{name: "order with two products counts for B", users: users[:1], productID: 2, want: RatingDetails{Average: 4, Count: 1}},
		{name: "average across users", users: users, productID: 1, want: RatingDetails{Average: 4.5, Count: 2}},
		{name: "no ratings", users: users, productID: 9, want: RatingDetails{}},
		{name: "no users", productID: 1, want: RatingDetails{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProductRating(tt.users, tt.productID))
		})
	}
}

func TestProductRatingCountsRepeatedLinesOnce(t *testing.T) {
	users := []model.User{{Orders: []model.Order{
		{Rated: true, Rating: 3, Items: []model.LineItem{{ProductID: 1}, {ProductID: 1}}},
	}}}

	assert.Equal(t, RatingDetails{Average: 3, Count: 1}, ProductRating(users, 1))
	assert.Equal(t, RatingDetails{Average: 3, Count: 1}, CatalogRatings(users, []model.Product{{ID: 1}})[1])
}

func TestCatalogRatingsMatchesProductRating(t *testing.T) {
	users := []model.User{
		{Orders: []model.Order{
			{Rated: true, Rating: 2, Items: []model.LineItem{{ProductID: 1}, {ProductID: 2}}},
			{Rated: true, Rating: 5, Items: []model.LineItem{{ProductID: 2}}},
		}},
	}
	products := []model.Product{{ID: 1}, {ID: 2}, {ID: 3}}

	all := CatalogRatings(users, products)
	for _, p := range products {
		assert.Equal(t, ProductRating(users, p.ID), all[p.ID], "product %d", p.ID)
	}
}
