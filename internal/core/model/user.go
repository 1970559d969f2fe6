package model

import (
	"strings"
)

// User is a storefront customer. Email is the unique key; orders are owned
// by the user and only ever change through a write of the whole collection.
type User struct {
	FullName string  `json:"fullName"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Address  string  `json:"address"`
	Phone    string  `json:"phone"`
	Password string  `json:"password"` // plaintext, shared with existing pages
	Orders   []Order `json:"orders"`
}

func NewUser(fullName, email, address, phone, password string) *User {
	return &User{
		FullName: fullName,
		Name:     FirstName(fullName),
		Email:    email,
		Address:  address,
		Phone:    phone,
		Password: password,
		Orders:   []Order{},
	}
}

// SetFullName updates both name fields.
func (u *User) SetFullName(fullName string) {
	u.FullName = fullName
	u.Name = FirstName(fullName)
}

// OrderIndex returns the position of the order with id, or -1.
func (u *User) OrderIndex(id string) int {
	for i := range u.Orders {
		if u.Orders[i].ID == id {
			return i
		}
	}
	return -1
}

// TotalSpent sums the totals of every order the user has placed.
func (u *User) TotalSpent() float64 {
	return SumTotals(u.Orders)
}

func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// FindUser returns the index of the user with email, or -1.
func FindUser(users []User, email string) int {
	for i := range users {
		if users[i].Email == email {
			return i
		}
	}
	return -1
}

// CloneUsers deep-copies users so a caller can mutate the result without
// touching a published snapshot.
func CloneUsers(users []User) []User {
	if users == nil {
		return nil
	}
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = u.Clone()
	}
	return out
}

func (u User) Clone() User {
	if u.Orders != nil {
		orders := make([]Order, len(u.Orders))
		for i, o := range u.Orders {
			orders[i] = o.Clone()
		}
		u.Orders = orders
	}
	return u
}
