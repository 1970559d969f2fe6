package notify

import (
	"fmt"
	"mdstore/internal/core/model"
)

const welcomeTitle = "Welcome to MD Fine Jewelry"

// Builder stamps and identifies new log entries. Clock and NewID are
// injected so tests can pin both.
type Builder struct {
	Currency string
	Clock    func() int64
	NewID    func() string
}

func (b *Builder) stamp(n model.Notification) model.Notification {
	n.Timestamp = model.MillisStamp(b.Clock())
	n.ID = b.NewID()
	return n
}

// OrderStatusChanged is sent to the owner when an admin moves an order.
func (b *Builder) OrderStatusChanged(ownerEmail, orderID string, status model.OrderStatus) model.Notification {
	return b.stamp(model.Notification{
		Title:       fmt.Sprintf("Order %s status updated", orderID),
		Message:     fmt.Sprintf("Your order %s status changed to %s", orderID, status),
		TargetEmail: ownerEmail,
	})
}

// RefundStatusChanged is sent to the owner when an admin sets a refund
// state. Clearing the state produces no entry, so ok is false for RefundNone.
func (b *Builder) RefundStatusChanged(ownerEmail string, order *model.Order, status model.RefundStatus) (model.Notification, bool) {
	amount := b.Currency + model.FormatAmount(order.Total)

	var message string
	switch status {
	case model.RefundRequested:
		message = fmt.Sprintf("Your refund request for order %s has been received and is under review.", order.ID)
	case model.RefundApproved:
		message = fmt.Sprintf("Your refund request for order %s has been approved. The amount %s will be processed soon.", order.ID, amount)
	case model.RefundCompleted:
		message = fmt.Sprintf("Your refund for order %s has been completed. Amount %s has been returned to your account.", order.ID, amount)
	default:
		return model.Notification{}, false
	}

	return b.stamp(model.Notification{
		Title:       fmt.Sprintf("Refund Status: Order %s", order.ID),
		Message:     message,
		TargetEmail: ownerEmail,
	}), true
}

// RefundRequested alerts the admin panel that a customer asked for a refund.
func (b *Builder) RefundRequested(customer *model.User, orderID string) model.Notification {
	return b.stamp(model.Notification{
		Title:    fmt.Sprintf("Refund Request: Order %s", orderID),
		Message:  fmt.Sprintf("%s (%s) requested a refund for order %s", customer.FullName, customer.Email, orderID),
		Type:     model.NotificationTypeRefundRequest,
		Audience: model.AudienceAdmin,
	})
}

// Welcome greets a newly registered customer.
func (b *Builder) Welcome(user *model.User) model.Notification {
	return b.stamp(model.Notification{
		Title:       welcomeTitle,
		Message:     fmt.Sprintf("Thanks for joining, %s!", model.FirstName(user.FullName)),
		TargetEmail: user.Email,
	})
}

// Broadcast is an admin announcement to every customer.
func (b *Builder) Broadcast(title, message string) model.Notification {
	return b.stamp(model.Notification{
		Title:   title,
		Message: message,
	})
}
