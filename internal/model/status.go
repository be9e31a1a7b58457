package model

import "fmt"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

// Order statuses.
const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProcess  OrderStatus = "inProcess"
	OrderStatusInShipping OrderStatus = "inShipping"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusRejected   OrderStatus = "rejected"
)

// PaymentStatus is the state of the external payment attached to an order.
type PaymentStatus string

// Payment statuses.
const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// orderTransitions lists, per status, the statuses it may move to.
// Statuses absent from the map are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusInProcess, OrderStatusRejected},
	OrderStatusConfirmed:  {OrderStatusInProcess, OrderStatusRejected},
	OrderStatusInProcess:  {OrderStatusInShipping},
	OrderStatusInShipping: {OrderStatusDelivered},
}

// ParseOrderStatus converts s into a known OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInProcess,
		OrderStatusInShipping, OrderStatusDelivered, OrderStatusRejected:
		return st, nil
	}
	return "", NewInvalidStateError(fmt.Sprintf("unknown order status %q", s))
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	_, ok := orderTransitions[s]
	return !ok
}

// CanTransitionTo reports whether the table allows moving from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidStateError when s cannot move to next.
func ValidateTransition(current, next OrderStatus) error {
	if current.IsTerminal() {
		return NewInvalidStateError(fmt.Sprintf("order is %s and can no longer change status", current))
	}
	if !current.CanTransitionTo(next) {
		return NewInvalidStateError(fmt.Sprintf("cannot transition order from %s to %s", current, next))
	}
	return nil
}
