package order

import (
	"database/sql/driver"
	"errors"
)

// Status is the delivery status of an order.
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusConfirmed        Status = "CONFIRMED"
	StatusPreparing        Status = "PREPARING"
	StatusReadyForDelivery Status = "READY_FOR_DELIVERY"
	StatusOutForDelivery   Status = "OUT_FOR_DELIVERY"
	StatusDelivered        Status = "DELIVERED"
	StatusCancelled        Status = "CANCELLED"
)

var ErrInvalidStatus = errors.New("invalid order status")

// progression is the forward order of statuses. CANCELLED sits outside of it
// and is reachable only by an explicit cancel.
var progression = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReadyForDelivery,
	StatusOutForDelivery,
	StatusDelivered,
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// rank returns the position of s in the forward progression, -1 for CANCELLED.
func (s Status) rank() int {
	for i, st := range progression {
		if st == s {
			return i
		}
	}

	return -1
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusPreparing,
		StatusReadyForDelivery, StatusOutForDelivery,
		StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
