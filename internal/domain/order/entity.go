package order

import (
	"errors"
	"time"
)

var (
	ErrInvalidID         = errors.New("order id must be positive")
	ErrInvalidUser       = errors.New("order user id must be positive")
	ErrInvalidVoucher    = errors.New("order voucher id must be positive")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type Status string

const (
	// StatusAdmitted: the admission script accepted the request; the order
	// exists only as a queue message and a provisional id at this point.
	StatusAdmitted Status = "admitted"
	// StatusCommitted: the fulfillment worker materialized the order row.
	StatusCommitted Status = "committed"
	// StatusRejected: re-validation against the persistent store failed.
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAdmitted, StatusCommitted, StatusRejected:
		return true
	}
	return false
}

type Order struct {
	id        int64
	userID    int64
	voucherID int64
	status    Status
	createdAt time.Time
}

func NewOrder(id, userID, voucherID int64, createdAt time.Time) (*Order, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	if voucherID <= 0 {
		return nil, ErrInvalidVoucher
	}

	return &Order{
		id:        id,
		userID:    userID,
		voucherID: voucherID,
		status:    StatusAdmitted,
		createdAt: createdAt,
	}, nil
}

func (o *Order) ID() int64            { return o.id }
func (o *Order) UserID() int64        { return o.userID }
func (o *Order) VoucherID() int64     { return o.voucherID }
func (o *Order) Status() Status       { return o.status }
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// Commit promotes an admitted order. Committed is terminal.
func (o *Order) Commit() error {
	if o.status != StatusAdmitted {
		return ErrInvalidTransition
	}
	o.status = StatusCommitted
	return nil
}

func (o *Order) Reject() error {
	if o.status != StatusAdmitted {
		return ErrInvalidTransition
	}
	o.status = StatusRejected
	return nil
}
