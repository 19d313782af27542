package voucher

import (
	"errors"
	"time"
)

var (
	ErrEmptyTitle      = errors.New("voucher title is empty")
	ErrInvalidStock    = errors.New("voucher stock must be positive")
	ErrInvalidWindow   = errors.New("voucher sale window is invalid")
	ErrSaleNotStarted  = errors.New("voucher sale has not started")
	ErrSaleEnded       = errors.New("voucher sale has ended")
	ErrInvalidPayValue = errors.New("voucher pay value must be positive")
)

const MaxTitleLength = 128

// Voucher is a flash-sale voucher: a small, exhaustible resource sold inside
// a fixed time window. InitialStock is the durable truth at publication; the
// live countdown happens against the pre-warmed Redis counter.
type Voucher struct {
	id           int64
	title        string
	payValue     int64 // cents
	initialStock int32
	beginTime    time.Time
	endTime      time.Time
}

func NewVoucher(id int64, title string, payValue int64, initialStock int32, beginTime, endTime time.Time) (*Voucher, error) {
	if title == "" || len(title) > MaxTitleLength {
		return nil, ErrEmptyTitle
	}
	if payValue <= 0 {
		return nil, ErrInvalidPayValue
	}
	if initialStock <= 0 {
		return nil, ErrInvalidStock
	}
	if !endTime.After(beginTime) {
		return nil, ErrInvalidWindow
	}

	return &Voucher{
		id:           id,
		title:        title,
		payValue:     payValue,
		initialStock: initialStock,
		beginTime:    beginTime,
		endTime:      endTime,
	}, nil
}

func (v *Voucher) ID() int64            { return v.id }
func (v *Voucher) Title() string        { return v.title }
func (v *Voucher) PayValue() int64      { return v.payValue }
func (v *Voucher) InitialStock() int32  { return v.initialStock }
func (v *Voucher) BeginTime() time.Time { return v.beginTime }
func (v *Voucher) EndTime() time.Time   { return v.endTime }

// ValidateWindow reports whether the sale is open at the given instant.
func (v *Voucher) ValidateWindow(now time.Time) error {
	if now.Before(v.beginTime) {
		return ErrSaleNotStarted
	}
	if now.After(v.endTime) {
		return ErrSaleEnded
	}
	return nil
}
