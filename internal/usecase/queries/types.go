package queries

import "time"

// Read models (DTO for read side). VoucherView doubles as the cache payload
// for the pre-warmed voucher entries the admission path reads.
type VoucherView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	PayValue  int64     `json:"pay_value"`
	Stock     int32     `json:"stock"`
	BeginTime time.Time `json:"begin_time"`
	EndTime   time.Time `json:"end_time"`
}

type OrderView struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	VoucherID int64     `json:"voucher_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ShopView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	UpdatedAt time.Time `json:"updated_at"`
}
