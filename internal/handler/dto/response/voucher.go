package response

import (
	"time"

	"flashsale/internal/usecase/queries"
)

type VoucherResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	PayValue  int64     `json:"payValue"`
	Stock     int32     `json:"stock"`
	BeginTime time.Time `json:"beginTime"`
	EndTime   time.Time `json:"endTime"`
}

// SeckillResponse returns the provisional order id; the order becomes
// queryable once the fulfillment worker commits it.
type SeckillResponse struct {
	OrderID int64 `json:"orderId"`
}

func FromVoucherView(rm *queries.VoucherView) *VoucherResponse {
	return &VoucherResponse{
		ID:        rm.ID,
		Title:     rm.Title,
		PayValue:  rm.PayValue,
		Stock:     rm.Stock,
		BeginTime: rm.BeginTime,
		EndTime:   rm.EndTime,
	}
}
