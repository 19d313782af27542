package response

import (
	"time"

	"flashsale/internal/usecase/queries"
)

type OrderResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	VoucherID int64     `json:"voucherId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromOrderView(rm *queries.OrderView) *OrderResponse {
	return &OrderResponse{
		ID:        rm.ID,
		UserID:    rm.UserID,
		VoucherID: rm.VoucherID,
		Status:    rm.Status,
		CreatedAt: rm.CreatedAt,
	}
}
