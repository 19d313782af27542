package response

import (
	"time"

	"flashsale/internal/usecase/queries"
)

type ShopResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromShopView(rm *queries.ShopView) *ShopResponse {
	return &ShopResponse{
		ID:        rm.ID,
		Name:      rm.Name,
		Address:   rm.Address,
		UpdatedAt: rm.UpdatedAt,
	}
}
