package request

import "strings"

type UpdateShopRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

func (r UpdateShopRequest) GetName() string {
	return strings.TrimSpace(r.Name)
}

func (r UpdateShopRequest) GetAddress() string {
	return strings.TrimSpace(r.Address)
}
