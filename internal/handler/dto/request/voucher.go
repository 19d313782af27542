package request

import (
	"strings"
	"time"
)

type PublishVoucherRequest struct {
	Title        string    `json:"title" binding:"required"`
	PayValue     int64     `json:"pay_value" binding:"required"`
	InitialStock int32     `json:"initial_stock" binding:"required"`
	BeginTime    time.Time `json:"begin_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
}

func (r PublishVoucherRequest) GetTitle() string {
	return strings.TrimSpace(r.Title)
}
