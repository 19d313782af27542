package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "flashsale/internal/handler/dto/request"
	resdto "flashsale/internal/handler/dto/response"
	"flashsale/internal/handler/middleware"
	"flashsale/internal/infra"
	"flashsale/internal/usecase/commands"
	"flashsale/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type VoucherHandler struct {
	voucherCommands commands.VoucherCommands
	seckillCommands commands.SeckillCommands
	voucherQueries  queries.VoucherQueries
}

func NewVoucherHandler(
	voucherCommands commands.VoucherCommands,
	seckillCommands commands.SeckillCommands,
	voucherQueries queries.VoucherQueries,
) *VoucherHandler {
	return &VoucherHandler{
		voucherCommands: voucherCommands,
		seckillCommands: seckillCommands,
		voucherQueries:  voucherQueries,
	}
}

// @Summary Publish voucher
// @Description Publish a flash-sale voucher and pre-warm its stock counter
// @Tags vouchers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PublishVoucherRequest true "Voucher definition"
// @Success 201 {object} resdto.VoucherResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /vouchers [post]
func (h *VoucherHandler) PublishVoucher(c *gin.Context) {
	var req reqdto.PublishVoucherRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.PublishVoucherParams{
		Title:        req.GetTitle(),
		PayValue:     req.PayValue,
		InitialStock: req.InitialStock,
		BeginTime:    req.BeginTime,
		EndTime:      req.EndTime,
	}

	view, err := h.voucherCommands.PublishVoucher(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromVoucherView(view))
}

// @Summary Get voucher
// @Description Get voucher by ID
// @Tags vouchers
// @Produce json
// @Param id path int true "Voucher ID"
// @Success 200 {object} resdto.VoucherResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /vouchers/{id} [get]
func (h *VoucherHandler) GetVoucher(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid voucher ID format",
		})
		return
	}

	view, err := h.voucherQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Voucher not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromVoucherView(view))
}

// @Summary Seckill voucher
// @Description Attempt flash-sale admission for the authenticated user
// @Tags vouchers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Voucher ID"
// @Success 202 {object} resdto.SeckillResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /vouchers/{id}/seckill [post]
func (h *VoucherHandler) Seckill(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	voucherID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid voucher ID format",
		})
		return
	}

	orderID, err := h.seckillCommands.AttemptAdmission(c.Request.Context(), voucherID, userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrVoucherNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Voucher not found",
			})
		case errors.Is(err, commands.ErrSaleNotStarted):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Sale has not started",
			})
		case errors.Is(err, commands.ErrSaleEnded):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Sale has ended",
			})
		case errors.Is(err, commands.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Voucher is sold out",
			})
		case errors.Is(err, commands.ErrAlreadyPurchased):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Limit of one per user",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	// Accepted, not created: fulfillment completes asynchronously.
	c.JSON(http.StatusAccepted, resdto.SeckillResponse{OrderID: orderID})
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
