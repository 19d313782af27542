package api

import (
	"errors"
	"net/http"

	reqdto "flashsale/internal/handler/dto/request"
	resdto "flashsale/internal/handler/dto/response"
	"flashsale/internal/infra"
	"flashsale/internal/usecase/commands"
	"flashsale/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ShopHandler struct {
	shopCommands commands.ShopCommands
	shopQueries  queries.ShopQueries
}

func NewShopHandler(shopCommands commands.ShopCommands, shopQueries queries.ShopQueries) *ShopHandler {
	return &ShopHandler{
		shopCommands: shopCommands,
		shopQueries:  shopQueries,
	}
}

// @Summary Get shop
// @Description Get shop by ID through the cache shield
// @Tags shops
// @Produce json
// @Param id path int true "Shop ID"
// @Success 200 {object} resdto.ShopResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /shops/{id} [get]
func (h *ShopHandler) GetShop(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid shop ID format",
		})
		return
	}

	view, err := h.shopQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Shop not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromShopView(view))
}

// @Summary Update shop
// @Description Update shop and evict its cache entry
// @Tags shops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Shop ID"
// @Param request body reqdto.UpdateShopRequest true "Shop fields"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /shops/{id} [put]
func (h *ShopHandler) UpdateShop(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid shop ID format",
		})
		return
	}

	var req reqdto.UpdateShopRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.UpdateShopParams{
		ID:      id,
		Name:    req.GetName(),
		Address: req.GetAddress(),
	}

	if err := h.shopCommands.UpdateShop(c.Request.Context(), params); err != nil {
		switch {
		case errors.Is(err, commands.ErrShopNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Shop not found",
			})
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

	c.Status(http.StatusNoContent)
}
