package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trusttrip/backend/internal/service/booking"
)

type EstimateHandler struct {
	service booking.BookingUseCase
}

func NewEstimateHandler(service booking.BookingUseCase) *EstimateHandler {
	return &EstimateHandler{service: service}
}

func (h *EstimateHandler) Register(router *gin.RouterGroup) {
	router.POST("/estimate-price", h.estimate)
}

func (h *EstimateHandler) estimate(c *gin.Context) {
	var input booking.EstimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body: " + err.Error()})
		return
	}

	estimate, err := h.service.EstimatePrice(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"price":           estimate.Price,
		"currency":        estimate.Currency,
		"provider":        estimate.Provider,
		"destination":     estimate.Destination,
		"providerDID":     estimate.ProviderDID,
		"providerAddress": estimate.ProviderAddress,
	})
}
