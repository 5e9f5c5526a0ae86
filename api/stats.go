package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trusttrip/backend/internal/service/booking"
)

type StatsHandler struct {
	service booking.BookingUseCase
}

func NewStatsHandler(service booking.BookingUseCase) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Register(router *gin.RouterGroup) {
	router.GET("/stats", h.stats)
}

func (h *StatsHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
