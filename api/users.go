package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trusttrip/backend/internal/service/booking"
)

type UserHandler struct {
	service booking.BookingUseCase
}

func NewUserHandler(service booking.BookingUseCase) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.GET("/user/:walletAddress", h.profile)
}

func (h *UserHandler) profile(c *gin.Context) {
	profile, err := h.service.UserProfile(c.Request.Context(), c.Param("walletAddress"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}
