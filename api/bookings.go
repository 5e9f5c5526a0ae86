package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trusttrip/backend/internal/service/booking"
)

const simulationNotice = "This booking was completed in simulation mode without real payment"

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/book", h.create)
	router.GET("/bookings/:walletAddress", h.listByWallet)
	router.GET("/booking/:bookingId", h.byID)
}

func (h *BookingHandler) create(c *gin.Context) {
	var input booking.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body: " + err.Error()})
		return
	}

	confirmation, err := h.service.CreateBooking(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}

	response := gin.H{
		"success":    true,
		"message":    "Your " + input.BookingType + " has been booked successfully!",
		"bookingId":  confirmation.Booking.BookingID,
		"details":    confirmation.Booking,
		"credential": confirmation.Credential,
	}
	if confirmation.Booking.SimulatedPayment {
		response["simulationNotice"] = simulationNotice
	}
	c.JSON(http.StatusOK, response)
}

func (h *BookingHandler) listByWallet(c *gin.Context) {
	bookings, err := h.service.BookingsByWallet(c.Request.Context(), c.Param("walletAddress"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(bookings),
		"data":    bookings,
	})
}

func (h *BookingHandler) byID(c *gin.Context) {
	found, err := h.service.BookingByID(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": found})
}
