package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/trusttrip/backend/internal/domain"
)

func TestStatsHandler_stats(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewStatsHandler(mockService)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/stats", nil)

	stats := &domain.Stats{
		TotalBookings: 3,
		TotalUsers:    2,
		TotalSpent:    0.0006,
		BookingsByType: domain.BookingsByType{
			Flight: 2,
			Hotel:  1,
		},
	}
	mockService.On("Stats", c.Request.Context()).Return(stats, nil)

	handler.stats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	got := response["data"].(map[string]any)
	assert.Equal(t, float64(3), got["totalBookings"])
	assert.Equal(t, float64(2), got["totalUsers"])

	mockService.AssertExpectations(t)
}

func TestStatsHandler_stats_Error(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewStatsHandler(mockService)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/stats", nil)

	mockService.On("Stats", c.Request.Context()).Return(nil, assert.AnError)

	handler.stats(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
