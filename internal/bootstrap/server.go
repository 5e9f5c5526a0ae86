package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trusttrip/backend/api"
	"github.com/trusttrip/backend/config"
	"github.com/trusttrip/backend/internal/service/booking"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, bookingSvc booking.BookingUseCase, storeName string) error {
	router := newRouter(cfg, bookingSvc, storeName)

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, bookingSvc booking.BookingUseCase, storeName string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), CORS(cfg.HTTP.CORSOrigin))
	api.RegisterValidators()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": storeName})
	})

	group := router.Group("/api")
	api.NewBookingHandler(bookingSvc).Register(group)
	api.NewEstimateHandler(bookingSvc).Register(group)
	api.NewUserHandler(bookingSvc).Register(group)
	api.NewStatsHandler(bookingSvc).Register(group)

	return router
}
