package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/bluevoyage/travelbooking/api"
	"github.com/bluevoyage/travelbooking/config"
	"github.com/bluevoyage/travelbooking/internal/service/booking"
	"github.com/bluevoyage/travelbooking/internal/service/itinerary"
	"github.com/bluevoyage/travelbooking/internal/service/packages"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, itinerarySvc itinerary.ItineraryUseCase, bookingSvc booking.BookingUseCase, packageSvc packages.PackageUseCase) error {
	router := gin.Default()

	api.NewItineraryHandler(itinerarySvc).Register(router.Group("/itineraries"))
	api.NewBookingHandler(bookingSvc).Register(router.Group("/bookings"))
	api.NewPackageHandler(packageSvc).Register(router.Group("/packages"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFile("/swagger/doc.json", filepath.Join(cfg.HTTP.SwaggerDir, "swagger.json"))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
	}

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
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
