package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nattawatz/flightdesk/api"
	"github.com/nattawatz/flightdesk/config"
	"github.com/nattawatz/flightdesk/internal/service/booking"
	"github.com/nattawatz/flightdesk/internal/service/flights"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server (API + swagger UI) and blocks until the context
// is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) error {
	httpSrv := newServer(cfg, flightSvc, bookingSvc)

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

func newServer(cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())

	api.NewBookingHandler(bookingSvc).Register(router.Group("/reservations"))
	api.NewFlightHandler(flightSvc).Register(router.Group("/flights"))

	handler := http.NewServeMux()
	handler.Handle("/", router)

	if cfg.HTTP.SwaggerDir != "" {
		fs := http.FileServer(http.Dir(cfg.HTTP.SwaggerDir))
		handler.Handle("/swagger/", http.StripPrefix("/swagger/", fs))
		handler.Handle("/docs/", httpSwagger.Handler(
			httpSwagger.URL("/swagger/flightdesk.swagger.json"),
		))
	}

	return &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: handler,
	}
}
