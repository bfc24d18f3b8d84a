package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"searchhotel/internal/adapters/amadeus"
	server "searchhotel/internal/adapters/http_server"
	"searchhotel/internal/adapters/observability"
	"searchhotel/internal/app"
	"searchhotel/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// one provider client for the process; everything downstream borrows it
	client, err := amadeus.New(cfg.AmadeusBase, cfg.AmadeusKey, cfg.AmadeusSecret, cfg.AmadeusRPS, cfg.UpstreamTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Amadeus client")
	}

	svc := app.NewSearchService(client, app.Options{
		HotelBatchLimit:  cfg.HotelBatchLimit,
		FallbackPrice:    cfg.FallbackPrice,
		FallbackCurrency: cfg.FallbackCurrency,
		UpstreamTimeout:  cfg.UpstreamTimeout,
		CityHotelIDs:     cfg.CityHotelIDs,
		RecordEnrichment: observability.ObserveEnrichment,
	})

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
