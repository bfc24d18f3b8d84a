package shared

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	AmadeusBase   string
	AmadeusKey    string
	AmadeusSecret string
	AmadeusRPS    int

	UpstreamTimeout time.Duration
	HotelBatchLimit int

	// Fallback pricing used when no offer priced a hotel. The defaults keep
	// the demo UI free of null prices; override per deployment.
	FallbackPrice    string
	FallbackCurrency string

	// CityHotelIDs optionally pins the enrichment batch for specific demo
	// cities where upstream discovery has data gaps. JSON map, cityCode ->
	// hotel ids. Empty in normal operation.
	CityHotelIDs map[string][]string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		HTTPAddr:         listenAddr(),
		MetricsAddr:      env("METRICS_ADDR", ""),
		AmadeusBase:      env("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
		AmadeusKey:       env("AMADEUS_API_KEY", ""),
		AmadeusSecret:    env("AMADEUS_API_SECRET", ""),
		AmadeusRPS:       atoi("AMADEUS_RPS", 5),
		UpstreamTimeout:  time.Duration(atoi("UPSTREAM_TIMEOUT_SECONDS", 10)) * time.Second,
		HotelBatchLimit:  atoi("HOTEL_BATCH_LIMIT", 20),
		FallbackPrice:    env("FALLBACK_PRICE", "500"),
		FallbackCurrency: env("FALLBACK_CURRENCY", "INR"),
		CityHotelIDs:     cityHotelIDs(),
	}
	if c.AmadeusKey == "" || c.AmadeusSecret == "" {
		log.Warn().Msg("AMADEUS_API_KEY / AMADEUS_API_SECRET is empty")
	}
	return c
}

// listenAddr honors HTTP_ADDR, then PORT (platform convention), then :3000.
func listenAddr() string {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		return v
	}
	if p := os.Getenv("PORT"); p != "" {
		return ":" + p
	}
	return ":3000"
}

func cityHotelIDs() map[string][]string {
	raw := os.Getenv("CITY_HOTEL_IDS")
	if raw == "" {
		return nil
	}
	var m map[string][]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		log.Warn().Err(err).Msg("CITY_HOTEL_IDS is not valid JSON, ignoring")
		return nil
	}
	return m
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
