// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"searchhotel/internal/app"
	"searchhotel/internal/domain"
)

type Handlers struct{ S *app.SearchService }

// apiError is the error body the UI expects: it reads .error and shows
// .detail when present.
type apiError struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	})
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/api/search", h.searchLocations)
	s.mux.Get("/api/hotels", h.listHotels)
	s.mux.Get("/api/offers", h.listOffers)
	s.mux.Get("/api/offer", h.getOffer)
	s.mux.Post("/api/booking", h.createBooking)
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiError{Error: msg, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// userMessage strips the taxonomy sentinel prefix from a wrapped error,
// leaving the human-readable detail.
func userMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func (h *Handlers) searchLocations(w http.ResponseWriter, r *http.Request) {
	// city data changes rarely but freshness wins over cache hits here
	w.Header().Set("Cache-Control", "no-store")

	locs, err := h.S.SearchLocations(r.Context(), r.URL.Query().Get("keyword"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParams) {
			writeError(w, http.StatusBadRequest, "Missing or invalid 'keyword' parameter", "")
			return
		}
		writeError(w, http.StatusInternalServerError, userMessage(err), "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": locs})
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hotels, err := h.S.SearchEnrichedHotels(r.Context(), q.Get("cityCode"), q.Get("checkInDate"), q.Get("checkOutDate"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParams) {
			writeError(w, http.StatusBadRequest, userMessage(err), "")
			return
		}
		writeError(w, http.StatusInternalServerError, userMessage(err), "")
		return
	}
	writeJSON(w, http.StatusOK, hotels)
}

func (h *Handlers) listOffers(w http.ResponseWriter, r *http.Request) {
	hotelID := r.URL.Query().Get("hotelId")
	if hotelID == "" {
		writeError(w, http.StatusBadRequest, "Missing hotelId", "")
		return
	}
	offers, err := h.S.OffersForHotel(r.Context(), hotelID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrParse):
		writeError(w, http.StatusInternalServerError, "Failed to parse Amadeus response", err.Error())
		return
	case errors.Is(err, domain.ErrUpstreamTimeout), errors.Is(err, domain.ErrUpstream):
		// full error string kept in detail for diagnosability
		writeError(w, http.StatusBadGateway, "Amadeus API error", err.Error())
		return
	default:
		writeError(w, http.StatusInternalServerError, userMessage(err), "")
		return
	}
	if len(offers) == 0 {
		// found the hotel, nothing bookable: explicit marker, not an error
		writeJSON(w, http.StatusOK, map[string]any{"data": []domain.Offer{}, "message": "No offers found for this hotel."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": offers})
}

func (h *Handlers) getOffer(w http.ResponseWriter, r *http.Request) {
	offer, err := h.S.OfferByID(r.Context(), r.URL.Query().Get("offerId"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParams) {
			writeError(w, http.StatusBadRequest, "Missing offerId", "")
			return
		}
		writeError(w, http.StatusInternalServerError, userMessage(err), "")
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

type bookingBody struct {
	Guests   []json.RawMessage `json:"guests"`
	Payments []json.RawMessage `json:"payments"`
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var body bookingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	conf, err := h.S.CreateBooking(r.Context(), r.URL.Query().Get("offerId"), body.Guests, body.Payments)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParams) {
			writeError(w, http.StatusBadRequest, userMessage(err), "")
			return
		}
		writeError(w, http.StatusInternalServerError, userMessage(err), "")
		return
	}
	writeJSON(w, http.StatusOK, conf)
}
