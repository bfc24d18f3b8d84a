package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"searchhotel/internal/domain"
)

// Single-entity operations: validated proxies with no merge logic.

// SearchLocations looks up cities matching a keyword. Keywords shorter than
// two characters after trimming never reach the provider.
func (s *SearchService) SearchLocations(ctx context.Context, keyword string) ([]domain.Location, error) {
	k := strings.TrimSpace(keyword)
	if len(k) < 2 {
		return nil, fmt.Errorf("%w: missing or invalid 'keyword' parameter", domain.ErrInvalidParams)
	}
	cctx, cancel := context.WithTimeout(ctx, s.opts.UpstreamTimeout)
	defer cancel()
	return s.client.SearchLocations(cctx, k)
}

// OffersForHotel lists current offers for one hotel. An empty list is a
// valid answer ("found hotel, no availability") and is not an error.
func (s *SearchService) OffersForHotel(ctx context.Context, hotelID string) ([]domain.Offer, error) {
	if hotelID == "" {
		return nil, fmt.Errorf("%w: missing hotelId", domain.ErrInvalidParams)
	}
	cctx, cancel := context.WithTimeout(ctx, s.opts.UpstreamTimeout)
	defer cancel()
	return s.client.OffersForHotel(cctx, hotelID)
}

// OfferByID fetches one offer and forwards the provider object unchanged.
func (s *SearchService) OfferByID(ctx context.Context, offerID string) (map[string]any, error) {
	if offerID == "" {
		return nil, fmt.Errorf("%w: missing offerId", domain.ErrInvalidParams)
	}
	cctx, cancel := context.WithTimeout(ctx, s.opts.UpstreamTimeout)
	defer cancel()
	return s.client.GetOffer(cctx, offerID)
}

// CreateBooking forwards a booking to the provider after structural
// validation: the offer id, guest list and payment descriptor must be
// present. Their contents are the provider's business to validate.
func (s *SearchService) CreateBooking(ctx context.Context, offerID string, guests, payments []json.RawMessage) (map[string]any, error) {
	if offerID == "" {
		return nil, fmt.Errorf("%w: missing offerId", domain.ErrInvalidParams)
	}
	if len(guests) == 0 {
		return nil, fmt.Errorf("%w: guests must be a non-empty list", domain.ErrInvalidParams)
	}
	if len(payments) == 0 {
		return nil, fmt.Errorf("%w: payments must be a non-empty list", domain.ErrInvalidParams)
	}
	cctx, cancel := context.WithTimeout(ctx, s.opts.UpstreamTimeout)
	defer cancel()
	return s.client.CreateBooking(cctx, offerID, guests, payments)
}
