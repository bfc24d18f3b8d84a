package domain

import (
	"context"
	"encoding/json"
)

// TravelClient is the outbound port to the travel-data provider.
//
// Implementations normalize provider payloads into the canonical shapes in
// this package immediately after decoding; nothing above this port branches
// on response shape. GetOffer and CreateBooking are pass-through operations
// and return the provider object as-is.
type TravelClient interface {
	SearchLocations(ctx context.Context, keyword string) ([]Location, error)
	ListHotelsByCity(ctx context.Context, cityCode string) ([]HotelCandidate, error)

	// SearchOffers prices a batch of hotels for a date range. The result is
	// keyed by hotelId; hotels with no availability are simply absent.
	SearchOffers(ctx context.Context, hotelIDs []string, checkInDate, checkOutDate string) (map[string]OfferBundle, error)
	OffersForHotel(ctx context.Context, hotelID string) ([]Offer, error)
	GetOffer(ctx context.Context, offerID string) (map[string]any, error)

	// GetSentiments accepts one or many ids; the per-hotel sentiment
	// fallback reuses it with single-element batches.
	GetSentiments(ctx context.Context, hotelIDs []string) (map[string]Sentiment, error)

	CreateBooking(ctx context.Context, offerID string, guests, payments []json.RawMessage) (map[string]any, error)
}
