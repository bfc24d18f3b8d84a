package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"searchhotel/internal/domain"
)

const dateLayout = "2006-01-02"

// fallbackWorkers bounds the per-hotel sentiment fan-out when the batched
// lookup fails.
const fallbackWorkers = 4

type Options struct {
	// HotelBatchLimit caps how many discovered hotels are enriched per
	// request, bounding fan-out to the rate-limited provider.
	HotelBatchLimit int

	// FallbackPrice/FallbackCurrency stand in when no offer priced a hotel,
	// so the UI never sees a null price.
	FallbackPrice    string
	FallbackCurrency string

	// UpstreamTimeout bounds each provider call.
	UpstreamTimeout time.Duration

	// CityHotelIDs optionally replaces the enrichment batch for specific
	// cities (demo-data workaround, normally empty).
	CityHotelIDs map[string][]string

	// RecordEnrichment receives pipeline enrichment outcomes, e.g. for a
	// metrics counter. Optional; nil disables recording.
	RecordEnrichment func(step, outcome string)
}

// SearchService owns the hotel search use cases. It holds no per-request
// state; the injected client is the only shared handle.
type SearchService struct {
	client domain.TravelClient
	opts   Options
}

func NewSearchService(c domain.TravelClient, opts Options) *SearchService {
	if opts.HotelBatchLimit <= 0 {
		opts.HotelBatchLimit = 20
	}
	if opts.UpstreamTimeout <= 0 {
		opts.UpstreamTimeout = 10 * time.Second
	}
	if opts.FallbackPrice == "" {
		opts.FallbackPrice = "500"
	}
	if opts.FallbackCurrency == "" {
		opts.FallbackCurrency = "INR"
	}
	if opts.RecordEnrichment == nil {
		opts.RecordEnrichment = func(step, outcome string) {}
	}
	return &SearchService{client: c, opts: opts}
}

// SearchEnrichedHotels returns one enriched record per discovered hotel for
// the city and date range, in discovery order.
//
// Discovery failure is fatal. Offer and sentiment enrichment are
// best-effort: either may fail or time out without aborting the search, the
// affected fields just degrade (fallback price, nil sentiments).
func (s *SearchService) SearchEnrichedHotels(ctx context.Context, cityCode, checkInDate, checkOutDate string) ([]domain.EnrichedHotel, error) {
	if err := validateStay(checkInDate, checkOutDate); err != nil {
		return nil, err
	}

	dctx, cancel := context.WithTimeout(ctx, s.opts.UpstreamTimeout)
	defer cancel()
	candidates, err := s.client.ListHotelsByCity(dctx, cityCode)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		// nothing to enrich, and no further provider calls
		return []domain.EnrichedHotel{}, nil
	}

	ids := s.batchIDs(cityCode, candidates)

	var (
		wg         sync.WaitGroup
		offers     map[string]domain.OfferBundle
		sentiments map[string]domain.Sentiment
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		offers = s.fetchOffers(ctx, ids, checkInDate, checkOutDate)
	}()
	go func() {
		defer wg.Done()
		sentiments = s.fetchSentiments(ctx, ids)
	}()
	wg.Wait()

	return merge(candidates, offers, sentiments, s.opts.FallbackPrice, s.opts.FallbackCurrency), nil
}

// batchIDs selects the hotel ids sent to the enrichment endpoints: the
// configured per-city list when one exists, else the first HotelBatchLimit
// discovered ids. The candidate list itself is never truncated.
func (s *SearchService) batchIDs(cityCode string, candidates []domain.HotelCandidate) []string {
	if pinned, ok := s.opts.CityHotelIDs[cityCode]; ok && len(pinned) > 0 {
		return pinned
	}
	ids := make([]string, 0, s.opts.HotelBatchLimit)
	for _, c := range candidates {
		if c.HotelID == "" {
			continue
		}
		ids = append(ids, c.HotelID)
		if len(ids) == s.opts.HotelBatchLimit {
			break
		}
	}
	return ids
}

func (s *SearchService) fetchOffers(ctx context.Context, ids []string, checkInDate, checkOutDate string) map[string]domain.OfferBundle {
	octx, cancel := context.WithTimeout(ctx, s.opts.UpstreamTimeout)
	defer cancel()
	out, err := s.client.SearchOffers(octx, ids, checkInDate, checkOutDate)
	if err != nil {
		s.opts.RecordEnrichment("offers", "failed")
		log.Warn().Err(err).Int("hotels", len(ids)).Msg("offer enrichment failed, continuing without prices")
		return nil
	}
	s.opts.RecordEnrichment("offers", "ok")
	return out
}

// fetchSentiments tries the whole batch once; if that call fails it degrades
// to one lookup per hotel, keeping whatever succeeds.
func (s *SearchService) fetchSentiments(ctx context.Context, ids []string) map[string]domain.Sentiment {
	bctx, cancel := context.WithTimeout(ctx, s.opts.UpstreamTimeout)
	defer cancel()
	out, err := s.client.GetSentiments(bctx, ids)
	if err == nil {
		s.opts.RecordEnrichment("sentiment", "ok")
		return out
	}
	s.opts.RecordEnrichment("sentiment", "failed")
	log.Warn().Err(err).Int("hotels", len(ids)).Msg("sentiment batch failed, retrying per hotel")

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(fallbackWorkers)
	)
	collected := make(map[string]domain.Sentiment, len(ids))
	for _, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(hotelID string) {
			defer wg.Done()
			defer sem.Release(1)

			hctx, cancel := context.WithTimeout(ctx, s.opts.UpstreamTimeout)
			defer cancel()
			one, err := s.client.GetSentiments(hctx, []string{hotelID})
			if err != nil {
				// individual misses are dropped silently
				s.opts.RecordEnrichment("sentiment_fallback", "failed")
				return
			}
			s.opts.RecordEnrichment("sentiment_fallback", "ok")
			mu.Lock()
			for k, v := range one {
				collected[k] = v
			}
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return collected
}

// merge attaches enrichment to each candidate, 1:1 and order-preserving.
func merge(candidates []domain.HotelCandidate, offers map[string]domain.OfferBundle, sentiments map[string]domain.Sentiment, fallbackPrice, fallbackCurrency string) []domain.EnrichedHotel {
	out := make([]domain.EnrichedHotel, 0, len(candidates))
	for _, c := range candidates {
		e := domain.EnrichedHotel{
			HotelCandidate: c,
			Offers:         []domain.Offer{},
			Price:          fallbackPrice,
			Currency:       fallbackCurrency,
		}
		if len(c.Media) > 0 && c.Media[0].URI != "" {
			uri := c.Media[0].URI
			e.Image = &uri
		}
		if b, ok := offers[c.HotelID]; ok {
			if len(b.Offers) > 0 {
				e.Offers = b.Offers
				if first := b.Offers[0].Price; first.Total != "" {
					e.Price = first.Total
					e.Currency = first.Currency
				}
			}
			if b.Rating != nil {
				// the offer response's rating is fresher than discovery's
				e.Rating = b.Rating
			}
			if e.Image == nil {
				e.Image = b.Image
			}
		}
		if snt, ok := sentiments[c.HotelID]; ok {
			overall, reviews := snt.OverallRating, snt.NumberOfReviews
			e.OverallRating = &overall
			e.NumberOfReviews = &reviews
			e.Sentiments = snt.Sentiments
		}
		out = append(out, e)
	}
	return out
}

func validateStay(checkInDate, checkOutDate string) error {
	if checkInDate == "" || checkOutDate == "" {
		return fmt.Errorf("%w: missing checkInDate or checkOutDate", domain.ErrInvalidParams)
	}
	in, err := time.Parse(dateLayout, checkInDate)
	if err != nil {
		return fmt.Errorf("%w: checkInDate must be YYYY-MM-DD", domain.ErrInvalidParams)
	}
	out, err := time.Parse(dateLayout, checkOutDate)
	if err != nil {
		return fmt.Errorf("%w: checkOutDate must be YYYY-MM-DD", domain.ErrInvalidParams)
	}
	// past check-in dates are left for the provider to reject
	if !in.Before(out) {
		return fmt.Errorf("%w: checkInDate must be before checkOutDate", domain.ErrInvalidParams)
	}
	return nil
}
