// internal/adapters/amadeus/client.go
package amadeus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"searchhotel/internal/adapters/observability"
	"searchhotel/internal/domain"
)

// Client talks to the Amadeus self-service APIs. It is safe for concurrent
// use and meant to be constructed once at startup and shared: the only
// mutable state is the cached bearer token.
type Client struct {
	base   string
	hc     *http.Client
	key    string
	secret string
	rl     *rate.Limiter

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func New(base, key, secret string, rps int, timeout time.Duration) (*Client, error) {
	if key == "" || secret == "" {
		return nil, fmt.Errorf("API key and secret are required")
	}
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		hc:     &http.Client{Timeout: timeout},
		key:    key,
		secret: secret,
		rl:     rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Port implementation ----

func (c *Client) SearchLocations(ctx context.Context, keyword string) ([]domain.Location, error) {
	q := url.Values{"keyword": {keyword}, "subType": {"CITY"}}
	var out locationsResponse
	if err := c.getJSON(ctx, "locations", "/v1/reference-data/locations?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.normalize(), nil
}

func (c *Client) ListHotelsByCity(ctx context.Context, cityCode string) ([]domain.HotelCandidate, error) {
	q := url.Values{"cityCode": {cityCode}}
	var out hotelListResponse
	if err := c.getJSON(ctx, "hotels_by_city", "/v1/reference-data/locations/hotels/by-city?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.normalize(), nil
}

func (c *Client) SearchOffers(ctx context.Context, hotelIDs []string, checkInDate, checkOutDate string) (map[string]domain.OfferBundle, error) {
	q := url.Values{
		"hotelIds":     {strings.Join(hotelIDs, ",")},
		"checkInDate":  {checkInDate},
		"checkOutDate": {checkOutDate},
	}
	var out hotelOffersResponse
	if err := c.getJSON(ctx, "hotel_offers", "/v3/shopping/hotel-offers?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.normalize(), nil
}

func (c *Client) OffersForHotel(ctx context.Context, hotelID string) ([]domain.Offer, error) {
	q := url.Values{"hotelIds": {hotelID}}
	var out hotelOffersResponse
	if err := c.getJSON(ctx, "hotel_offers", "/v3/shopping/hotel-offers?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	if b, ok := out.normalize()[hotelID]; ok {
		return b.Offers, nil
	}
	return nil, nil
}

func (c *Client) GetOffer(ctx context.Context, offerID string) (map[string]any, error) {
	var out map[string]any
	err := c.getJSON(ctx, "offer", "/v3/shopping/hotel-offers/"+url.PathEscape(offerID), &out)
	return out, err
}

func (c *Client) GetSentiments(ctx context.Context, hotelIDs []string) (map[string]domain.Sentiment, error) {
	q := url.Values{"hotelIds": {strings.Join(hotelIDs, ",")}}
	var out sentimentsResponse
	if err := c.getJSON(ctx, "sentiments", "/v2/e-reputation/hotel-sentiments?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.normalize(), nil
}

func (c *Client) CreateBooking(ctx context.Context, offerID string, guests, payments []json.RawMessage) (map[string]any, error) {
	body := bookingRequest{Data: bookingData{OfferID: offerID, Guests: guests, Payments: payments}}
	var out map[string]any
	err := c.postJSON(ctx, "booking", "/v1/booking/hotel-bookings", body, &out)
	return out, err
}

// ---- OAuth2 client-credential token ----

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	tok, exp := c.accessToken, c.tokenExpiry
	c.mu.Unlock()
	if tok != "" && time.Now().Before(exp) {
		return tok, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.key)
	form.Set("client_secret", c.secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveUpstream("token", 0, time.Since(start))
		return "", c.transportErr(ctx, err)
	}
	defer resp.Body.Close()
	observability.ObserveUpstream("token", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: token request failed (%d): %s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: token: %v", domain.ErrParse, err)
	}

	c.mu.Lock()
	c.accessToken = tr.AccessToken
	// renew slightly early so an in-flight call never carries a dead token
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn-30) * time.Second)
	c.mu.Unlock()
	return tr.AccessToken, nil
}

// ---- Transport internals ----

func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, endpoint, path, b, out)
}

// do performs one bounded request with client-side rate limiting and JSON
// decode into out. There is deliberately no retry loop here; the one
// sanctioned degradation path (sentiment batch -> per-hotel) lives in the
// pipeline, not the transport.
func (c *Client) do(ctx context.Context, method, endpoint, path string, body []byte, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveUpstream(endpoint, 0, time.Since(start))
		return c.transportErr(ctx, err)
	}
	defer resp.Body.Close()
	observability.ObserveUpstream(endpoint, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if resp.StatusCode == http.StatusNoContent {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrParse, endpoint, err)
		}
		return nil
	default:
		// forward the provider's diagnostic body, truncated
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s returned %d: %s", domain.ErrUpstream, endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

// transportErr classifies a failed round trip: deadline exhaustion becomes
// ErrUpstreamTimeout, everything else ErrUpstream.
func (c *Client) transportErr(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}
	var ue *url.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ue) && ue.Timeout()) {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
}
