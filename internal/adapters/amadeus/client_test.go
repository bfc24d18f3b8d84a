package amadeus_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"searchhotel/internal/adapters/amadeus"
	"searchhotel/internal/domain"
)

const tokenJSON = `{"access_token":"tok-123","expires_in":1799}`

// fakeAmadeus serves the token endpoint plus whatever routes the test adds.
func fakeAmadeus(t *testing.T, tokenHits *int32, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if tokenHits != nil {
			atomic.AddInt32(tokenHits, 1)
		}
		if r.Method != http.MethodPost || r.FormValue("grant_type") != "client_credentials" {
			w.WriteHeader(400)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tokenJSON))
	})
	for p, h := range routes {
		mux.HandleFunc(p, h)
	}
	return httptest.NewServer(mux)
}

func requireBearer(t *testing.T, r *http.Request) {
	t.Helper()
	if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
		t.Errorf("missing bearer token, got %q", got)
	}
}

func TestClient_SearchLocations_TokenReused(t *testing.T) {
	var tokenHits int32
	ts := fakeAmadeus(t, &tokenHits, map[string]http.HandlerFunc{
		"/v1/reference-data/locations": func(w http.ResponseWriter, r *http.Request) {
			requireBearer(t, r)
			if r.URL.Query().Get("subType") != "CITY" {
				t.Errorf("expected subType=CITY, got %q", r.URL.Query().Get("subType"))
			}
			_, _ = w.Write([]byte(`{"data":[{"name":"LONDON","iataCode":"LON","subType":"CITY",
				"address":{"cityName":"LONDON","cityCode":"LON","countryName":"UNITED KINGDOM"}}]}`))
		},
	})
	defer ts.Close()

	cl, err := amadeus.New(ts.URL, "k", "s", 100, 2*time.Second)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		locs, err := cl.SearchLocations(ctx, "lond")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(locs) != 1 || locs[0].Address.CityCode != "LON" || locs[0].Address.CityName != "LONDON" {
			t.Fatalf("unexpected locations: %+v", locs)
		}
	}
	if atomic.LoadInt32(&tokenHits) != 1 {
		t.Fatalf("expected token fetched once, got %d", tokenHits)
	}
}

func TestClient_SearchOffers_Normalizes(t *testing.T) {
	ts := fakeAmadeus(t, nil, map[string]http.HandlerFunc{
		"/v3/shopping/hotel-offers": func(w http.ResponseWriter, r *http.Request) {
			requireBearer(t, r)
			if got := r.URL.Query().Get("hotelIds"); got != "HA,HB" {
				t.Errorf("hotelIds: %q", got)
			}
			_, _ = w.Write([]byte(`{"data":[
				{"hotel":{"hotelId":"HA","name":"Alpha","rating":"4","media":[{"uri":"http://img/a.jpg"}]},
				 "available":true,
				 "offers":[{"id":"O1","checkInDate":"2025-06-01","checkOutDate":"2025-06-02",
					"room":{"description":{"text":"Double room"}},
					"price":{"total":"120.00","currency":"EUR"}}]}
			]}`))
		},
	})
	defer ts.Close()

	cl, _ := amadeus.New(ts.URL, "k", "s", 100, 2*time.Second)
	got, err := cl.SearchOffers(context.Background(), []string{"HA", "HB"}, "2025-06-01", "2025-06-02")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, ok := got["HA"]
	if !ok {
		t.Fatalf("expected bundle for HA: %+v", got)
	}
	if b.Rating == nil || *b.Rating != 4 {
		t.Fatalf("rating: %+v", b.Rating)
	}
	if b.Image == nil || *b.Image != "http://img/a.jpg" {
		t.Fatalf("image: %+v", b.Image)
	}
	if len(b.Offers) != 1 || b.Offers[0].RoomDescription != "Double room" || b.Offers[0].Price.Total != "120.00" {
		t.Fatalf("offers: %+v", b.Offers)
	}
	if _, ok := got["HB"]; ok {
		t.Fatalf("HB returned nothing upstream, must be absent from the map")
	}
}

func TestClient_UpstreamErrorCarriesDetail(t *testing.T) {
	ts := fakeAmadeus(t, nil, map[string]http.HandlerFunc{
		"/v1/reference-data/locations/hotels/by-city": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(500)
			_, _ = w.Write([]byte(`{"errors":[{"title":"SYSTEM ERROR"}]}`))
		},
	})
	defer ts.Close()

	cl, _ := amadeus.New(ts.URL, "k", "s", 100, 2*time.Second)
	_, err := cl.ListHotelsByCity(context.Background(), "LON")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !strings.Contains(err.Error(), "SYSTEM ERROR") {
		t.Fatalf("expected diagnostic detail forwarded, got %v", err)
	}
}

func TestClient_TimeoutMapsToUpstreamTimeout(t *testing.T) {
	ts := fakeAmadeus(t, nil, map[string]http.HandlerFunc{
		"/v1/reference-data/locations": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`{"data":[]}`))
		},
	})
	defer ts.Close()

	cl, _ := amadeus.New(ts.URL, "k", "s", 100, 50*time.Millisecond)
	_, err := cl.SearchLocations(context.Background(), "lond")
	if !errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Fatalf("expected upstream timeout, got %v", err)
	}
}

func TestClient_ParseErrorOnMalformedBody(t *testing.T) {
	ts := fakeAmadeus(t, nil, map[string]http.HandlerFunc{
		"/v2/e-reputation/hotel-sentiments": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>not json</html>`))
		},
	})
	defer ts.Close()

	cl, _ := amadeus.New(ts.URL, "k", "s", 100, 2*time.Second)
	_, err := cl.GetSentiments(context.Background(), []string{"HA"})
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestClient_CreateBooking_PostsJSONBody(t *testing.T) {
	var gotMethod, gotCT string
	var gotBody []byte
	ts := fakeAmadeus(t, nil, map[string]http.HandlerFunc{
		"/v1/booking/hotel-bookings": func(w http.ResponseWriter, r *http.Request) {
			requireBearer(t, r)
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte(`{"data":{"id":"BK1"}}`))
		},
	})
	defer ts.Close()

	cl, _ := amadeus.New(ts.URL, "k", "s", 100, 2*time.Second)
	guests := []json.RawMessage{json.RawMessage(`{"name":"A"}`)}
	payments := []json.RawMessage{json.RawMessage(`{"method":"creditCard"}`)}
	conf, err := cl.CreateBooking(context.Background(), "OF1", guests, payments)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotCT != "application/json" {
		t.Fatalf("content type: %q", gotCT)
	}
	var sent struct {
		Data struct {
			OfferID  string            `json:"offerId"`
			Guests   []json.RawMessage `json:"guests"`
			Payments []json.RawMessage `json:"payments"`
		} `json:"data"`
	}
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("request body: %v (%s)", err, gotBody)
	}
	if sent.Data.OfferID != "OF1" || len(sent.Data.Guests) != 1 || len(sent.Data.Payments) != 1 {
		t.Fatalf("request body: %s", gotBody)
	}
	data, _ := conf["data"].(map[string]any)
	if data == nil || data["id"] != "BK1" {
		t.Fatalf("confirmation: %+v", conf)
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	if _, err := amadeus.New("http://x", "", "", 5, time.Second); err == nil {
		t.Fatalf("expected error for missing credentials")
	}
}
