// internal/adapters/amadeus/types.go
//
// Wire shapes for the Amadeus endpoints we consume, and their normalization
// into the canonical domain shapes. All shape tolerance (string vs numeric
// ratings, nested room descriptions, media on either the hotel or the offer
// record) ends here; nothing above the adapter branches on payload layout.
package amadeus

import (
	"encoding/json"
	"strconv"

	"searchhotel/internal/domain"
)

type wireMedia struct {
	URI      string `json:"uri"`
	Category string `json:"category"`
}

type locationsResponse struct {
	Data []struct {
		Name     string `json:"name"`
		IataCode string `json:"iataCode"`
		SubType  string `json:"subType"`
		Address  struct {
			CityName    string `json:"cityName"`
			CityCode    string `json:"cityCode"`
			CountryName string `json:"countryName"`
			StateCode   string `json:"stateCode"`
		} `json:"address"`
	} `json:"data"`
}

func (r locationsResponse) normalize() []domain.Location {
	out := make([]domain.Location, 0, len(r.Data))
	for _, d := range r.Data {
		out = append(out, domain.Location{
			Name:     d.Name,
			IataCode: d.IataCode,
			SubType:  d.SubType,
			Address: domain.LocationAddress{
				CityName:    d.Address.CityName,
				CityCode:    d.Address.CityCode,
				CountryName: d.Address.CountryName,
				StateCode:   d.Address.StateCode,
			},
		})
	}
	return out
}

type hotelListResponse struct {
	Data []struct {
		HotelID   string      `json:"hotelId"`
		Name      string      `json:"name"`
		ChainCode string      `json:"chainCode"`
		IataCode  string      `json:"iataCode"`
		Rating    json.Number `json:"rating"`
		GeoCode   *struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"geoCode"`
		Address struct {
			Lines       []string `json:"lines"`
			CityName    string   `json:"cityName"`
			CountryCode string   `json:"countryCode"`
		} `json:"address"`
		Media []wireMedia `json:"media"`
	} `json:"data"`
}

func (r hotelListResponse) normalize() []domain.HotelCandidate {
	out := make([]domain.HotelCandidate, 0, len(r.Data))
	for _, d := range r.Data {
		h := domain.HotelCandidate{
			HotelID:   d.HotelID,
			Name:      d.Name,
			ChainCode: d.ChainCode,
			CityCode:  d.IataCode,
			Rating:    parseStars(d.Rating.String()),
			Address:   d.Address.Lines,
		}
		if d.GeoCode != nil {
			h.GeoCode = &domain.GeoCode{Latitude: d.GeoCode.Latitude, Longitude: d.GeoCode.Longitude}
		}
		for _, m := range d.Media {
			h.Media = append(h.Media, domain.Media{URI: m.URI, Category: m.Category})
		}
		out = append(out, h)
	}
	return out
}

type hotelOffersResponse struct {
	Data []struct {
		Hotel struct {
			HotelID  string      `json:"hotelId"`
			Name     string      `json:"name"`
			CityCode string      `json:"cityCode"`
			Rating   json.Number `json:"rating"`
			Media    []wireMedia `json:"media"`
		} `json:"hotel"`
		Available bool `json:"available"`
		Offers    []struct {
			ID           string `json:"id"`
			CheckInDate  string `json:"checkInDate"`
			CheckOutDate string `json:"checkOutDate"`
			Room         struct {
				Description struct {
					Text string `json:"text"`
				} `json:"description"`
			} `json:"room"`
			Price struct {
				Total    string `json:"total"`
				Currency string `json:"currency"`
			} `json:"price"`
		} `json:"offers"`
	} `json:"data"`
}

func (r hotelOffersResponse) normalize() map[string]domain.OfferBundle {
	out := make(map[string]domain.OfferBundle, len(r.Data))
	for _, d := range r.Data {
		b := out[d.Hotel.HotelID]
		b.HotelID = d.Hotel.HotelID
		if b.Rating == nil {
			b.Rating = parseStars(d.Hotel.Rating.String())
		}
		if b.Image == nil && len(d.Hotel.Media) > 0 && d.Hotel.Media[0].URI != "" {
			uri := d.Hotel.Media[0].URI
			b.Image = &uri
		}
		for _, o := range d.Offers {
			b.Offers = append(b.Offers, domain.Offer{
				ID:              o.ID,
				CheckInDate:     o.CheckInDate,
				CheckOutDate:    o.CheckOutDate,
				RoomDescription: o.Room.Description.Text,
				Price:           domain.Price{Total: o.Price.Total, Currency: o.Price.Currency},
			})
		}
		out[d.Hotel.HotelID] = b
	}
	return out
}

type sentimentsResponse struct {
	Data []struct {
		HotelID         string             `json:"hotelId"`
		OverallRating   float64            `json:"overallRating"`
		NumberOfReviews int                `json:"numberOfReviews"`
		Sentiments      map[string]float64 `json:"sentiments"`
	} `json:"data"`
}

func (r sentimentsResponse) normalize() map[string]domain.Sentiment {
	out := make(map[string]domain.Sentiment, len(r.Data))
	for _, d := range r.Data {
		out[d.HotelID] = domain.Sentiment{
			HotelID:         d.HotelID,
			OverallRating:   d.OverallRating,
			NumberOfReviews: d.NumberOfReviews,
			Sentiments:      d.Sentiments,
		}
	}
	return out
}

type bookingRequest struct {
	Data bookingData `json:"data"`
}

type bookingData struct {
	OfferID  string            `json:"offerId"`
	Guests   []json.RawMessage `json:"guests"`
	Payments []json.RawMessage `json:"payments"`
}

// parseStars tolerates "4", 4 and 4.0; anything unparseable or out of the
// 1..5 star range is treated as absent.
func parseStars(s string) *int {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	if n < 1 || n > 5 {
		return nil
	}
	return &n
}
