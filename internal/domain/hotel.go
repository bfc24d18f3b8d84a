package domain

// Location is a city-level match from the provider's reference-data search.
// The address block carries the cityCode used as input to hotel discovery.
type Location struct {
	Name     string          `json:"name"`
	IataCode string          `json:"iataCode,omitempty"`
	SubType  string          `json:"subType,omitempty"`
	Address  LocationAddress `json:"address"`
}

type LocationAddress struct {
	CityName    string `json:"cityName"`
	CityCode    string `json:"cityCode"`
	CountryName string `json:"countryName,omitempty"`
	StateCode   string `json:"stateCode,omitempty"`
}

// HotelCandidate is a hotel returned by city discovery, before enrichment.
// HotelID is the join key for offers and sentiments.
type HotelCandidate struct {
	HotelID   string   `json:"hotelId"`
	Name      string   `json:"name"`
	ChainCode string   `json:"chainCode,omitempty"`
	CityCode  string   `json:"cityCode,omitempty"`
	Rating    *int     `json:"rating,omitempty"`
	GeoCode   *GeoCode `json:"geoCode,omitempty"`
	Address   []string `json:"address,omitempty"`
	Media     []Media  `json:"media,omitempty"`
}

type GeoCode struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Media struct {
	URI      string `json:"uri"`
	Category string `json:"category,omitempty"`
}

// Price keeps the provider's string total; this server never does money math.
type Price struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type Offer struct {
	ID              string `json:"id"`
	CheckInDate     string `json:"checkInDate,omitempty"`
	CheckOutDate    string `json:"checkOutDate,omitempty"`
	RoomDescription string `json:"roomDescription,omitempty"`
	Price           Price  `json:"price"`
}

// OfferBundle groups the offers a batched search returned for one hotel.
// The offer response embeds its own copy of the hotel record, which can
// carry a rating or image the discovery record lacks.
type OfferBundle struct {
	HotelID string
	Rating  *int
	Image   *string
	Offers  []Offer
}

// Sentiment is provider-supplied aggregate review data for one hotel.
type Sentiment struct {
	HotelID         string             `json:"hotelId"`
	OverallRating   float64            `json:"overallRating"`
	NumberOfReviews int                `json:"numberOfReviews"`
	Sentiments      map[string]float64 `json:"sentiments,omitempty"`
}

// EnrichedHotel is the per-candidate merge of discovery, pricing and
// sentiment data. A search response is 1:1 with discovery, in discovery
// order. Price and Currency are always set: a configured fallback stands in
// when no offer priced the stay.
type EnrichedHotel struct {
	HotelCandidate
	Image           *string            `json:"image"`
	Price           string             `json:"price"`
	Currency        string             `json:"currency"`
	Offers          []Offer            `json:"offers"`
	OverallRating   *float64           `json:"overallRating"`
	NumberOfReviews *int               `json:"numberOfReviews"`
	Sentiments      map[string]float64 `json:"sentiments"`
}
