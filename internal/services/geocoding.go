package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"pindrop/internal/geo"
)

// Place is a suggestion for naming a new pin.
type Place struct {
	PlaceID  string    `json:"placeId"`
	Name     string    `json:"name"`
	Types    []string  `json:"types"`
	Location geo.Point `json:"location"`
}

// Geocoder resolves coordinates to place data. Implemented by
// GoogleGeocoder in production and by fakes in tests.
type Geocoder interface {
	// ReverseGeocode returns the locality and country for a coordinate.
	// Empty strings mean the provider could not tell; callers decide
	// whether that is fatal for their operation.
	ReverseGeocode(ctx context.Context, lat, lng float64) (city, country string, err error)
	// NearbyPlaces lists named places close to a coordinate.
	NearbyPlaces(ctx context.Context, lat, lng float64) ([]Place, error)
}

// GoogleGeocoder calls the Google Geocoding and Places web APIs.
type GoogleGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGoogleGeocoder() *GoogleGeocoder {
	apiKey := os.Getenv("GOOGLE_PLACES_API_KEY")
	if apiKey == "" {
		log.Println("Google Places API key not configured, geocoding will return empty results")
	}

	baseURL := os.Getenv("GOOGLE_MAPS_BASE_URL")
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com"
	}

	return &GoogleGeocoder{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		AddressComponents []struct {
			LongName string   `json:"long_name"`
			Types    []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
}

func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, string, error) {
	if g.apiKey == "" {
		return "", "", nil
	}

	reqURL := fmt.Sprintf("%s/maps/api/geocode/json?latlng=%f,%f&key=%s",
		g.baseURL, lat, lng, url.QueryEscape(g.apiKey))

	var data geocodeResponse
	if err := g.getJSON(ctx, reqURL, &data); err != nil {
		return "", "", err
	}
	if data.Status != "OK" {
		return "", "", fmt.Errorf("geocoding API status %s", data.Status)
	}

	var city, country string
	for _, result := range data.Results {
		for _, component := range result.AddressComponents {
			for _, t := range component.Types {
				if t == "locality" && city == "" {
					city = component.LongName
				}
				if t == "country" && country == "" {
					country = component.LongName
				}
			}
		}
		if city != "" && country != "" {
			break
		}
	}
	return city, country, nil
}

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string   `json:"place_id"`
		Name     string   `json:"name"`
		Types    []string `json:"types"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *GoogleGeocoder) NearbyPlaces(ctx context.Context, lat, lng float64) ([]Place, error) {
	if g.apiKey == "" {
		return []Place{}, nil
	}

	// Tight radius: suggestions are for naming the spot the user stands on.
	reqURL := fmt.Sprintf("%s/maps/api/place/nearbysearch/json?location=%f,%f&radius=50&key=%s",
		g.baseURL, lat, lng, url.QueryEscape(g.apiKey))

	var data nearbyResponse
	if err := g.getJSON(ctx, reqURL, &data); err != nil {
		return nil, err
	}
	if data.Status != "OK" && data.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API status %s", data.Status)
	}

	places := make([]Place, 0, len(data.Results))
	for _, r := range data.Results {
		places = append(places, Place{
			PlaceID:  r.PlaceID,
			Name:     r.Name,
			Types:    r.Types,
			Location: geo.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		})
	}
	return places, nil
}

func (g *GoogleGeocoder) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
