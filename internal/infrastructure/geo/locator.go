package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Location is what IP geolocation resolves for address prefill
type Location struct {
	City       string `json:"city"`
	Region     string `json:"region"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Latitude   float64
	Longitude  float64
}

// Locator resolves a client IP to an approximate location
type Locator interface {
	Locate(ctx context.Context, ip string) (*Location, error)
}

type provider interface {
	name() string
	locate(ctx context.Context, client *http.Client, ip string) (*Location, error)
}

// ChainLocator tries each provider in order and returns the first usable
// answer. A location with coordinates but no city gets one reverse
// geocode attempt before being returned as is.
type ChainLocator struct {
	client    *http.Client
	providers []provider
	reverse   *reverseGeocoder
	logger    *zap.Logger
}

// NewChainLocator creates the default provider chain
func NewChainLocator(timeout time.Duration, logger *zap.Logger) *ChainLocator {
	client := &http.Client{Timeout: timeout}
	return &ChainLocator{
		client:    client,
		providers: []provider{&ipapiProvider{}, &geolocationDBProvider{}},
		reverse:   &reverseGeocoder{},
		logger:    logger,
	}
}

// Locate resolves a client IP to an approximate location
func (l *ChainLocator) Locate(ctx context.Context, ip string) (*Location, error) {
	var lastErr error
	for _, p := range l.providers {
		loc, err := p.locate(ctx, l.client, ip)
		if err != nil {
			l.logger.Debug("geo provider failed", zap.String("provider", p.name()), zap.Error(err))
			lastErr = err
			continue
		}

		if loc.City == "" && (loc.Latitude != 0 || loc.Longitude != 0) {
			if rev, rerr := l.reverse.lookup(ctx, l.client, loc.Latitude, loc.Longitude); rerr == nil {
				if loc.City == "" {
					loc.City = rev.City
				}
				if loc.Region == "" {
					loc.Region = rev.Region
				}
				if loc.Country == "" {
					loc.Country = rev.Country
				}
			}
		}
		return loc, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("geo: no providers configured")
	}
	return nil, fmt.Errorf("geo: all providers failed: %w", lastErr)
}

// ipapiProvider queries ipapi.co
type ipapiProvider struct{}

func (p *ipapiProvider) name() string { return "ipapi" }

func (p *ipapiProvider) locate(ctx context.Context, client *http.Client, ip string) (*Location, error) {
	var payload struct {
		City      string  `json:"city"`
		Region    string  `json:"region"`
		Country   string  `json:"country_name"`
		Postal    string  `json:"postal"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Error     bool    `json:"error"`
		Reason    string  `json:"reason"`
	}
	if err := getJSON(ctx, client, fmt.Sprintf("https://ipapi.co/%s/json/", ip), &payload); err != nil {
		return nil, err
	}
	if payload.Error {
		return nil, fmt.Errorf("ipapi: %s", payload.Reason)
	}
	return &Location{
		City:       payload.City,
		Region:     payload.Region,
		Country:    payload.Country,
		PostalCode: payload.Postal,
		Latitude:   payload.Latitude,
		Longitude:  payload.Longitude,
	}, nil
}

// geolocationDBProvider queries geolocation-db.com as a fallback
type geolocationDBProvider struct{}

func (p *geolocationDBProvider) name() string { return "geolocation-db" }

func (p *geolocationDBProvider) locate(ctx context.Context, client *http.Client, ip string) (*Location, error) {
	var payload struct {
		City      string      `json:"city"`
		State     string      `json:"state"`
		Country   string      `json:"country_name"`
		Postal    string      `json:"postal"`
		Latitude  json.Number `json:"latitude"`
		Longitude json.Number `json:"longitude"`
	}
	if err := getJSON(ctx, client, fmt.Sprintf("https://geolocation-db.com/json/%s", ip), &payload); err != nil {
		return nil, err
	}
	lat, _ := payload.Latitude.Float64()
	lon, _ := payload.Longitude.Float64()
	return &Location{
		City:       payload.City,
		Region:     payload.State,
		Country:    payload.Country,
		PostalCode: payload.Postal,
		Latitude:   lat,
		Longitude:  lon,
	}, nil
}

// reverseGeocoder resolves coordinates to place names when a provider
// returns only a lat/long
type reverseGeocoder struct{}

func (r *reverseGeocoder) lookup(ctx context.Context, client *http.Client, lat, lon float64) (*Location, error) {
	var payload struct {
		City      string `json:"city"`
		Principal string `json:"principalSubdivision"`
		Country   string `json:"countryName"`
	}
	url := fmt.Sprintf("https://api.bigdatacloud.net/data/reverse-geocode-client?latitude=%f&longitude=%f", lat, lon)
	if err := getJSON(ctx, client, url, &payload); err != nil {
		return nil, err
	}
	return &Location{
		City:    payload.City,
		Region:  payload.Principal,
		Country: payload.Country,
	}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geo: unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
