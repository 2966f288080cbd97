package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"award-monitor/internal/awardchart"
	"award-monitor/internal/common/config"
	"award-monitor/internal/common/errors"
	httpclient "award-monitor/internal/common/http"
	"award-monitor/internal/common/logger"
	"award-monitor/internal/models"
)

// PortalSource is the accurate source: a companion scraper service that logs
// into the travel portal and reads real award pricing. Slow, so the
// orchestrator only sends it keys selected for deepening.
type PortalSource struct {
	baseURL string
	apiKey  string
	client  *httpclient.Client
	log     logger.Logger
}

func NewPortalSource(cfg config.AccurateSourceConfig, log logger.Logger) *PortalSource {
	return &PortalSource{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpclient.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
		log:     log.WithFields(map[string]interface{}{"source": "portal"}),
	}
}

func (s *PortalSource) Name() string { return "portal" }

func (s *PortalSource) Kind() models.SourceKind { return models.SourceAccurate }

type portalSearchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
	CabinClass    string `json:"cabinClass"`
	Adults        int    `json:"adults"`
}

type portalFlight struct {
	Airline    string  `json:"airline"`
	Stops      int     `json:"stops"`
	PriceUSD   float64 `json:"priceUsd"`
	Points     int     `json:"points"`
	BookingURL string  `json:"bookingUrl"`
}

func (s *PortalSource) Search(ctx context.Context, q Query) ([]models.FlightOffer, error) {
	var offers []models.FlightOffer

	for _, key := range q.Keys() {
		found, err := s.searchOne(ctx, key, q)
		if err != nil {
			if ctx.Err() != nil {
				return offers, ctx.Err()
			}
			// The orchestrator deepens one key per call; surface the failure
			// so that key degrades to fast-only data.
			return offers, err
		}
		offers = append(offers, found...)
	}
	return offers, nil
}

func (s *PortalSource) searchOne(ctx context.Context, key models.SearchKey, q Query) ([]models.FlightOffer, error) {
	body, err := json.Marshal(portalSearchRequest{
		Origin:        key.Origin,
		Destination:   key.Destination,
		DepartureDate: key.DepartureDate,
		ReturnDate:    q.ReturnDate,
		CabinClass:    string(q.CabinClass),
		Adults:        q.Adults,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/api/v1/award-search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	var payload struct {
		Flights []portalFlight `json:"flights"`
	}
	if err := s.client.DoJSON(ctx, req, &payload); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewSourceTimeoutError(s.Name())
		}
		return nil, errors.NewSourceSearchFailedError(s.Name(), fmt.Errorf("award search: %w", err))
	}

	now := time.Now()
	offers := make([]models.FlightOffer, 0, len(payload.Flights))
	for _, f := range payload.Flights {
		if f.Points <= 0 {
			s.log.Warn("flight without point pricing skipped", map[string]interface{}{
				"route":   key.Origin + "-" + key.Destination,
				"airline": f.Airline,
			})
			continue
		}
		offers = append(offers, models.FlightOffer{
			ID:            models.NewOfferID(),
			Origin:        key.Origin,
			Destination:   key.Destination,
			DepartureDate: key.DepartureDate,
			ReturnDate:    q.ReturnDate,
			CabinClass:    awardchart.ParseCabinClass(string(q.CabinClass)),
			Airline:       f.Airline,
			Stops:         f.Stops,
			PriceUSD:      f.PriceUSD,
			Currency:      "USD",
			Points:        f.Points,
			BookingURL:    f.BookingURL,
			Source:        models.SourceAccurate,
			FetchedAt:     now,
		})
	}
	return offers, nil
}
