package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"award-monitor/internal/awardchart"
	"award-monitor/internal/common/config"
	"award-monitor/internal/common/errors"
	httpclient "award-monitor/internal/common/http"
	"award-monitor/internal/common/logger"
	"award-monitor/internal/models"
)

// AmadeusSource is the fast source: the Amadeus flight offers API. Cash
// prices are real but point costs are estimated at one cent per point, so
// every offer is flagged PointsEstimated until the accurate source confirms.
type AmadeusSource struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	maxResults int
	client     *httpclient.Client
	limiter    *rateLimiter
	log        logger.Logger

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewAmadeusSource(cfg config.FastSourceConfig, log logger.Logger) *AmadeusSource {
	return &AmadeusSource{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		maxResults: cfg.MaxResults,
		client:     httpclient.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
		limiter:    newRateLimiter(time.Duration(cfg.RequestSpacing) * time.Millisecond),
		log:        log.WithFields(map[string]interface{}{"source": "amadeus"}),
	}
}

func (s *AmadeusSource) Name() string { return "amadeus" }

func (s *AmadeusSource) Kind() models.SourceKind { return models.SourceFast }

// Search queries every route and date combination. A failing combination is
// logged and skipped; the search fails only when nothing succeeded.
func (s *AmadeusSource) Search(ctx context.Context, q Query) ([]models.FlightOffer, error) {
	var offers []models.FlightOffer
	var lastErr error
	succeeded := 0

	for _, key := range q.Keys() {
		if err := s.limiter.Wait(ctx); err != nil {
			return offers, err
		}

		found, err := s.searchOne(ctx, key, q)
		if err != nil {
			if ctx.Err() != nil {
				return offers, ctx.Err()
			}
			lastErr = err
			s.log.Warn("route search failed", map[string]interface{}{
				"route": key.Origin + "-" + key.Destination,
				"date":  key.DepartureDate,
				"error": err.Error(),
			})
			continue
		}

		succeeded++
		offers = append(offers, found...)
		s.log.Debug("route searched", map[string]interface{}{
			"route":  key.Origin + "-" + key.Destination,
			"date":   key.DepartureDate,
			"offers": len(found),
		})
	}

	if succeeded == 0 && lastErr != nil {
		return nil, errors.NewSourceSearchFailedError(s.Name(), lastErr)
	}
	return offers, nil
}

func (s *AmadeusSource) searchOne(ctx context.Context, key models.SearchKey, q Query) ([]models.FlightOffer, error) {
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("originLocationCode", key.Origin)
	params.Set("destinationLocationCode", key.Destination)
	params.Set("departureDate", key.DepartureDate)
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("travelClass", strings.ToUpper(string(q.CabinClass)))
	params.Set("currencyCode", "USD")
	params.Set("max", strconv.Itoa(s.maxResults))
	if q.ReturnDate != "" {
		params.Set("returnDate", q.ReturnDate)
	}

	endpoint := s.baseURL + "/v2/shopping/flight-offers?" + params.Encode()
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var payload amadeusOffersResponse
	if err := s.client.DoJSON(ctx, req, &payload); err != nil {
		return nil, fmt.Errorf("flight offers request: %w", err)
	}
	return s.parseOffers(payload, q.CabinClass), nil
}

// token returns a cached OAuth access token, refreshing it shortly before
// expiry.
func (s *AmadeusSource) token(ctx context.Context) (string, error) {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	if s.accessToken != "" && time.Now().Before(s.tokenExpiry.Add(-30*time.Second)) {
		return s.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", s.apiKey)
	form.Set("client_secret", s.apiSecret)

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := s.client.DoJSON(ctx, req, &tok); err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}

	s.accessToken = tok.AccessToken
	s.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return s.accessToken, nil
}

type amadeusOffersResponse struct {
	Data []struct {
		Itineraries []struct {
			Segments []struct {
				Departure struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IataCode string `json:"iataCode"`
				} `json:"arrival"`
				CarrierCode string `json:"carrierCode"`
			} `json:"segments"`
		} `json:"itineraries"`
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
	} `json:"data"`
}

func (s *AmadeusSource) parseOffers(payload amadeusOffersResponse, cabin awardchart.CabinClass) []models.FlightOffer {
	now := time.Now()
	offers := make([]models.FlightOffer, 0, len(payload.Data))

	for _, d := range payload.Data {
		if len(d.Itineraries) == 0 || len(d.Itineraries[0].Segments) == 0 {
			continue
		}
		outbound := d.Itineraries[0]
		first := outbound.Segments[0]
		last := outbound.Segments[len(outbound.Segments)-1]

		price, err := strconv.ParseFloat(d.Price.Total, 64)
		if err != nil {
			s.log.Warn("unparseable offer price", map[string]interface{}{"price": d.Price.Total})
			continue
		}

		returnDate := ""
		if len(d.Itineraries) > 1 && len(d.Itineraries[1].Segments) > 0 {
			returnDate = dateOf(d.Itineraries[1].Segments[0].Departure.At)
		}

		offers = append(offers, models.FlightOffer{
			ID:            models.NewOfferID(),
			Origin:        first.Departure.IataCode,
			Destination:   last.Arrival.IataCode,
			DepartureDate: dateOf(first.Departure.At),
			ReturnDate:    returnDate,
			CabinClass:    cabin,
			Airline:       first.CarrierCode,
			Stops:         len(outbound.Segments) - 1,
			PriceUSD:      price,
			Currency:      d.Price.Currency,
			// Rough one cent per point estimate until the accurate source
			// supplies real award pricing.
			Points:          int(price * 100),
			PointsEstimated: true,
			Source:          models.SourceFast,
			FetchedAt:       now,
		})
	}
	return offers
}

func dateOf(timestamp string) string {
	if i := strings.IndexByte(timestamp, 'T'); i > 0 {
		return timestamp[:i]
	}
	return timestamp
}
