package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"award-monitor/internal/awardchart"
	"award-monitor/internal/common/config"
	"award-monitor/internal/common/errors"
	"award-monitor/internal/common/logger"
	"award-monitor/internal/models"
)

func testQuery() Query {
	return Query{
		Routes:     []models.Route{{Origin: "JFK", Destination: "NRT"}},
		Dates:      []string{"2026-10-01"},
		CabinClass: awardchart.CabinEconomy,
		Adults:     1,
	}
}

func TestQuery_Keys(t *testing.T) {
	q := Query{
		Routes: []models.Route{
			{Origin: "JFK", Destination: "NRT"},
			{Origin: "LAX", Destination: "HND"},
		},
		Dates: []string{"2026-10-01", "2026-10-08"},
	}

	keys := q.Keys()
	require.Len(t, keys, 4)
	assert.Equal(t, models.SearchKey{Origin: "JFK", Destination: "NRT", DepartureDate: "2026-10-01"}, keys[0])
	assert.Equal(t, models.SearchKey{Origin: "LAX", Destination: "HND", DepartureDate: "2026-10-08"}, keys[3])
}

func TestQuery_ForKey(t *testing.T) {
	q := Query{
		Routes:     []models.Route{{Origin: "JFK", Destination: "NRT"}, {Origin: "LAX", Destination: "HND"}},
		Dates:      []string{"2026-10-01", "2026-10-08"},
		CabinClass: awardchart.CabinBusiness,
		Adults:     2,
	}

	narrowed := q.ForKey(models.SearchKey{Origin: "LAX", Destination: "HND", DepartureDate: "2026-10-08"})
	require.Len(t, narrowed.Routes, 1)
	require.Len(t, narrowed.Dates, 1)
	assert.Equal(t, "LAX", narrowed.Routes[0].Origin)
	assert.Equal(t, "2026-10-08", narrowed.Dates[0])
	assert.Equal(t, awardchart.CabinBusiness, narrowed.CabinClass)
	assert.Equal(t, 2, narrowed.Adults)
}

func amadeusTestServer(t *testing.T, tokenCalls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"expires_in":   1799,
		})
	})

	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "JFK", r.URL.Query().Get("originLocationCode"))
		assert.Equal(t, "ECONOMY", r.URL.Query().Get("travelClass"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{
					"itineraries": []map[string]interface{}{
						{
							"segments": []map[string]interface{}{
								{
									"departure":   map[string]string{"iataCode": "JFK", "at": "2026-10-01T18:30:00"},
									"arrival":     map[string]string{"iataCode": "ORD"},
									"carrierCode": "UA",
								},
								{
									"departure":   map[string]string{"iataCode": "ORD", "at": "2026-10-01T22:10:00"},
									"arrival":     map[string]string{"iataCode": "NRT"},
									"carrierCode": "UA",
								},
							},
						},
					},
					"price": map[string]string{"total": "843.50", "currency": "USD"},
				},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAmadeusSource_Search(t *testing.T) {
	var tokenCalls int32
	srv := amadeusTestServer(t, &tokenCalls)

	s := NewAmadeusSource(config.FastSourceConfig{
		BaseURL:    srv.URL,
		APIKey:     "key",
		APISecret:  "secret",
		Timeout:    5000,
		MaxResults: 50,
	}, logger.NewTestLogger(t))

	offers, err := s.Search(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, offers, 1)

	o := offers[0]
	assert.Equal(t, "JFK", o.Origin)
	assert.Equal(t, "NRT", o.Destination)
	assert.Equal(t, "2026-10-01", o.DepartureDate)
	assert.Equal(t, "UA", o.Airline)
	assert.Equal(t, 1, o.Stops)
	assert.Equal(t, 843.50, o.PriceUSD)
	assert.Equal(t, 84350, o.Points)
	assert.True(t, o.PointsEstimated)
	assert.Equal(t, models.SourceFast, o.Source)
	assert.NotEmpty(t, o.ID)
}

func TestAmadeusSource_TokenReused(t *testing.T) {
	var tokenCalls int32
	srv := amadeusTestServer(t, &tokenCalls)

	s := NewAmadeusSource(config.FastSourceConfig{
		BaseURL: srv.URL, APIKey: "key", APISecret: "secret", Timeout: 5000, MaxResults: 50,
	}, logger.NewTestLogger(t))

	q := testQuery()
	q.Dates = []string{"2026-10-01", "2026-10-08"}

	_, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))
}

func TestAmadeusSource_AllRoutesFailing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "t", "expires_in": 1799})
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewAmadeusSource(config.FastSourceConfig{
		BaseURL: srv.URL, APIKey: "key", APISecret: "secret", Timeout: 5000, MaxResults: 50,
	}, logger.NewNoOpLogger())

	_, err := s.Search(context.Background(), testQuery())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceSearchFailed))
}

func TestPortalSource_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/award-search", r.URL.Path)
		assert.Equal(t, "Bearer portal-key", r.Header.Get("Authorization"))

		var req portalSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "JFK", req.Origin)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"flights": []map[string]interface{}{
				{"airline": "NH", "stops": 0, "priceUsd": 1400.0, "points": 85000, "bookingUrl": "https://portal/b/1"},
				{"airline": "UA", "stops": 1, "priceUsd": 1100.0, "points": 0},
			},
		})
	}))
	defer srv.Close()

	s := NewPortalSource(config.AccurateSourceConfig{
		BaseURL: srv.URL, APIKey: "portal-key", Timeout: 5000,
	}, logger.NewTestLogger(t))

	offers, err := s.Search(context.Background(), testQuery())
	require.NoError(t, err)
	// Flights without point pricing are dropped.
	require.Len(t, offers, 1)

	o := offers[0]
	assert.Equal(t, "NH", o.Airline)
	assert.Equal(t, 85000, o.Points)
	assert.False(t, o.PointsEstimated)
	assert.Equal(t, models.SourceAccurate, o.Source)
	assert.Equal(t, "https://portal/b/1", o.BookingURL)
}

func TestPortalSource_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "portal session expired", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewPortalSource(config.AccurateSourceConfig{BaseURL: srv.URL, Timeout: 5000}, logger.NewNoOpLogger())

	_, err := s.Search(context.Background(), testQuery())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceSearchFailed))
}
