package visualcrossing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/run-weather-etl/internal/domain"
	"github.com/couchcryptid/run-weather-etl/internal/observability"
)

// Client implements domain.WeatherSource using the Visual Crossing timeline API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a timeline client. Each call makes exactly one request
// bounded by timeout.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		clock:   clockwork.NewRealClock(),
		metrics: metrics,
		logger:  logger,
	}
}

// HourlyObservations fetches the hourly records for one location and day.
func (c *Client) HourlyObservations(ctx context.Context, coords domain.Coordinates, date string) ([]domain.HourSample, error) {
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, coords.Location(), date)
	params := url.Values{
		"key":         {c.apiKey},
		"unitGroup":   {"metric"},
		"include":     {"hours"},
		"contentType": {"json"},
	}

	start := c.clock.Now()
	hours, err := c.doRequest(ctx, u+"?"+params.Encode())
	elapsed := c.clock.Since(start)
	c.metrics.WeatherAPIDuration.Observe(elapsed.Seconds())
	c.logger.Debug("timeline request", "location", coords.Location(), "date", date, "hours", len(hours), "duration", elapsed)

	switch {
	case err != nil:
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
	case len(hours) == 0:
		c.metrics.WeatherRequests.WithLabelValues("empty").Inc()
	default:
		c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	}
	return hours, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]domain.HourSample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request URL carries the API key; keep it out of logs.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("timeline request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("visual crossing API error: status %d: %s", resp.StatusCode, body)
	}

	var timeline response
	if err := json.NewDecoder(resp.Body).Decode(&timeline); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(timeline.Days) == 0 {
		return nil, nil
	}

	hours := make([]domain.HourSample, 0, len(timeline.Days[0].Hours))
	for _, h := range timeline.Days[0].Hours {
		hours = append(hours, toHourSample(h))
	}
	return hours, nil
}

// toHourSample maps one raw hour object. A missing datetime reads as
// midnight; a datetime that is not a string is left nil so the hour is
// never selected.
func toHourSample(h map[string]json.RawMessage) domain.HourSample {
	sample := domain.HourSample{
		Observation: domain.Observation{
			Temp:       scalarField(h["temp"]),
			Humidity:   scalarField(h["humidity"]),
			WindSpeed:  scalarField(h["windspeed"]),
			Precip:     scalarField(h["precip"]),
			Conditions: scalarField(h["conditions"]),
		},
	}

	raw, ok := h["datetime"]
	if !ok {
		midnight := "00:00:00"
		sample.Time = &midnight
		return sample
	}
	sample.Time = stringField(raw)
	return sample
}

// scalarField renders a value verbatim: strings lose their quotes, anything
// else keeps its JSON text. Null and missing keys are nil.
func scalarField(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}
	if s := stringField(raw); s != nil {
		return s
	}
	text := string(bytes.TrimSpace(raw))
	return &text
}

func stringField(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// Visual Crossing timeline response types.

type response struct {
	Days []day `json:"days"`
}

type day struct {
	Datetime string                       `json:"datetime"`
	Hours    []map[string]json.RawMessage `json:"hours"`
}
