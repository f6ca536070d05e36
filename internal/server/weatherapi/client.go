// Package weatherapi implements the weather gateway against the
// WeatherAPI.com HTTP API. It translates (location, kind, parameters) into
// provider calls and normalizes responses into the model shapes; provider
// failures surface through the common error taxonomy, untouched by retries.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/dmitrijs2005/weatherdash/internal/common"
	"github.com/dmitrijs2005/weatherdash/internal/logging"
	"github.com/dmitrijs2005/weatherdash/internal/server/models"
	"github.com/dmitrijs2005/weatherdash/internal/server/observability"
)

const (
	defaultBaseURL = "https://api.weatherapi.com/v1"
	defaultTimeout = 10 * time.Second

	dateLayout = "2006-01-02"

	// WeatherAPI.com error code for "no matching location found".
	codeNoMatchingLocation = 1006

	// Provider-side forecast horizon.
	maxForecastDays = 10
)

// Config carries the client settings. APIKey is required; zero values of the
// other fields fall back to production defaults.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Clock   clockwork.Clock
	Metrics *observability.Metrics
	Logger  logging.Logger
}

// Client is the gateway to the upstream weather provider. One circuit
// breaker guards all endpoints; the client never retries.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     logging.Logger
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "weatherapi",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
		clock:   clock,
		metrics: metrics,
		logger:  cfg.Logger.With("module", "weatherapi"),
	}
}

// Current fetches the present-moment weather for the location.
func (c *Client) Current(ctx context.Context, location string) (*models.CurrentWeather, error) {

	params := url.Values{}
	params.Set("q", location)

	var payload currentPayload
	if err := c.do(ctx, "current", "current.json", params, &payload); err != nil {
		return nil, err
	}

	cur := payload.Current
	return &models.CurrentWeather{
		Name:          location,
		Condition:     cur.Condition.Text,
		Temperature:   cur.TempC,
		FeelsLike:     cur.FeelslikeC,
		Humidity:      cur.Humidity,
		Cloud:         cur.Cloud,
		Precipitation: cur.PrecipMm,
		PressureMb:    cur.PressureMb,
		WindSpeed:     cur.WindKph,
		WindDirection: cur.WindDir,
	}, nil
}

// Historical fetches the daily aggregates for a past calendar date, given in
// YYYY-MM-DD form. Dates that do not parse or lie in the future fail with
// ErrInvalidDate before any upstream call is made.
func (c *Client) Historical(ctx context.Context, location, date string) (*models.DayWeather, error) {

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be in YYYY-MM-DD format, got %q", common.ErrInvalidDate, date)
	}
	today := c.clock.Now().UTC().Truncate(24 * time.Hour)
	if day.After(today) {
		return nil, fmt.Errorf("%w: %s is in the future", common.ErrInvalidDate, date)
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("dt", date)

	var payload forecastPayload
	if err := c.do(ctx, "history", "history.json", params, &payload); err != nil {
		return nil, err
	}

	days := payload.Forecast.Forecastday
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: empty history response", common.ErrUpstreamUnavailable)
	}

	record := dayToModel(location, days[0])
	return &record, nil
}

// Forecast fetches the daily aggregates for the next days (1..10),
// chronologically ascending as returned by the provider.
func (c *Client) Forecast(ctx context.Context, location string, days int) ([]models.DayWeather, error) {

	if days < 1 || days > maxForecastDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d, got %d", common.ErrInvalidRange, maxForecastDays, days)
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("days", strconv.Itoa(days))
	params.Set("aqi", "no")
	params.Set("alerts", "no")

	var payload forecastPayload
	if err := c.do(ctx, "forecast", "forecast.json", params, &payload); err != nil {
		return nil, err
	}

	records := make([]models.DayWeather, 0, len(payload.Forecast.Forecastday))
	for _, d := range payload.Forecast.Forecastday {
		records = append(records, dayToModel(location, d))
	}

	return records, nil
}

// do executes one provider request through the circuit breaker and decodes
// the 200 payload into out. Transport failures, timeouts, 5xx responses, and
// an open breaker all surface as ErrUpstreamUnavailable; a 4xx carrying the
// provider's "no matching location" code becomes ErrLocationNotFound.
func (c *Client) do(ctx context.Context, endpoint, path string, params url.Values, out any) error {

	start := time.Now()
	defer func() {
		c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	params.Set("key", c.apiKey)
	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("error creating request: %w", err)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		resp, execErr := c.httpClient.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		// 5xx and throttling count as breaker failures; 4xx carries a
		// provider error payload and is handled below.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.Error(ctx, "upstream request failed", "endpoint", endpoint, "error", err.Error())
		return fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: unexpected breaker result", common.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()

		var apiErr apiErrorPayload
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr != nil {
			return fmt.Errorf("%w: unexpected status %d", common.ErrUpstreamUnavailable, resp.StatusCode)
		}
		if apiErr.Error.Code == codeNoMatchingLocation {
			return fmt.Errorf("%w: %s", common.ErrLocationNotFound, apiErr.Error.Message)
		}
		return fmt.Errorf("%w: %s (code %d)", common.ErrUpstreamUnavailable, apiErr.Error.Message, apiErr.Error.Code)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: error decoding response: %v", common.ErrUpstreamUnavailable, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}

func dayToModel(location string, d forecastDay) models.DayWeather {
	return models.DayWeather{
		Name:                 location,
		Date:                 d.Date,
		Condition:            d.Day.Condition.Text,
		MinTemp:              d.Day.MintempC,
		MaxTemp:              d.Day.MaxtempC,
		AvgTemp:              d.Day.AvgtempC,
		AvgHumidity:          d.Day.Avghumidity,
		AvgVisibility:        d.Day.AvgvisKm,
		MaxWindSpeed:         d.Day.MaxwindKph,
		ChanceOfRain:         d.Day.DailyChanceOfRain,
		ChanceOfSnow:         d.Day.DailyChanceOfSnow,
		TotalPrecipitationMm: d.Day.TotalprecipMm,
		TotalSnowCm:          d.Day.TotalsnowCm,
	}
}

// WeatherAPI.com response types.

type currentPayload struct {
	Current struct {
		TempC      float64 `json:"temp_c"`
		FeelslikeC float64 `json:"feelslike_c"`
		Humidity   float64 `json:"humidity"`
		Cloud      float64 `json:"cloud"`
		PrecipMm   float64 `json:"precip_mm"`
		PressureMb float64 `json:"pressure_mb"`
		WindKph    float64 `json:"wind_kph"`
		WindDir    string  `json:"wind_dir"`
		Condition  struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

type forecastDay struct {
	Date string `json:"date"`
	Day  struct {
		MintempC          float64 `json:"mintemp_c"`
		MaxtempC          float64 `json:"maxtemp_c"`
		AvgtempC          float64 `json:"avgtemp_c"`
		MaxwindKph        float64 `json:"maxwind_kph"`
		TotalprecipMm     float64 `json:"totalprecip_mm"`
		TotalsnowCm       float64 `json:"totalsnow_cm"`
		AvgvisKm          float64 `json:"avgvis_km"`
		Avghumidity       float64 `json:"avghumidity"`
		DailyChanceOfRain float64 `json:"daily_chance_of_rain"`
		DailyChanceOfSnow float64 `json:"daily_chance_of_snow"`
		Condition         struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"day"`
}

type forecastPayload struct {
	Forecast struct {
		Forecastday []forecastDay `json:"forecastday"`
	} `json:"forecast"`
}

type apiErrorPayload struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
