package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/tropical-nights/internal/common"
	"github.com/i474232898/tropical-nights/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultArchiveURL is the Open-Meteo historical weather endpoint.
const DefaultArchiveURL = "https://archive-api.open-meteo.com/v1/archive"

const dailyMinTemp = "temperature_2m_min"

// OpenMeteoArchiveProvider implements the weather.Provider interface for the
// Open-Meteo archive API.
type OpenMeteoArchiveProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoArchiveProvider creates a provider against baseURL (DefaultArchiveURL when empty).
// maxRetries of zero issues exactly one request per year.
func NewOpenMeteoArchiveProvider(client *http.Client, baseURL string, maxRetries int) *OpenMeteoArchiveProvider {
	if baseURL == "" {
		baseURL = DefaultArchiveURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo-archive",
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoArchiveProvider{
		name:    "openmeteo-archive",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      maxRetries,
				InitialInterval: 1 * time.Second,
				MaxInterval:     10 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (p *OpenMeteoArchiveProvider) Name() string {
	return p.name
}

// archiveResponse is the subset of the archive payload we read.
// Values are pointers because the API reports missing readings as null.
type archiveResponse struct {
	Daily *struct {
		Time           []string   `json:"time"`
		TemperatureMin []*float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

func (p *OpenMeteoArchiveProvider) FetchYear(ctx context.Context, loc weather.Location, year int, end time.Time) (weather.YearDataset, error) {
	startDate := fmt.Sprintf("%04d-01-01", year)
	endDate := fmt.Sprintf("%04d-12-31", year)
	if !end.IsZero() {
		endDate = common.FormatDate(end)
	}

	log.Printf("Fetching data for %d: %s to %s", year, startDate, endDate)

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
		values.Set("daily", dailyMinTemp)
		values.Set("timezone", loc.Timezone)
		values.Set("start_date", startDate)
		values.Set("end_date", endDate)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode archive response: %w", err)
	}
	if payload.Daily == nil {
		return nil, weather.ErrNoDailyData
	}

	ds := normalizeDaily(payload.Daily.Time, payload.Daily.TemperatureMin)
	if len(ds) == 0 {
		return nil, weather.ErrNoRecords
	}

	log.Printf("Retrieved %d temperature records for %d", len(ds), year)
	return ds, nil
}

// normalizeDaily pairs dates with values, skipping null readings.
// Pairing stops at the shorter of the two arrays.
func normalizeDaily(dates []string, values []*float64) weather.YearDataset {
	n := len(dates)
	if len(values) < n {
		n = len(values)
	}

	ds := make(weather.YearDataset, 0, n)
	for i := 0; i < n; i++ {
		if values[i] == nil {
			continue
		}
		ds = append(ds, weather.TemperatureRecord{
			Date:    dates[i],
			MinTemp: *values[i],
		})
	}
	return ds
}

var _ weather.Provider = (*OpenMeteoArchiveProvider)(nil)
