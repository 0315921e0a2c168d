package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/tropical-nights/internal/store"
	"github.com/i474232898/tropical-nights/internal/weather"
)

type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }

func (failingProvider) FetchYear(context.Context, weather.Location, int, time.Time) (weather.YearDataset, error) {
	return nil, errors.New("archive unavailable")
}

func newTestApp(t *testing.T) (*fiber.App, *store.MemoryStore) {
	t.Helper()

	now := func() time.Time { return time.Date(2023, time.October, 1, 12, 0, 0, 0, time.UTC) }
	memStore := store.NewMemoryStore(now)
	require.NoError(t, memStore.SaveYear(2023, weather.YearDataset{
		{Date: "2023-07-01", MinTemp: 19.9},
		{Date: "2023-07-02", MinTemp: 20.0},
		{Date: "2023-07-03", MinTemp: 25.3},
	}))

	svc := weather.NewService(memStore, failingProvider{}, weather.Options{
		Location:  weather.Location{Name: "Berlin", Latitude: 52.52, Longitude: 13.41, Timezone: "UTC"},
		StartYear: 2021,
		Now:       now,
	})

	app := fiber.New()
	RegisterRoutes(app, svc)
	return app, memStore
}

func doJSON(t *testing.T, app *fiber.App, method, target string, out any) int {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

func TestGetYear(t *testing.T) {
	app, _ := newTestApp(t)

	var ds weather.YearDataset
	status := doJSON(t, app, http.MethodGet, "/api/v1/years/2023", &ds)

	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, ds, 3)
	assert.Equal(t, "2023-07-01", ds[0].Date)
}

func TestGetYearValidation(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodGet, "/api/v1/years/2022", nil))
	assert.Equal(t, http.StatusBadRequest, doJSON(t, app, http.MethodGet, "/api/v1/years/abc", nil))
	assert.Equal(t, http.StatusBadRequest, doJSON(t, app, http.MethodGet, "/api/v1/years/1200", nil))
}

func TestGetYearStats(t *testing.T) {
	app, _ := newTestApp(t)

	var stats weather.YearStats
	status := doJSON(t, app, http.MethodGet, "/api/v1/years/2023/stats", &stats)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, stats.TropicalNights)
	require.NotNil(t, stats.HottestTropical)
	assert.Equal(t, "2023-07-03", stats.HottestTropical.Date)
}

func TestListYears(t *testing.T) {
	app, _ := newTestApp(t)

	var body struct {
		Years []int `json:"years"`
	}
	status := doJSON(t, app, http.MethodGet, "/api/v1/years", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []int{2023}, body.Years)
}

func TestSummary(t *testing.T) {
	app, _ := newTestApp(t)

	var body struct {
		From  int                 `json:"from"`
		To    int                 `json:"to"`
		Years []weather.YearStats `json:"years"`
	}
	status := doJSON(t, app, http.MethodGet, "/api/v1/summary", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2021, body.From)
	assert.Equal(t, 2023, body.To)
	require.Len(t, body.Years, 1)
	assert.Equal(t, 2, body.Years[0].TropicalNights)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, app, http.MethodGet, "/api/v1/summary?from=2023&to=2021", nil))
	assert.Equal(t, http.StatusBadRequest, doJSON(t, app, http.MethodGet, "/api/v1/summary?from=last", nil))
}

func TestSyncReportsFailuresWithoutTouchingCache(t *testing.T) {
	app, memStore := newTestApp(t)

	var report weather.RunReport
	status := doJSON(t, app, http.MethodPost, "/api/v1/sync", &report)

	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, report.ID)

	outcomes := make(map[int]weather.Outcome)
	for _, r := range report.Results {
		outcomes[r.Year] = r.Outcome
	}
	assert.Equal(t, weather.OutcomeFetchFailed, outcomes[2021])
	assert.Equal(t, weather.OutcomeSkippedFresh, outcomes[2023])
	assert.Equal(t, weather.OutcomeSkippedFuture, outcomes[2024])

	ds, err := memStore.LoadYear(2023)
	require.NoError(t, err)
	assert.Len(t, ds, 3)
}
