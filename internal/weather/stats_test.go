package weather

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatsTropicalNights(t *testing.T) {
	ds := YearDataset{
		{Date: "2023-07-01", MinTemp: 19.9},
		{Date: "2023-07-02", MinTemp: 20.0},
		{Date: "2023-07-03", MinTemp: 25.3},
	}

	stats := ComputeStats(2023, ds)

	assert.Equal(t, 3, stats.TotalDays)
	assert.Equal(t, 2, stats.TropicalNights)
	require.NotNil(t, stats.HottestTropical)
	assert.Equal(t, TemperatureRecord{Date: "2023-07-03", MinTemp: 25.3}, *stats.HottestTropical)
	assert.Equal(t, 25.3, stats.MaxMinTemp)
	assert.InDelta(t, 21.733, stats.AvgMinTemp, 0.001)
	assert.InDelta(t, 66.667, stats.TropicalPercent, 0.001)
}

func TestComputeStatsTieKeepsFirstOccurrence(t *testing.T) {
	ds := YearDataset{
		{Date: "2022-06-18", MinTemp: 22.1},
		{Date: "2022-07-20", MinTemp: 22.1},
	}

	stats := ComputeStats(2022, ds)

	require.NotNil(t, stats.HottestTropical)
	assert.Equal(t, "2022-06-18", stats.HottestTropical.Date)
}

func TestComputeStatsNoTropicalNights(t *testing.T) {
	stats := ComputeStats(2021, YearDataset{{Date: "2021-01-05", MinTemp: -7.5}, {Date: "2021-01-06", MinTemp: -9}})

	assert.Equal(t, 0, stats.TropicalNights)
	assert.Nil(t, stats.HottestTropical)
	assert.Equal(t, -7.5, stats.MaxMinTemp)
	assert.Zero(t, stats.TropicalPercent)
}

func TestComputeStatsEmpty(t *testing.T) {
	assert.Equal(t, YearStats{Year: 2020}, ComputeStats(2020, nil))
}

func TestTropicalNightsFilter(t *testing.T) {
	ds := YearDataset{
		{Date: "2023-07-01", MinTemp: 19.9},
		{Date: "2023-07-02", MinTemp: 20.0},
		{Date: "2023-07-03", MinTemp: 25.3},
	}

	assert.Equal(t, ds[1:], TropicalNights(ds))
	assert.Empty(t, TropicalNights(ds[:1]))
}

func TestWriteSummary(t *testing.T) {
	hot := TemperatureRecord{Date: "2023-07-03", MinTemp: 25.3}
	summaries := []YearStats{
		{Year: 2022, TropicalNights: 0},
		{Year: 2023, TropicalNights: 2, HottestTropical: &hot},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, summaries))

	want := "\nTropical Nights Summary (min_temp >= 20°C):\n" +
		"==================================================\n" +
		"2022: 0 tropical nights\n" +
		"2023: 2 tropical nights\n" +
		"  → Hottest: 2023-07-03 (25.3°C)\n"
	assert.Equal(t, want, buf.String())
}
