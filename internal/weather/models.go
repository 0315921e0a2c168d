package weather

import (
	"fmt"
	"time"
)

// TropicalThreshold is the inclusive minimum temperature (°C) of a tropical night.
const TropicalThreshold = 20.0

// Location is the fixed place whose observations are archived.
type Location struct {
	Name      string  `json:"name" yaml:"name" validate:"required"`
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"gte=-180,lte=180"`
	Timezone  string  `json:"timezone" yaml:"timezone" validate:"required"`
}

// Key returns a canonical string key for this location.
func (l Location) Key() string {
	return fmt.Sprintf("%s@%.4f,%.4f", l.Name, l.Latitude, l.Longitude)
}

// TemperatureRecord is one day's minimum temperature at 2 meters.
// Records with a missing reading are never constructed.
type TemperatureRecord struct {
	Date    string  `json:"date"`
	MinTemp float64 `json:"min_temp"`
}

// IsTropical reports whether the night reached TropicalThreshold.
func (r TemperatureRecord) IsTropical() bool {
	return r.MinTemp >= TropicalThreshold
}

// YearDataset holds the records of one calendar year, ordered by date ascending.
type YearDataset []TemperatureRecord

// YearStats summarizes a cached YearDataset.
type YearStats struct {
	Year            int                `json:"year"`
	TotalDays       int                `json:"totalDays"`
	TropicalNights  int                `json:"tropicalNights"`
	TropicalPercent float64            `json:"tropicalPercent"`
	MaxMinTemp      float64            `json:"maxMinTempC"`
	AvgMinTemp      float64            `json:"avgMinTempC"`
	HottestTropical *TemperatureRecord `json:"hottestTropical,omitempty"`
}

// Outcome is the terminal state of a single year's sync.
type Outcome string

const (
	OutcomeSkippedFuture         Outcome = "skipped-future"
	OutcomeSkippedCached         Outcome = "skipped-cached"
	OutcomeSkippedFresh          Outcome = "skipped-fresh"
	OutcomeSkippedNoCompleteDays Outcome = "skipped-no-complete-days"
	OutcomeSaved                 Outcome = "saved"
	OutcomeFetchFailed           Outcome = "fetch-failed"
)

// SyncResult describes what happened to one year during a sync run.
type SyncResult struct {
	Year    int     `json:"year"`
	Outcome Outcome `json:"outcome"`
	Records int     `json:"records,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// RunReport is the result of a full pass over the configured year range.
type RunReport struct {
	ID         string       `json:"id"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Results    []SyncResult `json:"results"`
}

// Fetched returns the number of years that were fetched and saved.
func (r RunReport) Fetched() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == OutcomeSaved {
			n++
		}
	}
	return n
}
