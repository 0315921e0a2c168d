package weather

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no dataset is cached for a year.
	ErrNotFound = errors.New("no weather data for year")

	// ErrNoDailyData is returned when the archive response has no daily section.
	ErrNoDailyData = errors.New("no daily data returned")

	// ErrNoRecords is returned when a response holds no usable reading.
	ErrNoRecords = errors.New("no temperature records returned")
)

// Provider abstracts the archive that serves daily minimum temperatures.
//
// FetchYear requests the closed interval [year-01-01, end]. A zero end means
// December 31 of year. Readings without a value are dropped.
type Provider interface {
	Name() string
	FetchYear(ctx context.Context, loc Location, year int, end time.Time) (YearDataset, error)
}

// Store is the contract the per-year file cache (and the in-memory store) must satisfy.
type Store interface {
	// ModTime returns when the year's dataset was last written, or ErrNotFound.
	ModTime(year int) (time.Time, error)
	SaveYear(year int, ds YearDataset) error
	LoadYear(year int) (YearDataset, error)
	Years() ([]int, error)
}
