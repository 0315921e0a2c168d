package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/tropical-nights/internal/common"
)

// DefaultStaleAfter is how long a cached current-year dataset stays fresh.
const DefaultStaleAfter = 24 * time.Hour

// Options configures a Service.
type Options struct {
	Location   Location
	StartYear  int
	StaleAfter time.Duration

	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

// Service syncs per-year datasets from a provider into a store and
// summarizes whatever the store holds.
type Service struct {
	store      Store
	provider   Provider
	location   Location
	tz         *time.Location
	startYear  int
	staleAfter time.Duration
	now        func() time.Time

	// Serializes sync runs triggered by the scheduler and the API.
	mu sync.Mutex
}

// NewService creates a new Service.
func NewService(store Store, provider Provider, opts Options) *Service {
	tz, err := time.LoadLocation(opts.Location.Timezone)
	if err != nil {
		log.Printf("WARN: unknown timezone %q, falling back to local time: %v", opts.Location.Timezone, err)
		tz = time.Local
	}

	staleAfter := opts.StaleAfter
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		store:      store,
		provider:   provider,
		location:   opts.Location,
		tz:         tz,
		startYear:  opts.StartYear,
		staleAfter: staleAfter,
		now:        now,
	}
}

// Location returns the location this service archives.
func (s *Service) Location() Location {
	return s.location
}

// StartYear returns the first year of the configured range.
func (s *Service) StartYear() int {
	return s.startYear
}

// CurrentYear returns the calendar year of "now" in the location's timezone.
func (s *Service) CurrentYear() int {
	return s.clock().Year()
}

func (s *Service) clock() time.Time {
	return s.now().In(s.tz)
}

// SyncAll applies the per-year policy to every year from the start year
// through the year after the current one, in increasing order.
// Fetch failures are recorded in the report; persistence failures abort the run.
func (s *Service) SyncAll(ctx context.Context) (RunReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := RunReport{
		ID:        uuid.NewString(),
		StartedAt: s.now().UTC(),
	}

	for _, year := range common.YearRange(s.startYear, s.CurrentYear()+1) {
		res, err := s.syncYear(ctx, year)
		report.Results = append(report.Results, res)
		if err != nil {
			report.FinishedAt = s.now().UTC()
			return report, err
		}
	}

	report.FinishedAt = s.now().UTC()
	log.Printf("INFO: sync run %s finished: %d years fetched", report.ID, report.Fetched())
	return report, nil
}

// SyncYear applies the per-year policy to a single year.
// The returned error is non-nil only when the store fails.
func (s *Service) SyncYear(ctx context.Context, year int) (SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.syncYear(ctx, year)
}

func (s *Service) syncYear(ctx context.Context, year int) (SyncResult, error) {
	now := s.clock()
	current := now.Year()
	res := SyncResult{Year: year}

	if year > current {
		log.Printf("Skipping future year %d", year)
		res.Outcome = OutcomeSkippedFuture
		return res, nil
	}

	modTime, err := s.store.ModTime(year)
	switch {
	case err == nil:
		if year < current {
			log.Printf("Skipping %d - data already exists", year)
			res.Outcome = OutcomeSkippedCached
			return res, nil
		}
		if now.Sub(modTime) < s.staleAfter {
			log.Printf("Skipping %d - data is recent", year)
			res.Outcome = OutcomeSkippedFresh
			return res, nil
		}
	case errors.Is(err, ErrNotFound):
	default:
		return res, fmt.Errorf("stat cached dataset for %d: %w", year, err)
	}

	// Past years are fetched in full; the current year stops at yesterday.
	var end time.Time
	if year == current {
		end = common.Yesterday(now)
		if end.Year() < year {
			log.Printf("Skipping %d - no complete day yet", year)
			res.Outcome = OutcomeSkippedNoCompleteDays
			return res, nil
		}
	}

	ds, err := s.provider.FetchYear(ctx, s.location, year, end)
	if err == nil && len(ds) == 0 {
		err = ErrNoRecords
	}
	if err != nil {
		log.Printf("Failed to fetch data for %d: %v", year, err)
		res.Outcome = OutcomeFetchFailed
		res.Error = err.Error()
		return res, nil
	}

	if err := s.store.SaveYear(year, ds); err != nil {
		return res, fmt.Errorf("save dataset for %d: %w", year, err)
	}
	log.Printf("Saved %d records for %d", len(ds), year)

	res.Outcome = OutcomeSaved
	res.Records = len(ds)
	return res, nil
}

// Summarize loads every cached year in [from, to] and computes its statistics.
// Years without a cached dataset are omitted.
func (s *Service) Summarize(from, to int) ([]YearStats, error) {
	summaries := make([]YearStats, 0)
	for _, year := range common.YearRange(from, to) {
		ds, err := s.store.LoadYear(year)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load dataset for %d: %w", year, err)
		}
		summaries = append(summaries, ComputeStats(year, ds))
	}
	return summaries, nil
}

// Run performs the fetch pass followed by an independent summary pass read
// back from the store, writing the summary to w.
func (s *Service) Run(ctx context.Context, w io.Writer) (RunReport, error) {
	report, err := s.SyncAll(ctx)
	if err != nil {
		return report, err
	}
	log.Println("Weather data fetch complete!")

	summaries, err := s.Summarize(s.startYear, s.CurrentYear())
	if err != nil {
		return report, err
	}
	if err := WriteSummary(w, summaries); err != nil {
		return report, fmt.Errorf("write summary: %w", err)
	}
	return report, nil
}

// GetYear delegates to the underlying store.
func (s *Service) GetYear(year int) (YearDataset, error) {
	return s.store.LoadYear(year)
}

// GetStats loads a cached year and computes its statistics.
func (s *Service) GetStats(year int) (YearStats, error) {
	ds, err := s.store.LoadYear(year)
	if err != nil {
		return YearStats{}, err
	}
	return ComputeStats(year, ds), nil
}

// CachedYears lists the years with a cached dataset, ascending.
func (s *Service) CachedYears() ([]int, error) {
	return s.store.Years()
}
