package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/tropical-nights/internal/weather"
)

// ErrNotFound is returned when no dataset is cached for a given year.
var ErrNotFound = weather.ErrNotFound

const fileExt = ".json"

// FileStore keeps one pretty-printed JSON array per year under a cache directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file that holds the dataset for year.
func (s *FileStore) Path(year int) string {
	return filepath.Join(s.dir, strconv.Itoa(year)+fileExt)
}

// ModTime returns the last-modified time of the year's file.
func (s *FileStore) ModTime(year int) (time.Time, error) {
	info, err := os.Stat(s.Path(year))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// SaveYear writes the dataset to a temporary file and renames it over the
// year's file, so readers never observe a partial dataset.
func (s *FileStore) SaveYear(year int, ds weather.YearDataset) error {
	if ds == nil {
		ds = weather.YearDataset{}
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+strconv.Itoa(year)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, s.Path(year)); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// LoadYear reads the year's dataset back in stored order.
func (s *FileStore) LoadYear(year int) (weather.YearDataset, error) {
	data, err := os.ReadFile(s.Path(year))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var ds weather.YearDataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path(year), err)
	}
	return ds, nil
}

// Years lists the years that have a dataset file, ascending.
func (s *FileStore) Years() ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []int{}, nil
	}
	if err != nil {
		return nil, err
	}

	years := make([]int, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSuffix(name, fileExt))
		if err != nil {
			continue
		}
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

var _ weather.Store = (*FileStore)(nil)
