package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"supermarket-dashboard/internal/models"
)

var (
	ErrNoRecords         = errors.New("no records")
	ErrMissingColumn     = errors.New("missing required column")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// DataLoadError is returned for every failure to produce a Store from a file.
// A load either yields the complete dataset or this error; there is no partial
// result.
type DataLoadError struct {
	Path string
	Op   string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// Store is the immutable, ordered set of sales records. Nothing mutates it
// after construction, so it is safe to share between concurrent requests.
type Store struct {
	records  []models.SalesRecord
	bounds   models.DateRange
	source   string
	loadedAt time.Time
}

// New builds a Store from a copy of records, preserving their order. Each
// Date is reduced to its calendar day so grouping and windows work per day.
func New(records []models.SalesRecord) *Store {
	s := &Store{
		records:  slices.Clone(records),
		loadedAt: time.Now(),
	}
	for i := range s.records {
		s.records[i].Date = models.CivilDate(s.records[i].Date)
	}
	for i, r := range s.records {
		if i == 0 || r.Date.Before(s.bounds.Start) {
			s.bounds.Start = r.Date
		}
		if i == 0 || r.Date.After(s.bounds.End) {
			s.bounds.End = r.Date
		}
	}
	return s
}

// Load reads the dataset at path once. The codec is picked by extension:
// ".csv" for a CSV export and ".snap" for a snapshot written by WriteSnapshot.
func Load(ctx context.Context, path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Op: "open", Err: err}
	}
	defer file.Close()

	var decode func(context.Context, io.Reader) ([]models.SalesRecord, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		decode = decodeCSV
	case ".snap":
		decode = decodeSnapshot
	default:
		return nil, &DataLoadError{Path: path, Op: "detect format", Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}

	records, err := decode(ctx, file)
	if err != nil {
		return nil, &DataLoadError{Path: path, Op: "decode", Err: err}
	}
	if len(records) == 0 {
		return nil, &DataLoadError{Path: path, Op: "decode", Err: ErrNoRecords}
	}

	s := New(records)
	s.source = path
	return s, nil
}

func (s *Store) Len() int {
	return len(s.records)
}

// All iterates the records in load order.
func (s *Store) All() iter.Seq[models.SalesRecord] {
	return func(yield func(models.SalesRecord) bool) {
		for _, r := range s.records {
			if !yield(r) {
				return
			}
		}
	}
}

// Head returns a copy of the first n records.
func (s *Store) Head(n int) []models.SalesRecord {
	n = max(0, min(n, len(s.records)))
	return slices.Clone(s.records[:n])
}

// Bounds returns the observed min and max dates. ok is false for an empty store.
func (s *Store) Bounds() (r models.DateRange, ok bool) {
	return s.bounds, len(s.records) > 0
}

func (s *Store) Source() string {
	return s.source
}

func (s *Store) LoadedAt() time.Time {
	return s.loadedAt
}
