// Package catalog provides the read-only lunar feature table and the
// containers that select visible features from it.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-lunar/internal/feature"
)

//go:embed features.yaml
var featuresYAML []byte

// ErrClosed is returned by queries against a closed Source.
var ErrClosed = errors.New("catalog: source closed")

// Query selects catalog rows. Empty filters match every row.
type Query struct {
	Clubs []string // club codes, e.g. "Lunar", "Both"
	Names []string // exact feature names
	Limit int      // maximum rows returned; zero or less means no limit
}

func (q Query) matches(r feature.Row) bool {
	if len(q.Clubs) > 0 && !slices.Contains(q.Clubs, r.ClubCode) {
		return false
	}
	if len(q.Names) > 0 && !slices.Contains(q.Names, r.Name) {
		return false
	}
	return true
}

// Source is an opened feature table. It is safe for concurrent queries.
type Source struct {
	mu     sync.RWMutex
	rows   []feature.Row
	closed bool
}

type document struct {
	Features []feature.Row `yaml:"features"`
}

// Open opens the embedded feature table.
func Open() (*Source, error) {
	return OpenReader(bytes.NewReader(featuresYAML))
}

// OpenReader decodes a feature table in the embedded YAML layout.
func OpenReader(r io.Reader) (*Source, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode feature table: %w", err)
	}

	seen := make(map[int]bool, len(doc.Features))
	for _, row := range doc.Features {
		if seen[row.ID] {
			return nil, fmt.Errorf("decode feature table: duplicate row id %d", row.ID)
		}
		seen[row.ID] = true
	}

	return &Source{rows: doc.Features}, nil
}

// Query returns the rows matching q in table order.
func (s *Source) Query(ctx context.Context, q Query) ([]feature.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	var out []feature.Row
	for _, row := range s.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !q.matches(row) {
			continue
		}
		out = append(out, row)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// Len returns the number of rows in the table.
func (s *Source) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Close releases the table. Closing twice is a no-op.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.rows = nil
	return nil
}
