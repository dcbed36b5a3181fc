package catalog

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/litescript/ls-lunar/internal/feature"
	"github.com/litescript/ls-lunar/internal/logging"
	"github.com/litescript/ls-lunar/internal/observability"
)

// ErrUnknownClub is returned for club names other than Lunar and LunarII.
var ErrUnknownClub = errors.New("catalog: unknown club")

// Key identifies a feature within one container load. Keys run from 1 in
// load order and are reassigned on every load.
type Key int

// VisibilityChecker decides whether a feature is currently observable.
// *moon.State implements it.
type VisibilityChecker interface {
	IsVisible(f feature.Feature) bool
}

// clubCodes lists the catalog codes each club's checklist draws on.
var clubCodes = map[string][]string{
	feature.ClubLunar:   {feature.ClubLunar, feature.ClubBoth},
	feature.ClubLunarII: {feature.ClubLunarII, feature.ClubBoth},
}

// ContainerOption configures a Container.
type ContainerOption func(*Container)

// WithLogger attaches a logger to the container.
func WithLogger(l *logging.Logger) ContainerOption {
	return func(c *Container) {
		c.log = l
	}
}

// WithMetrics records load counts and durations.
func WithMetrics(m *observability.Metrics) ContainerOption {
	return func(c *Container) {
		c.metrics = m
	}
}

// Container holds the features of one club retained by the last Load, in
// catalog order. It is not safe for concurrent use.
type Container struct {
	src     *Source
	club    string
	log     *logging.Logger
	metrics *observability.Metrics

	keys         []Key
	features     map[Key]feature.Feature
	clubTypes    map[string]struct{}
	featureTypes map[string]struct{}
}

// NewContainer creates an empty container for club ("Lunar" or "LunarII")
// reading from src.
func NewContainer(src *Source, club string, opts ...ContainerOption) (*Container, error) {
	if _, ok := clubCodes[club]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClub, club)
	}
	c := &Container{
		src:          src,
		club:         club,
		features:     make(map[Key]feature.Feature),
		clubTypes:    make(map[string]struct{}),
		featureTypes: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	return c, nil
}

// Club returns the club the container selects for.
func (c *Container) Club() string {
	return c.club
}

// Load replaces the contents with the club's features that vis reports as
// visible. A nil vis keeps every feature. A positive limit caps the number
// of catalog rows examined, before the visibility check.
func (c *Container) Load(ctx context.Context, vis VisibilityChecker, limit int) error {
	start := time.Now()
	err := c.load(ctx, vis, limit)

	if c.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.metrics.CatalogLoads.WithLabelValues(c.club, outcome).Inc()
		c.metrics.CatalogLoadDuration.Observe(time.Since(start).Seconds())
		if err == nil {
			c.metrics.FeaturesVisible.WithLabelValues(c.club).Set(float64(len(c.keys)))
		}
	}
	return err
}

func (c *Container) load(ctx context.Context, vis VisibilityChecker, limit int) error {
	rows, err := c.src.Query(ctx, Query{Clubs: clubCodes[c.club], Limit: limit})
	if err != nil {
		return fmt.Errorf("load %s features: %w", c.club, err)
	}

	c.reset()
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			c.reset()
			return fmt.Errorf("load %s features: %w", c.club, err)
		}

		f := feature.FromRow(row)
		if vis != nil && !vis.IsVisible(f) {
			continue
		}

		key := Key(len(c.keys) + 1)
		c.keys = append(c.keys, key)
		c.features[key] = f
		c.clubTypes[f.ClubType] = struct{}{}
		c.featureTypes[f.Type] = struct{}{}
	}

	if c.metrics != nil {
		c.metrics.FeaturesEvaluated.WithLabelValues(c.club).Add(float64(len(rows)))
	}
	c.log.Debug("%s: %d of %d features retained", c.club, len(c.keys), len(rows))
	return nil
}

func (c *Container) reset() {
	c.keys = c.keys[:0]
	clear(c.features)
	clear(c.clubTypes)
	clear(c.featureTypes)
}

// Len returns the number of retained features.
func (c *Container) Len() int {
	return len(c.keys)
}

// Get returns the feature stored under key.
func (c *Container) Get(key Key) (feature.Feature, bool) {
	f, ok := c.features[key]
	return f, ok
}

// Features returns the retained features in load order.
func (c *Container) Features() []feature.Feature {
	out := make([]feature.Feature, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.features[k])
	}
	return out
}

// All iterates over the retained features in load order.
func (c *Container) All() iter.Seq2[Key, feature.Feature] {
	return func(yield func(Key, feature.Feature) bool) {
		for _, k := range c.keys {
			if !yield(k, c.features[k]) {
				return
			}
		}
	}
}

// ClubTypes returns the distinct club types of the retained features, sorted.
func (c *Container) ClubTypes() []string {
	return slices.Sorted(maps.Keys(c.clubTypes))
}

// FeatureTypes returns the distinct feature types of the retained features, sorted.
func (c *Container) FeatureTypes() []string {
	return slices.Sorted(maps.Keys(c.featureTypes))
}
