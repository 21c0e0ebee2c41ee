// Package workouts picks punishment workouts from a human-maintained catalog
package workouts

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Workout is one entry of the punishment catalog
type Workout struct {
	ID          string
	Description string
	Category    string
	Difficulty  string
}

// Accessible reports whether the workout can be done from the floor or a chair
func (w Workout) Accessible() bool {
	switch strings.ToLower(strings.TrimSpace(w.Category)) {
	case "floor", "chair":
		return true
	}
	return false
}

// Source reads the catalog
type Source interface {
	ListWorkouts(ctx context.Context) ([]Workout, error)
}

// ErrNoSource is returned by Refresh when the catalog has no backing sheet
var ErrNoSource = errors.New("no workout source configured")

// DefaultPunishment is used when the catalog has nothing to offer
const DefaultPunishment = "100 burpees, unbroken if possible :smiling_imp:"

var accessibleFallback = []string{
	"Chair tricep dips: 3×10",
	"Seated leg raises: 3×15",
	"Wall pushups: 3×15",
	"Seated torso twists: 3×20",
	"Gentle chair yoga flow: 5 minutes",
	"Floor glute bridges: 3×15",
	"Seated punches: 3×30s",
	"Floor stretches + 2×15 wall pushups",
}

// Catalog caches workouts from a Source. It is safe for concurrent use.
type Catalog struct {
	mu     sync.Mutex
	source Source
	cache  []Workout
	intn   func(n int) int
	logger *zap.Logger
}

func NewCatalog(source Source, logger *zap.Logger) *Catalog {
	return &Catalog{source: source, intn: rand.IntN, logger: logger}
}

// Refresh reloads the catalog
func (c *Catalog) Refresh(ctx context.Context) error {
	if c.source == nil {
		return ErrNoSource
	}
	items, err := c.source.ListWorkouts(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cache = items
	c.mu.Unlock()
	c.logger.Debug("Workout catalog refreshed", zap.Int("workouts", len(items)))
	return nil
}

// Pick chooses a punishment description. Disabled participants only draw accessible workouts.
func (c *Catalog) Pick(ctx context.Context, disabled bool) string {
	items := c.all(ctx)

	var pool []string
	for _, w := range items {
		desc := strings.TrimSpace(w.Description)
		if desc == "" {
			continue
		}
		if disabled && !w.Accessible() {
			continue
		}
		pool = append(pool, desc)
	}

	if len(pool) == 0 {
		if disabled {
			return accessibleFallback[c.intn(len(accessibleFallback))]
		}
		return DefaultPunishment
	}
	return pool[c.intn(len(pool))]
}

func (c *Catalog) all(ctx context.Context) []Workout {
	c.mu.Lock()
	empty := len(c.cache) == 0
	c.mu.Unlock()

	if empty {
		if err := c.Refresh(ctx); err != nil {
			c.logger.Warn("Failed to load workout catalog, using fallbacks", zap.Error(err))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Workout(nil), c.cache...)
}
