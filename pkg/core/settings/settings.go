package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/model"
)

const (
	KeyComplianceMode = "compliance_mode"
	KeyPointsTarget   = "points_daily_target"
)

var (
	ErrInvalidMode         = errors.New("compliance mode must be strict, lenient or points")
	ErrInvalidPointsTarget = errors.New("points target must be a positive integer")
)

// KV is the persisted key/value settings table
type KV interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Store serves the two global evaluation knobs.
// Values set during the process lifetime take precedence over persisted ones,
// so a failed write still takes effect until restart.
type Store struct {
	mu                  sync.RWMutex
	kv                  KV
	defaultMode         model.ComplianceMode
	defaultPointsTarget int
	overrides           map[string]string
	logger              *zap.Logger
}

func NewStore(kv KV, defaultMode model.ComplianceMode, defaultPointsTarget int, logger *zap.Logger) *Store {
	if _, ok := model.ParseComplianceMode(string(defaultMode)); !ok {
		defaultMode = model.ModeStrict
	}
	if defaultPointsTarget < 1 {
		defaultPointsTarget = 1
	}
	return &Store{
		kv:                  kv,
		defaultMode:         defaultMode,
		defaultPointsTarget: defaultPointsTarget,
		overrides:           make(map[string]string),
		logger:              logger,
	}
}

// Mode returns the current compliance mode, falling back to the default for missing or invalid values
func (s *Store) Mode(ctx context.Context) model.ComplianceMode {
	raw, ok := s.get(ctx, KeyComplianceMode)
	if !ok {
		return s.defaultMode
	}
	mode, valid := model.ParseComplianceMode(raw)
	if !valid {
		s.logger.Warn("Ignoring invalid stored compliance mode", zap.String("value", raw))
		return s.defaultMode
	}
	return mode
}

// PointsTarget returns the points-mode target, never below 1
func (s *Store) PointsTarget(ctx context.Context) int {
	raw, ok := s.get(ctx, KeyPointsTarget)
	if !ok {
		return s.defaultPointsTarget
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.logger.Warn("Ignoring invalid stored points target", zap.String("value", raw))
		return s.defaultPointsTarget
	}
	if n < 1 {
		return 1
	}
	return n
}

// SetMode validates and stores a new compliance mode
func (s *Store) SetMode(ctx context.Context, raw string) (model.ComplianceMode, error) {
	mode, ok := model.ParseComplianceMode(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
	}
	s.set(ctx, KeyComplianceMode, string(mode))
	return mode, nil
}

// SetPointsTarget validates and stores a new points target
func (s *Store) SetPointsTarget(ctx context.Context, n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPointsTarget, n)
	}
	s.set(ctx, KeyPointsTarget, strconv.Itoa(n))
	return n, nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	s.mu.RLock()
	override, ok := s.overrides[key]
	s.mu.RUnlock()
	if ok {
		return override, true
	}

	value, found, err := s.kv.GetSetting(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to read setting, using default", zap.String("key", key), zap.Error(err))
		return "", false
	}
	if !found || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

func (s *Store) set(ctx context.Context, key, value string) {
	s.mu.Lock()
	s.overrides[key] = value
	s.mu.Unlock()

	if err := s.kv.SetSetting(ctx, key, value); err != nil {
		s.logger.Warn("Failed to persist setting", zap.String("key", key), zap.String("value", value), zap.Error(err))
	}
}
