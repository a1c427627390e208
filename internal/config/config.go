package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/banshee-data/simagents/internal/features"
	"github.com/banshee-data/simagents/internal/monitoring"
)

// DefaultConfigPath is the checked-in copy of the default thresholds.
const DefaultConfigPath = "config/simagents.defaults.yaml"

// EnvPrefix prefixes every environment override, e.g. SIMAGENTS_WORKERS.
const EnvPrefix = "SIMAGENTS_"

// Config is the evaluator configuration. Nil fields fall back to the
// defaults returned by the Get* methods, so partial files are safe.
type Config struct {
	CollisionDistanceThreshold *float64 `koanf:"collision_distance_threshold"`
	OffroadDistanceThreshold   *float64 `koanf:"offroad_distance_threshold"`
	CornerRoundingFactor       *float64 `koanf:"corner_rounding_factor"`
	MaximumTimeToCollision     *float64 `koanf:"maximum_time_to_collision"`
	LaneAssociationDistance    *float64 `koanf:"lane_association_distance"`

	Workers  *int    `koanf:"workers"`   // Rollouts computed concurrently
	LogLevel *string `koanf:"log_level"` // debug, info, warn or error
}

// Empty returns a Config with every field unset.
func Empty() *Config { return &Config{} }

// Load builds a Config by layering, from low to high precedence, the
// defaults, the YAML file at path (skipped when path is empty) and
// SIMAGENTS_* environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		cleanPath := filepath.Clean(path)
		if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
			return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
		}
		fileInfo, err := os.Stat(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		const maxFileSize = 1 * 1024 * 1024 // 1MB
		if fileInfo.Size() > maxFileSize {
			return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
		}
		if err := k.Load(file.Provider(cleanPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// SIMAGENTS_LOG_LEVEL -> log_level; underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := Empty()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	monitoring.Logf("config: loaded %d keys (file %q)", len(k.Keys()), path)
	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	if c.CornerRoundingFactor != nil {
		if v := *c.CornerRoundingFactor; v < 0 || v >= 1 {
			return fmt.Errorf("corner_rounding_factor must be in [0, 1), got %f", v)
		}
	}
	if c.MaximumTimeToCollision != nil && *c.MaximumTimeToCollision <= 0 {
		return fmt.Errorf("maximum_time_to_collision must be positive, got %f", *c.MaximumTimeToCollision)
	}
	if c.LaneAssociationDistance != nil && *c.LaneAssociationDistance < 0 {
		return fmt.Errorf("lane_association_distance must be non-negative, got %f", *c.LaneAssociationDistance)
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	if c.LogLevel != nil {
		switch strings.ToLower(*c.LogLevel) {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("unknown log_level %q", *c.LogLevel)
		}
	}
	return nil
}

// GetCollisionDistanceThreshold returns the collision_distance_threshold value or the default.
func (c *Config) GetCollisionDistanceThreshold() float64 {
	if c == nil || c.CollisionDistanceThreshold == nil {
		return features.DefaultParams().CollisionDistanceThreshold
	}
	return *c.CollisionDistanceThreshold
}

// GetOffroadDistanceThreshold returns the offroad_distance_threshold value or the default.
func (c *Config) GetOffroadDistanceThreshold() float64 {
	if c == nil || c.OffroadDistanceThreshold == nil {
		return features.DefaultParams().OffroadDistanceThreshold
	}
	return *c.OffroadDistanceThreshold
}

// GetCornerRoundingFactor returns the corner_rounding_factor value or the default.
func (c *Config) GetCornerRoundingFactor() float64 {
	if c == nil || c.CornerRoundingFactor == nil {
		return features.DefaultParams().CornerRoundingFactor
	}
	return *c.CornerRoundingFactor
}

// GetMaximumTimeToCollision returns the maximum_time_to_collision value or the default.
func (c *Config) GetMaximumTimeToCollision() float64 {
	if c == nil || c.MaximumTimeToCollision == nil {
		return features.DefaultParams().MaximumTimeToCollision
	}
	return *c.MaximumTimeToCollision
}

// GetLaneAssociationDistance returns the lane_association_distance value or the default.
func (c *Config) GetLaneAssociationDistance() float64 {
	if c == nil || c.LaneAssociationDistance == nil {
		return features.DefaultParams().LaneAssociationDistance
	}
	return *c.LaneAssociationDistance
}

// GetWorkers returns the workers value, defaulting to the number of CPUs.
func (c *Config) GetWorkers() int {
	if c == nil || c.Workers == nil {
		return runtime.NumCPU()
	}
	return *c.Workers
}

// GetLogLevel returns the log_level value or "info".
func (c *Config) GetLogLevel() string {
	if c == nil || c.LogLevel == nil {
		return "info"
	}
	return *c.LogLevel
}

// FeatureParams collects the feature thresholds.
func (c *Config) FeatureParams() features.Params {
	return features.Params{
		CollisionDistanceThreshold: c.GetCollisionDistanceThreshold(),
		OffroadDistanceThreshold:   c.GetOffroadDistanceThreshold(),
		CornerRoundingFactor:       c.GetCornerRoundingFactor(),
		MaximumTimeToCollision:     c.GetMaximumTimeToCollision(),
		LaneAssociationDistance:    c.GetLaneAssociationDistance(),
	}
}
