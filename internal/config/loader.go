package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BUREAU_CONFIG is set
//  3. env (prefix BUREAU_)
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv("BUREAU_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: BUREAU_ADDR, BUREAU_QUEUE_SIZE, ...
	// Keys map to the koanf tags on the struct, underscores preserved.
	envProvider := env.Provider("BUREAU_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "bureau_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TraitMultiplier <= 0:
		return fmt.Errorf("%w: trait_multiplier must be positive", ErrInvalidConfig)
	case c.JitterModerate <= c.JitterCalm || c.JitterHigh <= c.JitterModerate:
		return fmt.Errorf("%w: jitter thresholds must be strictly increasing", ErrInvalidConfig)
	case c.ReactionFastMs <= 0 || c.ReactionConfidenceMaxMs <= c.ReactionFastMs || c.ReactionSlowMs <= c.ReactionConfidenceMaxMs:
		return fmt.Errorf("%w: reaction thresholds must be strictly increasing", ErrInvalidConfig)
	}
	return nil
}
