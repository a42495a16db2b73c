// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with the documented defaults.
// - Every scoring constant is a configured value, never a magic literal in
//   the engine; the defaults here are the reference behavior.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ScriptPath optionally points at a YAML narrative script. Empty means
	// the built-in screening interview.
	ScriptPath string `koanf:"script_path"`

	// EventQueueSize bounds the in-memory ingestion queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of persistence workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the event log's subject shards.
	ShardCount int `koanf:"shard_count"`

	// TraitMultiplier scales per-event choice weights.
	TraitMultiplier float64 `koanf:"trait_multiplier"`

	// Pointer-jitter thresholds on the average distance, and the
	// neuroticism deltas each tier applies. Tiers stack.
	JitterCalm          float64 `koanf:"jitter_calm"`
	JitterModerate      float64 `koanf:"jitter_moderate"`
	JitterHigh          float64 `koanf:"jitter_high"`
	JitterCalmAdjust    float64 `koanf:"jitter_calm_adjust"`
	JitterModerateBonus float64 `koanf:"jitter_moderate_bonus"`
	JitterHighBonus     float64 `koanf:"jitter_high_bonus"`

	// Reaction-time cut points in milliseconds and their deltas.
	ReactionFastMs          int64   `koanf:"reaction_fast_ms"`
	ReactionConfidenceMaxMs int64   `koanf:"reaction_confidence_max_ms"`
	ReactionSlowMs          int64   `koanf:"reaction_slow_ms"`
	ImpulsivityPenalty      float64 `koanf:"impulsivity_penalty"`
	IndecisionPenalty       float64 `koanf:"indecision_penalty"`
	ConfidenceBonus         float64 `koanf:"confidence_bonus"`

	// Verdict rule thresholds over the clamped profile.
	RejectNeuroticismAbove       float64 `koanf:"reject_neuroticism_above"`
	RejectAgreeablenessBelow     float64 `koanf:"reject_agreeableness_below"`
	RejectConscientiousnessBelow float64 `koanf:"reject_conscientiousness_below"`
}

// New creates a Config holding the documented reference defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		EventQueueSize: 100_000,
		WorkerCount:    runtime.NumCPU() * 2,
		DedupeSize:     50_000,
		ShardCount:     8,

		TraitMultiplier: 10,

		JitterCalm:          50,
		JitterModerate:      600,
		JitterHigh:          1200,
		JitterCalmAdjust:    -5,
		JitterModerateBonus: 15,
		JitterHighBonus:     30,

		ReactionFastMs:          1000,
		ReactionConfidenceMaxMs: 2000,
		ReactionSlowMs:          5000,
		ImpulsivityPenalty:      -10,
		IndecisionPenalty:       -10,
		ConfidenceBonus:         10,

		RejectNeuroticismAbove:       80,
		RejectAgreeablenessBelow:     30,
		RejectConscientiousnessBelow: 30,
	}
}
