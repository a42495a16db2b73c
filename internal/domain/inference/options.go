package inference

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTraitMultiplier sets the scale applied to per-event choice weights.
func WithTraitMultiplier(k float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.traitMultiplier = k
		}
	}
}

// WithJitterThresholds sets the calm, moderate and high cut points on the
// average pointer distance. Thresholds must be strictly increasing.
func WithJitterThresholds(calm, moderate, high float64) Option {
	return func(e *Engine) {
		if calm >= 0 && moderate > calm && high > moderate {
			e.jitterCalm = calm
			e.jitterModerate = moderate
			e.jitterHigh = high
		}
	}
}

// WithJitterAdjustments sets the neuroticism deltas for each jitter tier.
// The calm adjustment is expected to be negative or zero.
func WithJitterAdjustments(calm, moderate, high float64) Option {
	return func(e *Engine) {
		e.jitterCalmAdjust = calm
		e.jitterModerateBonus = moderate
		e.jitterHighBonus = high
	}
}

// WithReactionThresholds sets the fast, confidence-band and slow cut points
// on the average reaction time in milliseconds.
func WithReactionThresholds(fastMs, confidenceMaxMs, slowMs int64) Option {
	return func(e *Engine) {
		if fastMs > 0 && confidenceMaxMs > fastMs && slowMs > confidenceMaxMs {
			e.reactionFastMs = fastMs
			e.reactionConfidenceMaxMs = confidenceMaxMs
			e.reactionSlowMs = slowMs
		}
	}
}

// WithReactionAdjustments sets the deltas applied by the reaction-time rules.
func WithReactionAdjustments(impulsivity, indecision, confidence float64) Option {
	return func(e *Engine) {
		e.impulsivityPenalty = impulsivity
		e.indecisionPenalty = indecision
		e.confidenceBonus = confidence
	}
}

// WithRejectionRules sets the verdict rule thresholds.
func WithRejectionRules(neuroticismAbove, agreeablenessBelow, conscientiousnessBelow float64) Option {
	return func(e *Engine) {
		if neuroticismAbove > 0 {
			e.rejectNeuroticismAbove = neuroticismAbove
		}
		if agreeablenessBelow > 0 {
			e.rejectAgreeablenessBelow = agreeablenessBelow
		}
		if conscientiousnessBelow > 0 {
			e.rejectConscientiousnessBelow = conscientiousnessBelow
		}
	}
}
