// Package inference folds a subject's telemetry events into a five-trait
// profile and an accept/reject verdict.
//
// The engine is a pure function of its input: no internal mutable state, safe
// for concurrent use across subjects, and idempotent for the same event set.
// Aggregation is order-independent, so callers may pass events in any order.
package inference

import (
	"context"
	"math"

	"github.com/okian/bureau/internal/domain/model"
)

// Default scoring configuration. All values are deployment-configurable via
// options; these defaults are the documented reference behavior.
const (
	baselineScore = 50.0
	minScore      = 0.0
	maxScore      = 100.0

	// defaultTraitMultiplier scales choiceWeight for direct trait pushes.
	defaultTraitMultiplier = 10.0

	// Pointer-jitter tiers on the average distance per event. Tiers stack:
	// crossing the high threshold applies both bonuses.
	defaultJitterCalm     = 50.0
	defaultJitterModerate = 600.0
	defaultJitterHigh     = 1200.0

	defaultJitterCalmAdjust    = -5.0
	defaultJitterModerateBonus = 15.0
	defaultJitterHighBonus     = 30.0

	// Reaction-time cut points on the average per event, in milliseconds.
	// Below fast: impulsivity. Above slow: indecision. The half-open band
	// [fast, confidenceMax) reads as confidence instead.
	defaultReactionFastMs          = 1000
	defaultReactionConfidenceMaxMs = 2000
	defaultReactionSlowMs          = 5000

	defaultImpulsivityPenalty = -10.0
	defaultIndecisionPenalty  = -10.0
	defaultConfidenceBonus    = 10.0

	// Rejection rule thresholds over the clamped profile.
	defaultRejectNeuroticismAbove       = 80.0
	defaultRejectAgreeablenessBelow     = 30.0
	defaultRejectConscientiousnessBelow = 30.0
)

// Rejection reason codes, reported in a fixed check order so reason strings
// stay reproducible even though the outcome is a pure disjunction.
const (
	ReasonInstability   = "instability"
	ReasonNonCompliance = "non-compliance risk"
	ReasonInefficiency  = "inefficiency"
)

// Engine computes trait profiles and verdicts from event sets.
type Engine struct {
	traitMultiplier float64

	jitterCalm     float64
	jitterModerate float64
	jitterHigh     float64

	jitterCalmAdjust    float64
	jitterModerateBonus float64
	jitterHighBonus     float64

	reactionFastMs          int64
	reactionConfidenceMaxMs int64
	reactionSlowMs          int64

	impulsivityPenalty float64
	indecisionPenalty  float64
	confidenceBonus    float64

	rejectNeuroticismAbove       float64
	rejectAgreeablenessBelow     float64
	rejectConscientiousnessBelow float64
}

// New creates an engine with the documented reference constants, then applies
// any deployment overrides.
func New(opts ...Option) *Engine {
	e := &Engine{
		traitMultiplier:              defaultTraitMultiplier,
		jitterCalm:                   defaultJitterCalm,
		jitterModerate:               defaultJitterModerate,
		jitterHigh:                   defaultJitterHigh,
		jitterCalmAdjust:             defaultJitterCalmAdjust,
		jitterModerateBonus:          defaultJitterModerateBonus,
		jitterHighBonus:              defaultJitterHighBonus,
		reactionFastMs:               defaultReactionFastMs,
		reactionConfidenceMaxMs:      defaultReactionConfidenceMaxMs,
		reactionSlowMs:               defaultReactionSlowMs,
		impulsivityPenalty:           defaultImpulsivityPenalty,
		indecisionPenalty:            defaultIndecisionPenalty,
		confidenceBonus:              defaultConfidenceBonus,
		rejectNeuroticismAbove:       defaultRejectNeuroticismAbove,
		rejectAgreeablenessBelow:     defaultRejectAgreeablenessBelow,
		rejectConscientiousnessBelow: defaultRejectConscientiousnessBelow,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Infer aggregates a subject's events into a clamped trait profile and
// derives the verdict. An empty event set yields the baseline profile and a
// hire verdict. The context parameter follows the project-wide convention;
// the computation is bounded and never blocks.
func (e *Engine) Infer(_ context.Context, _ string, events []model.EventRecord) (model.TraitProfile, model.Verdict) {
	profile := model.TraitProfile{
		Openness:          baselineScore,
		Conscientiousness: baselineScore,
		Extraversion:      baselineScore,
		Agreeableness:     baselineScore,
		Neuroticism:       baselineScore,
	}

	if len(events) > 0 {
		e.applyChoiceWeights(&profile, events)
		e.applyJitterSignal(&profile, events)
		e.applyReactionSignal(&profile, events)
	}

	clampProfile(&profile)
	return profile, e.verdict(profile)
}

// applyChoiceWeights applies the per-event direct pushes. Only agreeableness,
// openness and conscientiousness take direct pushes; extraversion and
// neuroticism are derived from the aggregate signals. Unknown trait targets
// are ignored so new narrative content degrades gracefully.
func (e *Engine) applyChoiceWeights(p *model.TraitProfile, events []model.EventRecord) {
	for _, ev := range events {
		switch ev.TraitTarget {
		case model.TraitAgreeableness:
			p.Agreeableness += ev.ChoiceWeight * e.traitMultiplier
		case model.TraitOpenness:
			p.Openness += ev.ChoiceWeight * e.traitMultiplier
		case model.TraitConscientiousness:
			p.Conscientiousness += ev.ChoiceWeight * e.traitMultiplier
		}
	}
}

// applyJitterSignal adjusts neuroticism from the average pointer distance.
func (e *Engine) applyJitterSignal(p *model.TraitProfile, events []model.EventRecord) {
	var total float64
	for _, ev := range events {
		total += ev.PointerDistance
	}
	avg := total / float64(len(events))

	if avg < e.jitterCalm {
		p.Neuroticism += e.jitterCalmAdjust
		return
	}
	if avg >= e.jitterModerate {
		p.Neuroticism += e.jitterModerateBonus
	}
	if avg >= e.jitterHigh {
		p.Neuroticism += e.jitterHighBonus
	}
}

// applyReactionSignal adjusts conscientiousness and extraversion from the
// average reaction time.
func (e *Engine) applyReactionSignal(p *model.TraitProfile, events []model.EventRecord) {
	var total int64
	for _, ev := range events {
		total += ev.ReactionTimeMs
	}
	avg := float64(total) / float64(len(events))

	switch {
	case avg < float64(e.reactionFastMs):
		p.Conscientiousness += e.impulsivityPenalty
	case avg > float64(e.reactionSlowMs):
		p.Conscientiousness += e.indecisionPenalty
	case avg < float64(e.reactionConfidenceMaxMs):
		p.Extraversion += e.confidenceBonus
	}
}

// verdict evaluates all rejection rules over the clamped profile. The rules
// are a disjunction: any true rule forces a reject, and a later rule can
// never move a reject back to hire. The reason reflects the first true rule
// in the fixed order neuroticism, agreeableness, conscientiousness.
func (e *Engine) verdict(p model.TraitProfile) model.Verdict {
	switch {
	case p.Neuroticism > e.rejectNeuroticismAbove:
		return model.Verdict{Outcome: model.OutcomeReject, Reason: ReasonInstability}
	case p.Agreeableness < e.rejectAgreeablenessBelow:
		return model.Verdict{Outcome: model.OutcomeReject, Reason: ReasonNonCompliance}
	case p.Conscientiousness < e.rejectConscientiousnessBelow:
		return model.Verdict{Outcome: model.OutcomeReject, Reason: ReasonInefficiency}
	}
	return model.Verdict{Outcome: model.OutcomeHire}
}

func clampProfile(p *model.TraitProfile) {
	p.Openness = clamp(p.Openness)
	p.Conscientiousness = clamp(p.Conscientiousness)
	p.Extraversion = clamp(p.Extraversion)
	p.Agreeableness = clamp(p.Agreeableness)
	p.Neuroticism = clamp(p.Neuroticism)
}

func clamp(v float64) float64 {
	return math.Max(minScore, math.Min(maxScore, v))
}
