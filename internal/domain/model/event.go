// Package model contains domain models passed between layers.
package model

import "time"

// Trait names one of the five scored behavioral dimensions.
// TraitNone marks events that carry timing/jitter telemetry only.
type Trait string

// Trait values recognized by the inference engine. Narrative content may
// introduce targets outside this set; scoring ignores unknown targets
// rather than failing the whole profile.
const (
	TraitNone              Trait = ""
	TraitOpenness          Trait = "Openness"
	TraitConscientiousness Trait = "Conscientiousness"
	TraitExtraversion      Trait = "Extraversion"
	TraitAgreeableness     Trait = "Agreeableness"
	TraitNeuroticism       Trait = "Neuroticism"
)

// EventRecord is one immutable telemetry datum, produced once per choice a
// subject makes. Records are append-only and never mutated after creation.
type EventRecord struct {
	EventID         string    // unique id for idempotency
	SubjectID       string    // stable per play-through
	QuestionID      string    // optional content tag, constant per narrative
	TraitTarget     Trait     // which trait the choice influences
	ChoiceWeight    float64   // signed push on the target trait
	ReactionTimeMs  int64     // node presentation to choice selection
	PointerDistance float64   // cumulative pointer travel during the decision window
	Timestamp       time.Time // server-assigned at persist time
}

// TraitProfile holds the five clamped trait scores for one subject.
// Every trait starts at the baseline of 50 before any events apply.
type TraitProfile struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// Outcome is the binary accept/reject result of a vetting run.
type Outcome string

const (
	OutcomeHire   Outcome = "HIRE"
	OutcomeReject Outcome = "REJECT"
)

// Verdict pairs the outcome with a human-readable reason code. It is derived
// from the profile on every request, never persisted.
type Verdict struct {
	Outcome Outcome `json:"verdict"`
	Reason  string  `json:"reason,omitempty"`
}
