// Package narrative sequences a fixed dialogue experience and emits one
// telemetry event per choice a subject makes.
//
// Content is data, not code: a Script is a flat table of nodes and choices
// that can be embedded as a literal or loaded from YAML. The state machine
// never depends on any particular script.
package narrative

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/bureau/internal/domain/model"
)

// Terminal is the reserved nextNodeIndex marking narrative completion.
const Terminal = -1

// maxChoices bounds the choices a node may offer to the renderer.
const maxChoices = 2

// Choice is one selectable option on a node.
type Choice struct {
	Label string `koanf:"label"`
	// Weight is the signed push applied to the node's trait target.
	Weight float64 `koanf:"weight"`
	// Next is the destination node index, or Terminal.
	Next int `koanf:"next"`
}

// Node is one presented prompt with 1-2 outgoing choices.
type Node struct {
	Text string `koanf:"text"`
	// Expression is a presentation hint, opaque to the engine.
	Expression string `koanf:"expression"`
	// TraitTarget names the trait the node's choices influence. Empty means
	// the node contributes timing/jitter telemetry only.
	TraitTarget model.Trait `koanf:"trait_target"`
	Choices     []Choice    `koanf:"choices"`
}

// Script is the declarative description of one narrative.
type Script struct {
	// Tag is stamped on every emitted event as its question id.
	Tag string `koanf:"tag"`
	// Start is the index of the first node.
	Start int    `koanf:"start"`
	Nodes []Node `koanf:"nodes"`
}

// LoadScript reads a Script from a YAML file.
func LoadScript(path string) (Script, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Script{}, fmt.Errorf("load script %s: %w", path, err)
	}
	var s Script
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Script{}, fmt.Errorf("parse script %s: %w", path, err)
	}
	if s.Tag == "" {
		s.Tag = DefaultScript().Tag
	}
	return s, nil
}

// DefaultScript returns the built-in screening interview. It is the content
// served when no script file is configured.
func DefaultScript() Script {
	return Script{
		Tag:   "STORY",
		Start: 0,
		Nodes: []Node{
			{
				Expression: "Neutral",
				Text: "CASE NO. 89-X.\n\nSit down. Don't touch anything.\n" +
					"We have been processing your digital footprint for... quite some time.",
				Choices: []Choice{
					{Label: "Who are you?", Next: 1},
					{Label: "(Remain Silent)", Next: 1},
				},
			},
			{
				Expression:  "Smiling",
				TraitTarget: model.TraitNeuroticism,
				Text: "Oh, names are irrelevant here. I am the Algorithm. You are the Data Point.\n\n" +
					"Let's verify your 'humanity', shall we? Try not to lie. I can see your heart rate through the webcam.",
				Choices: []Choice{
					{Label: "I'm ready.", Weight: 1, Next: 2},
					{Label: "This is illegal.", Weight: -1, Next: 2},
				},
			},
			{
				Expression:  "Neutral",
				TraitTarget: model.TraitAgreeableness,
				Text: "Scenario 1:\n\nA coworker is crying in the breakroom. " +
					"They are wasting company time. What is your immediate reaction?",
				Choices: []Choice{
					{Label: "Comfort them.", Weight: 1, Next: 3},
					{Label: "Report them.", Weight: -1, Next: 3},
				},
			},
			{
				Expression:  "Angry",
				TraitTarget: model.TraitConscientiousness,
				Text: "Interesting...\n\nYour file says you were late on a payment in 2019. " +
					"That indicates a lack of discipline. Do you dispute this fact?",
				Choices: []Choice{
					{Label: "It was a mistake!", Weight: -1, Next: 4},
					{Label: "I paid it back.", Weight: 1, Next: 4},
				},
			},
			{
				Expression:  "Neutral",
				TraitTarget: model.TraitOpenness,
				Text: "We are updating the system protocol. It will require you to relearn " +
					"your entire job from scratch.\n\nHow does that make you feel?",
				Choices: []Choice{
					{Label: "Excited for change.", Weight: 1, Next: 5},
					{Label: "Annoyed.", Weight: -1, Next: 5},
				},
			},
			{
				Expression:  "Smiling",
				TraitTarget: model.TraitNeuroticism,
				Text: "ALERT.\n\nWe just detected a discrepancy in your file. If you don't click " +
					"the 'Fix' button in the next 3 seconds, your application is deleted.",
				Choices: []Choice{
					{Label: "FIX IT NOW!", Weight: -1, Next: 6},
					{Label: "Wait, what?", Weight: 1, Next: 6},
				},
			},
			{
				Expression: "Neutral",
				Text: "Calibration complete.\n\nProcessing biometrics...\n" +
					"Analyzing mouse tremors...\nCalculating social value...",
				Choices: []Choice{
					{Label: "View Verdict", Next: Terminal},
				},
			},
		},
	}
}
