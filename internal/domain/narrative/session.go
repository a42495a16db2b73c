package narrative

import (
	"fmt"
	"sync"
	"time"

	"github.com/okian/bureau/internal/domain/model"
)

// State enumerates the session phases. Terminal is absorbing.
type State string

const (
	// StatePresenting means the current node is on screen and the decision
	// window has just opened.
	StatePresenting State = "presenting"
	// StateAwaitingChoice means the subject has started interacting with the
	// current node (pointer motion observed) but has not chosen yet.
	StateAwaitingChoice State = "awaiting_choice"
	// StateTerminal means the narrative is complete.
	StateTerminal State = "terminal"
)

// NodePresentation is what the renderer needs to draw the current node.
type NodePresentation struct {
	Text       string   `json:"text"`
	Expression string   `json:"expression"`
	Choices    []string `json:"choices"`
}

// Session walks one subject through the graph, one node at a time. It owns
// the per-node reaction timer and pointer-distance accumulator; sessions for
// different subjects share no state. Calls on one session are serialized
// internally so a misbehaving caller cannot corrupt the timer or accumulator.
type Session struct {
	mu    sync.Mutex
	graph *Graph

	subjectID string
	now       func() time.Time

	state       State
	current     int       // node index, meaningless once terminal
	openedAt    time.Time // when the current node became active
	pointerDist float64   // accumulated travel for the current node
}

// NewSession starts a session for subjectID at the graph's start node.
func NewSession(graph *Graph, subjectID string, opts ...Option) *Session {
	s := &Session{
		graph:     graph,
		subjectID: subjectID,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.activate(graph.Start())
	return s
}

// activate makes idx the current node and resets the decision window.
func (s *Session) activate(idx int) {
	s.state = StatePresenting
	s.current = idx
	s.openedAt = s.now()
	s.pointerDist = 0
}

// SubjectID returns the subject this session belongs to.
func (s *Session) SubjectID() string { return s.subjectID }

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PresentCurrentNode returns the current node's text, expression hint and
// choice labels. It is a pure read and fails only on a terminal session.
func (s *Session) PresentCurrentNode() (NodePresentation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminal {
		return NodePresentation{}, ErrSessionTerminal
	}
	node := s.graph.Node(s.current)
	labels := make([]string, len(node.Choices))
	for i, c := range node.Choices {
		labels[i] = c.Label
	}
	return NodePresentation{
		Text:       node.Text,
		Expression: node.Expression,
		Choices:    labels,
	}, nil
}

// RecordPointerSample accumulates pointer travel into the current node's
// running total. Negative deltas are dropped; the renderer reports distances.
func (s *Session) RecordPointerSample(delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminal {
		return ErrSessionTerminal
	}
	if delta > 0 {
		s.pointerDist += delta
	}
	if s.state == StatePresenting {
		s.state = StateAwaitingChoice
	}
	return nil
}

// SelectChoice records the subject's decision on the current node. It emits
// the telemetry event for the decision window, advances to the choice's
// destination, and resets the timer and pointer accumulator. When the
// destination is the terminal sentinel the session becomes terminal and all
// further mutating calls fail with ErrSessionTerminal.
func (s *Session) SelectChoice(choiceIndex int) (model.EventRecord, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminal {
		return model.EventRecord{}, s.state, ErrSessionTerminal
	}
	node := s.graph.Node(s.current)
	if choiceIndex < 0 || choiceIndex >= len(node.Choices) {
		// Current node state stays untouched so the caller can re-present.
		return model.EventRecord{}, s.state, fmt.Errorf("%w: %d of %d", ErrInvalidChoiceIndex, choiceIndex, len(node.Choices))
	}
	choice := node.Choices[choiceIndex]

	event := model.EventRecord{
		EventID:         fmt.Sprintf("%s#%d", s.subjectID, s.current),
		SubjectID:       s.subjectID,
		QuestionID:      s.graph.Tag(),
		TraitTarget:     node.TraitTarget,
		ChoiceWeight:    choice.Weight,
		ReactionTimeMs:  s.now().Sub(s.openedAt).Milliseconds(),
		PointerDistance: s.pointerDist,
	}

	if choice.Next == Terminal {
		s.state = StateTerminal
	} else {
		s.activate(choice.Next)
	}
	return event, s.state, nil
}
