package simulate

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/bureau/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	archetypeDivisor   = 6
	questionsPerWalk   = 7
)

// Behavioral archetype cases. Each archetype fixes a telemetry pattern
// whose verdict under the documented scoring rules is known up front.
const (
	caseSteadyCompliant = 0
	caseJitteryNeurotic = 1
	caseDefiant         = 2
	caseImpulsive       = 3
	caseDeliberate      = 4
	caseEagerExtravert  = 5
)

// Archetype outcome expectations, keyed by case.
var expectedOutcomes = map[int]string{
	caseSteadyCompliant: "HIRE",
	caseJitteryNeurotic: "REJECT",
	caseDefiant:         "REJECT",
	caseImpulsive:       "REJECT",
	caseDeliberate:      "HIRE",
	caseEagerExtravert:  "HIRE",
}

// Subject pairs a synthetic subject with its events and expected verdict.
type Subject struct {
	SubjectID       string
	Archetype       int
	ExpectedOutcome string
	Events          []Event
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateSubjects creates the specified number of subjects, each with a
// full interview walk's worth of telemetry.
func generateSubjects(ctx context.Context, config *Config, stats *Stats) ([]Subject, error) {
	logger.Get().Info(ctx, "generating synthetic subjects", logger.Int("numSubjects", config.NumSubjects))

	subjects := make([]Subject, config.NumSubjects)

	type subjectResult struct {
		index   int
		subject Subject
		err     error
	}

	resultChan := make(chan subjectResult, config.NumSubjects)

	workerCount := minInt(config.Workers, config.NumSubjects)
	perWorker := config.NumSubjects / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = config.NumSubjects
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- subjectResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- subjectResult{index: i, subject: generateSubject()}
				}
			}
		}(start, end)
	}

	for i := 0; i < config.NumSubjects; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during subject generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate subject %d: %w", result.index, result.err)
			}
			subjects[result.index] = result.subject
		}
	}

	total := 0
	for _, s := range subjects {
		total += len(s.Events)
	}
	stats.SubjectsGenerated = len(subjects)
	stats.EventsGenerated = total
	logger.Get().Info(ctx, "generated subjects successfully",
		logger.Int("subjects", len(subjects)),
		logger.Int("events", total))

	return subjects, nil
}

// generateSubject draws an archetype and produces its telemetry walk.
func generateSubject() Subject {
	n, _ := rand.Int(rand.Reader, big.NewInt(archetypeDivisor))
	archetype := int(n.Int64())

	subjectID := uuid.New().String()
	events := make([]Event, questionsPerWalk)
	for q := 0; q < questionsPerWalk; q++ {
		events[q] = generateArchetypeEvent(archetype, subjectID, q)
	}

	return Subject{
		SubjectID:       subjectID,
		Archetype:       archetype,
		ExpectedOutcome: expectedOutcomes[archetype],
		Events:          events,
	}
}

// generateArchetypeEvent shapes one event so the subject's aggregate
// telemetry lands in the intended scoring band.
func generateArchetypeEvent(archetype int, subjectID string, question int) Event {
	event := Event{
		EventID:    subjectID + "#" + strconv.Itoa(question),
		SubjectID:  subjectID,
		QuestionID: strconv.Itoa(question),
	}

	switch archetype {
	case caseSteadyCompliant:
		// Agreeable choices, calm pointer, unremarkable timing.
		event.TraitTarget = "Agreeableness"
		event.ChoiceWeight = 1
		event.ReactionTimeMs = 2500 + int64(getRandomFloat()*1000)
		event.PointerDistance = 80 + getRandomFloat()*40
	case caseJitteryNeurotic:
		// Pointer travel far past the high-jitter tier.
		event.TraitTarget = "Openness"
		event.ChoiceWeight = 0.5
		event.ReactionTimeMs = 2500 + int64(getRandomFloat()*1000)
		event.PointerDistance = 1300 + getRandomFloat()*400
	case caseDefiant:
		// Consistently hostile picks drag agreeableness under the floor.
		event.TraitTarget = "Agreeableness"
		event.ChoiceWeight = -0.5
		event.ReactionTimeMs = 2500 + int64(getRandomFloat()*1000)
		event.PointerDistance = 80 + getRandomFloat()*40
	case caseImpulsive:
		// Sub-second answers plus careless picks sink conscientiousness.
		event.TraitTarget = "Conscientiousness"
		event.ChoiceWeight = -0.3
		event.ReactionTimeMs = 400 + int64(getRandomFloat()*400)
		event.PointerDistance = 80 + getRandomFloat()*40
	case caseDeliberate:
		// Very slow but cooperative. Slow costs some conscientiousness,
		// not enough to reject.
		event.TraitTarget = "Agreeableness"
		event.ChoiceWeight = 0.5
		event.ReactionTimeMs = 6000 + int64(getRandomFloat()*2000)
		event.PointerDistance = 80 + getRandomFloat()*40
	case caseEagerExtravert:
		// Prompt answers in the confidence band.
		event.TraitTarget = "Openness"
		event.ChoiceWeight = 1
		event.ReactionTimeMs = 1200 + int64(getRandomFloat()*600)
		event.PointerDistance = 80 + getRandomFloat()*40
	}

	return event
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
