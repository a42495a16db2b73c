package simulate

import (
	"fmt"
	"log"
)

// verifyResults checks every retrieved verdict against the archetype's
// expected outcome and tallies the distribution.
func verifyResults(config *Config, subjects []Subject, evaluations []Evaluation, stats *Stats) error {
	log.Println("verifying verdicts")

	if len(evaluations) == 0 {
		return fmt.Errorf("no evaluations to verify")
	}

	expected := make(map[string]string, len(subjects))
	archetypes := make(map[string]int, len(subjects))
	for _, subject := range subjects {
		expected[subject.SubjectID] = subject.ExpectedOutcome
		archetypes[subject.SubjectID] = subject.Archetype
	}

	mismatches := 0
	reasons := make(map[string]int)
	for _, eval := range evaluations {
		switch eval.Verdict.Outcome {
		case "HIRE":
			stats.VerdictsHire++
		case "REJECT":
			stats.VerdictsReject++
			reasons[eval.Verdict.Reason]++
		}

		want, ok := expected[eval.SubjectID]
		if !ok || want == "" {
			continue
		}
		if eval.Verdict.Outcome != want {
			mismatches++
			if config.Verbose {
				log.Printf("verdict mismatch for %s (archetype %d): got %s, expected %s",
					eval.SubjectID, archetypes[eval.SubjectID], eval.Verdict.Outcome, want)
			}
		}
	}
	stats.ExpectedMismatches = mismatches

	log.Printf("verdict distribution: hire=%d reject=%d", stats.VerdictsHire, stats.VerdictsReject)
	for reason, count := range reasons {
		log.Printf("rejection reason %q: %d", reason, count)
	}

	if mismatches > 0 {
		log.Printf("warning: %d verdicts diverged from archetype expectations", mismatches)
	} else {
		log.Println("all verdicts match archetype expectations")
	}

	displayProfileStats(evaluations, config.Verbose)

	log.Println("verification completed")
	return nil
}

// displayProfileStats prints trait averages across all evaluations.
func displayProfileStats(evaluations []Evaluation, verbose bool) {
	if !verbose || len(evaluations) == 0 {
		return
	}

	var o, c, e, a, n float64
	for _, eval := range evaluations {
		o += eval.Profile.Openness
		c += eval.Profile.Conscientiousness
		e += eval.Profile.Extraversion
		a += eval.Profile.Agreeableness
		n += eval.Profile.Neuroticism
	}
	count := float64(len(evaluations))

	log.Printf("trait averages: O=%.1f C=%.1f E=%.1f A=%.1f N=%.1f",
		o/count, c/count, e/count, a/count, n/count)
}
