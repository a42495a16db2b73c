package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/bureau/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete vetting simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting vetting simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("subjects", config.NumSubjects),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	subjects, err := generateSubjects(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("subject generation failed: %w", err)
	}

	if config.Mode == ModeSessions {
		// Drive full interviews through the session API. Verdicts depend on
		// the script's choice weights, so archetype expectations do not
		// apply; only the telemetry shaping does.
		ids, err := walkSessions(ctx, config, subjects, stats)
		if err != nil {
			return fmt.Errorf("session walks failed: %w", err)
		}
		walked := make([]Subject, len(ids))
		for i, id := range ids {
			walked[i] = Subject{SubjectID: id}
		}
		subjects = walked
	} else {
		if err := submitEvents(ctx, config, subjects, stats); err != nil {
			return fmt.Errorf("event submission failed: %w", err)
		}
	}

	// Give the async persistence pipeline time to drain.
	logger.Get().Info(ctx, "waiting for events to be persisted")
	time.Sleep(SettleDelay)

	evaluations, err := retrieveProfiles(ctx, config, subjects, stats)
	if err != nil {
		return fmt.Errorf("profile retrieval failed: %w", err)
	}

	if err := verifyResults(config, subjects, evaluations, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	if config.Mode != ModeSessions {
		if err := saveEventsToFile(ctx, config, subjects); err != nil {
			logger.Get().Warn(ctx, "failed to save events to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 counts as healthy. The endpoint serves Prometheus metrics.
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveEventsToFile saves the generated telemetry to a JSON file.
func saveEventsToFile(ctx context.Context, config *Config, subjects []Subject) error {
	if len(subjects) == 0 {
		return fmt.Errorf("no subjects to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_events_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	events := make([]Event, 0, len(subjects)*questionsPerWalk)
	for _, subject := range subjects {
		events = append(events, subject.Events...)
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "events saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var successRate, eventsPerSecond float64

	if stats.EventsSubmitted > 0 {
		successRate = float64(stats.EventsSuccessful) / float64(stats.EventsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		eventsPerSecond = float64(stats.EventsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("subjectsGenerated", stats.SubjectsGenerated),
		logger.Int("eventsGenerated", stats.EventsGenerated),
		logger.Int("eventsSubmitted", stats.EventsSubmitted),
		logger.Int("eventsSuccessful", stats.EventsSuccessful),
		logger.Int("eventsDuplicate", stats.EventsDuplicate),
		logger.Int("eventsFailed", stats.EventsFailed),
		logger.Int("profilesRetrieved", stats.ProfilesRetrieved),
		logger.Int("verdictsHire", stats.VerdictsHire),
		logger.Int("verdictsReject", stats.VerdictsReject),
		logger.Int("expectedMismatches", stats.ExpectedMismatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("eventsPerSecond", eventsPerSecond))
}
