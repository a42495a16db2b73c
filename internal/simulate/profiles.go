package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveProfiles fetches evaluations for all subjects concurrently.
func retrieveProfiles(ctx context.Context, config *Config, subjects []Subject, stats *Stats) ([]Evaluation, error) {
	log.Printf("retrieving profiles for %d subjects with %d workers", len(subjects), config.Workers)

	client := newHTTPClient(config.Timeout)

	evaluations := make([]Evaluation, len(subjects))
	var (
		retrieved int64
		failed    int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					subjectID := subjects[index].SubjectID
					eval, err := retrieveSingleProfile(ctx, client, config.BaseURL, subjectID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("failed to get profile for %s: %v", subjectID, err)
						}
					} else {
						evaluations[index] = eval
						atomic.AddInt64(&retrieved, 1)
					}

					if config.Verbose && time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						log.Printf("profile progress: %d/%d retrieved (failed: %d)",
							atomic.LoadInt64(&retrieved)+atomic.LoadInt64(&failed),
							len(subjects), atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range subjects {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	// Filter out failed retrievals.
	valid := make([]Evaluation, 0, len(evaluations))
	for _, eval := range evaluations {
		if eval.SubjectID != "" {
			valid = append(valid, eval)
		}
	}

	stats.ProfilesRetrieved = len(valid)
	log.Printf("profile retrieval completed: retrieved=%d failed=%d",
		len(valid), int(atomic.LoadInt64(&failed)))

	return valid, nil
}

// retrieveSingleProfile fetches the evaluation of a single subject.
func retrieveSingleProfile(ctx context.Context, client *HTTPClient, baseURL, subjectID string) (Evaluation, error) {
	url := fmt.Sprintf("%s/profile/%s", baseURL, subjectID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Evaluation{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Evaluation{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Evaluation{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var eval Evaluation
	if err := json.Unmarshal(body, &eval); err != nil {
		return Evaluation{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return eval, nil
}
