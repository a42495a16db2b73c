package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// Wire shapes for the session endpoints.
type sessionResponse struct {
	SessionID string `json:"sessionId"`
}

type nodeResponse struct {
	Text       string   `json:"text"`
	Expression string   `json:"expression"`
	Choices    []string `json:"choices"`
}

type pointerRequest struct {
	Delta float64 `json:"delta"`
}

type choiceRequest struct {
	Choice int `json:"choice"`
}

type choiceResponse struct {
	Terminal bool `json:"terminal"`
}

// Safety bound on walk length in case the server misbehaves.
const maxWalkSteps = 64

// walkSessions drives full interviews through the session API, one walk per
// subject, reusing each subject's archetype to shape pointer and pacing
// telemetry. It returns the session ids, which double as subject ids on the
// server.
func walkSessions(ctx context.Context, config *Config, subjects []Subject, stats *Stats) ([]string, error) {
	log.Printf("walking %d interview sessions with %d workers", len(subjects), config.Workers)

	client := newHTTPClient(config.Timeout)

	sessionIDs := make([]string, len(subjects))
	var (
		completed int64
		failed    int64
	)

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
					id, err := walkSingleSession(ctx, client, config.BaseURL, subjects[index].Archetype)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("session walk failed: %v", err)
						}
					} else {
						sessionIDs[index] = id
						atomic.AddInt64(&completed, 1)
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

	valid := make([]string, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		if id != "" {
			valid = append(valid, id)
		}
	}

	stats.EventsSubmitted = int(atomic.LoadInt64(&completed))
	stats.EventsSuccessful = int(atomic.LoadInt64(&completed))
	stats.EventsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("session walks completed: finished=%d failed=%d", len(valid), int(atomic.LoadInt64(&failed)))
	return valid, nil
}

// walkSingleSession starts one session and plays it to the terminal node,
// always picking the first choice.
func walkSingleSession(ctx context.Context, client *HTTPClient, baseURL string, archetype int) (string, error) {
	resp, err := client.Post(ctx, baseURL+"/sessions", struct{}{})
	if err != nil {
		return "", fmt.Errorf("starting session: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "", fmt.Errorf("reading session response: %w", err)
	}
	if resp.StatusCode != 201 {
		return "", fmt.Errorf("HTTP %d starting session: %s", resp.StatusCode, string(body))
	}
	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("parsing session response: %w", err)
	}

	base := fmt.Sprintf("%s/sessions/%s", baseURL, session.SessionID)
	for step := 0; step < maxWalkSteps; step++ {
		if err := fetchNode(ctx, client, base); err != nil {
			return "", err
		}

		// Shape the pointer jitter after the archetype's telemetry.
		sample := generateArchetypeEvent(archetype, session.SessionID, step)
		if err := postPointer(ctx, client, base, sample.PointerDistance); err != nil {
			return "", err
		}

		terminal, err := postChoice(ctx, client, base, 0)
		if err != nil {
			return "", err
		}
		if terminal {
			return session.SessionID, nil
		}
	}
	return "", fmt.Errorf("session %s did not terminate within %d steps", session.SessionID, maxWalkSteps)
}

func fetchNode(ctx context.Context, client *HTTPClient, base string) error {
	resp, err := client.Get(ctx, base+"/node")
	if err != nil {
		return fmt.Errorf("fetching node: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("reading node response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d fetching node: %s", resp.StatusCode, string(body))
	}
	var node nodeResponse
	if err := json.Unmarshal(body, &node); err != nil {
		return fmt.Errorf("parsing node response: %w", err)
	}
	return nil
}

func postPointer(ctx context.Context, client *HTTPClient, base string, delta float64) error {
	resp, err := client.Post(ctx, base+"/pointer", pointerRequest{Delta: delta})
	if err != nil {
		return fmt.Errorf("posting pointer sample: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("reading pointer response: %w", err)
	}
	if resp.StatusCode != 204 {
		return fmt.Errorf("HTTP %d posting pointer sample: %s", resp.StatusCode, string(body))
	}
	return nil
}

func postChoice(ctx context.Context, client *HTTPClient, base string, choice int) (bool, error) {
	resp, err := client.Post(ctx, base+"/choice", choiceRequest{Choice: choice})
	if err != nil {
		return false, fmt.Errorf("posting choice: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return false, fmt.Errorf("reading choice response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return false, fmt.Errorf("HTTP %d posting choice: %s", resp.StatusCode, string(body))
	}
	var result choiceResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("parsing choice response: %w", err)
	}
	return result.Terminal, nil
}
