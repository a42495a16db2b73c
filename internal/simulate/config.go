package simulate

import "time"

// Simulation modes.
const (
	// ModeEvents submits pre-shaped telemetry straight to the ingestion API.
	ModeEvents = "events"
	// ModeSessions drives full interviews through the session API.
	ModeSessions = "sessions"
)

// Config holds configuration for the vetting simulation
type Config struct {
	BaseURL     string        // Base URL of the service
	Mode        string        // ModeEvents or ModeSessions
	NumSubjects int           // Number of synthetic subjects
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for generated events
	LogFile     string        // Log file for simulation output
	Verbose     bool          // Enable verbose logging
}

// Event represents a telemetry event to be submitted
type Event struct {
	EventID         string  `json:"eventId"`
	SubjectID       string  `json:"subjectId"`
	QuestionID      string  `json:"questionId"`
	TraitTarget     string  `json:"traitTarget"`
	ChoiceWeight    float64 `json:"choiceWeight"`
	ReactionTimeMs  int64   `json:"reactionTimeMs"`
	PointerDistance float64 `json:"pointerDistance"`
}

// Profile represents the five-trait read shape
type Profile struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// Verdict represents the evaluation outcome
type Verdict struct {
	Outcome string `json:"verdict"`
	Reason  string `json:"reason,omitempty"`
}

// Evaluation represents the response from GET /profile/{subjectId}
type Evaluation struct {
	SubjectID string  `json:"subjectId"`
	Profile   Profile `json:"profile"`
	Verdict   Verdict `json:"verdict"`
}

// AckResponse represents the response from event submission
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds simulation statistics
type Stats struct {
	SubjectsGenerated  int
	EventsGenerated    int
	EventsSubmitted    int
	EventsSuccessful   int
	EventsDuplicate    int
	EventsFailed       int
	ProfilesRetrieved  int
	VerdictsHire       int
	VerdictsReject     int
	ExpectedMismatches int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
