package queue

import (
	"encoding/json"

	"productcat/scraper/internal/domain"
)

// Event is a message published to a run's outcome stream
type Event interface {
	EventType() string
	EventValue() ([]byte, error)
}

// OutcomeEvent is emitted once per processed candidate
type OutcomeEvent struct {
	RunID    string                 `json:"run_id"`
	Position int                    `json:"position"`
	Status   string                 `json:"status"`
	Outcome  domain.CategoryOutcome `json:"outcome"`
}

func (e *OutcomeEvent) EventType() string { return "outcome" }

func (e *OutcomeEvent) EventValue() ([]byte, error) { return json.Marshal(e) }

// RunFinishedEvent closes a run on the stream
type RunFinishedEvent struct {
	RunID     string `json:"run_id"`
	Processed int    `json:"processed"`
	Succeeded int    `json:"succeeded"`
	Location  string `json:"location"`
	Error     string `json:"error,omitempty"`
}

func (e *RunFinishedEvent) EventType() string { return "run_finished" }

func (e *RunFinishedEvent) EventValue() ([]byte, error) { return json.Marshal(e) }

func UnmarshalEvent[T Event](data []byte) (T, error) {
	var e T
	err := json.Unmarshal(data, &e)
	return e, err
}
