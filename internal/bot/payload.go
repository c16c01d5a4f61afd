package bot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TurnJob is the queue payload carrying one inbound customer turn from the
// webhook to the worker.
type TurnJob struct {
	ID         string      `json:"id"`
	Turn       TurnRequest `json:"turn"`
	ReceivedAt time.Time   `json:"received_at"`
}

// EncodeTurnJob wraps a turn request in a job envelope and serializes it
// for the queue.
func EncodeTurnJob(req TurnRequest, receivedAt time.Time) (TurnJob, string, error) {
	job := TurnJob{
		ID:         uuid.NewString(),
		Turn:       req,
		ReceivedAt: receivedAt,
	}
	body, err := json.Marshal(job)
	if err != nil {
		return TurnJob{}, "", fmt.Errorf("bot: failed to encode turn job: %w", err)
	}
	return job, string(body), nil
}

// DecodeTurnJob parses a queue message body back into a turn job.
func DecodeTurnJob(body string) (TurnJob, error) {
	var job TurnJob
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		return TurnJob{}, fmt.Errorf("bot: failed to decode turn job: %w", err)
	}
	return job, nil
}
