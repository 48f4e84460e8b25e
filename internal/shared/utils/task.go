package utils

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
)

// MarshalTask builds an asynq task with a JSON payload.
func MarshalTask(taskType string, payload interface{}, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data, opts...), nil
}

// UnmarshalTask decodes a task payload. Errors wrap asynq.SkipRetry since a
// malformed payload never gets better.
func UnmarshalTask(t *asynq.Task, dest interface{}) error {
	if err := json.Unmarshal(t.Payload(), dest); err != nil {
		return fmt.Errorf("unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}
