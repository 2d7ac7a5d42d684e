package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"homecore/internal/engine"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeEvaluateObservation is the task type for one observation's evaluation
const TypeEvaluateObservation = "evaluate_observation"

// ObservationPayload carries the decoded in-memory value to the worker so
// evaluation never re-reads it from storage.
type ObservationPayload struct {
	DeviceID string              `json:"device_id"`
	Value    engine.TriggerValue `json:"value"`
}

// Evaluator is the evaluation surface the workers call into
type Evaluator interface {
	EvaluateObservation(ctx context.Context, deviceID string, value engine.TriggerValue)
}

// EnqueueEvaluation enqueues one evaluation task per observation. No retries:
// a dropped task only delays automation until the next message, while a retry
// could double-fire a rule.
func EnqueueEvaluation(deviceID string, value engine.TriggerValue) error {
	if asynqClient == nil {
		return fmt.Errorf("task queue not started")
	}
	payload, err := json.Marshal(ObservationPayload{DeviceID: deviceID, Value: value})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeEvaluateObservation, payload)
	info, err := asynqClient.Enqueue(task, asynq.MaxRetry(0), asynq.Timeout(10*time.Second))
	if err != nil {
		return err
	}
	zap.S().Debugf("TASKQUEUE: enqueued task %s for device %s", info.ID, deviceID)
	return nil
}

// handleObservationTask evaluates one queued observation
func handleObservationTask(ctx context.Context, t *asynq.Task) error {
	var payload ObservationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		zap.S().Errorf("TASKQUEUE: failed to unmarshal task payload: %v", err)
		return fmt.Errorf("unmarshal payload: %w", asynq.SkipRetry)
	}

	evaluator.EvaluateObservation(ctx, payload.DeviceID, payload.Value)
	return nil
}
