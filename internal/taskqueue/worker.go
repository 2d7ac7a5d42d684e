package taskqueue

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

var (
	asynqClient *asynq.Client
	asynqSrv    *asynq.Server
	evaluator   Evaluator
)

// StartWorkers starts the in-process Asynq workers that run rule evaluation.
// Blocks until the server stops.
func StartWorkers(redisAddr string, ev Evaluator) {
	evaluator = ev
	asynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEvaluateObservation, handleObservationTask)

	asynqSrv = asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 10})
	zap.S().Infof("TASKQUEUE: workers started, waiting for tasks")
	if err := asynqSrv.Run(mux); err != nil {
		zap.S().Fatalf("TASKQUEUE: failed to start workers: %v", err)
	}
}

// StopWorkers stops workers and closes the client
func StopWorkers() {
	if asynqSrv != nil {
		asynqSrv.Stop()
		asynqSrv.Shutdown()
	}
	if asynqClient != nil {
		asynqClient.Close()
	}
	zap.S().Infof("TASKQUEUE: workers stopped")
}
