package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"storefront-checkout/internal/config"
	orderModel "storefront-checkout/internal/domains/order/model"
	"storefront-checkout/internal/shared/utils"
	"storefront-checkout/pkg/logger"
)

// Queue names and their weights on the worker.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// Priorities is the asynq server queue weighting.
var Priorities = map[string]int{
	QueueHigh:    6,
	QueueDefault: 3,
	QueueLow:     1,
}

// Registrar is the part of asynq.Scheduler the registration needs.
type Registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       config.WorkerConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, cfg config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		cfg:       cfg,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return RegisterCleanupUnfinishedJob(s.scheduler, s.cfg)
}

// ================================================
// Cleanup unfinished orders (every 15 minutes by default)
// ================================================
func RegisterCleanupUnfinishedJob(r Registrar, cfg config.WorkerConfig) error {
	task, err := utils.MarshalTask(orderModel.TypeCleanupUnfinished, orderModel.CleanupPayload{
		OlderThanMinutes: int(cfg.UnfinishedOrderTTL / time.Minute),
	})
	if err != nil {
		return err
	}

	entryID, err := r.Register(
		cfg.CleanupCronSpec,
		task,
		asynq.Queue(cfg.CleanupQueue),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
		asynq.Unique(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register CleanupUnfinishedOrders job", err)
		return err
	}

	logger.Info("✓ Registered CleanupUnfinishedOrders", map[string]interface{}{
		"entry_id": entryID,
		"cron":     cfg.CleanupCronSpec,
		"ttl":      cfg.UnfinishedOrderTTL.String(),
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
