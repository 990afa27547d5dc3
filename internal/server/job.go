package server

import (
	"context"
	"time"

	"yqms/internal/syncer"
	"yqms/pkg/log"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// JobServer drives the scheduled cadence of every registered sync task. Each
// task gets its own job; a tick that lands while the previous run is still
// going is skipped by the orchestrator, not queued.
type JobServer struct {
	logger    *log.Logger
	scheduler *gocron.Scheduler
	registry  *syncer.Registry
	orch      *syncer.Orchestrator
}

func NewJobServer(
	logger *log.Logger,
	registry *syncer.Registry,
	orch *syncer.Orchestrator,
) *JobServer {
	return &JobServer{
		logger:    logger,
		scheduler: gocron.NewScheduler(time.UTC),
		registry:  registry,
		orch:      orch,
	}
}

func (j *JobServer) Start(ctx context.Context) error {
	for _, st := range j.registry.All() {
		st := st
		task := st.Task
		if task.Cadence <= 0 {
			j.logger.Info("task has no cadence, manual trigger only",
				zap.String("task", task.Name))
			continue
		}
		_, err := j.scheduler.Every(task.Cadence).
			StartImmediately().
			Tag(task.Name).
			Do(func() {
				res := j.orch.Run(context.Background(), st)
				j.logger.Info("scheduled sync tick finished",
					zap.String("task", task.Name),
					zap.String("status", string(res.Status)))
			})
		if err != nil {
			return err
		}
		j.logger.Info("sync task scheduled",
			zap.String("task", task.Name),
			zap.Duration("cadence", task.Cadence))
	}

	j.scheduler.StartAsync()
	return nil
}

func (j *JobServer) Stop(ctx context.Context) error {
	j.scheduler.Stop()
	j.logger.Info("job server stopped")
	return nil
}
