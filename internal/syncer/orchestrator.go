package syncer

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"yqms/pkg/log"
	"yqms/pkg/sid"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SourceProvider is the orchestrator's view of the connection manager.
type SourceProvider interface {
	EnsureConnected(ctx context.Context, name string) (*gorm.DB, error)
	// ReportError lets the provider flip a pool to disconnected when a
	// query surfaced a connection-class error.
	ReportError(name string, err error)
}

// Orchestrator runs a task body (fetch, transform, diff, write) with two
// guarantees: at most one concurrent execution per task, and bounded retry
// of transient source contention during the fetch.
type Orchestrator struct {
	sources SourceProvider
	engine  *Engine
	sid     *sid.Sid
	logger  *log.Logger

	// Injectable for deterministic retry timing in tests.
	sleep  func(d time.Duration)
	jitter func() float64

	onResult func(Result)
}

func NewOrchestrator(sources SourceProvider, engine *Engine, sid *sid.Sid, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		sources: sources,
		engine:  engine,
		sid:     sid,
		logger:  logger,
		sleep:   time.Sleep,
		jitter:  rand.Float64,
	}
}

// OnResult registers a hook invoked after every non-skipped run, whatever its
// status. Must be called before the scheduler or HTTP server starts.
func (o *Orchestrator) OnResult(fn func(Result)) {
	o.onResult = fn
}

// Run executes one sync run for the given task state. Both the scheduler and
// the manual trigger call this, sharing the task's exclusive-run flag, so the
// two can never race each other into a double write. The flag is released on
// every exit path, including panics.
func (o *Orchestrator) Run(ctx context.Context, st *TaskState) (res Result) {
	task := st.Task
	res = Result{Task: task.Name, StartedAt: time.Now(), Status: StatusFailed}

	if !st.TryAcquire() {
		res.Status = StatusSkipped
		res.FinishedAt = time.Now()
		o.logger.WithContext(ctx).Info("sync already in progress, skipping run",
			zap.String("task", task.Name))
		return res
	}

	if id, err := o.sid.GenString(); err == nil {
		res.RunID = id
	}

	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusFailed
			res.Err = fmt.Sprintf("panic: %v", r)
			o.logger.Error("sync run panicked",
				zap.String("task", task.Name), zap.Any("panic", r))
		}
		res.FinishedAt = time.Now()
		st.Release()
		st.setLastRun(&res)
		if o.onResult != nil {
			o.onResult(res)
		}
	}()

	o.logger.WithContext(ctx).Info("sync run started",
		zap.String("task", task.Name), zap.String("run_id", res.RunID))

	db, err := o.sources.EnsureConnected(ctx, task.Source)
	if err != nil {
		// Connectivity failures are not query contention; no retry here.
		res.Err = err.Error()
		o.logger.Error("sync run aborted: source unavailable",
			zap.String("task", task.Name), zap.Error(err))
		return res
	}

	rows, err := o.fetchWithRetry(ctx, task, db)
	if err != nil {
		o.sources.ReportError(task.Source, err)
		res.Err = err.Error()
		o.logger.Error("sync run aborted: fetch failed",
			zap.String("task", task.Name), zap.Error(err))
		return res
	}
	res.Fetched = len(rows)

	candidates := make([]Candidate, 0, len(rows))
	for i, row := range rows {
		cand, err := task.Transform(row)
		if err != nil {
			// One bad row never aborts the run.
			res.TransformFailed++
			o.logger.Warn("row transform failed, skipping row",
				zap.String("task", task.Name), zap.Int("row", i), zap.Error(err))
			continue
		}
		if cand == nil {
			continue
		}
		candidates = append(candidates, *cand)
	}

	stats, err := o.engine.DiffAndWrite(ctx, task, candidates)
	res.Stats = stats
	if err != nil {
		res.Err = err.Error()
		o.logger.Error("sync run failed during write",
			zap.String("task", task.Name), zap.Error(err))
		return res
	}

	res.Status = StatusCompleted
	o.logger.Info("sync run completed",
		zap.String("task", task.Name),
		zap.String("run_id", res.RunID),
		zap.Int("fetched", res.Fetched),
		zap.Int("transform_failed", res.TransformFailed),
		zap.Int64("unchanged", stats.Skipped),
		zap.Int64("modified", stats.Modified),
		zap.Int64("upserted", stats.Upserted),
		zap.Int64("deleted", stats.Deleted))
	return res
}

// fetchWithRetry runs the task fetch, retrying transient lock/deadlock-class
// errors up to the task's ceiling with a jittered delay. Any other error, or
// retry exhaustion, aborts the fetch; there is never a partial row set.
func (o *Orchestrator) fetchWithRetry(ctx context.Context, task *Task, db *gorm.DB) ([]SourceRecord, error) {
	for attempt := 1; ; attempt++ {
		rows, err := task.Fetch(ctx, db)
		if err == nil {
			return rows, nil
		}
		if !IsTransient(err) || attempt >= task.MaxRetries {
			return nil, err
		}
		delay := task.RetryBase + time.Duration(o.jitter()*float64(task.RetryJitter))
		o.logger.Warn("transient source error, retrying fetch",
			zap.String("task", task.Name),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", task.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err))
		o.sleep(delay)
	}
}
