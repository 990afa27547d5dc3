package service

import (
	"context"
	"time"

	v1 "yqms/api/v1"
	"yqms/internal/repository"
	"yqms/internal/source"
	"yqms/internal/syncer"
	"yqms/pkg/log"

	"go.uber.org/zap"
)

// RunEventSink receives every finished run, typically to push it out to
// connected dashboard clients.
type RunEventSink interface {
	Publish(res v1.SyncRunResult)
}

type SyncService interface {
	Trigger(ctx context.Context, task string) (*v1.TriggerSyncData, error)
	Status(ctx context.Context, task string) (*v1.SyncTaskStatus, error)
	List(ctx context.Context) ([]v1.SyncTaskStatus, error)
	History(ctx context.Context, task string, limit int) ([]v1.SyncRunResult, error)
	SourceStatus(ctx context.Context) (*v1.SourceStatusData, error)
}

func NewSyncService(
	service *Service,
	registry *syncer.Registry,
	orch *syncer.Orchestrator,
	sources *source.Manager,
	history repository.SyncHistoryRepository,
	sink RunEventSink,
	logger *log.Logger,
) SyncService {
	s := &syncService{
		Service:  service,
		registry: registry,
		orch:     orch,
		sources:  sources,
		history:  history,
		sink:     sink,
		logger:   logger,
	}
	// Every finished run, scheduled or manual, lands in history and on the
	// event stream. Skipped runs are broadcast but not persisted.
	orch.OnResult(s.recordResult)
	return s
}

type syncService struct {
	*Service
	registry *syncer.Registry
	orch     *syncer.Orchestrator
	sources  *source.Manager
	history  repository.SyncHistoryRepository
	sink     RunEventSink
	logger   *log.Logger
}

func (s *syncService) recordResult(res syncer.Result) {
	if s.sink != nil {
		s.sink.Publish(toRunResult(res))
	}
	if res.Status == syncer.StatusSkipped {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.history.Append(ctx, res); err != nil {
		s.logger.Warn("failed to append run history",
			zap.String("task", res.Task), zap.Error(err))
	}
}

// Trigger starts a run in the background and returns immediately. The caller
// gets an acknowledgement, not a result; a concurrent run makes the trigger a
// no-op rather than queueing a second one.
func (s *syncService) Trigger(ctx context.Context, task string) (*v1.TriggerSyncData, error) {
	st := s.registry.Get(task)
	if st == nil {
		return nil, v1.ErrTaskNotFound
	}
	if st.Running() {
		return &v1.TriggerSyncData{
			Task:     task,
			Accepted: false,
			Message:  "sync already in progress",
		}, nil
	}

	// Detached from the request context: the run outlives the HTTP call.
	go s.orch.Run(context.Background(), st)

	return &v1.TriggerSyncData{
		Task:     task,
		Accepted: true,
		Message:  "sync started",
	}, nil
}

func (s *syncService) Status(ctx context.Context, task string) (*v1.SyncTaskStatus, error) {
	st := s.registry.Get(task)
	if st == nil {
		return nil, v1.ErrTaskNotFound
	}
	status := toTaskStatus(st)
	return &status, nil
}

func (s *syncService) List(ctx context.Context) ([]v1.SyncTaskStatus, error) {
	states := s.registry.All()
	out := make([]v1.SyncTaskStatus, 0, len(states))
	for _, st := range states {
		out = append(out, toTaskStatus(st))
	}
	return out, nil
}

func (s *syncService) History(ctx context.Context, task string, limit int) ([]v1.SyncRunResult, error) {
	if s.registry.Get(task) == nil {
		return nil, v1.ErrTaskNotFound
	}
	results, err := s.history.Recent(ctx, task, int64(limit))
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to read run history",
			zap.String("task", task), zap.Error(err))
		return nil, v1.ErrHistoryUnavailable
	}
	out := make([]v1.SyncRunResult, 0, len(results))
	for _, r := range results {
		out = append(out, toRunResult(r))
	}
	return out, nil
}

func (s *syncService) SourceStatus(ctx context.Context) (*v1.SourceStatusData, error) {
	all := s.sources.StatusAll()
	data := &v1.SourceStatusData{Sources: make(map[string]v1.SourceStatusItem, len(all))}
	for name, st := range all {
		item := v1.SourceStatusItem{
			Connected: st.Connected,
			LastError: st.LastError,
		}
		if !st.LastConnected.IsZero() {
			t := st.LastConnected
			item.LastConnected = &t
		}
		data.Sources[name] = item
	}
	return data, nil
}

func toTaskStatus(st *syncer.TaskState) v1.SyncTaskStatus {
	task := st.Task
	out := v1.SyncTaskStatus{
		Name:       task.Name,
		Source:     task.Source,
		Collection: task.Collection,
		Cadence:    task.Cadence.String(),
		Running:    st.Running(),
	}
	if last := st.LastRun(); last != nil {
		r := toRunResult(*last)
		out.LastRun = &r
	}
	return out
}

func toRunResult(res syncer.Result) v1.SyncRunResult {
	return v1.SyncRunResult{
		RunID:           res.RunID,
		Task:            res.Task,
		Status:          string(res.Status),
		StartedAt:       res.StartedAt,
		FinishedAt:      res.FinishedAt,
		Fetched:         res.Fetched,
		TransformFailed: res.TransformFailed,
		Skipped:         res.Stats.Skipped,
		Matched:         res.Stats.Matched,
		Modified:        res.Stats.Modified,
		Upserted:        res.Stats.Upserted,
		Deleted:         res.Stats.Deleted,
		Error:           res.Err,
	}
}
