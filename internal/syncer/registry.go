package syncer

import (
	"fmt"
	"sync/atomic"
	"time"
)

// TaskState pairs a task definition with its only piece of concurrent
// mutable state: the exclusive-run flag. The flag is per-task, so unrelated
// tasks never block each other.
type TaskState struct {
	Task    *Task
	running atomic.Bool
	lastRun atomic.Pointer[Result]
}

// TryAcquire atomically sets the exclusive-run flag. A false return means a
// run is already in progress and this trigger must be skipped, not queued.
func (s *TaskState) TryAcquire() bool {
	return s.running.CompareAndSwap(false, true)
}

func (s *TaskState) Release() {
	s.running.Store(false)
}

func (s *TaskState) Running() bool {
	return s.running.Load()
}

func (s *TaskState) LastRun() *Result {
	return s.lastRun.Load()
}

func (s *TaskState) setLastRun(r *Result) {
	s.lastRun.Store(r)
}

// Registry owns one TaskState per registered task. It is constructed once at
// startup and shared by the scheduler and the manual-trigger path, so both
// contend on the same flags.
type Registry struct {
	tasks map[string]*TaskState
	order []string
}

func NewRegistry(tasks []*Task) (*Registry, error) {
	r := &Registry{tasks: make(map[string]*TaskState, len(tasks))}
	for _, t := range tasks {
		if t.Name == "" || t.Source == "" || t.Collection == "" {
			return nil, fmt.Errorf("sync task %q: name, source and collection are required", t.Name)
		}
		if len(t.KeyFields) == 0 {
			return nil, fmt.Errorf("sync task %q: at least one key field is required", t.Name)
		}
		if t.Fetch == nil || t.Transform == nil {
			return nil, fmt.Errorf("sync task %q: fetch and transform are required", t.Name)
		}
		if _, dup := r.tasks[t.Name]; dup {
			return nil, fmt.Errorf("duplicate sync task %q", t.Name)
		}
		if t.MaxRetries <= 0 {
			t.MaxRetries = 3
		}
		if t.RetryBase <= 0 {
			t.RetryBase = 1500 * time.Millisecond
		}
		if t.RetryJitter <= 0 {
			t.RetryJitter = time.Second
		}
		r.tasks[t.Name] = &TaskState{Task: t}
		r.order = append(r.order, t.Name)
	}
	return r, nil
}

func (r *Registry) Get(name string) *TaskState {
	return r.tasks[name]
}

// All returns task states in registration order.
func (r *Registry) All() []*TaskState {
	out := make([]*TaskState, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tasks[name])
	}
	return out
}
