package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"yqms/pkg/sid"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSource struct {
	err      error
	mu       sync.Mutex
	reported []error
}

func (f *fakeSource) EnsureConnected(ctx context.Context, name string) (*gorm.DB, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &gorm.DB{}, nil
}

func (f *fakeSource) ReportError(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reported = append(f.reported, err)
}

func newTestOrchestrator(src SourceProvider, store DocumentStore) *Orchestrator {
	o := NewOrchestrator(src, NewEngine(store, testLogger()), sid.NewSid(), testLogger())
	o.sleep = func(time.Duration) {}
	o.jitter = func() float64 { return 0 }
	return o
}

func newTestState(t *testing.T, task *Task) *TaskState {
	t.Helper()
	reg, err := NewRegistry([]*Task{task})
	require.NoError(t, err)
	return reg.Get(task.Name)
}

func staticTask(records []SourceRecord) *Task {
	return &Task{
		Name:       "test_task",
		Source:     "src",
		Collection: "docs",
		KeyFields:  []string{"id"},
		Fetch: func(ctx context.Context, db *gorm.DB) ([]SourceRecord, error) {
			return records, nil
		},
		Transform: func(rec SourceRecord) (*Candidate, error) {
			id, ok := rec.(string)
			if !ok {
				return nil, fmt.Errorf("bad row")
			}
			c := candidate(id, "v")
			return &c, nil
		},
	}
}

func TestRunCompletes(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(&fakeSource{}, store)
	st := newTestState(t, staticTask([]SourceRecord{"a", "b"}))

	res := o.Run(context.Background(), st)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, int64(2), res.Stats.Upserted)
	assert.NotEmpty(t, res.RunID)
	assert.False(t, st.Running())
	require.NotNil(t, st.LastRun())
	assert.Equal(t, res.RunID, st.LastRun().RunID)
}

func TestRunSkipsWhileAnotherRunHoldsTheFlag(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(&fakeSource{}, store)

	started := make(chan struct{})
	release := make(chan struct{})
	task := staticTask(nil)
	task.Fetch = func(ctx context.Context, db *gorm.DB) ([]SourceRecord, error) {
		close(started)
		<-release
		return []SourceRecord{"a"}, nil
	}
	st := newTestState(t, task)

	done := make(chan Result, 1)
	go func() { done <- o.Run(context.Background(), st) }()
	<-started

	// Second trigger while the first is mid-fetch: skipped, not queued.
	res := o.Run(context.Background(), st)
	assert.Equal(t, StatusSkipped, res.Status)

	close(release)
	first := <-done
	assert.Equal(t, StatusCompleted, first.Status)

	// Flag released: the next trigger runs again.
	res = o.Run(context.Background(), st)
	assert.Equal(t, StatusCompleted, res.Status)
}

func TestRunFailsFastWhenSourceUnavailable(t *testing.T) {
	src := &fakeSource{err: &ConnectivityError{Source: "src", Err: errors.New("dial tcp: refused")}}
	fetchCalls := 0
	task := staticTask(nil)
	task.Fetch = func(ctx context.Context, db *gorm.DB) ([]SourceRecord, error) {
		fetchCalls++
		return nil, nil
	}
	o := newTestOrchestrator(src, newFakeStore())
	st := newTestState(t, task)

	res := o.Run(context.Background(), st)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Err, "unavailable")
	assert.Zero(t, fetchCalls)
	assert.False(t, st.Running())
}

func TestRunRetriesTransientFetchErrors(t *testing.T) {
	attempts := 0
	task := staticTask(nil)
	task.RetryBase = 1500 * time.Millisecond
	task.RetryJitter = time.Second
	task.Fetch = func(ctx context.Context, db *gorm.DB) ([]SourceRecord, error) {
		attempts++
		if attempts < 3 {
			return nil, &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
		}
		return []SourceRecord{"a"}, nil
	}

	o := newTestOrchestrator(&fakeSource{}, newFakeStore())
	var delays []time.Duration
	o.sleep = func(d time.Duration) { delays = append(delays, d) }
	o.jitter = func() float64 { return 0.5 }
	st := newTestState(t, task)

	res := o.Run(context.Background(), st)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, 3, attempts)
	require.Len(t, delays, 2)
	assert.Equal(t, 2*time.Second, delays[0])
	assert.Equal(t, 2*time.Second, delays[1])
}

func TestRunStopsAfterRetryBudget(t *testing.T) {
	attempts := 0
	task := staticTask(nil)
	task.MaxRetries = 3
	task.Fetch = func(ctx context.Context, db *gorm.DB) ([]SourceRecord, error) {
		attempts++
		return nil, &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	}

	src := &fakeSource{}
	o := newTestOrchestrator(src, newFakeStore())
	st := newTestState(t, task)

	res := o.Run(context.Background(), st)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 3, attempts)
	assert.Len(t, src.reported, 1)
}

func TestRunDoesNotRetryNonTransientErrors(t *testing.T) {
	attempts := 0
	task := staticTask(nil)
	task.Fetch = func(ctx context.Context, db *gorm.DB) ([]SourceRecord, error) {
		attempts++
		return nil, errors.New("syntax error near SELECT")
	}

	o := newTestOrchestrator(&fakeSource{}, newFakeStore())
	st := newTestState(t, task)

	res := o.Run(context.Background(), st)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 1, attempts)
}

func TestRunIsolatesTransformFailures(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(&fakeSource{}, store)
	st := newTestState(t, staticTask([]SourceRecord{"a", "b", 42, "c", "d", "e"}))

	res := o.Run(context.Background(), st)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, 6, res.Fetched)
	assert.Equal(t, 1, res.TransformFailed)
	assert.Equal(t, int64(5), res.Stats.Upserted)
}

func TestRunWithEmptyFetch(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(&fakeSource{}, store)
	st := newTestState(t, staticTask(nil))

	res := o.Run(context.Background(), st)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Zero(t, res.Fetched)
	assert.Empty(t, store.upsertOps)
}

func TestRunRecoversFromPanicAndReleasesFlag(t *testing.T) {
	task := staticTask(nil)
	task.Fetch = func(ctx context.Context, db *gorm.DB) ([]SourceRecord, error) {
		panic("boom")
	}
	o := newTestOrchestrator(&fakeSource{}, newFakeStore())
	st := newTestState(t, task)

	res := o.Run(context.Background(), st)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Err, "panic")
	assert.False(t, st.Running())
}

func TestRunInvokesResultHook(t *testing.T) {
	o := newTestOrchestrator(&fakeSource{}, newFakeStore())
	var results []Result
	o.OnResult(func(r Result) { results = append(results, r) })
	st := newTestState(t, staticTask([]SourceRecord{"a"}))

	o.Run(context.Background(), st)
	require.Len(t, results, 1)
	assert.Equal(t, StatusCompleted, results[0].Status)
	assert.False(t, results[0].FinishedAt.IsZero())
}
