package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	v1 "yqms/api/v1"
	"yqms/pkg/log"

	"github.com/gavv/httpexpect/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSyncService struct {
	triggered []string
	running   bool
}

func (f *fakeSyncService) Trigger(ctx context.Context, task string) (*v1.TriggerSyncData, error) {
	if task == "missing" {
		return nil, v1.ErrTaskNotFound
	}
	f.triggered = append(f.triggered, task)
	if f.running {
		return &v1.TriggerSyncData{Task: task, Accepted: false, Message: "sync already in progress"}, nil
	}
	return &v1.TriggerSyncData{Task: task, Accepted: true, Message: "sync started"}, nil
}

func (f *fakeSyncService) Status(ctx context.Context, task string) (*v1.SyncTaskStatus, error) {
	if task == "missing" {
		return nil, v1.ErrTaskNotFound
	}
	return &v1.SyncTaskStatus{Name: task, Source: "ymce", Collection: "inline_orders", Cadence: "3h0m0s"}, nil
}

func (f *fakeSyncService) List(ctx context.Context) ([]v1.SyncTaskStatus, error) {
	return []v1.SyncTaskStatus{
		{Name: "inline_orders", Source: "ymce"},
		{Name: "qc1_sunrise", Source: "ymdatastore"},
	}, nil
}

func (f *fakeSyncService) History(ctx context.Context, task string, limit int) ([]v1.SyncRunResult, error) {
	if task == "missing" {
		return nil, v1.ErrTaskNotFound
	}
	return []v1.SyncRunResult{{
		RunID:      "run-1",
		Task:       task,
		Status:     "completed",
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
		Fetched:    10,
		Upserted:   2,
	}}, nil
}

func (f *fakeSyncService) SourceStatus(ctx context.Context) (*v1.SourceStatusData, error) {
	return &v1.SourceStatusData{Sources: map[string]v1.SourceStatusItem{
		"ymce": {Connected: true},
	}}, nil
}

func newSyncTestServer(t *testing.T, svc *fakeSyncService) *httpexpect.Expect {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := &log.Logger{Logger: zap.NewNop()}

	h := NewSyncHandler(NewHandler(logger), svc)
	r := gin.New()
	g := r.Group("/api/v1/sync")
	g.GET("/tasks", h.List)
	g.GET("/tasks/:task", h.Status)
	g.GET("/tasks/:task/history", h.History)
	g.POST("/tasks/:task/trigger", h.Trigger)
	g.GET("/sources", h.Sources)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return httpexpect.Default(t, srv.URL)
}

func TestTriggerAcceptsAndReturnsImmediately(t *testing.T) {
	svc := &fakeSyncService{}
	e := newSyncTestServer(t, svc)

	data := e.POST("/api/v1/sync/tasks/inline_orders/trigger").
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("data").Object()

	data.Value("task").String().IsEqual("inline_orders")
	data.Value("accepted").Boolean().IsTrue()
	assert.Equal(t, []string{"inline_orders"}, svc.triggered)
}

func TestTriggerWhileRunningIsNotQueued(t *testing.T) {
	svc := &fakeSyncService{running: true}
	e := newSyncTestServer(t, svc)

	data := e.POST("/api/v1/sync/tasks/inline_orders/trigger").
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("data").Object()

	data.Value("accepted").Boolean().IsFalse()
	data.Value("message").String().IsEqual("sync already in progress")
}

func TestTriggerUnknownTaskIs404(t *testing.T) {
	e := newSyncTestServer(t, &fakeSyncService{})

	e.POST("/api/v1/sync/tasks/missing/trigger").
		Expect().
		Status(http.StatusNotFound)
}

func TestListTasks(t *testing.T) {
	e := newSyncTestServer(t, &fakeSyncService{})

	e.GET("/api/v1/sync/tasks").
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("data").Array().Length().IsEqual(2)
}

func TestTaskHistory(t *testing.T) {
	e := newSyncTestServer(t, &fakeSyncService{})

	arr := e.GET("/api/v1/sync/tasks/qc1_sunrise/history").
		WithQuery("limit", 5).
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("data").Array()

	arr.Length().IsEqual(1)
	arr.Value(0).Object().Value("status").String().IsEqual("completed")
}

func TestSourceStatus(t *testing.T) {
	e := newSyncTestServer(t, &fakeSyncService{})

	e.GET("/api/v1/sync/sources").
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("data").Object().
		Value("sources").Object().Value("ymce").Object().
		Value("connected").Boolean().IsTrue()
}
