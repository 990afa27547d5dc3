package handler

import (
	"errors"
	"net/http"

	v1 "yqms/api/v1"
	"yqms/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SyncHandler struct {
	*Handler
	syncService service.SyncService
}

func NewSyncHandler(handler *Handler, syncService service.SyncService) *SyncHandler {
	return &SyncHandler{
		Handler:     handler,
		syncService: syncService,
	}
}

// Trigger godoc
// @Summary Trigger a sync task run
// @Description Starts the run in the background and returns immediately. A run already in progress is not queued.
// @Tags Sync
// @Accept json
// @Produce json
// @Param task path string true "task name"
// @Success 200 {object} v1.TriggerSyncResponse
// @Router /api/v1/sync/tasks/{task}/trigger [post]
func (h *SyncHandler) Trigger(ctx *gin.Context) {
	task := ctx.Param("task")
	data, err := h.syncService.Trigger(ctx, task)
	if err != nil {
		h.handleServiceError(ctx, "syncService.Trigger", task, err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// List godoc
// @Summary List sync tasks
// @Tags Sync
// @Produce json
// @Success 200 {object} v1.ListSyncTasksResponse
// @Router /api/v1/sync/tasks [get]
func (h *SyncHandler) List(ctx *gin.Context) {
	data, err := h.syncService.List(ctx)
	if err != nil {
		h.handleServiceError(ctx, "syncService.List", "", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// Status godoc
// @Summary Get one sync task's status
// @Tags Sync
// @Produce json
// @Param task path string true "task name"
// @Success 200 {object} v1.SyncTaskStatusResponse
// @Router /api/v1/sync/tasks/{task} [get]
func (h *SyncHandler) Status(ctx *gin.Context) {
	task := ctx.Param("task")
	data, err := h.syncService.Status(ctx, task)
	if err != nil {
		h.handleServiceError(ctx, "syncService.Status", task, err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// History godoc
// @Summary Get a sync task's recent run history
// @Tags Sync
// @Produce json
// @Param task path string true "task name"
// @Param limit query int false "max entries" default(20)
// @Success 200 {object} v1.SyncHistoryResponse
// @Router /api/v1/sync/tasks/{task}/history [get]
func (h *SyncHandler) History(ctx *gin.Context) {
	req := new(v1.SyncHistoryRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	task := ctx.Param("task")
	data, err := h.syncService.History(ctx, task, req.Limit)
	if err != nil {
		h.handleServiceError(ctx, "syncService.History", task, err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// Sources godoc
// @Summary Get source database connectivity
// @Tags Sync
// @Produce json
// @Success 200 {object} v1.SourceStatusResponse
// @Router /api/v1/sync/sources [get]
func (h *SyncHandler) Sources(ctx *gin.Context) {
	data, err := h.syncService.SourceStatus(ctx)
	if err != nil {
		h.handleServiceError(ctx, "syncService.SourceStatus", "", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

func (h *SyncHandler) handleServiceError(ctx *gin.Context, op, task string, err error) {
	h.logger.WithContext(ctx).Error(op+" error",
		zap.String("task", task), zap.Error(err))

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, v1.ErrTaskNotFound), errors.Is(err, v1.ErrSourceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, v1.ErrSourceUnavailable):
		status = http.StatusServiceUnavailable
	}
	v1.HandleError(ctx, status, err, nil)
}
