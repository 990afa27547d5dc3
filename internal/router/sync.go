package router

import (
	"github.com/gin-gonic/gin"
)

func InitSyncRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	syncRouter := r.Group("/sync")
	{
		syncRouter.GET("/tasks", deps.SyncHandler.List)
		syncRouter.GET("/tasks/:task", deps.SyncHandler.Status)
		syncRouter.GET("/tasks/:task/history", deps.SyncHandler.History)
		syncRouter.POST("/tasks/:task/trigger", deps.SyncHandler.Trigger)

		// Source database connectivity.
		syncRouter.GET("/sources", deps.SyncHandler.Sources)

		// Run events over websocket.
		syncRouter.GET("/events", deps.EventHub.Handle)
	}
}
