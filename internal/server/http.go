package server

import (
	apiV1 "yqms/api/v1"
	"yqms/docs"
	"yqms/internal/middleware"
	"yqms/internal/router"
	"yqms/pkg/server/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewHTTPServer(
	deps router.RouterDeps,
) *http.Server {
	if deps.Config.GetString("env") == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	s := http.NewServer(
		gin.Default(),
		deps.Logger,
		http.WithServerHost(deps.Config.GetString("http.host")),
		http.WithServerPort(deps.Config.GetInt("http.port")),
	)

	// swagger doc
	docs.SwaggerInfo.BasePath = "/"
	s.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerfiles.Handler,
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	s.Use(
		middleware.CORSMiddleware(),
		middleware.ResponseLogMiddleware(deps.Logger),
		middleware.RequestLogMiddleware(deps.Logger),
	)
	s.GET("/", func(ctx *gin.Context) {
		apiV1.HandleSuccess(ctx, map[string]interface{}{
			":)": "Thank you for using YQMS!",
		})
	})

	apiV1Group := s.Group("/api/v1")
	router.InitSyncRouter(deps, apiV1Group)

	return s
}
