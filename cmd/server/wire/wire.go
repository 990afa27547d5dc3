//go:build wireinject
// +build wireinject

package wire

import (
	"yqms/internal/handler"
	"yqms/internal/repository"
	"yqms/internal/router"
	"yqms/internal/server"
	"yqms/internal/service"
	"yqms/internal/source"
	"yqms/internal/syncer"
	"yqms/internal/task"
	"yqms/pkg/app"
	"yqms/pkg/log"
	"yqms/pkg/server/http"
	"yqms/pkg/sid"

	"github.com/google/wire"
	"github.com/spf13/viper"
)

var repositorySet = wire.NewSet(
	repository.NewMongo,
	repository.NewRedis,
	repository.NewRepository,
	repository.NewDocumentStore,
	repository.NewSyncHistoryRepository,
)

var syncerSet = wire.NewSet(
	source.NewManager,
	task.NewRegistry,
	syncer.NewEngine,
	syncer.NewOrchestrator,
	wire.Bind(new(syncer.SourceProvider), new(*source.Manager)),
)

var serviceSet = wire.NewSet(
	service.NewService,
	service.NewSyncService,
)

var handlerSet = wire.NewSet(
	handler.NewHandler,
	handler.NewSyncHandler,
	handler.NewEventHub,
	wire.Bind(new(service.RunEventSink), new(*handler.EventHub)),
)

var serverSet = wire.NewSet(
	server.NewHTTPServer,
	server.NewJobServer,
)

// build App
func newApp(
	httpServer *http.Server,
	jobServer *server.JobServer,
) *app.App {
	return app.NewApp(
		app.WithServer(httpServer, jobServer),
		app.WithName("yqms-sync"),
	)
}

func NewWire(*viper.Viper, *log.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		repositorySet,
		syncerSet,
		serviceSet,
		handlerSet,
		serverSet,
		wire.Struct(new(router.RouterDeps), "*"),
		sid.NewSid,
		newApp,
	))
}
