package router

import (
	"yqms/internal/handler"
	"yqms/pkg/log"

	"github.com/spf13/viper"
)

type RouterDeps struct {
	Logger      *log.Logger
	Config      *viper.Viper
	SyncHandler *handler.SyncHandler
	EventHub    *handler.EventHub
}
