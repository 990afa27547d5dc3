package main

import (
	"context"
	"flag"
	"fmt"

	"yqms/cmd/server/wire"
	"yqms/pkg/config"
	"yqms/pkg/log"

	"go.uber.org/zap"
)

// @title           YQMS Sync API
// @version         1.0.0
// @description     YQMS keeps the quality-management document store in sync with the factory's relational systems.
// @host      localhost:8000
func main() {
	var envConf = flag.String("conf", "config/local.yml", "config path, eg: -conf ./config/local.yml")
	flag.Parse()
	conf := config.NewConfig(*envConf)

	logger := log.NewLog(conf)

	app, cleanup, err := wire.NewWire(conf, logger)
	defer cleanup()
	if err != nil {
		panic(err)
	}
	logger.Info("server start", zap.String("host", fmt.Sprintf("http://%s:%d", conf.GetString("http.host"), conf.GetInt("http.port"))))
	logger.Info("docs addr", zap.String("addr", fmt.Sprintf("http://%s:%d/swagger/index.html", conf.GetString("http.host"), conf.GetInt("http.port"))))
	if err = app.Run(context.Background()); err != nil {
		panic(err)
	}
}
