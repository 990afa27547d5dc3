package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yqms/pkg/server"
)

type App struct {
	name    string
	servers []server.Server
}

type Option func(a *App)

func NewApp(opts ...Option) *App {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func WithServer(servers ...server.Server) Option {
	return func(a *App) {
		a.servers = servers
	}
}

func WithName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

func (a *App) Name() string {
	return a.name
}

func (a *App) Run(ctx context.Context) error {
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(ctx)
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, len(a.servers))
	for _, srv := range a.servers {
		go func(srv server.Server) {
			if err := srv.Start(ctx); err != nil {
				errCh <- err
			}
		}(srv)
	}

	select {
	case <-signals:
	case err := <-errCh:
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		_ = a.stop(stopCtx)
		return err
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	return a.stop(stopCtx)
}

func (a *App) stop(ctx context.Context) error {
	var err error
	for _, srv := range a.servers {
		if e := srv.Stop(ctx); e != nil {
			err = e
		}
	}
	return err
}
