//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"markread_demo/internal/app"
	"markread_demo/internal/auth"
	"markread_demo/internal/config"
	"markread_demo/internal/http"
	"markread_demo/internal/http/controller"
	"markread_demo/internal/logging"
	"markread_demo/internal/metrics"
	"markread_demo/internal/queue/rabbitmq"
	"markread_demo/internal/service/readstate"
	"markread_demo/internal/sse"
	"markread_demo/internal/store"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		store.NewStore,
		sse.NewHub,
		metrics.NewDefault,
		rabbitmq.NewPublisher,
		readstate.NewOutbox,
		readstate.NewService,
		rabbitmq.NewConsumer,
		auth.NewResolver,
		controller.NewHandler,
		http.NewRouter,
		app.NewApp,
	)
	return &app.App{}, nil
}
