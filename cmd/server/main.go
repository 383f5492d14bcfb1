package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	"github.com/nordwind/backoffice/modules"
	"github.com/nordwind/backoffice/pkg/application"
	"github.com/nordwind/backoffice/pkg/configuration"
	"github.com/nordwind/backoffice/pkg/eventbus"
	"github.com/nordwind/backoffice/pkg/metrics"
	"github.com/nordwind/backoffice/pkg/middleware"
	"github.com/nordwind/backoffice/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
	})
	app.RegisterMiddleware(
		middleware.RequestLogger(logger),
		middleware.ProvideDB(pool),
	)
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(conf.AllowedOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	logger.Infof("listening on %s", conf.SocketAddress)
	srv := server.NewHTTPServer(app)
	if err := srv.Start(conf.SocketAddress, corsHandler.Handler); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
