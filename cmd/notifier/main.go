package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	"github.com/monui/notification-service/internal/api/handlers/notification"
	"github.com/monui/notification-service/internal/api/router"
	"github.com/monui/notification-service/internal/api/server"
	"github.com/monui/notification-service/internal/config"
	"github.com/monui/notification-service/internal/metrics"
	notifrepo "github.com/monui/notification-service/internal/repository/notification"
	"github.com/monui/notification-service/internal/scheduler"
	notifsvc "github.com/monui/notification-service/internal/service/notification"
	"github.com/monui/notification-service/pkg/ultramsg"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()
	val := validator.New()
	metrics.Init()

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	rdb := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.Database)

	if err = rdb.Ping(ctx).Err(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	messenger, err := ultramsg.NewClient(ultramsg.Config{
		InstanceID:  cfg.UltraMsg.InstanceID,
		Token:       cfg.UltraMsg.Token,
		BaseURL:     cfg.UltraMsg.BaseURL,
		SendTimeout: cfg.UltraMsg.SendTimeout,
	})
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to create ultramsg client")
	}

	repo := notifrepo.NewRepository(db)
	service := notifsvc.NewService(repo, messenger, rdb)
	notifHandler := notification.NewHandler(service, val, cfg)

	sched := scheduler.New(service, cfg.Scheduler.Interval)
	sched.Start(ctx)

	r := router.New(notifHandler)
	s := server.New(cfg.Server.HTTPPort, r)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close master DB")
	}

	for i, slave := range db.Slaves {
		if err := slave.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msgf("failed to close slave DB %d", i)
		}
	}
}
