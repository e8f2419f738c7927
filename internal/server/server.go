package server

import (
	"context"
	"errors"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dwarvesf/arkswap/internal/handler"
	"github.com/dwarvesf/arkswap/internal/handler/metrics"
	"github.com/dwarvesf/arkswap/internal/monitoring"
	"github.com/dwarvesf/arkswap/internal/telemetry"
	"github.com/dwarvesf/arkswap/internal/transport/http"
	"github.com/dwarvesf/arkswap/internal/utils/config"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
)

func Init() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := metrics.NewRegistry()
	apiMetrics := monitoring.NewExternalAPIMetrics()
	apiMetrics.MustRegister(registry)
	swapMetrics := monitoring.NewSwapMetrics()
	swapMetrics.MustRegister(registry)
	jobMetrics := monitoring.NewBackgroundJobMetrics()
	jobMetrics.MustRegister(registry)
	httpMetrics := monitoring.NewHTTPMetrics()
	httpMetrics.MustRegister(registry)

	core, err := NewCore(ctx, appConfig, logger, apiMetrics, swapMetrics)
	if err != nil {
		logger.Fatal("[Init][NewCore]", map[string]string{
			"error": err.Error(),
		})
	}

	jobStatusManager := monitoring.NewJobStatusManager(logger, jobMetrics)
	go jobStatusManager.Run(ctx)

	tele := monitoring.NewInstrumentedTelemetry(
		telemetry.New(core.DB, core.Store, core.Controller, logger),
		jobStatusManager, swapMetrics, logger, appConfig,
	)

	c := cron.New()
	if _, err := c.AddFunc(appConfig.Jobs.SyncPeriod, tele.IndexSwaps); err != nil {
		logger.Fatal("[Init][AddFunc] invalid sync schedule", map[string]string{
			"schedule": appConfig.Jobs.SyncPeriod,
			"error":    err.Error(),
		})
	}
	if _, err := c.AddFunc(appConfig.Jobs.RefreshPeriod, tele.RefreshPendingSwaps); err != nil {
		logger.Fatal("[Init][AddFunc] invalid refresh schedule", map[string]string{
			"schedule": appConfig.Jobs.RefreshPeriod,
			"error":    err.Error(),
		})
	}
	c.Start()
	// first reconciliation doesn't wait for the schedule
	go tele.IndexSwaps()

	h := handler.New(appConfig, logger, handler.Deps{
		Controller:       core.Controller,
		Wallet:           core.Wallet,
		Waiter:           core.Waiter,
		SwapAPI:          core.SwapAPI,
		Explorer:         core.Explorer,
		DB:               core.DB,
		Gatherer:         registry,
		JobStatusManager: jobStatusManager,
		MetricsRecorder:  monitoring.NewBusinessMetricsRecorder(httpMetrics),
	})

	srv := &nethttp.Server{
		Addr:              ":" + appConfig.ApiServer.Port,
		Handler:           http.NewHttpServer(appConfig, logger, h, httpMetrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("[Init] http server listening", map[string]string{
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Fatal("[Init][ListenAndServe]", map[string]string{
				"error": err.Error(),
			})
		}
	}()

	<-ctx.Done()
	logger.Info("[Init] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("[Init][Shutdown]", map[string]string{
			"error": err.Error(),
		})
	}
	<-c.Stop().Done()
}
