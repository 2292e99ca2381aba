package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vehicleloan/internal/adapter/collaborator"
	httpadp "vehicleloan/internal/adapter/http"
	idemmw "vehicleloan/internal/adapter/middleware"
	"vehicleloan/internal/adapter/repository"
	"vehicleloan/internal/config"
	"vehicleloan/internal/infrastructure/cache"
	"vehicleloan/internal/infrastructure/logger"
	"vehicleloan/internal/usecase/query"
	"vehicleloan/internal/usecase/registry"
	"vehicleloan/internal/usecase/review"
	"vehicleloan/internal/usecase/workflow"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal("redis connect failed", zap.Error(err))
	}
	defer rdb.Close()

	store, closeStore, err := repository.OpenSlotStore(ctx, cfg, rdb)
	if err != nil {
		log.Fatal("store open failed", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	reg, err := registry.Open(ctx, store, log)
	if err != nil {
		log.Fatal("applications not loaded", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	log.Info("applications loaded", zap.String("driver", cfg.StoreDriver), zap.Int("count", reg.Len()))

	agents := collaborator.NewClient(cfg.AgentURL, cfg.AgentTimeout(), log)
	eng := workflow.New(reg, agents.Agent(cfg.CalcAgentID), agents.Agent(cfg.SubmitAgentID), log)

	view := query.NewView(reg.List)
	view.SetSample(cfg.SampleData)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	httpadp.Routes(e,
		httpadp.NewHandler(cfg.StoreDriver, reg.Len),
		httpadp.NewWizardHandler(eng),
		httpadp.NewApplicationHandler(view, eng, review.NewUsecase(reg, log)),
		idemmw.Idempotency(rdb, cfg.IdempotencyTTL(), log),
	)

	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
