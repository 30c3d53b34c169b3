package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vtp-api/internal/api"
	"vtp-api/internal/auth"
	"vtp-api/internal/config"
	"vtp-api/internal/prices"
	"vtp-api/internal/queue"
	"vtp-api/internal/store"
)

const shutdownTimeout = 5 * time.Second

// App 聚合核心依赖并驱动系统生命周期。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 组装各组件并阻塞运行 HTTP 服务，直到收到退出信号。
// 除 HTTP 处理协程外不派生任何后台任务。
func (a *App) Run(ctx context.Context) error {
	priceCache := prices.NewCache()

	queueSvc, err := queue.NewService(a.store, a.cfg.Queue, priceCache, a.logger)
	if err != nil {
		return err
	}

	gate := auth.NewGate(a.cfg.Queue, a.logger)
	router := api.NewRouter(queueSvc, priceCache, gate, a.cfg.Server, a.logger)

	srv := &http.Server{
		Addr:    a.cfg.Server.Addr,
		Handler: router,
	}

	a.logger.Info("跟单 API 已初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("addr", a.cfg.Server.Addr),
		zap.Bool("kill_switch", a.cfg.Queue.KillSwitch),
		zap.Bool("enforce_price_deviation", a.cfg.Queue.EnforcePriceDeviation),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP 服务异常: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("关闭 HTTP 服务失败", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("系统异常退出: %w", err)
	}

	a.logger.Info("系统收到退出信号，正在停止")
	return nil
}
