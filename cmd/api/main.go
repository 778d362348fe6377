package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wdp365/siteapi/internal/config"
	"github.com/wdp365/siteapi/internal/contact"
	"github.com/wdp365/siteapi/internal/httpapi"
	"github.com/wdp365/siteapi/internal/logging"
	"github.com/wdp365/siteapi/internal/notify"
	"github.com/wdp365/siteapi/internal/pagespeed"
	"github.com/wdp365/siteapi/internal/ratelimit"
	"github.com/wdp365/siteapi/internal/repo"
	"github.com/wdp365/siteapi/internal/repo/memory"
	"github.com/wdp365/siteapi/internal/repo/mongo"
	"github.com/wdp365/siteapi/internal/repo/postgres"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg := config.Load()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store_open_error", zap.Error(err))
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(cctx)
	}()

	svc := contact.NewService(logger, store, contactLimiter(ctx, cfg, logger))
	if rc := contact.NewRecaptcha(cfg.RecaptchaSecret); rc != nil {
		svc.Verifier = rc
		logger.Info("recaptcha_enabled")
	}
	if sl := notify.NewSlack(cfg.SlackWebhookURL); sl != nil {
		svc.Notifier = notify.Multi{sl}
		logger.Info("slack_notify_enabled")
	}

	if cfg.PageSpeedAPIKey == "" {
		logger.Warn("pagespeed_key_missing")
	}
	api := httpapi.NewServer(logger, store, svc, pagespeed.NewClient(cfg.PageSpeedAPIKey))
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.Router(ctx, httpapi.Options{
			CORSOrigins:    cfg.CORSOrigins,
			AdminKeys:      cfg.AdminAPIKeys,
			PageSpeedRPM:   cfg.PageSpeedRPM,
			PageSpeedBurst: cfg.PageSpeedBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if len(cfg.AdminAPIKeys) == 0 {
		logger.Warn("admin_guard_disabled", zap.String("route", "/api/contact/submissions"))
	}

	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("api_listen_error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("api_shutdown")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("api_shutdown_error", zap.Error(err))
	}
	svc.Wait()
}

// openStore picks Mongo, then Postgres, then the in-memory store.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.Store, error) {
	switch {
	case cfg.MongoURL != "":
		s, err := mongo.New(ctx, cfg.MongoURL, cfg.DBName, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("store_selected", zap.String("kind", "mongo"), zap.String("db", cfg.DBName))
		return s, nil
	case cfg.DatabaseURL != "":
		s, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		logger.Info("store_selected", zap.String("kind", "postgres"))
		return s, nil
	}
	logger.Warn("store_selected", zap.String("kind", "memory"), zap.String("note", "records are lost on restart"))
	return memory.New(), nil
}

func contactLimiter(ctx context.Context, cfg config.Config, logger *zap.Logger) ratelimit.Limiter {
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pctx).Err(); err != nil {
			logger.Warn("ratelimit_redis_ping_error", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		logger.Info("ratelimit_selected", zap.String("kind", "redis"), zap.String("addr", cfg.RedisAddr))
		return ratelimit.NewRedis(rdb, logger, ratelimit.ContactMax, ratelimit.ContactWindow,
			ratelimit.WithPrefix(cfg.RedisPrefix))
	}
	w := ratelimit.NewContactWindow()
	w.StartJanitor(ctx, 5*time.Minute)
	logger.Info("ratelimit_selected", zap.String("kind", "memory"))
	return w
}
