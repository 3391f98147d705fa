package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Restock/internal/auth"
	"Restock/internal/config"
	"Restock/internal/notify"
	"Restock/internal/restock"
	"Restock/internal/web"
	"Restock/pkg/kit"
)

func main() {
	service := "restock"

	cfg, cfgErr := config.FromEnv()
	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if cfgErr != nil {
		log.Fatal("load config failed", zap.Error(cfgErr))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	ctx := context.Background()

	creds, err := newCredentials(cfg.Admin)
	if err != nil {
		log.Fatal("admin credentials", zap.Error(err))
	}

	secret := cfg.Admin.SessionSecret
	if secret == "" {
		if secret, err = auth.RandomSecret(); err != nil {
			log.Fatal("generate session secret", zap.Error(err))
		}
		log.Warn("SESSION_SECRET not set; admin sessions end when the process exits")
	}

	store, closeStore, err := newStore(ctx, cfg.Store, log)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	dispatcher := notify.NewDispatcher(log, reg,
		notify.NewLogSender(notify.ChannelEmail, log),
		notify.NewLogSender(notify.ChannelPhone, log),
	)

	svc, err := restock.NewService(ctx, store, dispatcher, log, restock.Options{
		UniqueBy: restock.UniqueKey(cfg.Subscriptions.UniqueBy),
	})
	if err != nil {
		log.Fatal("load store", zap.Error(err))
	}

	h, err := web.NewHandler(&web.Server{
		Service:     svc,
		Credentials: creds,
		Sessions: &auth.Sessions{
			Tokens: auth.NewTokenMaker(secret, cfg.Admin.SessionTTL),
			Secure: cfg.Admin.SecureCookie,
		},
		Log: log,
	}, web.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   cfg.Metrics.Token,
		TrustProxy:     cfg.TrustProxy,
	})
	if err != nil {
		log.Fatal("init handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(ctx, ":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func newCredentials(cfg config.AdminConfig) (*auth.Credentials, error) {
	if cfg.PasswordHash != "" {
		return auth.NewCredentialsFromHash(cfg.Username, cfg.PasswordHash)
	}
	return auth.NewCredentials(cfg.Username, cfg.Password)
}

func newStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (restock.Store, func(), error) {
	if cfg.Driver != config.DriverPostgres {
		return restock.NewFileStore(cfg.ProductsFile, cfg.SubscriptionsFile, log), func() {}, nil
	}

	db, err := restock.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := restock.NewPostgresStore(db, log)
	if err := pg.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return pg, func() { _ = db.Close() }, nil
}
