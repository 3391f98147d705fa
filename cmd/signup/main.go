package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Restock/internal/config"
	"Restock/internal/signup"
	"Restock/pkg/kit"
)

func main() {
	service := "signup"

	cfg, cfgErr := config.FromEnv()
	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if cfgErr != nil {
		log.Fatal("load config failed", zap.Error(cfgErr))
	}
	if err := cfg.ValidateSignup(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	h := signup.NewHandler(&signup.Server{Log: log}, signup.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   cfg.Metrics.Token,
	})

	if err := kit.RunHTTPServer(context.Background(), ":"+cfg.SignupPort, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
