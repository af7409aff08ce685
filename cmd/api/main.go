package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mikekode/creenly-licensing/api/routes"
	"github.com/mikekode/creenly-licensing/internal/licensing"
	"github.com/mikekode/creenly-licensing/pkg/config"
	"github.com/mikekode/creenly-licensing/pkg/logger"
	"github.com/mikekode/creenly-licensing/pkg/metrics"
	"github.com/mikekode/creenly-licensing/pkg/resend"
	"github.com/mikekode/creenly-licensing/pkg/supabase"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	serviceKey := cfg.Supabase.ServiceKey()
	if serviceKey == "" {
		logg.Error(context.Background(), "missing "+config.EnvSupabaseServiceKey, nil)
		os.Exit(1)
	}

	store, err := supabase.NewClient(serviceKey, supabase.WithBaseURL(cfg.Supabase.URL))
	if err != nil {
		logg.Error(context.Background(), "failed to build supabase client", err)
		os.Exit(1)
	}

	var mailer licensing.EmailSender
	if apiKey := cfg.Resend.APIKey(); apiKey != "" {
		client, err := resend.NewClient(apiKey)
		if err != nil {
			logg.Error(context.Background(), "failed to build resend client", err)
			os.Exit(1)
		}
		mailer = client
	} else {
		logg.Warn(context.Background(), "resend api key not set, license emails will be skipped")
	}

	registry := prometheus.NewRegistry()
	issuanceMetrics := metrics.NewIssuanceMetrics(registry)

	licenseService, err := licensing.NewService(store, mailer, cfg.Resend.FromEmail, logg, issuanceMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create licensing service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting licensing api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, licenseService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "licensing api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
