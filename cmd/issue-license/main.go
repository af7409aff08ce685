package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mikekode/creenly-licensing/internal/licensing"
	"github.com/mikekode/creenly-licensing/pkg/config"
	"github.com/mikekode/creenly-licensing/pkg/logger"
	"github.com/mikekode/creenly-licensing/pkg/resend"
	"github.com/mikekode/creenly-licensing/pkg/supabase"
)

func main() {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "issue-license"})

	_ = godotenv.Load()

	email := flag.String("email", "", "customer email address (required)")
	days := flag.Int("days", licensing.DefaultValidityDays, "validity period in days")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: issue-license -email <customer_email> [-days 365]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "issue-license",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	serviceKey := cfg.Supabase.ServiceKey()
	if serviceKey == "" {
		fmt.Fprintf(os.Stderr, "ERROR: %s is not set.\n", config.EnvSupabaseServiceKey)
		fmt.Fprintln(os.Stderr, "Grab the service_role secret from Supabase Dashboard > Settings > API.")
		os.Exit(1)
	}

	store, err := supabase.NewClient(serviceKey, supabase.WithBaseURL(cfg.Supabase.URL))
	requireResource(ctx, logg, "supabase client", err)

	var mailer licensing.EmailSender
	if apiKey := cfg.Resend.APIKey(); apiKey != "" {
		client, err := resend.NewClient(apiKey)
		requireResource(ctx, logg, "resend client", err)
		mailer = client
	}

	svc, err := licensing.NewService(store, mailer, cfg.Resend.FromEmail, logg, nil)
	requireResource(ctx, logg, "licensing service", err)

	fmt.Printf("Creating license for %s...\n", *email)
	record, err := svc.IssueLicense(ctx, licensing.IssueInput{Email: *email, ValidityDays: *days})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAILED to create license: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("SUCCESS: License Created!")
	fmt.Printf("Key: %s\n", record.Key)
	fmt.Printf("Expires: %s\n", record.CurrentPeriodEnd)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
