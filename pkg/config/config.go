package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "creenly"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	// EnvSupabaseServiceKey is the required store credential; issuance is
	// refused before any network activity when it is absent.
	EnvSupabaseServiceKey = "CREENLY_SUPABASE_SERVICE_KEY"
)

type Config struct {
	App      AppConfig
	Supabase SupabaseConfig
	Resend   ResendConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CREENLY_APP_ENV" default:"dev"`
	Port         string `envconfig:"CREENLY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CREENLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CREENLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type SupabaseConfig struct {
	URL string `envconfig:"CREENLY_SUPABASE_URL" default:"https://ejqzexdkoqbvgmjtbbwd.supabase.co"`
	Key string `envconfig:"CREENLY_SUPABASE_SERVICE_KEY"`

	// LegacyKey is read from the variable the original tooling used so that
	// existing operator environments keep working.
	LegacyKey string `envconfig:"PROJECTOR_SUPABASE_SERVICE_KEY"`
}

// ServiceKey returns the configured service_role secret, preferring the
// CREENLY-prefixed variable over the legacy name. Empty means unconfigured.
func (s SupabaseConfig) ServiceKey() string {
	if key := strings.TrimSpace(s.Key); key != "" {
		return key
	}
	return strings.TrimSpace(s.LegacyKey)
}

type ResendConfig struct {
	Key       string `envconfig:"CREENLY_RESEND_API_KEY"`
	LegacyKey string `envconfig:"RESEND_API_KEY"`
	FromEmail string `envconfig:"CREENLY_RESEND_FROM_EMAIL" default:"licenses@creenly.com"`
}

// APIKey returns the configured Resend credential, preferring the
// CREENLY-prefixed variable. Empty means email dispatch is skipped.
func (r ResendConfig) APIKey() string {
	if key := strings.TrimSpace(r.Key); key != "" {
		return key
	}
	return strings.TrimSpace(r.LegacyKey)
}
