// Package config loads the web service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pawbox.co.uk/pawbox-web/internal/catalog"
	"pawbox.co.uk/pawbox-web/internal/checkout"
)

const (
	envPrefix = "PAWBOX_WEB_"

	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultEnvironment  = "local"
	defaultBaseURL      = "http://localhost:8080"
	defaultTemplatesDir = "templates"
	defaultPublicDir    = "public"
	defaultContentDir   = "content"
	defaultLocalesDir   = "locales"
	defaultLogLevel     = "info"
	defaultLang         = "en"
	defaultContentTTL   = 5 * time.Minute
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	defaultSessionKey   = "pawbox-dev-session-key-change-me"
)

// Config groups runtime configuration by concern.
type Config struct {
	Server    ServerConfig
	Paths     PathsConfig
	Session   SessionConfig
	Stripe    StripeConfig
	Analytics AnalyticsConfig
	Log       LogConfig
	I18n      I18nConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         string
	Dev          bool
	Environment  string
	BaseURL      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Addr is the listen address derived from Port.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// Production reports whether the service runs with production settings.
func (s ServerConfig) Production() bool {
	return s.Environment == "prod" || s.Environment == "production"
}

// PathsConfig points at on-disk assets.
type PathsConfig struct {
	Templates string
	Public    string
	Content   string
	Locales   string
	// Catalog overrides the embedded catalogue when set.
	Catalog    string
	ContentTTL time.Duration
}

// SessionConfig configures the signed session cookie.
type SessionConfig struct {
	SigningKey string
	Secure     bool
}

// StripeConfig holds the hosted checkout keys and the price reference overrides.
type StripeConfig struct {
	PublishableKey string
	SecretKey      string
	// Prices maps the lower-cased <plan>_<bracket> override suffix to a price id.
	Prices map[string]string
}

// AnalyticsConfig holds client instrumentation ids surfaced to templates.
type AnalyticsConfig struct {
	GA4MeasurementID string
	GTMContainerID   string
	Debug            bool
}

// LogConfig configures the request logger.
type LogConfig struct {
	Level string
	// ProjectID links log entries to Cloud Trace. Empty disables the trace field.
	ProjectID string
}

// I18nConfig selects the default and supported languages.
type I18nConfig struct {
	DefaultLang string
	Supported   []string
}

// ValidationError is returned when configuration values are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing or invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects explicit values that take precedence over the system environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

type lookupFunc func(string) (string, bool)

// Load assembles the configuration from defaults, the .env file, the process
// environment and explicit values, in increasing order of precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnv, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnv[key]; ok {
			return value, true
		}
		return "", false
	}

	port := stringWithDefault(lookup, envPrefix+"PORT", "")
	if port == "" {
		// Cloud Run injects PORT.
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}

	env := strings.ToLower(stringWithDefault(lookup, envPrefix+"ENV", defaultEnvironment))
	cfg := Config{
		Server: ServerConfig{
			Port:         port,
			Dev:          boolWithDefault(lookup, envPrefix+"DEV", false) || boolWithDefault(lookup, "DEV", false),
			Environment:  env,
			BaseURL:      strings.TrimRight(stringWithDefault(lookup, envPrefix+"BASE_URL", defaultBaseURL), "/"),
			ReadTimeout:  durationWithDefault(lookup, envPrefix+"READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, envPrefix+"WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, envPrefix+"IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Paths: PathsConfig{
			Templates:  stringWithDefault(lookup, envPrefix+"TEMPLATES_DIR", defaultTemplatesDir),
			Public:     stringWithDefault(lookup, envPrefix+"PUBLIC_DIR", defaultPublicDir),
			Content:    stringWithDefault(lookup, envPrefix+"CONTENT_DIR", defaultContentDir),
			Locales:    stringWithDefault(lookup, envPrefix+"LOCALES_DIR", defaultLocalesDir),
			Catalog:    stringWithDefault(lookup, envPrefix+"CATALOG_FILE", ""),
			ContentTTL: durationWithDefault(lookup, envPrefix+"CONTENT_TTL", defaultContentTTL),
		},
		Session: SessionConfig{
			SigningKey: stringWithDefault(lookup, envPrefix+"SESSION_SIGNING_KEY", ""),
		},
		Stripe: StripeConfig{
			PublishableKey: firstNonEmpty(lookup, envPrefix+"STRIPE_PUBLISHABLE_KEY", "VITE_STRIPE_PUBLISHABLE_KEY"),
			SecretKey:      stringWithDefault(lookup, envPrefix+"STRIPE_SECRET_KEY", ""),
			Prices:         priceOverrides(options, dotEnv),
		},
		Analytics: AnalyticsConfig{
			GA4MeasurementID: stringWithDefault(lookup, envPrefix+"GA_MEASUREMENT_ID", ""),
			GTMContainerID:   stringWithDefault(lookup, envPrefix+"GTM_CONTAINER_ID", ""),
			Debug:            boolWithDefault(lookup, envPrefix+"ANALYTICS_DEBUG", false),
		},
		Log: LogConfig{
			Level:     strings.ToLower(stringWithDefault(lookup, envPrefix+"LOG_LEVEL", defaultLogLevel)),
			ProjectID: firstNonEmpty(lookup, envPrefix+"GCP_PROJECT", "GOOGLE_CLOUD_PROJECT"),
		},
		I18n: I18nConfig{
			DefaultLang: strings.ToLower(stringWithDefault(lookup, envPrefix+"DEFAULT_LANG", defaultLang)),
			Supported:   csvWithDefault(lookup, envPrefix+"SUPPORTED_LANGS"),
		},
	}

	if len(cfg.I18n.Supported) == 0 {
		cfg.I18n.Supported = []string{cfg.I18n.DefaultLang}
	}
	cfg.Session.Secure = strings.HasPrefix(cfg.Server.BaseURL, "https://")
	if cfg.Session.SigningKey == "" && !cfg.Server.Production() {
		cfg.Session.SigningKey = defaultSessionKey
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// CheckoutConfig converts the Stripe settings into a hand-off configuration.
// Overrides replace the placeholder reference of every catalogue plan and
// bracket; keys naming no catalogue entry are ignored.
func (c Config) CheckoutConfig(cat *catalog.Catalog) checkout.Config {
	refs := checkout.DefaultReferences(cat)
	for _, p := range cat.Plans() {
		for _, b := range catalog.Brackets() {
			if value, ok := c.Stripe.Prices[priceEnvKey(p.ID, b)]; ok {
				refs[checkout.ReferenceKey(p.ID, b)] = value
			}
		}
	}
	return checkout.Config{
		PublishableKey: c.Stripe.PublishableKey,
		SecretKey:      c.Stripe.SecretKey,
		References:     refs,
	}
}

func validateConfig(cfg Config) error {
	var missing []string

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		missing = append(missing, "Server.Port")
	}
	if !strings.HasPrefix(cfg.Server.BaseURL, "http://") && !strings.HasPrefix(cfg.Server.BaseURL, "https://") {
		missing = append(missing, "Server.BaseURL")
	}
	if cfg.Paths.Templates == "" {
		missing = append(missing, "Paths.Templates")
	}
	if cfg.Session.SigningKey == "" {
		missing = append(missing, "Session.SigningKey")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		missing = append(missing, "Log.Level")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	return values, nil
}

const pricePrefix = envPrefix + "STRIPE_PRICE_"

// priceOverrides collects PAWBOX_WEB_STRIPE_PRICE_<PLAN>_<BRACKET> values from
// every source, keyed by the lower-cased <plan>_<bracket> suffix. Plans are not
// known yet; CheckoutConfig resolves the keys against the catalogue.
func priceOverrides(options loaderOptions, dotEnv map[string]string) map[string]string {
	out := map[string]string{}
	collect := func(key, value string) {
		if !strings.HasPrefix(key, pricePrefix) {
			return
		}
		suffix := strings.ToLower(strings.TrimPrefix(key, pricePrefix))
		if value = strings.TrimSpace(value); value == "" {
			delete(out, suffix)
			return
		}
		out[suffix] = value
	}
	for key, value := range dotEnv {
		collect(key, value)
	}
	if options.useSystemEnv {
		for _, kv := range os.Environ() {
			if key, value, ok := strings.Cut(kv, "="); ok {
				collect(key, value)
			}
		}
	}
	for key, value := range options.envMap {
		collect(key, value)
	}
	return out
}

// priceEnvKey is the override suffix for a plan and bracket.
func priceEnvKey(planID string, bracket catalog.Bracket) string {
	return strings.ToLower(strings.ReplaceAll(planID, "-", "_")) + "_" + string(bracket)
}

func firstNonEmpty(lookup lookupFunc, keys ...string) string {
	for _, key := range keys {
		if value := stringWithDefault(lookup, key, ""); value != "" {
			return value
		}
	}
	return ""
}

func stringWithDefault(lookup lookupFunc, key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup lookupFunc, key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup lookupFunc, key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup lookupFunc, key string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
