package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pawbox.co.uk/pawbox-web/internal/catalog"
	"pawbox.co.uk/pawbox-web/internal/checkout"
	"pawbox.co.uk/pawbox-web/internal/cms"
	"pawbox.co.uk/pawbox-web/internal/config"
	handlersPkg "pawbox.co.uk/pawbox-web/internal/handlers"
	"pawbox.co.uk/pawbox-web/internal/i18n"
	mw "pawbox.co.uk/pawbox-web/internal/middleware"
	"pawbox.co.uk/pawbox-web/internal/observability"
	"pawbox.co.uk/pawbox-web/internal/personalise"
)

// app holds everything handlers need. It is built once in main and read-only afterwards.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	catalog   *catalog.Catalog
	parser    *personalise.Parser
	handoff   *checkout.Handoff
	content   *cms.Store
	i18n      *i18n.Bundle
	analytics handlersPkg.Analytics

	templatesDir string
	devMode      bool
	tmplCache    *template.Template
}

func main() {
	var (
		tmplPath string
		pubPath  string
		envFile  string
	)
	flag.StringVar(&tmplPath, "templates", "", "templates directory (overrides PAWBOX_WEB_TEMPLATES_DIR)")
	flag.StringVar(&pubPath, "public", "", "public assets directory (overrides PAWBOX_WEB_PUBLIC_DIR)")
	flag.StringVar(&envFile, "env-file", ".env", "dotenv file for local overrides")
	flag.Parse()

	cfg, err := config.Load(config.WithEnvFile(envFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if tmplPath != "" {
		cfg.Paths.Templates = tmplPath
	}
	if pubPath != "" {
		cfg.Paths.Public = pubPath
	}

	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(cfg, logger, nil)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("web listening",
			zap.String("addr", srv.Addr),
			zap.Bool("dev_mode", cfg.Server.Dev),
			zap.Bool("checkout_configured", a.handoff.Configured()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// newApp wires the catalogue, translations, copy store and checkout hand-off.
// sessions overrides the Stripe session creator; nil builds one from the secret key.
func newApp(cfg config.Config, logger *zap.Logger, sessions checkout.SessionCreator) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cat, err := loadCatalog(cfg.Paths.Catalog)
	if err != nil {
		return nil, err
	}

	bundle, err := i18n.Load(cfg.Paths.Locales, cfg.I18n.DefaultLang, cfg.I18n.Supported)
	if err != nil {
		return nil, fmt.Errorf("load i18n: %w", err)
	}

	if sessions == nil && cfg.Stripe.SecretKey != "" && cfg.Stripe.SecretKey != checkout.PlaceholderSecretKey {
		stripeSessions, err := checkout.NewStripeSessions(cfg.Stripe.SecretKey, nil)
		if err != nil {
			return nil, fmt.Errorf("stripe: %w", err)
		}
		sessions = stripeSessions
	}

	parser, err := personalise.NewParser(cat)
	if err != nil {
		return nil, fmt.Errorf("personalise: %w", err)
	}

	a := &app{
		cfg:          cfg,
		logger:       logger,
		catalog:      cat,
		parser:       parser,
		handoff:      checkout.NewHandoff(cfg.CheckoutConfig(cat), sessions, logger),
		content:      cms.NewStore(cfg.Paths.Content, cfg.Paths.ContentTTL),
		i18n:         bundle,
		analytics:    handlersPkg.AnalyticsFromConfig(cfg.Analytics),
		templatesDir: cfg.Paths.Templates,
		devMode:      cfg.Server.Dev,
	}

	if !a.devMode {
		// Parse templates once in production
		tc, err := a.parseTemplates()
		if err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
		a.tmplCache = tc
	}
	return a, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(middleware.RealIP)
	r.Use(mw.HTMX)
	r.Use(observability.TraceMiddleware(a.cfg.Log.ProjectID))
	r.Use(mw.Logger(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	assets := http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(a.cfg.Paths.Public, "assets"), a.devMode))
	r.Handle("/assets/*", assets)

	r.Group(func(r chi.Router) {
		r.Use(mw.Session(mw.SessionConfig{SigningKey: a.cfg.Session.SigningKey, Secure: a.cfg.Session.Secure}))
		r.Use(mw.Locale(a.i18n))
		r.Use(mw.CSRF)
		r.Use(mw.VaryLocale)

		r.Get("/", a.HomeHandler)
		r.Get("/personalise/quote", a.PersonaliseQuoteFrag)
		r.Post("/checkout", a.CheckoutHandler)
	})
	return r
}
