package main

import (
	"context"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	httpapi "github.com/i474232898/triage-assistant/internal/api/http"
	"github.com/i474232898/triage-assistant/internal/chat"
	"github.com/i474232898/triage-assistant/internal/config"
	"github.com/i474232898/triage-assistant/internal/dashboard"
	"github.com/i474232898/triage-assistant/internal/environment"
	"github.com/i474232898/triage-assistant/internal/location"
	"github.com/i474232898/triage-assistant/internal/metrics"
	"github.com/i474232898/triage-assistant/internal/scheduler"
	"github.com/i474232898/triage-assistant/internal/settings"
	"github.com/i474232898/triage-assistant/internal/store"
	"github.com/i474232898/triage-assistant/internal/upstream"
)

func main() {
	log := logrus.New()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	log.SetLevel(cfg.LogLevel)
	if cfg.LogFormat == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Snapshot storage.
	kv, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.WithError(err).WithField("backend", cfg.Store.Backend).Fatal("failed to open store")
	}
	if c, ok := kv.(io.Closer); ok {
		defer c.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register metrics")
	}

	// Shared HTTP client for outbound calls; one attempt per call. The
	// circuit breaker only trips when BREAKER_FAILURES is set.
	httpCfg := upstream.HTTPClientConfig{
		Client:              &http.Client{Timeout: cfg.HTTPTimeout},
		ConsecutiveFailures: cfg.BreakerFailures,
		OpenTimeout:         cfg.BreakerOpenTimeout,
	}
	envClient := upstream.NewEnvironmentClient(cfg.EnvironmentAPIURL, httpCfg)
	chatClient := upstream.NewChatClient(cfg.ChatAPIURL, httpCfg)

	gateway := environment.NewGateway(envClient, kv, cfg.StoreKey, log, m)

	var locator location.Provider
	if cfg.Location.Geocoded() {
		locator = location.NewGeocodedProvider(cfg.Location.Address, cfg.Location.GeocoderAPIKey)
	} else {
		locator = location.NewStaticProvider(location.Coordinates{
			Latitude:  cfg.Location.Latitude,
			Longitude: cfg.Location.Longitude,
		}, cfg.Location.Permission)
	}

	assembler := chat.NewAssembler(gateway, locator, chatClient, log, m)
	chats, err := chat.NewRegistry(assembler, cfg.ChatSessionCapacity)
	if err != nil {
		log.WithError(err).Fatal("failed to create chat registry")
	}

	dash := dashboard.New(gateway, locator, log)
	prefs := settings.NewPreferences(false)
	prefs.Subscribe(func(t settings.Theme) {
		log.WithField("dark_mode", t.DarkMode).Info("theme changed")
	})

	// Periodic refresh resolves the position on its first run.
	sched := scheduler.New(cfg.RefreshInterval, scheduler.RefresherFunc(func(ctx context.Context) error {
		if _, ok := dash.LastLocation(); !ok {
			_, err := dash.Load(ctx)
			return err
		}
		_, err := dash.Refresh(ctx)
		return err
	}), log)
	if err := sched.Start(); err != nil {
		log.WithError(err).Fatal("failed to start scheduler")
	}
	defer sched.Stop()

	app, err := httpapi.NewApp(httpapi.Services{
		Gateway:       gateway,
		Context:       assembler,
		Dashboard:     dash,
		Chats:         chats,
		Preferences:   prefs,
		Log:           log,
		ChatRateLimit: cfg.ChatRateLimit,
		ChatRateBurst: cfg.ChatRateBurst,
	}, m, reg)
	if err != nil {
		log.WithError(err).Fatal("failed to build http app")
	}

	// Start server with graceful shutdown
	go func() {
		log.WithField("port", cfg.Port).Info("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Warn("fiber server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
}
