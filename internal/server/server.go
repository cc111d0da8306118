// Package server wires configuration, the store, the Telegram client, the
// dialogue controller and the chosen update transport into one runnable unit.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"catan-results-bot/internal/config"
	"catan-results-bot/internal/dialog"
	"catan-results-bot/internal/game"
	httpx "catan-results-bot/internal/http"
	"catan-results-bot/internal/journal"
	"catan-results-bot/internal/logging"
	"catan-results-bot/internal/metrics"
	"catan-results-bot/internal/poller"
	"catan-results-bot/internal/store"
	"catan-results-bot/internal/telegram"
)

var metricsSetup = metrics.Setup

// Server owns every long-lived component of the bot.
type Server struct {
	cfg        config.Config
	logger     *slog.Logger
	metrics    *metrics.Recorder
	store      store.Store
	storeClose func() error
	telegram   *telegram.Client
	controller *dialog.Controller

	httpServer    httpServer
	metricsServer httpServer
	poller        *poller.Poller
	metricsStop   func(context.Context) error
}

// New constructs a fully wired server from configuration.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	st, storeClose, err := buildStore(ctx, cfg, logger, recorder)
	if err != nil {
		return nil, err
	}

	tg := telegram.NewClient(telegram.Config{
		Token:   cfg.Telegram.Token,
		BaseURL: cfg.Telegram.BaseURL,
		Metrics: recorder,
	})

	controller := dialog.New(dialog.Config{
		Channel:             telegram.NewChannel(tg),
		Store:               st,
		Registry:            game.NewRegistry(),
		AuthorizedUsers:     cfg.AuthorizedUsers,
		RejectActiveSession: cfg.SessionPolicy == config.PolicyReject,
		Journal:             buildJournal(cfg),
		Logger:              logger,
		Metrics:             recorder,
	})

	s := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         st,
		storeClose:    storeClose,
		telegram:      tg,
		controller:    controller,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}

	if cfg.Transport == config.TransportPolling {
		s.poller = poller.New(tg, controller, logger, recorder, cfg.Telegram.PollTimeout)
	}
	s.httpServer = buildHTTPServer(cfg, controller, logger, recorder, s.poller)

	return s, nil
}

func buildJournal(cfg config.Config) dialog.Journal {
	if !cfg.Journal.Enabled {
		return nil
	}
	return journal.NewWriter(cfg.Journal.Dir)
}

func buildHTTPServer(cfg config.Config, controller *dialog.Controller, logger *slog.Logger, recorder *metrics.Recorder, plr *poller.Poller) httpServer {
	ready := func() httpx.ReadyReport { return httpx.ReadyReport{Ready: true} }
	if plr != nil {
		ready = func() httpx.ReadyReport {
			status := plr.Status()
			return httpx.ReadyReport{Ready: status.IsReady(), LastError: status.LastError}
		}
	}

	webhookPath := ""
	if cfg.Transport == config.TransportWebhook {
		webhookPath = "/bot" + cfg.Telegram.Token
	}

	router := httpx.NewRouter(httpx.RouterConfig{
		Handler:     httpx.NewHandler(controller, ready, logger),
		Logger:      logger,
		Metrics:     recorder,
		WebhookPath: webhookPath,
	})

	return netHTTPServer{srv: &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}}
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{srv: &http.Server{
			Addr:    ":" + recCfg.Port,
			Handler: handler,
		}}
	}

	return rec, metricsSrv, shutdown
}

// Run starts every component, then waits for context cancellation to shut
// down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.registerWithTelegram(ctx)

	s.startMetrics()
	s.startServer(stop)
	if s.poller != nil {
		s.poller.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")
	s.gracefulShutdown()
}

// registerWithTelegram publishes the command menu and reconciles the webhook
// registration with the configured transport. Failures are logged, not
// fatal: the transport itself will surface a broken token immediately.
func (s *Server) registerWithTelegram(ctx context.Context) {
	callCtx, cancel := context.WithTimeout(ctx, startupCallTimeout)
	defer cancel()

	if err := s.telegram.SetMyCommands(callCtx, telegram.MenuCommands()); err != nil {
		logging.Warn(s.logger, "command menu registration failed", "error", err)
	}

	switch s.cfg.Transport {
	case config.TransportWebhook:
		url := s.cfg.Telegram.WebhookURL + "/bot" + s.cfg.Telegram.Token
		if err := s.telegram.EnsureWebhook(callCtx, url); err != nil {
			logging.Error(s.logger, "webhook registration failed", err)
		}
	case config.TransportPolling:
		// A leftover webhook blocks getUpdates.
		if err := s.telegram.EnsureWebhook(callCtx, ""); err != nil {
			logging.Warn(s.logger, "webhook removal failed", "error", err)
		}
	}
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.poller != nil {
		if err := s.poller.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop poller", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if s.storeClose != nil {
		if err := s.storeClose(); err != nil {
			logging.Warn(s.logger, "store close failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
