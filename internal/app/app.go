package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bansos-dispatch/internal/auditlog"
	"bansos-dispatch/internal/channel"
	"bansos-dispatch/internal/config"
	"bansos-dispatch/internal/db"
	"bansos-dispatch/internal/handler"
	"bansos-dispatch/internal/metrics"
	"bansos-dispatch/internal/remote"
	"bansos-dispatch/internal/repository"
	"bansos-dispatch/internal/router"
	"bansos-dispatch/internal/service"
	"bansos-dispatch/internal/service/scheduler"
)

// Run initializes and starts the application
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting bansos dispatch service")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("Unknown log level %q, keeping info", cfg.Log.Level)
	}

	m := metrics.NewMetrics()
	client := remote.NewClient(cfg.Remote)

	var dbConn *gorm.DB
	ringOpts := []auditlog.Option{auditlog.WithSizeHook(func(n int) { m.AuditLogSize.Set(float64(n)) })}
	if cfg.Database.Enabled {
		dbConn, err = db.Init(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		ringOpts = append(ringOpts, auditlog.WithStore(repository.New(dbConn)))
	} else {
		logrus.Info("Database disabled, forwarding log kept in memory only")
	}

	audit := auditlog.New(cfg.Audit.Capacity, ringOpts...)
	if err := audit.Load(context.Background()); err != nil {
		logrus.Warnf("Failed to load forwarding log history: %v", err)
	}

	email, err := newEmailChannel(cfg, client)
	if err != nil {
		return err
	}
	whatsapp := newWhatsAppChannel(cfg)
	if whatsapp.Simulated() {
		m.WhatsAppSimulated.Set(1)
		logrus.Warn("WhatsApp channel is SIMULATED: messages are not delivered")
	}

	settings := service.NewSettingsStore(client, cfg.Settings, service.WithSettingsMetrics(m), service.WithDirectoryFallback(client))
	if _, err := settings.Refresh(context.Background()); err != nil {
		logrus.Warnf("Starting with default forwarding settings: %v", err)
	}

	triage := service.NewTriage(client)
	sched := scheduler.New(&cfg.Scheduler, triage, settings, m)

	h := handler.NewHandlers(handler.Deps{
		DB:                dbConn,
		Departments:       service.NewDepartmentService(client, settings),
		Settings:          settings,
		Orchestrator:      service.NewOrchestrator(settings, email, whatsapp, audit, service.WithOrchestratorMetrics(m)),
		Notifier:          service.NewNotifier(settings, email, whatsapp, m),
		Triage:            triage,
		Audit:             audit,
		Scheduler:         sched,
		WhatsAppSimulated: whatsapp.Simulated(),
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.SetupRouter(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Scheduler.Enabled {
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		logrus.Errorf("Failed to stop scheduler: %v", err)
	}
	sched.Wait()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	if dbConn != nil {
		if err := db.Close(dbConn); err != nil {
			logrus.Errorf("Failed to close database: %v", err)
		}
	}

	logrus.Info("Server stopped gracefully")
	return nil
}

func newEmailChannel(cfg *config.Config, client *remote.Client) (channel.Channel, error) {
	if cfg.Email.Transport == config.EmailTransportGmail {
		g, err := channel.NewGmailEmail(&cfg.Email.Gmail)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gmail email channel: %w", err)
		}
		if err := g.TestConnection(context.Background()); err != nil {
			logrus.Warnf("Gmail connection test failed: %v", err)
		}
		logrus.Info("Using Gmail API for email delivery")
		return g, nil
	}
	logrus.Info("Using backend notification API for email delivery")
	return channel.NewAPIEmail(client), nil
}

func newWhatsAppChannel(cfg *config.Config) channel.Channel {
	if cfg.WhatsApp.Mode == config.WhatsAppModeCloud {
		logrus.Info("Using WhatsApp Cloud API")
		return channel.NewCloudWhatsApp(cfg.WhatsApp)
	}
	return channel.NewSimulatedWhatsApp(cfg.WhatsApp.SimulatedDelay)
}
