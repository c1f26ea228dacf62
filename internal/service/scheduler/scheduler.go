package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"bansos-dispatch/internal/config"
	metricsPkg "bansos-dispatch/internal/metrics"
	"bansos-dispatch/internal/model"
	"bansos-dispatch/internal/service"
)

// TriageSummarizer scores the pending applications
type TriageSummarizer interface {
	Summary(ctx context.Context) (service.Summary, error)
}

// SettingsRefresher reloads the forwarding settings
type SettingsRefresher interface {
	Refresh(ctx context.Context) (model.ForwardingSettings, error)
}

// Scheduler runs the periodic triage sweep and settings refresh
type Scheduler struct {
	cron       *cron.Cron
	triageID   cron.EntryID
	settingsID cron.EntryID
	config     *config.SchedulerConfig
	triage     TriageSummarizer
	settings   SettingsRefresher
	metrics    *metricsPkg.Metrics
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	isRunning  bool
	mu         sync.RWMutex

	summaryMu   sync.RWMutex
	lastSummary *service.Summary
}

// New creates a new scheduler. settings may be nil when no refresh job is wanted.
func New(cfg *config.SchedulerConfig, triage TriageSummarizer, settings SettingsRefresher, metrics *metricsPkg.Metrics) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		config:   cfg,
		triage:   triage,
		settings: settings,
		metrics:  metrics,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if s.config.TriageIntervalMinutes <= 0 {
		return fmt.Errorf("triage interval must be greater than 0, got %d", s.config.TriageIntervalMinutes)
	}

	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}
	s.cron = cron.New(cron.WithSeconds())

	triageID, err := s.cron.AddFunc(fmt.Sprintf("@every %dm", s.config.TriageIntervalMinutes), s.triageJob)
	if err != nil {
		return fmt.Errorf("failed to add triage job: %w", err)
	}
	s.triageID = triageID

	s.settingsID = 0
	if s.settings != nil && s.config.SettingsRefreshMinutes > 0 {
		settingsID, err := s.cron.AddFunc(fmt.Sprintf("@every %dm", s.config.SettingsRefreshMinutes), s.settingsJob)
		if err != nil {
			return fmt.Errorf("failed to add settings refresh job: %w", err)
		}
		s.settingsID = settingsID
	}

	s.cron.Start()
	s.isRunning = true

	logrus.Infof("Scheduler started with triage interval: %d minutes", s.config.TriageIntervalMinutes)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.cancel()

	ctx := s.cron.Stop()

	select {
	case <-ctx.Done():
		logrus.Info("Scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Scheduler stop timeout, forcing shutdown")
	}

	s.isRunning = false
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunOnce runs the triage sweep immediately, whether or not the scheduler is running
func (s *Scheduler) RunOnce(ctx context.Context) (service.Summary, error) {
	logrus.Info("Running triage sweep once")
	return s.sweep(ctx)
}

// GetNextRun returns the time of the next scheduled triage sweep
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.triageID).Next
}

// GetLastRun returns the time of the last scheduled triage sweep
func (s *Scheduler) GetLastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.triageID).Prev
}

// LastSummary returns the result of the last successful sweep, if any
func (s *Scheduler) LastSummary() *service.Summary {
	s.summaryMu.RLock()
	defer s.summaryMu.RUnlock()
	return s.lastSummary
}

// Wait waits for running jobs to finish
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
