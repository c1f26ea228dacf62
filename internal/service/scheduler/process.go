package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"bansos-dispatch/internal/scoring"
	"bansos-dispatch/internal/service"
)

// triageJob is the scheduled triage sweep
func (s *Scheduler) triageJob() {
	s.wg.Add(1)
	defer s.wg.Done()

	s.mu.RLock()
	if !s.isRunning {
		s.mu.RUnlock()
		logrus.Info("Scheduler not running, skipping triage sweep")
		return
	}
	ctx := s.ctx
	s.mu.RUnlock()

	if _, err := s.sweep(ctx); err != nil {
		logrus.Errorf("Triage sweep failed: %v", err)
	}
}

// sweep scores the pending applications and publishes the per-tier counts
func (s *Scheduler) sweep(ctx context.Context) (service.Summary, error) {
	startTime := time.Now()

	summary, err := s.triage.Summary(ctx)
	if err != nil {
		return service.Summary{}, err
	}

	if s.metrics != nil {
		for _, p := range []scoring.Priority{scoring.PriorityHigh, scoring.PriorityMedium, scoring.PriorityLow} {
			s.metrics.PendingApplications.WithLabelValues(string(p)).Set(float64(summary.ByPriority[p]))
		}
	}

	s.summaryMu.Lock()
	s.lastSummary = &summary
	s.summaryMu.Unlock()

	logrus.WithFields(logrus.Fields{
		"total":  summary.Total,
		"high":   summary.ByPriority[scoring.PriorityHigh],
		"medium": summary.ByPriority[scoring.PriorityMedium],
		"low":    summary.ByPriority[scoring.PriorityLow],
	}).Infof("Triage sweep completed in %v", time.Since(startTime))
	return summary, nil
}

// settingsJob is the scheduled forwarding settings refresh
func (s *Scheduler) settingsJob() {
	s.wg.Add(1)
	defer s.wg.Done()

	s.mu.RLock()
	ctx := s.ctx
	s.mu.RUnlock()

	select {
	case <-ctx.Done():
		return
	default:
	}

	if _, err := s.settings.Refresh(ctx); err != nil {
		logrus.Errorf("Scheduled settings refresh failed: %v", err)
		return
	}
	logrus.Debug("Forwarding settings refreshed")
}
