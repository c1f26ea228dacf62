package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"bansos-dispatch/internal/model"
	"bansos-dispatch/internal/scoring"
)

// ApplicationStore is the remote registration API
type ApplicationStore interface {
	ListPendingApplications(ctx context.Context) ([]model.Application, error)
	GetApplication(ctx context.Context, id string) (model.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus, notes string) error
}

// ScoredApplication is an application with its derived scores
type ScoredApplication struct {
	model.Application
	Score scoring.Result `json:"score"`
}

// Filter narrows a pending list. Zero values match everything.
type Filter struct {
	Priority      scoring.Priority
	MinPercentage int
}

func (f Filter) match(s ScoredApplication) bool {
	if f.Priority != "" && s.Score.Priority != f.Priority {
		return false
	}
	return s.Score.Percentage >= f.MinPercentage
}

// Summary counts pending applications per priority tier
type Summary struct {
	Total      int                      `json:"total"`
	ByPriority map[scoring.Priority]int `json:"by_priority"`
	ScoredAt   time.Time                `json:"scored_at"`
}

// Triage scores and orders pending aid applications for review
type Triage struct {
	store ApplicationStore
	now   func() time.Time
}

// NewTriage creates a triage service over the registration store
func NewTriage(store ApplicationStore) *Triage {
	return &Triage{store: store, now: time.Now}
}

// Score evaluates one application as of now
func (t *Triage) Score(app model.Application) ScoredApplication {
	return ScoredApplication{Application: app, Score: scoring.Score(app, t.now())}
}

// ListPending returns the matching pending applications, highest priority
// first, then highest percentage, then oldest submission.
func (t *Triage) ListPending(ctx context.Context, f Filter) ([]ScoredApplication, error) {
	apps, err := t.store.ListPendingApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending applications: %w", err)
	}

	scored := make([]ScoredApplication, 0, len(apps))
	for _, app := range apps {
		s := t.Score(app)
		if f.match(s) {
			scored = append(scored, s)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score.Priority.Rank() != b.Score.Priority.Rank() {
			return a.Score.Priority.Rank() < b.Score.Priority.Rank()
		}
		if a.Score.Percentage != b.Score.Percentage {
			return a.Score.Percentage > b.Score.Percentage
		}
		return a.SubmittedAt.Before(b.SubmittedAt)
	})
	return scored, nil
}

// UpdateStatus moves an application to status. A decided application
// cannot be sent back to pending.
func (t *Triage) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus, notes string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if status == model.StatusPending {
		current, err := t.store.GetApplication(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get application %s: %w", id, err)
		}
		if current.Status.Final() {
			return fmt.Errorf("%w: %s is already %s", ErrInvalidTransition, id, current.Status)
		}
	}

	if err := t.store.UpdateApplicationStatus(ctx, id, status, notes); err != nil {
		return fmt.Errorf("failed to update application %s: %w", id, err)
	}

	logrus.WithFields(logrus.Fields{
		"application_id": id,
		"status":         status,
	}).Info("Application status updated")
	return nil
}

// Summary counts the pending applications per tier
func (t *Triage) Summary(ctx context.Context) (Summary, error) {
	scored, err := t.ListPending(ctx, Filter{})
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Total: len(scored),
		ByPriority: map[scoring.Priority]int{
			scoring.PriorityHigh:   0,
			scoring.PriorityMedium: 0,
			scoring.PriorityLow:    0,
		},
		ScoredAt: t.now(),
	}
	for _, a := range scored {
		s.ByPriority[a.Score.Priority]++
	}
	return s, nil
}
