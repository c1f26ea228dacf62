package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bansos-dispatch/internal/channel"
	"bansos-dispatch/internal/metrics"
	"bansos-dispatch/internal/model"
)

// SettingsProvider returns the forwarding settings to use for one decision
type SettingsProvider interface {
	Get(ctx context.Context) model.ForwardingSettings
}

// AuditLog records resolved forwards
type AuditLog interface {
	Append(ctx context.Context, entry model.ForwardingLogEntry)
}

// ForwardOptions adjusts a single forward
type ForwardOptions struct {
	// DepartmentID routes manually to this department, active or not
	DepartmentID  string
	CustomMessage string
	// ForceEmail and ForceWhatsApp fire a channel even if its global toggle is off
	ForceEmail    bool
	ForceWhatsApp bool
}

// Orchestrator forwards complaints to the responsible department
type Orchestrator struct {
	settings SettingsProvider
	email    channel.Channel
	whatsapp channel.Channel
	audit    AuditLog
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() string
}

// OrchestratorOption configures an Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorMetrics records forward and dispatch metrics
func WithOrchestratorMetrics(m *metrics.Metrics) OrchestratorOption {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithOrchestratorClock replaces time.Now and the entry ID generator
func WithOrchestratorClock(now func() time.Time, newID func() string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
		o.newID = newID
	}
}

// NewOrchestrator creates an orchestrator dispatching through email and whatsapp.
// Either channel may be nil; its sends are then reported as failed.
func NewOrchestrator(settings SettingsProvider, email, whatsapp channel.Channel, audit AuditLog, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		settings: settings,
		email:    email,
		whatsapp: whatsapp,
		audit:    audit,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ForwardComplaint resolves the destination department and dispatches the
// complaint on every enabled channel. Resolution and transport failures are
// reported in the outcome; only a malformed complaint returns an error.
func (o *Orchestrator) ForwardComplaint(ctx context.Context, c model.Complaint, opts ForwardOptions) (model.ForwardingOutcome, error) {
	start := time.Now()

	if strings.TrimSpace(c.ID) == "" {
		return model.ForwardingOutcome{}, fmt.Errorf("%w: missing complaint id", ErrMalformedComplaint)
	}
	if opts.DepartmentID == "" && strings.TrimSpace(c.Category) == "" {
		return model.ForwardingOutcome{}, fmt.Errorf("%w: missing category", ErrMalformedComplaint)
	}

	settings := o.settings.Get(ctx)
	directory := NewDirectory(settings.Departments)

	log := logrus.WithFields(logrus.Fields{
		"complaint_id": c.ID,
		"category":     c.Category,
	})

	var (
		dept model.Department
		ok   bool
	)
	if opts.DepartmentID != "" {
		dept, ok = directory.ResolveByID(opts.DepartmentID)
	} else {
		dept, ok = directory.ResolveByCategory(c.Category)
	}
	if !ok {
		log.WithField("department_id", opts.DepartmentID).Warn("No destination department for complaint")
		o.observe(metrics.OutcomeNoDestination, start)
		return model.ForwardingOutcome{
			Success: false,
			Reason:  model.ReasonNoDestination,
			Results: []model.DispatchResult{},
			Message: noDestinationMessage(c, opts),
		}, nil
	}

	var jobs []dispatchJob
	if settings.EmailForwarding || opts.ForceEmail {
		jobs = append(jobs, dispatchJob{
			kind:        model.ChannelEmail,
			ch:          o.email,
			destination: strings.TrimSpace(dept.Email),
			missing:     fmt.Sprintf("%s tidak memiliki alamat email", dept.Name),
		})
	}
	if settings.WhatsAppForwarding || opts.ForceWhatsApp {
		jobs = append(jobs, dispatchJob{
			kind:        model.ChannelWhatsApp,
			ch:          o.whatsapp,
			destination: strings.TrimSpace(dept.WhatsApp),
			missing:     fmt.Sprintf("%s tidak memiliki nomor WhatsApp", dept.Name),
		})
	}

	msg := channel.RenderComplaint(c, dept, opts.CustomMessage)
	results := dispatchAll(ctx, jobs, msg, o.metrics)
	success := len(results) == 0 || anySuccess(results)

	o.audit.Append(ctx, model.ForwardingLogEntry{
		ID:             o.newID(),
		Timestamp:      o.now(),
		ComplaintID:    c.ID,
		ComplaintTitle: c.Title,
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		Results:        results,
	})

	outcome := metrics.OutcomeSuccess
	if !success {
		outcome = metrics.OutcomeFailure
	}
	o.observe(outcome, start)

	log.WithFields(logrus.Fields{
		"department_id": dept.ID,
		"channels":      len(results),
		"success":       success,
	}).Info("Complaint forwarded")

	d := dept
	return model.ForwardingOutcome{
		Success:    success,
		Department: &d,
		Results:    results,
		Message:    outcomeMessage(dept, results, success),
	}, nil
}

func (o *Orchestrator) observe(outcome string, start time.Time) {
	if o.metrics != nil {
		o.metrics.ObserveForward(outcome, time.Since(start).Seconds())
	}
}

func noDestinationMessage(c model.Complaint, opts ForwardOptions) string {
	if opts.DepartmentID != "" {
		return fmt.Sprintf("Dinas dengan ID %s tidak ditemukan", opts.DepartmentID)
	}
	return fmt.Sprintf("Tidak ada dinas aktif untuk kategori %q, pilih dinas secara manual", c.Category)
}

func outcomeMessage(d model.Department, results []model.DispatchResult, success bool) string {
	switch {
	case len(results) == 0:
		return fmt.Sprintf("Tidak ada kanal penerusan yang aktif untuk %s", d.Name)
	case success:
		return fmt.Sprintf("Pengaduan diteruskan ke %s", d.Name)
	}
	return fmt.Sprintf("Semua kanal gagal meneruskan pengaduan ke %s", d.Name)
}
