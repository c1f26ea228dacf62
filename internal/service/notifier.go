package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bansos-dispatch/internal/channel"
	"bansos-dispatch/internal/metrics"
	"bansos-dispatch/internal/model"
)

// testSender is implemented by email channels with a backend test endpoint
type testSender interface {
	SendTest(ctx context.Context, destination, kind string) model.DispatchResult
}

// Notifier sends best-effort alerts and test messages to the administrator
type Notifier struct {
	settings SettingsProvider
	email    channel.Channel
	whatsapp channel.Channel
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewNotifier creates a notifier sending through the forwarding channels
func NewNotifier(settings SettingsProvider, email, whatsapp channel.Channel, m *metrics.Metrics) *Notifier {
	return &Notifier{
		settings: settings,
		email:    email,
		whatsapp: whatsapp,
		metrics:  m,
		now:      time.Now,
	}
}

// NotifyAdmin alerts the configured admin contacts about a forwarded
// complaint. Failures are logged and returned, never escalated.
func (n *Notifier) NotifyAdmin(ctx context.Context, c model.Complaint, departmentName, severity string) []model.DispatchResult {
	settings := n.settings.Get(ctx)

	var jobs []dispatchJob
	if email := strings.TrimSpace(settings.AdminEmail); email != "" {
		jobs = append(jobs, dispatchJob{kind: model.ChannelEmail, ch: n.email, destination: email})
	}
	if number := strings.TrimSpace(settings.AdminWhatsApp); number != "" {
		jobs = append(jobs, dispatchJob{kind: model.ChannelWhatsApp, ch: n.whatsapp, destination: number})
	}
	if len(jobs) == 0 {
		logrus.WithField("complaint_id", c.ID).Warn("No admin contact configured, skipping admin alert")
		return []model.DispatchResult{}
	}

	results := dispatchAll(ctx, jobs, channel.RenderAdminAlert(c, departmentName, severity), n.metrics)
	for _, r := range results {
		if !r.Success {
			logrus.WithFields(logrus.Fields{
				"complaint_id": c.ID,
				"channel":      r.Type,
			}).Warnf("Admin alert failed: %s", r.Message)
		}
	}
	return results
}

// TestEmail sends a transport test email to to, or to the admin email when empty
func (n *Notifier) TestEmail(ctx context.Context, to string) model.DispatchResult {
	if to = strings.TrimSpace(to); to == "" {
		to = n.settings.Get(ctx).AdminEmail
	}
	if to == "" {
		return model.DispatchResult{Type: model.ChannelEmail, Message: "alamat email tujuan kosong"}
	}
	if tester, ok := n.email.(testSender); ok {
		return tester.SendTest(context.WithoutCancel(ctx), to, "admin")
	}
	return dispatchOne(ctx, dispatchJob{kind: model.ChannelEmail, ch: n.email, destination: to}, n.testMessage(model.ChannelEmail))
}

// TestWhatsApp sends a test message to number, or to the admin number when empty
func (n *Notifier) TestWhatsApp(ctx context.Context, number string) model.DispatchResult {
	if number = strings.TrimSpace(number); number == "" {
		number = n.settings.Get(ctx).AdminWhatsApp
	}
	job := dispatchJob{
		kind:        model.ChannelWhatsApp,
		ch:          n.whatsapp,
		destination: number,
		missing:     "nomor WhatsApp tujuan kosong",
	}
	return dispatchOne(ctx, job, n.testMessage(model.ChannelWhatsApp))
}

func (n *Notifier) testMessage(kind model.ChannelType) channel.Message {
	return channel.Message{
		Subject: "Uji coba pengiriman " + string(kind),
		Body:    fmt.Sprintf("Pesan uji coba dari dashboard bansos pada %s.", n.now().Format("02/01/2006 15:04")),
	}
}
