package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bansos-dispatch/internal/config"
	"bansos-dispatch/internal/model"
)

// SimulatedWhatsApp pretends to send WhatsApp messages. Its success only
// means the orchestration ran; nothing reaches a device.
type SimulatedWhatsApp struct {
	delay time.Duration
}

// NewSimulatedWhatsApp creates the non-production WhatsApp channel
func NewSimulatedWhatsApp(delay time.Duration) *SimulatedWhatsApp {
	return &SimulatedWhatsApp{delay: delay}
}

// Type implements Channel
func (s *SimulatedWhatsApp) Type() model.ChannelType { return model.ChannelWhatsApp }

// Simulated implements Channel
func (s *SimulatedWhatsApp) Simulated() bool { return true }

// Send implements Channel
func (s *SimulatedWhatsApp) Send(ctx context.Context, destination string, msg Message) model.DispatchResult {
	number := NormalizeMSISDN(destination)
	if number == "" {
		return failure(model.ChannelWhatsApp, "nomor WhatsApp tujuan kosong")
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return failure(model.ChannelWhatsApp, fmt.Sprintf("simulasi WhatsApp dibatalkan: %v", ctx.Err()))
		}
	}

	logrus.WithFields(logrus.Fields{
		"to":           number,
		"complaint_id": msg.Metadata.ComplaintID,
		"simulated":    true,
	}).Info("Simulated WhatsApp send")
	return success(model.ChannelWhatsApp, fmt.Sprintf("[SIMULASI] Pesan WhatsApp ke +%s tidak benar-benar dikirim", number))
}

// CloudWhatsApp sends text messages through a WhatsApp Business Cloud style API
type CloudWhatsApp struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewCloudWhatsApp creates the real WhatsApp channel
func NewCloudWhatsApp(cfg config.WhatsAppConfig) *CloudWhatsApp {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &CloudWhatsApp{
		endpoint:   fmt.Sprintf("%s/%s/messages", strings.TrimRight(cfg.APIURL, "/"), cfg.PhoneNumberID),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Type implements Channel
func (c *CloudWhatsApp) Type() model.ChannelType { return model.ChannelWhatsApp }

// Simulated implements Channel
func (c *CloudWhatsApp) Simulated() bool { return false }

type cloudText struct {
	Body string `json:"body"`
}

type cloudMessage struct {
	MessagingProduct string    `json:"messaging_product"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Text             cloudText `json:"text"`
}

// Send implements Channel
func (c *CloudWhatsApp) Send(ctx context.Context, destination string, msg Message) model.DispatchResult {
	number := NormalizeMSISDN(destination)
	if number == "" {
		return failure(model.ChannelWhatsApp, "nomor WhatsApp tujuan kosong")
	}

	body := msg.Body
	if msg.Subject != "" {
		body = "*" + msg.Subject + "*\n\n" + body
	}
	payload, err := json.Marshal(cloudMessage{
		MessagingProduct: "whatsapp",
		To:               number,
		Type:             "text",
		Text:             cloudText{Body: body},
	})
	if err != nil {
		return failure(model.ChannelWhatsApp, fmt.Sprintf("failed to marshal payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return failure(model.ChannelWhatsApp, fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithField("to", number).Warnf("WhatsApp send failed: %v", err)
		return failure(model.ChannelWhatsApp, err.Error())
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := strings.TrimSpace(string(raw))
		if detail == "" {
			detail = resp.Status
		}
		logrus.WithFields(logrus.Fields{"to": number, "status": resp.StatusCode}).Warnf("WhatsApp API error: %s", detail)
		return failure(model.ChannelWhatsApp, detail)
	}

	return success(model.ChannelWhatsApp, fmt.Sprintf("Pesan WhatsApp terkirim ke +%s", number))
}
