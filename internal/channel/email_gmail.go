package channel

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"bansos-dispatch/internal/config"
	"bansos-dispatch/internal/model"
)

// GmailEmail sends email through the Gmail API
type GmailEmail struct {
	service   *gmail.Service
	userEmail string
	now       func() time.Time
}

// NewGmailEmail creates a Gmail API email channel
func NewGmailEmail(cfg *config.GmailConfig) (*GmailEmail, error) {
	ctx := context.Background()

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{gmail.GmailSendScope},
		Endpoint:     google.Endpoint,
	}

	// Create token source from refresh token
	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}
	tokenSource := oauth2Config.TokenSource(ctx, token)

	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &GmailEmail{
		service:   service,
		userEmail: cfg.UserEmail,
		now:       time.Now,
	}, nil
}

// Type implements Channel
func (g *GmailEmail) Type() model.ChannelType { return model.ChannelEmail }

// Simulated implements Channel
func (g *GmailEmail) Simulated() bool { return false }

// Send implements Channel
func (g *GmailEmail) Send(ctx context.Context, destination string, msg Message) model.DispatchResult {
	if strings.TrimSpace(destination) == "" {
		return failure(model.ChannelEmail, "alamat email tujuan kosong")
	}

	raw, err := composeMIME(g.userEmail, destination, msg, g.now())
	if err != nil {
		return failure(model.ChannelEmail, fmt.Sprintf("failed to compose email: %v", err))
	}

	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}

	if _, err := g.service.Users.Messages.Send(g.userEmail, message).Context(ctx).Do(); err != nil {
		logrus.WithFields(logrus.Fields{
			"to":           destination,
			"complaint_id": msg.Metadata.ComplaintID,
		}).Warnf("Gmail send failed: %v", err)
		return failure(model.ChannelEmail, err.Error())
	}

	logrus.Infof("Successfully sent complaint %s to %s", msg.Metadata.ComplaintID, destination)
	return success(model.ChannelEmail, fmt.Sprintf("Email terkirim ke %s", destination))
}

// TestConnection tests the Gmail API connection
func (g *GmailEmail) TestConnection(ctx context.Context) error {
	if _, err := g.service.Users.GetProfile(g.userEmail).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to test Gmail API connection: %w", err)
	}
	return nil
}

// composeMIME renders a single-part plain text RFC 5322 message
func composeMIME(from, to string, msg Message, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(msg.Subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if msg.Metadata.ComplaintID != "" {
		h.Set("X-Complaint-ID", msg.Metadata.ComplaintID)
	}
	if msg.Metadata.DepartmentName != "" {
		h.Set("X-Department", msg.Metadata.DepartmentName)
	}
	if msg.Metadata.Priority != "" {
		h.Set("X-Priority-Label", msg.Metadata.Priority)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, msg.Body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
