package channel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"bansos-dispatch/internal/model"
	"bansos-dispatch/internal/remote"
)

// EmailAPI is the subset of the remote client used by APIEmail
type EmailAPI interface {
	SendEmail(ctx context.Context, req remote.EmailRequest) (remote.SendResponse, error)
	SendTestEmail(ctx context.Context, req remote.TestEmailRequest) (remote.SendResponse, error)
}

// APIEmail delivers email through the backend notification API, which owns
// the SMTP transport.
type APIEmail struct {
	api EmailAPI
}

// NewAPIEmail creates the backend email channel
func NewAPIEmail(api EmailAPI) *APIEmail {
	return &APIEmail{api: api}
}

// Type implements Channel
func (e *APIEmail) Type() model.ChannelType { return model.ChannelEmail }

// Simulated implements Channel
func (e *APIEmail) Simulated() bool { return false }

// Send implements Channel
func (e *APIEmail) Send(ctx context.Context, destination string, msg Message) model.DispatchResult {
	if strings.TrimSpace(destination) == "" {
		return failure(model.ChannelEmail, "alamat email tujuan kosong")
	}

	resp, err := e.api.SendEmail(ctx, remote.EmailRequest{
		To:             destination,
		Subject:        msg.Subject,
		Message:        msg.Body,
		ComplaintID:    msg.Metadata.ComplaintID,
		DepartmentName: msg.Metadata.DepartmentName,
		Priority:       msg.Metadata.Priority,
	})
	return e.result(destination, resp, err)
}

// SendTest asks the backend to send a transport test email of the given type
func (e *APIEmail) SendTest(ctx context.Context, destination, kind string) model.DispatchResult {
	if strings.TrimSpace(destination) == "" {
		return failure(model.ChannelEmail, "alamat email tujuan kosong")
	}
	resp, err := e.api.SendTestEmail(ctx, remote.TestEmailRequest{To: destination, Type: kind})
	return e.result(destination, resp, err)
}

func (e *APIEmail) result(destination string, resp remote.SendResponse, err error) model.DispatchResult {
	if err != nil {
		logrus.WithField("to", destination).Warnf("Email send failed: %v", err)
		var apiErr *remote.APIError
		if errors.As(err, &apiErr) {
			return failure(model.ChannelEmail, apiErr.Message)
		}
		return failure(model.ChannelEmail, err.Error())
	}
	if !resp.Success {
		detail := resp.Message
		if detail == "" {
			detail = "backend menolak pengiriman email"
		}
		return failure(model.ChannelEmail, detail)
	}

	detail := resp.Message
	if detail == "" {
		detail = fmt.Sprintf("Email terkirim ke %s", destination)
	}
	return success(model.ChannelEmail, detail)
}
