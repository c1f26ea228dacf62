// Package channel implements the dispatch transports used to forward
// complaints: email (backend API or Gmail) and WhatsApp (simulated or cloud).
package channel

import (
	"context"
	"regexp"
	"strings"

	"bansos-dispatch/internal/model"
)

// Metadata travels with a message for transports that record it
type Metadata struct {
	ComplaintID    string
	DepartmentName string
	Priority       string
}

// Message is a rendered message ready to send
type Message struct {
	Subject  string
	Body     string
	Metadata Metadata
}

// Channel sends a rendered message to a destination. Transport failures are
// reported in the result, never returned as errors.
type Channel interface {
	Type() model.ChannelType
	Send(ctx context.Context, destination string, msg Message) model.DispatchResult
	// Simulated reports whether Send only pretends to deliver
	Simulated() bool
}

func success(t model.ChannelType, msg string) model.DispatchResult {
	return model.DispatchResult{Type: t, Success: true, Message: msg}
}

func failure(t model.ChannelType, msg string) model.DispatchResult {
	return model.DispatchResult{Type: t, Success: false, Message: msg}
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// NormalizeMSISDN converts an Indonesian phone number to international digits
// (0812... and +62812... both become 62812...).
func NormalizeMSISDN(number string) string {
	digits := nonDigits.ReplaceAllString(strings.TrimSpace(number), "")
	switch {
	case strings.HasPrefix(digits, "0"):
		return "62" + digits[1:]
	case strings.HasPrefix(digits, "8"):
		return "62" + digits
	}
	return digits
}
