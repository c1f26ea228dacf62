package handler

import (
	"time"

	"bansos-dispatch/internal/model"
)

// ForwardRequest is the payload of a complaint forward
type ForwardRequest struct {
	Complaint     model.Complaint `json:"complaint"`
	DepartmentID  string          `json:"department_id"`
	CustomMessage string          `json:"custom_message"`
	ForceEmail    bool            `json:"force_email"`
	ForceWhatsApp bool            `json:"force_whatsapp"`
	// NotifyAdmin overrides the priority based admin alert when set
	NotifyAdmin *bool `json:"notify_admin"`
}

// ForwardResponse is the forwarding outcome plus any admin alert results
type ForwardResponse struct {
	model.ForwardingOutcome
	AdminAlerts []model.DispatchResult `json:"admin_alerts,omitempty"`
}

// TestSendRequest addresses an admin test send. An empty destination uses
// the configured admin contact.
type TestSendRequest struct {
	To string `json:"to"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Settings  string            `json:"settings"`
	WhatsApp  string            `json:"whatsapp"`
	Metrics   map[string]string `json:"metrics,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
