package model

import (
	"strings"
	"time"
)

// ComplaintStatus is the localized lifecycle label of a complaint
type ComplaintStatus string

const (
	ComplaintNew        ComplaintStatus = "Baru"
	ComplaintInProgress ComplaintStatus = "Diproses"
	ComplaintResolved   ComplaintStatus = "Selesai"
	ComplaintClosed     ComplaintStatus = "Ditutup"
)

// Complaint priority labels assigned by operators or the backend
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Complaint is a citizen complaint to be routed to a department
type Complaint struct {
	ID            string          `json:"id"`
	TicketNumber  string          `json:"ticket_number"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Priority      string          `json:"priority"`
	Status        ComplaintStatus `json:"status"`
	ReporterID    string          `json:"reporter_id"`
	ReporterName  string          `json:"reporter_name,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	AdminResponse string          `json:"admin_response,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsHighPriority reports whether the external priority label warrants an admin alert
func (c Complaint) IsHighPriority() bool {
	p := strings.TrimSpace(c.Priority)
	return strings.EqualFold(p, PriorityHigh) || strings.EqualFold(p, PriorityUrgent)
}
