package model

import "time"

// ChannelType identifies a dispatch transport
type ChannelType string

const (
	ChannelEmail    ChannelType = "email"
	ChannelWhatsApp ChannelType = "whatsapp"
)

// DispatchResult is the outcome of one channel send attempt
type DispatchResult struct {
	Type    ChannelType `json:"type"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
}

// Outcome reasons
const (
	ReasonNoDestination = "no_destination"
)

// ForwardingOutcome aggregates the dispatch attempts of one forward
type ForwardingOutcome struct {
	Success    bool             `json:"success"`
	Reason     string           `json:"reason,omitempty"`
	Department *Department      `json:"department,omitempty"`
	Results    []DispatchResult `json:"results"`
	Message    string           `json:"message"`
}

// ForwardingLogEntry is one audit record of a resolved forward
type ForwardingLogEntry struct {
	ID             string           `json:"id"`
	Timestamp      time.Time        `json:"timestamp"`
	ComplaintID    string           `json:"complaint_id"`
	ComplaintTitle string           `json:"complaint_title"`
	DepartmentID   string           `json:"department_id"`
	DepartmentName string           `json:"department_name"`
	Results        []DispatchResult `json:"results"`
}

// Success reports whether any recorded channel succeeded, or none was invoked
func (e ForwardingLogEntry) Success() bool {
	if len(e.Results) == 0 {
		return true
	}
	for _, r := range e.Results {
		if r.Success {
			return true
		}
	}
	return false
}
