package model

import (
	"time"
)

// ForwardLog is the persisted form of a ForwardingLogEntry
type ForwardLog struct {
	ID             uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	EntryID        string    `json:"entry_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	ComplaintID    string    `json:"complaint_id" gorm:"type:varchar(64);not null;index"`
	ComplaintTitle string    `json:"complaint_title" gorm:"type:varchar(255)"`
	DepartmentID   string    `json:"department_id" gorm:"type:varchar(64);index"`
	DepartmentName string    `json:"department_name" gorm:"type:varchar(255)"`
	Success        bool      `json:"success"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`

	Dispatches []DispatchLog `json:"dispatches" gorm:"foreignKey:ForwardLogID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for ForwardLog
func (ForwardLog) TableName() string {
	return "forwarding_logs"
}

// DispatchLog is one channel result belonging to a ForwardLog
type DispatchLog struct {
	ID           uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	ForwardLogID uint   `json:"forward_log_id" gorm:"not null;index"`
	Position     int    `json:"position"`
	Channel      string `json:"channel" gorm:"type:varchar(20);not null"`
	Success      bool   `json:"success"`
	Message      string `json:"message" gorm:"type:text"`
}

// TableName specifies the table name for DispatchLog
func (DispatchLog) TableName() string {
	return "dispatch_logs"
}

// NewForwardLog converts an audit entry to its table form
func NewForwardLog(e ForwardingLogEntry) ForwardLog {
	log := ForwardLog{
		EntryID:        e.ID,
		ComplaintID:    e.ComplaintID,
		ComplaintTitle: e.ComplaintTitle,
		DepartmentID:   e.DepartmentID,
		DepartmentName: e.DepartmentName,
		Success:        e.Success(),
		CreatedAt:      e.Timestamp,
	}
	for i, r := range e.Results {
		log.Dispatches = append(log.Dispatches, DispatchLog{
			Position: i,
			Channel:  string(r.Type),
			Success:  r.Success,
			Message:  r.Message,
		})
	}
	return log
}

// Entry converts the table form back to an audit entry. Dispatches are
// expected in Position order.
func (l ForwardLog) Entry() ForwardingLogEntry {
	e := ForwardingLogEntry{
		ID:             l.EntryID,
		Timestamp:      l.CreatedAt,
		ComplaintID:    l.ComplaintID,
		ComplaintTitle: l.ComplaintTitle,
		DepartmentID:   l.DepartmentID,
		DepartmentName: l.DepartmentName,
		Results:        make([]DispatchResult, 0, len(l.Dispatches)),
	}
	for _, d := range l.Dispatches {
		e.Results = append(e.Results, DispatchResult{
			Type:    ChannelType(d.Channel),
			Success: d.Success,
			Message: d.Message,
		})
	}
	return e
}
