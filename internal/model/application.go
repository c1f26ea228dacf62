package model

import "time"

// ApplicationStatus is the review state of an aid registration
type ApplicationStatus string

const (
	StatusPending         ApplicationStatus = "pending"
	StatusUnderReview     ApplicationStatus = "under_review"
	StatusApproved        ApplicationStatus = "approved"
	StatusRejected        ApplicationStatus = "rejected"
	StatusNeedsCompletion ApplicationStatus = "needs_completion"
)

// Valid reports whether s is a known application status
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected, StatusNeedsCompletion:
		return true
	}
	return false
}

// Final reports whether s is a decided status
func (s ApplicationStatus) Final() bool {
	return s == StatusApproved || s == StatusRejected
}

// Employment labels as entered in applicant profiles
const (
	EmploymentUnemployed = "Tidak Bekerja"
	EmploymentDayLaborer = "Buruh Harian"
	EmploymentInformal   = "Pekerja Informal"
	EmploymentOddJobs    = "Serabutan"
)

// DocumentType names a supporting document attached to an application
type DocumentType string

const (
	DocumentKTP  DocumentType = "ktp"
	DocumentKK   DocumentType = "kk"
	DocumentSKTM DocumentType = "sktm"
)

// Document is an uploaded supporting document and its verification flag
type Document struct {
	Type  DocumentType `json:"type"`
	URL   string       `json:"url,omitempty"`
	Valid bool         `json:"valid"`
}

// ApplicantProfile is the applicant data used for scoring
type ApplicantProfile struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	MonthlyIncome int64  `json:"monthly_income"`
	Dependents    int    `json:"dependents"`
	Employment    string `json:"employment"`
}

// Application is an aid program registration
type Application struct {
	ID                string            `json:"id"`
	Applicant         ApplicantProfile  `json:"applicant"`
	ProgramID         string            `json:"program_id"`
	ProgramName       string            `json:"program_name,omitempty"`
	Justification     string            `json:"justification"`
	Documents         []Document        `json:"documents"`
	SubmittedAt       time.Time         `json:"submitted_at"`
	Status            ApplicationStatus `json:"status"`
	ResubmissionCount int               `json:"resubmission_count"`
}

// StatusUpdateRequest is the payload of a status transition
type StatusUpdateRequest struct {
	Status ApplicationStatus `json:"status" binding:"required"`
	Notes  string            `json:"notes"`
}
