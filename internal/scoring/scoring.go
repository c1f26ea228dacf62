// Package scoring computes verification scores and priority tiers for aid
// applications. Everything here is a pure function of its arguments.
package scoring

import (
	"math"
	"strings"
	"time"

	"bansos-dispatch/internal/model"
)

// Priority is a coarse triage bucket
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders tiers for sorting, high first
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	}
	return 2
}

// ParsePriority accepts "high", "medium" or "low"
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, true
	}
	return "", false
}

// RequiredDocuments is the fixed set counted by the document score
var RequiredDocuments = []model.DocumentType{
	model.DocumentKTP,
	model.DocumentKK,
	model.DocumentSKTM,
}

const (
	pointsPerDocument = 10
	familyMax         = 40
	qualityMax        = 30
	qualityPerField   = 3

	// programRelevanceBase is granted to every application until program
	// relevance is actually evaluated.
	programRelevanceBase = 10
)

// Result holds the derived scores of one application
type Result struct {
	DocumentScore int      `json:"document_score"`
	DocumentMax   int      `json:"document_max"`
	ValidDocs     int      `json:"valid_documents"`
	FamilyScore   int      `json:"family_score"`
	FamilyMax     int      `json:"family_max"`
	QualityScore  int      `json:"quality_score"`
	QualityMax    int      `json:"quality_max"`
	Total         int      `json:"total"`
	Max           int      `json:"max"`
	Percentage    int      `json:"percentage"`
	Priority      Priority `json:"priority"`
	PriorityScore int      `json:"priority_points"`
}

// Score evaluates app as of now
func Score(app model.Application, now time.Time) Result {
	valid := ValidDocumentCount(app.Documents)
	r := Result{
		DocumentScore: valid * pointsPerDocument,
		DocumentMax:   len(RequiredDocuments) * pointsPerDocument,
		ValidDocs:     valid,
		FamilyScore:   FamilyScore(app.Applicant),
		FamilyMax:     familyMax,
		QualityScore:  QualityScore(app),
		QualityMax:    qualityMax,
	}
	r.Total = r.DocumentScore + r.FamilyScore + r.QualityScore
	r.Max = r.DocumentMax + r.FamilyMax + r.QualityMax
	r.Percentage = percentage(r.Total, r.Max)
	r.PriorityScore = PriorityPoints(app, now)
	r.Priority = tier(r.PriorityScore)
	return r
}

func percentage(total, max int) int {
	if max == 0 {
		return 0
	}
	return int(math.Round(float64(total) * 100 / float64(max)))
}

// ValidDocumentCount counts distinct required documents that are present and valid
func ValidDocumentCount(docs []model.Document) int {
	valid := make(map[model.DocumentType]bool, len(docs))
	for _, d := range docs {
		if d.Valid {
			valid[model.DocumentType(strings.ToLower(string(d.Type)))] = true
		}
	}
	n := 0
	for _, req := range RequiredDocuments {
		if valid[req] {
			n++
		}
	}
	return n
}

// FamilyScore sums income, dependents and employment points, max 40
func FamilyScore(p model.ApplicantProfile) int {
	return incomePoints(p.MonthlyIncome) + dependentPoints(p.Dependents) + employmentPoints(p.Employment)
}

func incomePoints(income int64) int {
	switch {
	case income < 1_000_000:
		return 15
	case income < 2_000_000:
		return 10
	case income < 3_000_000:
		return 5
	}
	return 0
}

func dependentPoints(n int) int {
	switch {
	case n >= 5:
		return 15
	case n >= 3:
		return 10
	case n >= 1:
		return 5
	}
	return 0
}

func employmentPoints(employment string) int {
	switch {
	case isUnemployed(employment):
		return 10
	case isInformal(employment):
		return 7
	}
	return 3
}

func isUnemployed(employment string) bool {
	return strings.EqualFold(strings.TrimSpace(employment), model.EmploymentUnemployed)
}

func isInformal(employment string) bool {
	e := strings.TrimSpace(employment)
	for _, label := range []string{model.EmploymentDayLaborer, model.EmploymentInformal, model.EmploymentOddJobs} {
		if strings.EqualFold(e, label) {
			return true
		}
	}
	return false
}

// QualityScore awards 3 points per filled contact field and justification,
// plus the flat program relevance base.
func QualityScore(app model.Application) int {
	score := programRelevanceBase
	for _, field := range []string{
		app.Applicant.Name,
		app.Applicant.Email,
		app.Applicant.Address,
		app.Applicant.Phone,
		app.Justification,
	} {
		if strings.TrimSpace(field) != "" {
			score += qualityPerField
		}
	}
	return score
}

// PriorityPoints is the ad hoc need/age heuristic behind the priority tier.
// It is unrelated to the verification score.
func PriorityPoints(app model.Application, now time.Time) int {
	points := 0

	switch d := app.Applicant.Dependents; {
	case d > 3:
		points += 3
	case d > 1:
		points += 2
	case d > 0:
		points++
	}

	switch income := app.Applicant.MonthlyIncome; {
	case income < 1_000_000:
		points += 3
	case income < 2_000_000:
		points += 2
	case income < 3_000_000:
		points++
	}

	switch age := AgeDays(app.SubmittedAt, now); {
	case age > 7:
		points += 2
	case age > 3:
		points++
	}

	return points
}

// AgeDays is the number of whole days between submission and now
func AgeDays(submitted, now time.Time) int {
	if submitted.IsZero() || now.Before(submitted) {
		return 0
	}
	return int(now.Sub(submitted).Hours() / 24)
}

func tier(points int) Priority {
	switch {
	case points >= 6:
		return PriorityHigh
	case points >= 4:
		return PriorityMedium
	}
	return PriorityLow
}
