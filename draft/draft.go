package draft

import (
	"math"
	"strings"
)

// Field identifiers match the backend wire format.
const (
	FieldTitle            = "title"
	FieldSummary          = "summary"
	FieldProblem          = "problem"
	FieldProposedSolution = "proposed_solution"
	FieldTargetAudience   = "target_audience"
	FieldExpectedImpact   = "expected_impact"
	FieldCategory         = "category"
	FieldPriority         = "priority"
)

// RequiredFields lists the six fields an idea must fill before submission,
// in display order.
var RequiredFields = []string{
	FieldTitle,
	FieldSummary,
	FieldProblem,
	FieldProposedSolution,
	FieldTargetAudience,
	FieldExpectedImpact,
}

var fieldLabels = map[string]string{
	FieldTitle:            "Title",
	FieldSummary:          "Summary",
	FieldProblem:          "Problem",
	FieldProposedSolution: "Proposed solution",
	FieldTargetAudience:   "Target audience",
	FieldExpectedImpact:   "Expected impact",
	FieldCategory:         "Category",
	FieldPriority:         "Priority",
}

// Label returns the human-readable name for a wire field identifier.
func Label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status classifies the provenance of a draft field.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusGuessed   Status = "guessed"
	StatusMissing   Status = "missing"
)

// Idea is the structured record being assembled.
type Idea struct {
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	Problem          string   `json:"problem"`
	ProposedSolution string   `json:"proposed_solution"`
	TargetAudience   string   `json:"target_audience"`
	ExpectedImpact   string   `json:"expected_impact"`
	Category         string   `json:"category,omitempty"`
	Priority         Priority `json:"priority,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
}

// FieldMeta carries per-field provenance assigned by the backend.
type FieldMeta struct {
	Status     Status  `json:"status"`
	Confidence float64 `json:"confidence"`
}

// Extraction is the backend's structured view of a draft: the idea itself
// plus per-field provenance, unmet required fields, and follow-up questions.
type Extraction struct {
	Draft         Idea                 `json:"draft"`
	FieldMeta     map[string]FieldMeta `json:"field_meta"`
	MissingFields []string             `json:"missing_fields"`
	Questions     []string             `json:"questions"`
}

// Get returns the value of a named field, empty for unknown names.
func Get(d Idea, field string) string {
	switch field {
	case FieldTitle:
		return d.Title
	case FieldSummary:
		return d.Summary
	case FieldProblem:
		return d.Problem
	case FieldProposedSolution:
		return d.ProposedSolution
	case FieldTargetAudience:
		return d.TargetAudience
	case FieldExpectedImpact:
		return d.ExpectedImpact
	case FieldCategory:
		return d.Category
	case FieldPriority:
		return string(d.Priority)
	}
	return ""
}

func set(d *Idea, field, value string) {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldSummary:
		d.Summary = value
	case FieldProblem:
		d.Problem = value
	case FieldProposedSolution:
		d.ProposedSolution = value
	case FieldTargetAudience:
		d.TargetAudience = value
	case FieldExpectedImpact:
		d.ExpectedImpact = value
	case FieldCategory:
		d.Category = value
	case FieldPriority:
		d.Priority = Priority(value)
	}
}

func empty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Completeness reports how much of the required field set is filled,
// as an integer percentage rounded to nearest.
func Completeness(d Idea) int {
	filled := 0
	for _, f := range RequiredFields {
		if !empty(Get(d, f)) {
			filled++
		}
	}
	return int(math.Round(100 * float64(filled) / float64(len(RequiredFields))))
}

// Missing returns the display labels of empty required fields, in order.
func Missing(d Idea) []string {
	var out []string
	for _, f := range RequiredFields {
		if empty(Get(d, f)) {
			out = append(out, Label(f))
		}
	}
	return out
}
