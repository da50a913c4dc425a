package draft

import (
	"reflect"
	"testing"
)

func fullIdea() Idea {
	return Idea{
		Title:            "t",
		Summary:          "s",
		Problem:          "p",
		ProposedSolution: "ps",
		TargetAudience:   "ta",
		ExpectedImpact:   "ei",
	}
}

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name string
		idea Idea
		want int
	}{
		{"empty", Idea{}, 0},
		{"full", fullIdea(), 100},
		{"one missing", Idea{
			Summary:          "x",
			Problem:          "x",
			ProposedSolution: "x",
			TargetAudience:   "x",
			ExpectedImpact:   "x",
		}, 83},
		{"half", Idea{Title: "x", Summary: "x", Problem: "x"}, 50},
		{"whitespace only does not count", Idea{Title: "   ", Summary: "x"}, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Completeness(tt.idea); got != tt.want {
				t.Errorf("Completeness() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompletenessIgnoresOptionalFields(t *testing.T) {
	d := Idea{Category: "ops", Priority: PriorityHigh, Keywords: []string{"a"}}
	if got := Completeness(d); got != 0 {
		t.Errorf("Completeness() = %d, want 0", got)
	}
}

func TestMissingOnlyTitle(t *testing.T) {
	d := fullIdea()
	d.Title = ""
	got := Missing(d)
	if !reflect.DeepEqual(got, []string{"Title"}) {
		t.Errorf("Missing() = %v, want [Title]", got)
	}
	if Completeness(d) != 83 {
		t.Errorf("Completeness() = %d, want 83", Completeness(d))
	}
}

func TestMissingOrder(t *testing.T) {
	got := Missing(Idea{Summary: "x", TargetAudience: "x"})
	want := []string{"Title", "Problem", "Proposed solution", "Expected impact"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Missing() = %v, want %v", got, want)
	}
}

func TestSetFieldForcesConfirmed(t *testing.T) {
	f := &Form{
		Meta: map[string]FieldMeta{
			FieldTitle:   {Status: StatusGuessed, Confidence: 0.4},
			FieldSummary: {Status: StatusMissing, Confidence: 0},
		},
	}
	for _, field := range []string{FieldTitle, FieldSummary, FieldProblem} {
		f.SetField(field, "edited")
		m := f.Status(field)
		if m.Status != StatusConfirmed || m.Confidence != 1 {
			t.Errorf("after edit, %s meta = %+v, want confirmed/1", field, m)
		}
		if Get(f.Idea, field) != "edited" {
			t.Errorf("after edit, %s value = %q", field, Get(f.Idea, field))
		}
	}
}

func TestSetFieldOnNilMeta(t *testing.T) {
	var f Form
	f.SetField(FieldTitle, "x")
	if f.Status(FieldTitle).Status != StatusConfirmed {
		t.Error("expected confirmed status after edit on zero-value form")
	}
}

func TestStatusDefaultsToMissing(t *testing.T) {
	var f Form
	if got := f.Status(FieldProblem); got.Status != StatusMissing {
		t.Errorf("Status() = %+v, want missing", got)
	}
}

func TestApplyClarificationReplacesWholesaleAndClearsAnswers(t *testing.T) {
	f := &Form{
		Idea:      Idea{Title: "old"},
		Meta:      map[string]FieldMeta{FieldTitle: {Status: StatusConfirmed, Confidence: 1}},
		Missing:   []string{FieldSummary},
		Questions: []string{"old question"},
		Answers:   "my answers",
	}
	ext := &Extraction{
		Draft: fullIdea(),
		FieldMeta: map[string]FieldMeta{
			FieldTitle: {Status: StatusGuessed, Confidence: 0.7},
		},
		MissingFields: nil,
		Questions:     nil,
	}
	f.ApplyClarification(ext)

	if !reflect.DeepEqual(f.Idea, fullIdea()) {
		t.Errorf("draft not replaced: %+v", f.Idea)
	}
	if f.Answers != "" {
		t.Errorf("answer buffer not cleared: %q", f.Answers)
	}
	if f.Status(FieldTitle).Status != StatusGuessed {
		t.Error("meta not replaced wholesale")
	}
	if len(f.Missing) != 0 || len(f.Questions) != 0 {
		t.Error("missing/questions not replaced")
	}
	if !f.Complete() || Completeness(f.Idea) != 100 {
		t.Error("fully populated draft should be complete at 100%")
	}
}

func TestValidateListsEmptyRequiredLabels(t *testing.T) {
	f := &Form{Idea: Idea{
		Summary:          "x",
		Problem:          "x",
		ProposedSolution: "x",
		TargetAudience:   "x",
		ExpectedImpact:   "x",
	}}
	got := f.Validate()
	if !reflect.DeepEqual(got, []string{"Title"}) {
		t.Errorf("Validate() = %v, want [Title]", got)
	}
	if f.Complete() {
		t.Error("form with empty title must not be complete")
	}
}

func TestLabelFallsBackToWireName(t *testing.T) {
	if Label("unknown_field") != "unknown_field" {
		t.Error("unknown field should map to itself")
	}
	if Label(FieldProposedSolution) != "Proposed solution" {
		t.Error("known field label mismatch")
	}
}
