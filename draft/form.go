package draft

// Form holds the draft being edited together with backend-assigned field
// provenance and the outstanding clarification round. The draft, meta,
// missing list, and questions are replaced wholesale whenever the backend
// returns a new extraction; local edits win over backend provenance.
type Form struct {
	Idea      Idea
	Meta      map[string]FieldMeta
	Missing   []string // wire field names reported missing by the backend
	Questions []string
	Answers   string // free-text answer buffer for the current round
}

// SetField records a local edit. An edit is authoritative: the field's
// status becomes confirmed with confidence 1 regardless of what the
// backend assigned.
func (f *Form) SetField(field, value string) {
	set(&f.Idea, field, value)
	if f.Meta == nil {
		f.Meta = make(map[string]FieldMeta)
	}
	f.Meta[field] = FieldMeta{Status: StatusConfirmed, Confidence: 1}
}

// ApplyExtraction replaces the form contents with a fresh extraction.
func (f *Form) ApplyExtraction(ext *Extraction) {
	f.Idea = ext.Draft
	f.Meta = ext.FieldMeta
	f.Missing = ext.MissingFields
	f.Questions = ext.Questions
}

// ApplyClarification replaces the form contents after a clarification
// round-trip and clears the answer buffer.
func (f *Form) ApplyClarification(ext *Extraction) {
	f.ApplyExtraction(ext)
	f.Answers = ""
}

// Status returns the provenance of a field, defaulting to missing when the
// backend supplied no meta for it.
func (f *Form) Status(field string) FieldMeta {
	if m, ok := f.Meta[field]; ok {
		return m
	}
	return FieldMeta{Status: StatusMissing}
}

// Validate returns the display labels of required fields still empty.
// Submission must not proceed while the list is non-empty.
func (f *Form) Validate() []string {
	return Missing(f.Idea)
}

// Complete reports whether all required fields are filled.
func (f *Form) Complete() bool {
	return len(Missing(f.Idea)) == 0
}
