package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"voxidea/audio"
	"voxidea/backend"
	"voxidea/beep"
	"voxidea/config"
	"voxidea/draft"
	"voxidea/recorder"
)

func TestMain(m *testing.M) {
	beep.Disable()
	os.Exit(m.Run())
}

func testModel(api backend.API) model {
	cfg := config.Config{}
	cfg.UI.Theme = "dark"
	m := newModel(api, nil, nil, nil, cfg)
	m.width = 80
	m.height = 24
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func fullExtraction() *draft.Extraction {
	meta := make(map[string]draft.FieldMeta)
	for _, f := range draft.RequiredFields {
		meta[f] = draft.FieldMeta{Status: draft.StatusConfirmed, Confidence: 0.9}
	}
	return &draft.Extraction{
		Draft: draft.Idea{
			Title:            "Solar kiosk",
			Summary:          "Offline solar-powered kiosks",
			Problem:          "No grid power in rural markets",
			ProposedSolution: "Deploy battery-backed kiosks",
			TargetAudience:   "Rural vendors",
			ExpectedImpact:   "Steady uptime for payments",
		},
		FieldMeta: meta,
	}
}

func partialExtraction() *draft.Extraction {
	ex := fullExtraction()
	ex.Draft.Title = ""
	ex.Draft.ExpectedImpact = ""
	delete(ex.FieldMeta, draft.FieldTitle)
	delete(ex.FieldMeta, draft.FieldExpectedImpact)
	ex.MissingFields = []string{draft.FieldTitle, draft.FieldExpectedImpact}
	ex.Questions = []string{"What should the idea be called?", "What outcome do you expect?"}
	return ex
}

func TestExtractionMovesToReview(t *testing.T) {
	api := &backend.Fake{ExtractResp: fullExtraction()}
	m := testModel(api)

	m, _ = update(t, m, extractedMsg{gen: m.gen, ex: fullExtraction()})
	if m.screen != screenReview {
		t.Fatalf("screen = %v, want review", m.screen)
	}
	if got := draft.Completeness(m.cap.form.Idea); got != 100 {
		t.Errorf("completeness = %d", got)
	}
}

func TestSubmitBlockedWhileMissingFields(t *testing.T) {
	api := &backend.Fake{}
	m := testModel(api)

	m, _ = update(t, m, extractedMsg{gen: m.gen, ex: partialExtraction()})
	m, _ = update(t, m, keyMsg("s"))

	if api.SubmitCalls != 0 {
		t.Fatalf("Submit called %d times while fields missing", api.SubmitCalls)
	}
	if m.screen != screenReview {
		t.Errorf("screen = %v, want still review", m.screen)
	}
	if !strings.Contains(m.notice, "Title") || !strings.Contains(m.notice, "Expected impact") {
		t.Errorf("notice %q does not list missing field labels", m.notice)
	}
}

func TestSubmitWhenComplete(t *testing.T) {
	api := &backend.Fake{SubmitResp: &backend.SubmitResponse{ID: "idea-42", Status: "submitted"}}
	m := testModel(api)

	m, _ = update(t, m, extractedMsg{gen: m.gen, ex: fullExtraction()})
	m, cmd := update(t, m, keyMsg("s"))
	if !m.busy {
		t.Fatal("model not busy after submit")
	}
	if cmd == nil {
		t.Fatal("no submit command issued")
	}
	m, _ = update(t, m, cmd().(submittedMsg))

	if api.SubmitCalls != 1 {
		t.Fatalf("Submit called %d times, want 1", api.SubmitCalls)
	}
	if m.screen != screenDone {
		t.Errorf("screen = %v, want done", m.screen)
	}
	if m.cap.submitID != "idea-42" {
		t.Errorf("submitID = %q", m.cap.submitID)
	}
	if m.submitCount != 1 {
		t.Errorf("submitCount = %d", m.submitCount)
	}
}

func TestLocalEditForcesConfirmed(t *testing.T) {
	api := &backend.Fake{}
	m := testModel(api)

	ex := partialExtraction()
	ex.FieldMeta[draft.FieldSummary] = draft.FieldMeta{Status: draft.StatusGuessed, Confidence: 0.4}
	m, _ = update(t, m, extractedMsg{gen: m.gen, ex: ex})

	// Move to summary (index 1) and edit it
	m, _ = update(t, m, keyMsg("down"))
	m, _ = update(t, m, keyMsg("e"))
	if m.focus != focusEditor || m.editingField != draft.FieldSummary {
		t.Fatalf("editing %q with focus %v", m.editingField, m.focus)
	}
	m.fieldInput.SetValue("A sharper summary")
	m, _ = update(t, m, keyMsg("ctrl+d"))

	meta := m.cap.form.Status(draft.FieldSummary)
	if meta.Status != draft.StatusConfirmed || meta.Confidence != 1 {
		t.Errorf("meta after edit = %+v, want confirmed/1", meta)
	}
	if m.cap.form.Idea.Summary != "A sharper summary" {
		t.Errorf("summary = %q", m.cap.form.Idea.Summary)
	}
}

func TestClarifyAppliesWholesaleAndClearsAnswers(t *testing.T) {
	api := &backend.Fake{ClarifyResp: fullExtraction()}
	m := testModel(api)

	m, _ = update(t, m, extractedMsg{gen: m.gen, ex: partialExtraction()})
	m, _ = update(t, m, keyMsg("a"))
	if m.focus != focusAnswers {
		t.Fatalf("focus = %v, want answers", m.focus)
	}
	m.answerInput.SetValue("Call it Solar kiosk; impact is uptime")
	m, cmd := update(t, m, keyMsg("ctrl+d"))
	if cmd == nil {
		t.Fatal("no clarify command issued")
	}
	m, _ = update(t, m, cmd())

	if api.ClarifyCalls != 1 {
		t.Fatalf("Clarify called %d times, want 1", api.ClarifyCalls)
	}
	if m.cap.form.Answers != "" {
		t.Errorf("answer buffer not cleared: %q", m.cap.form.Answers)
	}
	if len(m.cap.form.Questions) != 0 {
		t.Errorf("questions not replaced: %v", m.cap.form.Questions)
	}
	if !m.cap.form.Complete() {
		t.Error("form not complete after clarification")
	}
}

func TestEmptyTextInputNeverCallsBackend(t *testing.T) {
	api := &backend.Fake{}
	m := testModel(api)

	m, _ = update(t, m, keyMsg("tab")) // record -> upload
	m, _ = update(t, m, keyMsg("tab")) // upload -> text
	if m.mode != modeText {
		t.Fatalf("mode = %v, want text", m.mode)
	}
	m.textInput.SetValue("   \n  ")
	m, _ = update(t, m, keyMsg("ctrl+d"))

	if api.ExtractCalls != 0 {
		t.Fatalf("Extract called %d times for empty input", api.ExtractCalls)
	}
	if m.notice == "" {
		t.Error("no notice shown for empty input")
	}
}

func TestModeSwitchResetsDownstreamState(t *testing.T) {
	api := &backend.Fake{}
	m := testModel(api)

	m, _ = update(t, m, extractedMsg{gen: m.gen, ex: fullExtraction()})
	if m.screen != screenReview {
		t.Fatal("precondition: not in review")
	}
	m.cap.transcript = "old transcript"
	gen := m.gen

	next, _ := m.switchMode(modeText)
	m = next.(model)

	if m.gen == gen {
		t.Error("generation not bumped on mode switch")
	}
	if m.cap.transcript != "" || m.cap.form.Idea.Title != "" {
		t.Error("capture state survived mode switch")
	}
	if m.screen != screenInput {
		t.Errorf("screen = %v, want input", m.screen)
	}
}

func TestStaleResultsDiscardedAfterReset(t *testing.T) {
	api := &backend.Fake{}
	m := testModel(api)

	staleGen := m.gen
	next, _ := m.switchMode(modeText)
	m = next.(model)

	m, _ = update(t, m, extractedMsg{gen: staleGen, ex: fullExtraction()})
	if m.screen != screenInput {
		t.Errorf("stale extraction changed screen to %v", m.screen)
	}
	if m.cap.form.Idea.Title != "" {
		t.Error("stale extraction mutated the form")
	}

	m, _ = update(t, m, transcribedMsg{gen: staleGen, resp: &backend.TranscribeResponse{Transcript: "late"}})
	if m.cap.transcript != "" {
		t.Error("stale transcript accepted")
	}
}

func TestApiErrorShowsNoticeAndClearsBusy(t *testing.T) {
	api := &backend.Fake{}
	m := testModel(api)
	m.busy = true
	m.busyOp = "extracting"

	m, _ = update(t, m, apiErrMsg{gen: m.gen, op: "extract", err: &backend.RemoteError{Status: 422, Body: "bad input"}})
	if m.busy {
		t.Error("busy flag still set after error")
	}
	if !m.noticeErr || !strings.Contains(m.notice, "422") {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestThemeToggle(t *testing.T) {
	api := &backend.Fake{}
	m := testModel(api)

	if m.theme != "dark" {
		t.Fatalf("initial theme = %q", m.theme)
	}
	m, _ = update(t, m, keyMsg("ctrl+t"))
	if m.theme != "light" {
		t.Errorf("theme after toggle = %q", m.theme)
	}
}

func TestDoublePressStartsOneRecording(t *testing.T) {
	api := &backend.Fake{}
	m := testModel(api)
	m.mode = modeRecord

	m, cmd := update(t, m, keyMsg("r"))
	if cmd == nil {
		t.Fatal("first press did not issue a start command")
	}
	m, cmd = update(t, m, keyMsg("r"))
	if cmd != nil {
		t.Error("second press before the device opened issued another start command")
	}

	ctxA := audio.NewFakeContext(nil, false)
	sessA, err := recorder.New(ctxA, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, recStartedMsg{gen: m.gen, sess: sessA})
	if m.sess != sessA || !m.recording {
		t.Fatal("first session not installed")
	}

	// A duplicate start racing in while a session is live must be torn
	// down, not installed over the live one.
	ctxB := audio.NewFakeContext(nil, false)
	sessB, err := recorder.New(ctxB, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, recStartedMsg{gen: m.gen, sess: sessB})
	if m.sess != sessA {
		t.Error("live session was replaced")
	}
	if got := ctxB.Last().CloseCalls(); got != 1 {
		t.Errorf("duplicate session device released %d times, want 1", got)
	}
	if got := ctxA.Last().CloseCalls(); got != 0 {
		t.Errorf("live session device released %d times, want 0", got)
	}
}

func TestSaveClipWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idea-test.flac")
	data := []byte("fLaC-payload")

	msg := saveClipCmd(path, data)()
	saved, ok := msg.(clipSavedMsg)
	if !ok {
		t.Fatalf("got %T, want clipSavedMsg", msg)
	}
	if saved.err != nil {
		t.Fatalf("save: %v", saved.err)
	}
	if saved.path != path {
		t.Errorf("path = %q, want %q", saved.path, path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("file contents do not match clip data")
	}
}

func TestModeStrings(t *testing.T) {
	cases := []struct {
		mode  inputMode
		str   string
		label string
	}{
		{modeRecord, "record", "Record voice"},
		{modeUpload, "upload", "Upload audio"},
		{modeText, "type", "Type text"},
	}
	for _, c := range cases {
		if c.mode.String() != c.str {
			t.Errorf("%v.String() = %q, want %q", c.mode, c.mode.String(), c.str)
		}
		if c.mode.Label() != c.label {
			t.Errorf("%v.Label() = %q, want %q", c.mode, c.mode.Label(), c.label)
		}
	}
}
