package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"voxidea/audio"
	"voxidea/backend"
	"voxidea/beep"
	"voxidea/config"
	"voxidea/draft"
	"voxidea/encoder"
	"voxidea/history"
	"voxidea/log"
	"voxidea/recorder"
)

const (
	maxUploadBytes = 16 << 20
	noticeTimeout  = 4 * time.Second
	requestTimeout = 120 * time.Second
)

type screen int

const (
	screenInput screen = iota
	screenReview
	screenDone
)

// fieldOrder is the display order of the review form.
var fieldOrder = append(append([]string{}, draft.RequiredFields...),
	draft.FieldCategory, draft.FieldPriority)

type focusArea int

const (
	focusFields focusArea = iota
	focusEditor
	focusAnswers
)

type model struct {
	api      backend.API
	audioCtx audio.Context
	device   *audio.DeviceInfo
	store    *history.Store
	langHint string
	encPrefs []string

	theme  string
	styles styles

	screen screen
	mode   inputMode
	cap    captureState
	gen    int

	// recording
	recording bool
	starting  bool
	sess      *recorder.Session
	elapsed   int
	level     float64
	peak      float64

	// text widgets
	pathInput   textinput.Model
	textInput   textarea.Model
	answerInput textarea.Model
	fieldInput  textarea.Model

	focus        focusArea
	cursor       int
	editingField string

	busy   bool
	busyOp string

	notice    string
	noticeErr bool
	noticeAt  time.Time

	copied      bool
	submitCount int
	recent      []history.Submission

	width, height int
}

type styles struct {
	title    lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
	dim      lipgloss.Style
	status   lipgloss.Style
	rec      lipgloss.Style
	ok       lipgloss.Style
	warn     lipgloss.Style
	fail     lipgloss.Style
	selected lipgloss.Style
	value    lipgloss.Style
	help     lipgloss.Style
}

func newStyles(theme string) styles {
	dim, value := "241", "252"
	if theme == "light" {
		dim, value = "245", "235"
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		tab:      lipgloss.NewStyle().Foreground(lipgloss.Color(dim)),
		tabOn:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")).Underline(true),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(dim)),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		rec:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		ok:       lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		fail:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		value:    lipgloss.NewStyle().Foreground(lipgloss.Color(value)),
	}
}

func newModel(api backend.API, audioCtx audio.Context, device *audio.DeviceInfo, store *history.Store, cfg config.Config) model {
	path := textinput.New()
	path.Placeholder = "path/to/audio.ogg"
	path.CharLimit = 512

	text := textarea.New()
	text.Placeholder = "Describe your idea..."
	text.CharLimit = 0

	answers := textarea.New()
	answers.Placeholder = "Answer the questions above in free text..."
	answers.SetHeight(3)

	editor := textarea.New()
	editor.SetHeight(3)

	m := model{
		api:         api,
		audioCtx:    audioCtx,
		device:      device,
		store:       store,
		langHint:    cfg.API.LanguageHint,
		encPrefs:    cfg.Encoding.Preferences,
		theme:       cfg.UI.Theme,
		styles:      newStyles(cfg.UI.Theme),
		pathInput:   path,
		textInput:   text,
		answerInput: answers,
		fieldInput:  editor,
	}
	return m
}

func uiTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return uiTickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadHistoryCmd(), uiTick())
}

// inputFocused reports whether a text widget is eating keystrokes, so
// single-letter shortcuts stay out of the way.
func (m model) inputFocused() bool {
	switch m.screen {
	case screenInput:
		return m.mode == modeUpload || m.mode == modeText
	case screenReview:
		return m.focus != focusFields
	}
	return false
}

// --- commands ---

func (m *model) startRecordingCmd() tea.Cmd {
	gen := m.gen
	ctx, device, prefs := m.audioCtx, m.device, m.encPrefs
	return func() tea.Msg {
		sess, err := recorder.New(ctx, device, prefs)
		if err != nil {
			return apiErrMsg{gen: gen, op: "record", err: err}
		}
		if err := sess.Start(); err != nil {
			return apiErrMsg{gen: gen, op: "record", err: err}
		}
		return recStartedMsg{gen: gen, sess: sess}
	}
}

func listenTicks(sess *recorder.Session, gen int) tea.Cmd {
	return func() tea.Msg {
		select {
		case sec := <-sess.Ticks():
			return recTickMsg{gen: gen, seconds: sec}
		case <-sess.Done():
			return nil
		}
	}
}

func listenLevels(sess *recorder.Session, gen int) tea.Cmd {
	return func() tea.Msg {
		select {
		case level := <-sess.Levels():
			return recLevelMsg{gen: gen, level: level}
		case <-sess.Done():
			return nil
		}
	}
}

func (m *model) stopRecordingCmd() tea.Cmd {
	gen, sess := m.gen, m.sess
	return func() tea.Msg {
		clip, err := sess.Stop()
		if err != nil {
			return apiErrMsg{gen: gen, op: "record", err: err}
		}
		return clipReadyMsg{gen: gen, clip: clip}
	}
}

func (m *model) loadClipCmd(path string) tea.Cmd {
	gen := m.gen
	return func() tea.Msg {
		info, err := os.Stat(path)
		if err != nil {
			return apiErrMsg{gen: gen, op: "upload", err: err}
		}
		if info.Size() > maxUploadBytes {
			return apiErrMsg{gen: gen, op: "upload",
				err: fmt.Errorf("file too large: %.1f MB (max %d MB)", float64(info.Size())/(1<<20), maxUploadBytes>>20)}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return apiErrMsg{gen: gen, op: "upload", err: err}
		}
		name := filepath.Base(path)
		return clipLoadedMsg{
			gen:  gen,
			name: name,
			mime: encoder.MimeForExtension(filepath.Ext(name)),
			data: data,
			size: info.Size(),
		}
	}
}

func (m *model) transcribeCmd(name string, data []byte, mime string) tea.Cmd {
	gen, api := m.gen, m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := api.Transcribe(ctx, name, data, mime)
		if err != nil {
			return apiErrMsg{gen: gen, op: "transcribe", err: err}
		}
		return transcribedMsg{gen: gen, resp: resp}
	}
}

func (m *model) extractCmd(text string) tea.Cmd {
	gen, api := m.gen, m.api
	req := backend.ExtractRequest{
		Text:         text,
		LanguageHint: m.cap.language,
		DialectHint:  m.cap.dialect,
	}
	if req.LanguageHint == "" {
		req.LanguageHint = m.langHint
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ex, err := api.Extract(ctx, req)
		if err != nil {
			return apiErrMsg{gen: gen, op: "extract", err: err}
		}
		return extractedMsg{gen: gen, ex: ex}
	}
}

func (m *model) clarifyCmd() tea.Cmd {
	gen, api := m.gen, m.api
	req := backend.ClarifyRequest{
		Draft:       m.cap.form.Idea,
		AnswersText: m.cap.form.Answers,
		Questions:   m.cap.form.Questions,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ex, err := api.Clarify(ctx, req)
		if err != nil {
			return apiErrMsg{gen: gen, op: "clarify", err: err}
		}
		return clarifiedMsg{gen: gen, ex: ex}
	}
}

func (m *model) submitCmd() tea.Cmd {
	gen, api := m.gen, m.api
	req := backend.SubmitRequest{
		Transcript:  m.cap.transcript,
		Language:    m.cap.language,
		DialectHint: m.cap.dialect,
		Draft:       m.cap.form.Idea,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := api.Submit(ctx, req)
		if err != nil {
			return apiErrMsg{gen: gen, op: "submit", err: err}
		}
		return submittedMsg{gen: gen, resp: resp}
	}
}

func (m *model) loadHistoryCmd() tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		subs, err := store.Recent(5)
		if err != nil {
			log.Errorf("history read: %v", err)
			return nil
		}
		return historyMsg{subs: subs}
	}
}

func (m *model) recordSubmissionCmd(id string) tea.Cmd {
	store := m.store
	sub := history.Submission{
		ID:       id,
		Title:    m.cap.form.Idea.Title,
		Summary:  m.cap.form.Idea.Summary,
		Language: m.cap.language,
	}
	return func() tea.Msg {
		log.Submission(sub.ID, sub.Title)
		if store == nil {
			return nil
		}
		if err := store.Add(sub); err != nil {
			log.Errorf("history write: %v", err)
			return nil
		}
		subs, err := store.Recent(5)
		if err != nil {
			return nil
		}
		return historyMsg{subs: subs}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(text)}
	}
}

// saveClipCmd writes the captured audio next to the working directory so the
// user keeps a copy of what was uploaded.
func saveClipCmd(name string, data []byte) tea.Cmd {
	return func() tea.Msg {
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return clipSavedMsg{err: err}
		}
		return clipSavedMsg{path: name}
	}
}

func (m *model) setNotice(text string, isErr bool) tea.Cmd {
	m.notice = text
	m.noticeErr = isErr
	at := time.Now()
	m.noticeAt = at
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
		return noticeExpireMsg{at: at}
	})
}

func saveThemeCmd(theme string) tea.Cmd {
	return func() tea.Msg {
		if err := config.SaveTheme(theme); err != nil {
			log.Errorf("saving theme: %v", err)
		}
		return nil
	}
}

// resetCapture tears down the capture state. Any in-flight results for
// the old generation will be dropped when they arrive.
func (m *model) resetCapture() {
	if m.sess != nil {
		m.sess.Abort()
		m.sess = nil
	}
	m.gen++
	m.cap.reset()
	m.recording = false
	m.starting = false
	m.elapsed = 0
	m.level = 0
	m.peak = 0
	m.busy = false
	m.busyOp = ""
	m.copied = false
	m.cursor = 0
	m.focus = focusFields
	m.editingField = ""
	m.textInput.Reset()
	m.pathInput.Reset()
	m.answerInput.Reset()
	m.fieldInput.Reset()
	m.screen = screenInput
}

// --- update ---

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 6
		if w > 76 {
			w = 76
		}
		if w < 20 {
			w = 20
		}
		m.textInput.SetWidth(w)
		m.answerInput.SetWidth(w)
		m.fieldInput.SetWidth(w)
		m.pathInput.Width = w
		return m, nil

	case uiTickMsg:
		return m, uiTick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case recStartedMsg:
		if msg.gen != m.gen || m.sess != nil {
			msg.sess.Abort()
			return m, nil
		}
		m.starting = false
		m.sess = msg.sess
		m.recording = true
		m.elapsed = 0
		m.peak = 0
		beep.PlayStart()
		log.Info("recording started: " + m.sess.MIME())
		return m, tea.Batch(listenTicks(msg.sess, msg.gen), listenLevels(msg.sess, msg.gen))

	case recTickMsg:
		if msg.gen != m.gen || m.sess == nil {
			return m, nil
		}
		m.elapsed = msg.seconds
		return m, listenTicks(m.sess, msg.gen)

	case recLevelMsg:
		if msg.gen != m.gen || m.sess == nil {
			return m, nil
		}
		m.level = m.level*0.6 + msg.level*0.4
		if msg.level > m.peak {
			m.peak = msg.level
		}
		return m, listenLevels(m.sess, msg.gen)

	case clipReadyMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.sess = nil
		m.recording = false
		m.level = 0
		m.cap.clip = msg.clip.Data
		m.cap.clipMIME = msg.clip.MIME
		m.cap.clipName = msg.clip.FileName
		m.cap.clipLen = msg.clip.Duration
		m.busy = true
		m.busyOp = "transcribing"
		log.Recording(msg.clip.MIME, msg.clip.Duration.Seconds(), float64(len(msg.clip.Data))/1024)
		return m, m.transcribeCmd(msg.clip.FileName, msg.clip.Data, msg.clip.MIME)

	case clipLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.cap.clip = msg.data
		m.cap.clipMIME = msg.mime
		m.cap.clipName = msg.name
		m.busy = true
		m.busyOp = "transcribing"
		log.Recording(msg.mime, 0, float64(msg.size)/1024)
		return m, m.transcribeCmd(msg.name, msg.data, msg.mime)

	case transcribedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.cap.transcript = msg.resp.Transcript
		m.cap.language = msg.resp.Language
		m.cap.dialect = msg.resp.DialectHint
		log.Transcript(msg.resp.Language, msg.resp.DialectHint, len(msg.resp.Transcript))
		if strings.TrimSpace(m.cap.transcript) == "" {
			m.busy = false
			m.busyOp = ""
			beep.PlayError()
			return m, m.setNotice("No speech detected in the recording", true)
		}
		m.busyOp = "extracting"
		return m, m.extractCmd(m.cap.transcript)

	case extractedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		m.busyOp = ""
		m.cap.form.ApplyExtraction(msg.ex)
		m.screen = screenReview
		m.focus = focusFields
		m.cursor = 0
		return m, nil

	case clarifiedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		m.busyOp = ""
		m.cap.form.ApplyClarification(msg.ex)
		m.answerInput.Reset()
		m.focus = focusFields
		return m, m.setNotice("Draft updated from your answers", false)

	case submittedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		m.busyOp = ""
		m.cap.submitID = msg.resp.ID
		m.submitCount++
		m.screen = screenDone
		beep.PlaySuccess()
		return m, m.recordSubmissionCmd(msg.resp.ID)

	case apiErrMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		m.busyOp = ""
		if msg.op == "record" {
			m.sess = nil
			m.starting = false
			m.recording = false
		}
		beep.PlayError()
		log.Errorf("%s: %v", msg.op, msg.err)
		return m, m.setNotice(fmt.Sprintf("%s failed: %v", msg.op, msg.err), true)

	case historyMsg:
		m.recent = msg.subs
		return m, nil

	case clipSavedMsg:
		if msg.err != nil {
			return m, m.setNotice(fmt.Sprintf("save audio: %v", msg.err), true)
		}
		log.Info("audio saved: " + msg.path)
		return m, m.setNotice("Audio saved to "+msg.path, false)

	case clipboardMsg:
		if msg.err != nil {
			return m, m.setNotice(fmt.Sprintf("clipboard: %v", msg.err), true)
		}
		m.copied = true
		return m, m.setNotice("Submission ID copied to clipboard", false)

	case noticeExpireMsg:
		if msg.at.Equal(m.noticeAt) {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		if m.sess != nil {
			m.sess.Abort()
		}
		return m, tea.Quit
	}

	// Global shortcuts that never collide with text entry.
	switch key {
	case "ctrl+t":
		if m.theme == "dark" {
			m.theme = "light"
		} else {
			m.theme = "dark"
		}
		m.styles = newStyles(m.theme)
		return m, saveThemeCmd(m.theme)
	case "tab":
		if m.screen == screenInput {
			next := modeOrder[(int(m.mode)+1)%len(modeOrder)]
			return m.switchMode(next)
		}
	case "shift+tab":
		if m.screen == screenInput {
			next := modeOrder[(int(m.mode)+len(modeOrder)-1)%len(modeOrder)]
			return m.switchMode(next)
		}
	}

	switch m.screen {
	case screenInput:
		return m.handleInputKey(msg)
	case screenReview:
		return m.handleReviewKey(msg)
	case screenDone:
		return m.handleDoneKey(msg)
	}
	return m, nil
}

// switchMode changes the input source. The clip, transcript, extraction,
// and form state all belong to the old source and are discarded.
func (m model) switchMode(next inputMode) (tea.Model, tea.Cmd) {
	if next == m.mode {
		return m, nil
	}
	m.resetCapture()
	m.mode = next
	var cmd tea.Cmd
	switch next {
	case modeUpload:
		cmd = m.pathInput.Focus()
		m.textInput.Blur()
	case modeText:
		cmd = m.textInput.Focus()
		m.pathInput.Blur()
	default:
		m.pathInput.Blur()
		m.textInput.Blur()
	}
	return m, cmd
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.mode {
	case modeRecord:
		switch key {
		case "q", "esc":
			if m.sess != nil {
				m.sess.Abort()
			}
			return m, tea.Quit
		case " ", "enter", "r":
			if m.busy {
				return m, nil
			}
			if m.recording && m.sess != nil {
				m.recording = false
				beep.PlayEnd()
				return m, m.stopRecordingCmd()
			}
			if m.sess == nil && !m.starting {
				m.cap.reset()
				m.starting = true
				return m, m.startRecordingCmd()
			}
		}

	case modeUpload:
		switch key {
		case "esc":
			return m, tea.Quit
		case "enter":
			if m.busy {
				return m, nil
			}
			path := strings.TrimSpace(m.pathInput.Value())
			if path == "" {
				return m, m.setNotice("Enter a file path first", true)
			}
			m.cap.reset()
			m.busy = true
			m.busyOp = "loading"
			return m, m.loadClipCmd(path)
		default:
			var cmd tea.Cmd
			m.pathInput, cmd = m.pathInput.Update(msg)
			return m, cmd
		}

	case modeText:
		switch key {
		case "esc":
			return m, tea.Quit
		case "ctrl+d":
			if m.busy {
				return m, nil
			}
			text := strings.TrimSpace(m.textInput.Value())
			if text == "" {
				return m, m.setNotice("Nothing to extract: the idea text is empty", true)
			}
			m.cap.reset()
			m.cap.transcript = text
			m.busy = true
			m.busyOp = "extracting"
			return m, m.extractCmd(text)
		default:
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.focus {
	case focusEditor:
		switch key {
		case "esc":
			m.focus = focusFields
			m.editingField = ""
			m.fieldInput.Blur()
			return m, nil
		case "ctrl+d":
			value := m.fieldInput.Value()
			m.cap.form.SetField(m.editingField, value)
			m.focus = focusFields
			m.editingField = ""
			m.fieldInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.fieldInput, cmd = m.fieldInput.Update(msg)
			return m, cmd
		}

	case focusAnswers:
		switch key {
		case "esc":
			m.focus = focusFields
			m.answerInput.Blur()
			return m, nil
		case "ctrl+d":
			if m.busy {
				return m, nil
			}
			m.cap.form.Answers = strings.TrimSpace(m.answerInput.Value())
			if m.cap.form.Answers == "" {
				return m, m.setNotice("Type an answer before sending", true)
			}
			m.busy = true
			m.busyOp = "clarifying"
			m.answerInput.Blur()
			m.focus = focusFields
			return m, m.clarifyCmd()
		default:
			var cmd tea.Cmd
			m.answerInput, cmd = m.answerInput.Update(msg)
			return m, cmd
		}
	}

	switch key {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(fieldOrder)-1 {
			m.cursor++
		}
	case "enter", "e":
		field := fieldOrder[m.cursor]
		m.editingField = field
		m.fieldInput.SetValue(draft.Get(m.cap.form.Idea, field))
		m.focus = focusEditor
		return m, m.fieldInput.Focus()
	case "a":
		if len(m.cap.form.Questions) == 0 {
			return m, m.setNotice("No open questions to answer", false)
		}
		m.answerInput.SetValue(m.cap.form.Answers)
		m.focus = focusAnswers
		return m, m.answerInput.Focus()
	case "s":
		if m.busy {
			return m, nil
		}
		if missing := m.cap.form.Validate(); len(missing) > 0 {
			beep.PlayError()
			return m, m.setNotice("Cannot submit, still missing: "+strings.Join(missing, ", "), true)
		}
		m.busy = true
		m.busyOp = "submitting"
		return m, m.submitCmd()
	case "w":
		if len(m.cap.clip) == 0 {
			return m, m.setNotice("No audio to save", false)
		}
		return m, saveClipCmd(m.cap.clipName, m.cap.clip)
	case "n":
		m.resetCapture()
		return m, nil
	}
	return m, nil
}

func (m model) handleDoneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "y":
		return m, copyCmd(m.cap.submitID)
	case "n", "enter":
		m.resetCapture()
		return m, nil
	}
	return m, nil
}

// --- view ---

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("voxidea — voice idea intake") + "\n")
	b.WriteString(m.deviceLine() + "\n\n")

	switch m.screen {
	case screenInput:
		b.WriteString(m.viewInput())
	case screenReview:
		b.WriteString(m.viewReview())
	case screenDone:
		b.WriteString(m.viewDone())
	}

	if m.busy {
		b.WriteString("\n" + m.styles.status.Render(spinnerFrame()+" "+m.busyOp+"...") + "\n")
	}
	if m.notice != "" {
		style := m.styles.ok
		if m.noticeErr {
			style = m.styles.fail
		}
		b.WriteString("\n" + style.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + m.helpLine())
	return b.String()
}

func spinnerFrame() string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧"}
	return frames[time.Now().UnixMilli()/120%int64(len(frames))]
}

func (m model) deviceLine() string {
	name := "system default"
	suffix := ""
	if m.device != nil {
		name = m.device.Name
		if audio.IsBluetooth(m.device.Name) {
			suffix = " (BT!)"
		}
	}
	return m.styles.dim.Render("mic: " + name + suffix)
}

func (m model) viewInput() string {
	var b strings.Builder

	var tabs []string
	for _, mode := range modeOrder {
		if mode == m.mode {
			tabs = append(tabs, m.styles.tabOn.Render(mode.Label()))
		} else {
			tabs = append(tabs, m.styles.tab.Render(mode.Label()))
		}
	}
	b.WriteString(strings.Join(tabs, m.styles.dim.Render("  │  ")) + "\n\n")

	switch m.mode {
	case modeRecord:
		if m.recording {
			b.WriteString(m.styles.rec.Render(fmt.Sprintf("● REC %ds", m.elapsed)) + "\n")
			b.WriteString(renderLevelBar(m.level, 30) + "\n")
			if m.elapsed >= 1 && m.peak < 0.02 {
				b.WriteString(m.styles.warn.Render("⚠ no voice detected") + "\n")
			}
		} else {
			b.WriteString(m.styles.dim.Render("○ STANDBY") + "\n")
		}
	case modeUpload:
		b.WriteString(m.pathInput.View() + "\n")
	case modeText:
		b.WriteString(m.textInput.View() + "\n")
	}

	if len(m.recent) > 0 {
		b.WriteString("\n" + m.styles.dim.Render("Recent submissions:") + "\n")
		for _, sub := range m.recent {
			line := fmt.Sprintf("  %s  %s", sub.SubmittedAt.Format("Jan 02 15:04"), sub.Title)
			b.WriteString(m.styles.dim.Render(line) + "\n")
		}
	}

	return b.String()
}

func renderLevelBar(level float64, width int) string {
	filled := int(level * 3 * float64(width))
	if filled > width {
		filled = width
	}
	color := "78"
	if level > 0.25 {
		color = "208"
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(bar)
}

func statusGlyph(meta draft.FieldMeta, s styles) string {
	switch meta.Status {
	case draft.StatusConfirmed:
		return s.ok.Render("✓")
	case draft.StatusGuessed:
		return s.warn.Render("~")
	default:
		return s.fail.Render("✗")
	}
}

func truncate(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}

func (m model) viewReview() string {
	var b strings.Builder

	pct := draft.Completeness(m.cap.form.Idea)
	barWidth := 24
	filled := pct * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	barStyle := m.styles.warn
	if pct == 100 {
		barStyle = m.styles.ok
	}
	b.WriteString(barStyle.Render(bar) + m.styles.dim.Render(fmt.Sprintf(" %d%% complete", pct)) + "\n\n")

	valueWidth := m.width - 30
	if valueWidth < 20 {
		valueWidth = 20
	}
	required := make(map[string]bool, len(draft.RequiredFields))
	for _, f := range draft.RequiredFields {
		required[f] = true
	}
	for i, field := range fieldOrder {
		meta := m.cap.form.Status(field)
		value := draft.Get(m.cap.form.Idea, field)
		display := truncate(value, valueWidth)
		if value == "" {
			display = m.styles.dim.Render("(empty)")
		} else {
			display = m.styles.value.Render(display)
		}
		label := fmt.Sprintf("%-18s", draft.Label(field))
		conf := ""
		if meta.Status == draft.StatusGuessed {
			conf = m.styles.dim.Render(fmt.Sprintf(" (%.0f%%)", meta.Confidence*100))
		}
		glyph := statusGlyph(meta, m.styles)
		if !required[field] && meta.Status == draft.StatusMissing {
			glyph = m.styles.dim.Render("·")
		}
		line := fmt.Sprintf("%s %s %s%s", glyph, label, display, conf)
		if m.focus == focusFields && i == m.cursor {
			line = m.styles.selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")

		if m.focus == focusEditor && m.editingField == field {
			b.WriteString("\n" + m.fieldInput.View() + "\n")
			b.WriteString(m.styles.dim.Render("  ctrl+d save · esc cancel") + "\n\n")
		}
	}

	if len(m.cap.form.Questions) > 0 {
		b.WriteString("\n" + m.styles.warn.Render("The backend needs clarification:") + "\n")
		for _, q := range m.cap.form.Questions {
			b.WriteString("  " + m.styles.value.Render("· "+q) + "\n")
		}
		if m.focus == focusAnswers {
			b.WriteString("\n" + m.answerInput.View() + "\n")
			b.WriteString(m.styles.dim.Render("  ctrl+d send answers · esc cancel") + "\n")
		}
	}

	if m.cap.transcript != "" && m.cap.clipName != "" {
		b.WriteString("\n" + m.styles.dim.Render(fmt.Sprintf("from %s [%s]: %s",
			m.cap.clipName, m.cap.language, truncate(m.cap.transcript, 70))) + "\n")
	}

	return b.String()
}

func (m model) viewDone() string {
	var b strings.Builder
	b.WriteString(m.styles.ok.Render("✓ Idea submitted") + "\n\n")
	b.WriteString("  ID: " + m.styles.selected.Render(m.cap.submitID))
	if m.copied {
		b.WriteString(m.styles.dim.Render("  (copied)"))
	}
	b.WriteString("\n  Title: " + m.styles.value.Render(m.cap.form.Idea.Title) + "\n")
	return b.String()
}

func (m model) helpLine() string {
	var parts []string
	switch m.screen {
	case screenInput:
		parts = append(parts, "tab switch mode")
		switch m.mode {
		case modeRecord:
			if m.recording {
				parts = append(parts, "space stop")
			} else {
				parts = append(parts, "space record")
			}
		case modeUpload:
			parts = append(parts, "enter upload")
		case modeText:
			parts = append(parts, "ctrl+d extract")
		}
	case screenReview:
		switch m.focus {
		case focusFields:
			parts = append(parts, "↑/↓ select", "e edit", "a answer", "s submit", "n start over")
			if len(m.cap.clip) > 0 {
				parts = append(parts, "w save audio")
			}
		default:
			parts = append(parts, "ctrl+d done", "esc cancel")
		}
	case screenDone:
		parts = append(parts, "y copy id", "n new idea")
	}
	parts = append(parts, "ctrl+t theme", "ctrl+c quit")
	return m.styles.dim.Render(strings.Join(parts, " · "))
}
