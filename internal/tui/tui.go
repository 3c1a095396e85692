package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mdpad/internal/fsx"
	"mdpad/internal/lifecycle"
	"mdpad/internal/logx"
	"mdpad/internal/markdown"
	"mdpad/internal/session"
	"mdpad/internal/state"
	"mdpad/internal/tui/util"
	"mdpad/internal/tui/views/alert"
	"mdpad/internal/tui/widgets/diff"
	"mdpad/internal/tui/widgets/editor"
	"mdpad/internal/tui/widgets/helpoverlay"
	"mdpad/internal/tui/widgets/statusbar"
	"mdpad/internal/tui/widgets/tagchips"
)

const (
	helpWidth   = 34
	chromeLines = 3 // header + status + key help
)

// Config wires the TUI to an already constructed session.
type Config struct {
	Session     *session.Controller
	Hub         *lifecycle.Hub
	Renderer    markdown.Renderer
	Log         *logx.Logger
	StartDir    string
	Extensions  []string
	LineNumbers bool
	NoColor     bool
	WrapWidth   int // 0 = terminal width

	Open string // file opened at start
	New  bool   // create a new file at start

	// Signals are OS notifications treated as the app leaving the
	// foreground. They are forwarded into the event loop, never handled on
	// the signal goroutine.
	Signals <-chan os.Signal
	// SignalAction maps a received signal to what happens after the
	// background autosave.
	SignalAction func(os.Signal) After
}

// After is what the shell does once a background event has been handled.
type After int

const (
	Stay After = iota
	Quit
)

// BackgroundMsg reports that the app is leaving the foreground.
type BackgroundMsg struct {
	Reason string
	Then   After
}

// Run shows the editor until the user quits.
func Run(cfg Config) error {
	m := newModel(cfg)
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}
	if cfg.Signals != nil {
		opts = append(opts, tea.WithoutSignalHandler())
	}
	p := tea.NewProgram(m, opts...)
	done := make(chan struct{})
	defer close(done)
	if cfg.Signals != nil {
		go forwardSignals(p.Send, cfg.Signals, cfg.SignalAction, done)
	}
	_, err := p.Run()
	m.ctrl.Close()
	return err
}

// forwardSignals sends each signal into the event loop until done closes.
func forwardSignals(send func(tea.Msg), signals <-chan os.Signal, action func(os.Signal) After, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			then := Quit
			if action != nil {
				then = action(sig)
			}
			send(BackgroundMsg{Reason: sig.String(), Then: then})
		}
	}
}

// ===== Model =====

type model struct {
	ctrl     *session.Controller
	hub      *lifecycle.Hub
	renderer markdown.Renderer
	log      *logx.Logger

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	editor   textarea.Model
	buf      *editor.Buffer
	picker   filepicker.Model
	chrome   statusbar.StatusBar
	panel    helpoverlay.HelpOverlay
	diffView diff.DiffView

	startDir   string
	extensions []string
	noColor    bool
	wrapWidth  int

	picking  bool
	showDiff bool
	styled   bool // last projection was rendered markdown
	quitting bool
	initCmds []tea.Cmd
}

func newModel(cfg Config) *model {
	m := &model{
		ctrl:       cfg.Session,
		hub:        cfg.Hub,
		renderer:   cfg.Renderer,
		log:        cfg.Log,
		keys:       newKeyMap(),
		help:       help.New(),
		viewport:   viewport.New(0, 0),
		editor:     editor.New(cfg.LineNumbers),
		chrome:     statusbar.NewStatusBar(),
		panel:      helpoverlay.NewHelpOverlay(),
		diffView:   diff.NewDiffView(util.NoColor(cfg.NoColor)),
		startDir:   cfg.StartDir,
		extensions: cfg.Extensions,
		noColor:    util.NoColor(cfg.NoColor),
		wrapWidth:  cfg.WrapWidth,
	}
	if m.hub == nil {
		m.hub = lifecycle.NewHub()
	}
	if m.renderer == nil {
		m.renderer = markdown.Plain{}
	}
	m.ctrl.Attach(m.hub)

	switch {
	case cfg.Open != "":
		m.ctrl.SelectFile(fsx.NewRef(cfg.Open))
	case cfg.New:
		_ = m.ctrl.CreateNewFile()
		if cmd := m.afterFileChange(); cmd != nil {
			m.initCmds = append(m.initCmds, cmd)
		}
	default:
		m.initCmds = append(m.initCmds, m.openPicker())
	}
	m.refresh()
	return m
}

func (m *model) Init() tea.Cmd { return tea.Batch(m.initCmds...) }

// Update handles all TUI interactions.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ctrl.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.refresh()
		if m.picking {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.BlurMsg:
		m.background("focus lost")
		return m, nil

	case tea.FocusMsg:
		m.hub.Publish(lifecycle.Event{Kind: lifecycle.Foreground, Reason: "focus"})
		return m, nil

	case tea.ResumeMsg:
		m.hub.Publish(lifecycle.Event{Kind: lifecycle.Foreground, Reason: "resume"})
		m.refresh()
		return m, nil

	case BackgroundMsg:
		m.background(msg.Reason)
		if msg.Then == Quit {
			return m, m.quit()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.ctrl.State()

	if key.Matches(msg, m.keys.Quit) {
		m.background("quit")
		return m, m.quit()
	}

	// The creation alert is modal.
	if st.CreationError {
		if key.Matches(msg, m.keys.Dismiss) {
			m.ctrl.DismissCreationError()
		}
		return m, nil
	}

	if m.picking {
		if key.Matches(msg, m.keys.Cancel) {
			m.picking = false
			m.refresh()
			return m, nil
		}
		return m.forward(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Suspend):
		m.background("suspend")
		return m, tea.Suspend

	case key.Matches(msg, m.keys.Open):
		return m, m.openPicker()

	case key.Matches(msg, m.keys.New):
		_ = m.ctrl.CreateNewFile()
		return m, m.afterFileChange()

	case key.Matches(msg, m.keys.Edit):
		return m, m.toggleEditing()

	case key.Matches(msg, m.keys.Help):
		m.ctrl.ToggleHelp()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if err := m.ctrl.Save(); err == nil {
			m.ctrl.Notify("Saved")
		}
		return m, nil

	case key.Matches(msg, m.keys.Diff):
		m.showDiff = !m.showDiff
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if err := clipboard.WriteAll(m.ctrl.Text()); err != nil {
			m.log.Infof("clipboard", "copy failed: %v", err)
		} else {
			m.ctrl.Notify("Copied to clipboard")
		}
		return m, nil

	case key.Matches(msg, m.keys.Close):
		m.background("quit")
		return m, m.quit()
	}

	if m.showDiff {
		if msg.Type == tea.KeyEsc {
			m.showDiff = false
		}
		return m, nil
	}
	return m.forward(msg)
}

// forward hands msg to whichever bubble currently owns the body.
func (m *model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.picking:
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.picking = false
			m.ctrl.SelectFile(fsx.NewRef(path))
			return m, tea.Batch(cmd, m.afterFileChange())
		}
		if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
			m.ctrl.Notify("Not a text file: " + path)
		}
	case m.ctrl.State().Mode == state.Editing:
		m.editor, cmd = m.editor.Update(msg)
		if m.buf.Apply(m.editor.Value()) {
			m.ctrl.SetText(m.buf.Raw())
			m.ctrl.Notify("")
		}
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *model) toggleEditing() tea.Cmd {
	if m.ctrl.State().Mode == state.Viewing {
		if !m.ctrl.CanEdit() {
			return nil
		}
		if !m.loadEditor() {
			m.ctrl.Notify(errTooLarge)
			return nil
		}
		m.ctrl.ToggleEditing()
		m.showDiff = false
		m.refresh()
		return m.editor.Focus()
	}
	m.ctrl.ToggleEditing()
	m.showDiff = false
	m.editor.Blur()
	m.refresh()
	return nil
}

const errTooLarge = "Document is too large for the editor"

// loadEditor puts the document into the textarea. It reports false when the
// textarea cannot hold all of it, in which case editing must not start.
func (m *model) loadEditor() bool {
	m.buf = editor.NewBuffer(m.ctrl.Text())
	m.editor.SetValue(m.buf.Shown())
	return m.editor.Value() == m.buf.Shown()
}

// afterFileChange resyncs the bubbles after the document was replaced.
func (m *model) afterFileChange() tea.Cmd {
	m.showDiff = false
	m.viewport.GotoTop()
	if m.ctrl.State().Mode == state.Editing && !m.loadEditor() {
		m.ctrl.ToggleEditing()
		m.ctrl.Notify(errTooLarge)
	}
	m.refresh()
	if m.ctrl.State().Mode == state.Editing {
		return m.editor.Focus()
	}
	m.editor.Blur()
	return nil
}

func (m *model) background(reason string) {
	m.log.Debugf("lifecycle", "background: %s", reason)
	m.hub.Publish(lifecycle.Event{Kind: lifecycle.Background, Reason: reason})
}

func (m *model) quit() tea.Cmd {
	m.quitting = true
	m.ctrl.Close()
	return tea.Quit
}

func (m *model) openPicker() tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = m.extensions
	if m.startDir != "" {
		fp.CurrentDirectory = m.startDir
	} else if ref, ok := m.ctrl.Ref(); ok {
		fp.CurrentDirectory = filepath.Dir(ref.Path)
	}
	m.picker = fp
	m.picking = true
	cmds := []tea.Cmd{m.picker.Init()}
	if st := m.ctrl.State(); st.Height > 0 {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(tea.WindowSizeMsg{Width: st.Width, Height: st.Height})
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// refresh recomputes the projection and bubble sizes from current state.
func (m *model) refresh() {
	st := m.ctrl.State()
	bodyH := st.Height - chromeLines
	if bodyH < 1 {
		bodyH = 1
	}

	if st.Mode == state.Viewing {
		if ws, ok := m.renderer.(interface{ SetWidth(int) }); ok {
			w := m.wrapWidth
			if w <= 0 {
				w = st.Width
			}
			ws.SetWidth(w)
		}
		v := markdown.Project(state.Viewing, m.ctrl.Text(), m.renderer)
		m.styled = v.Styled
		m.viewport.Width = st.Width
		m.viewport.Height = bodyH
		m.viewport.SetContent(v.Text)
	} else {
		w := st.Width
		if st.Help {
			w -= helpWidth
		}
		editor.Resize(&m.editor, w, bodyH)
	}
	m.syncKeys()
}

func (m *model) syncKeys() {
	st := m.ctrl.State()
	editing := st.Mode == state.Editing
	m.keys.Edit.SetEnabled(m.ctrl.CanEdit())
	m.keys.Help.SetEnabled(editing)
	m.keys.Save.SetEnabled(editing)
	m.keys.Diff.SetEnabled(editing)
	m.keys.Close.SetEnabled(!editing)
	if editing {
		m.keys.Edit.SetHelp("ctrl+e", "view")
	} else {
		m.keys.Edit.SetHelp("ctrl+e", "edit")
	}
}

// ===== Views =====

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			PaddingLeft(1).
			Width(helpWidth - 2)
)

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	st := m.ctrl.State()
	ref, hasFile := m.ctrl.Ref()

	header := titleStyle.Render("mdpad")
	if hasFile {
		header += "  " + faintStyle.Render(ref.Path)
	}

	var body string
	switch {
	case st.CreationError:
		body = alert.Render(st.Width, st.Height-chromeLines, m.noColor)
	case m.picking:
		body = "Open a file  " + faintStyle.Render("(enter: open, q: cancel)") + "\n" + m.picker.View()
	case st.Mode == state.Editing && m.showDiff:
		body = m.diffView.View(m.ctrl.Baseline(), m.ctrl.Text())
	case st.Mode == state.Editing:
		body = m.editor.View()
		if st.Help {
			keys := m.help.FullHelpView(m.keys.FullHelp())
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, panelStyle.Render(m.panel.View(keys)))
		}
	case !hasFile:
		body = "\n  No file open. Press ctrl+o to open one or ctrl+n to start a new note.\n"
	default:
		body = m.viewport.View()
	}

	tags := util.ComputeTags(m.ctrl.Text(), m.ctrl.Baseline(), st.Mode, m.styled, hasFile)
	status := m.chrome.View(st, ref.Name, tagchips.View(tags, m.noColor))

	return strings.Join([]string{header, body, status, m.help.View(m.keys)}, "\n")
}
