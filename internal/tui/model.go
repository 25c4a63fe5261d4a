// Package tui is the terminal front end. It forwards every user action
// to the workflow controller and renders the controller's snapshot.
package tui

import (
	"context"
	"os"
	"strings"

	"clipcast/internal/config"
	"clipcast/internal/errors"
	"clipcast/internal/log"
	"clipcast/internal/qr"
	"clipcast/internal/selection"
	"clipcast/internal/tui/common"
	"clipcast/internal/tui/components"
	"clipcast/internal/tui/messages"
	"clipcast/internal/tui/styles"
	"clipcast/internal/tui/views"
	"clipcast/pkg/types"
	"clipcast/pkg/workflow"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type Model struct {
	ctrl  *workflow.Controller
	cfg   *config.Config
	theme styles.Theme
	keys  keyMap
	help  help.Model

	text   textarea.Model
	paths  textinput.Model
	status *components.StatusBar
	files  *components.FileList
	qr     *components.QROverlay

	// browser is the open file picker, if any; picked holds the paths it
	// returned until the path input is edited
	browser *components.FileTree
	picked  []string

	focus        common.Focus
	snap         workflow.Snapshot
	selectionErr string
	showFullHelp bool
	width        int
}

// New creates the model. A nil cfg uses the defaults.
func New(ctrl *workflow.Controller, cfg *config.Config) *Model {
	if cfg == nil {
		cfg = config.New()
	}
	theme := styles.FromConfig(cfg)

	renderer, err := qr.NewFromConfig(cfg)
	if err != nil {
		log.LogWithError(err).Warn("falling back to default QR colours")
		renderer = qr.New()
	}

	ta := textarea.New()
	ta.Placeholder = "Type or paste text..."
	ta.ShowLineNumbers = false
	ta.SetWidth(56)
	ta.SetHeight(4)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "Paths or globs, separated by spaces"
	ti.Width = 54

	return &Model{
		ctrl:   ctrl,
		cfg:    cfg,
		theme:  theme,
		keys:   defaultKeyMap(),
		help:   help.New(),
		text:   ta,
		paths:  ti,
		status: components.NewStatusBar(theme),
		files:  components.NewFileList(theme, cfg.Upload.MaxBytes),
		qr:     components.NewQROverlay(renderer, theme),
		focus:  common.FocusText,
		snap:   ctrl.Snapshot(),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m, m.theme)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		cmd = m.handleKeyMsg(msg)
	case messages.ClipboardMsg:
		m.status.SetLoading(false)
		m.status.SetText("")
		if msg.Err == nil {
			m.text.SetValue(m.ctrl.Snapshot().Text)
		}
	case messages.BrowseMsg:
		m.browser = nil
		if !msg.Cancelled && len(msg.Paths) > 0 {
			m.picked = msg.Paths
			m.paths.SetValue(strings.Join(msg.Paths, " "))
			m.selectionErr = ""
		}
	case messages.SelectionMsg:
		cmd = m.handleSelection(msg)
	case messages.UploadMsg:
		m.status.SetLoading(false)
		m.status.SetText("")
		if msg.Err == nil {
			m.paths.Blur()
		}
	case messages.ErrorMsg:
		m.status.SetText(m.theme.Error.Render(msg.Err.Error()))
	default:
		cmd = m.status.Update(msg)
		if cmd == nil {
			cmd = m.updateFocused(msg)
		}
	}

	m.snap = m.ctrl.Snapshot()
	return m, cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showFullHelp = !m.showFullHelp
		m.help.ShowAll = m.showFullHelp
		return nil
	case key.Matches(msg, m.keys.Reset):
		return m.reset()
	}

	snap := m.ctrl.Snapshot()
	if snap.View() == types.ViewDisplaying {
		if key.Matches(msg, m.keys.Dismiss) {
			return m.reset()
		}
		// Cards are disabled while the QR code is shown
		return nil
	}
	if snap.Loading {
		return nil
	}
	if m.browser != nil {
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.SwitchCard):
		return m.switchFocus()
	case key.Matches(msg, m.keys.Paste):
		m.status.SetText("Reading clipboard...")
		return m.pasteCmd()
	case key.Matches(msg, m.keys.Submit):
		if m.focus == common.FocusText {
			return m.generateText()
		}
		return m.selectCmd()
	case m.focus == common.FocusFiles && key.Matches(msg, m.keys.Upload):
		return m.selectCmd()
	case m.focus == common.FocusFiles && key.Matches(msg, m.keys.Browse):
		return m.openBrowser()
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused input and mirrors the text
// card into the controller
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == common.FocusText {
		before := m.text.Value()
		m.text, cmd = m.text.Update(msg)
		if after := m.text.Value(); after != before {
			if err := m.ctrl.SetText(after); err != nil {
				log.LogWithError(err).Debug("text change rejected")
			}
		}
		return cmd
	}

	before := m.paths.Value()
	m.paths, cmd = m.paths.Update(msg)
	if m.paths.Value() != before {
		m.selectionErr = ""
		m.picked = nil
	}
	return cmd
}

// openBrowser shows the file picker rooted at the working directory
func (m *Model) openBrowser() tea.Cmd {
	dir, err := os.Getwd()
	if err != nil {
		return errCmd(err)
	}
	tree, err := components.NewFileTree(m.theme, dir)
	if err != nil {
		return errCmd(err)
	}
	m.browser = tree
	return nil
}

func (m *Model) switchFocus() tea.Cmd {
	if m.focus == common.FocusText {
		m.focus = common.FocusFiles
		m.text.Blur()
		return m.paths.Focus()
	}
	m.focus = common.FocusText
	m.paths.Blur()
	return m.text.Focus()
}

func (m *Model) generateText() tea.Cmd {
	if err := m.ctrl.GenerateTextQR(); err != nil {
		if errors.IsValidation(err) {
			m.status.SetText(m.theme.Error.Render("Enter some text first."))
			return nil
		}
		return errCmd(err)
	}
	m.status.SetText("")
	return nil
}

func (m *Model) pasteCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return messages.ClipboardMsg{Err: ctrl.PasteFromClipboard(context.Background())}
	}
}

// selectCmd resolves the path input off the UI goroutine
func (m *Model) selectCmd() tea.Cmd {
	args := m.picked
	if args == nil {
		args = strings.Fields(m.paths.Value())
	}
	opts := selection.Options{
		Exclude:  m.cfg.Selection.Exclude,
		MaxBytes: m.cfg.Upload.MaxBytes,
	}
	gen := m.ctrl.Snapshot().Generation
	m.status.SetText("Reading files...")
	return func() tea.Msg {
		entries, err := selection.Load(args, opts)
		return messages.SelectionMsg{Entries: entries, Err: err, Generation: gen}
	}
}

func (m *Model) handleSelection(msg messages.SelectionMsg) tea.Cmd {
	if msg.Generation != m.ctrl.Snapshot().Generation {
		log.LogWithFields(log.F("files", len(msg.Entries))).Debug("selection discarded after reset")
		return nil
	}
	m.status.SetText("")
	if msg.Err != nil {
		m.selectionErr = msg.Err.Error()
		return nil
	}
	m.selectionErr = ""
	if err := m.ctrl.SelectFiles(msg.Entries); err != nil {
		return errCmd(err)
	}
	if len(msg.Entries) == 0 {
		// Rejected without a network call; the card shows the recorded message
		if err := m.ctrl.UploadAndGenerateFileQR(context.Background()); err != nil {
			log.LogWithError(err).Debug("empty selection rejected")
		}
		return nil
	}

	m.status.SetLoading(true)
	m.status.SetText("Uploading...")
	ctrl := m.ctrl
	upload := func() tea.Msg {
		return messages.UploadMsg{Err: ctrl.UploadAndGenerateFileQR(context.Background())}
	}
	return tea.Batch(upload, m.status.Tick)
}

func (m *Model) reset() tea.Cmd {
	m.ctrl.Reset()
	m.text.Reset()
	m.paths.Reset()
	m.browser = nil
	m.picked = nil
	m.selectionErr = ""
	m.status.SetLoading(false)
	m.status.SetText("")
	if m.focus == common.FocusText {
		return m.text.Focus()
	}
	return m.paths.Focus()
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return messages.ErrorMsg{Err: err}
	}
}

// Snapshot returns the controller state the view was last updated with
func (m *Model) Snapshot() workflow.Snapshot {
	return m.snap
}

func (m *Model) Focus() common.Focus {
	return m.focus
}

func (m *Model) TextInputView() string {
	return m.text.View()
}

func (m *Model) FileInputView() string {
	if m.browser != nil {
		return m.browser.View()
	}
	return m.paths.View() + "\n" + m.files.View(m.snap.Files)
}

func (m *Model) SelectionError() string {
	return m.selectionErr
}

func (m *Model) StatusView() string {
	return m.status.View()
}

func (m *Model) OverlayView() string {
	return m.qr.View(m.snap)
}

func (m *Model) HelpView() string {
	return m.help.View(m.keys)
}

func (m *Model) Notice() string {
	return m.cfg.Upload.Notice
}

// ShowHelp reports whether the full key help is shown
func (m *Model) ShowHelp() bool {
	return m.showFullHelp
}

// Run starts the terminal UI and blocks until the user quits
func Run(ctrl *workflow.Controller, cfg *config.Config) error {
	p := tea.NewProgram(New(ctrl, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
