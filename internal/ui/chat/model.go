// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/chatdeck/internal/session"
	"github.com/jeranaias/chatdeck/internal/storage"
	"github.com/jeranaias/chatdeck/internal/ui/styles"
	"github.com/jeranaias/chatdeck/internal/watch"
)

// DefaultRevealStep is how many characters each reveal frame adds.
const DefaultRevealStep = 6

// =============================================================================
// STATE TYPES
// =============================================================================

// Focus identifies the pane receiving keys.
type Focus int

const (
	FocusEditor Focus = iota
	FocusSidebar
)

// Dialog identifies the modal prompt currently shown, if any.
type Dialog int

const (
	DialogNone Dialog = iota
	DialogRename
	DialogDelete
)

// reveal tracks the typing animation of one reply.
type reveal struct {
	conversationID string
	messageID      string
	frames         []string
	index          int
}

// =============================================================================
// MODEL
// =============================================================================

// Deps holds the collaborators of the chat model.
type Deps struct {
	Session     *session.Manager
	Preferences *storage.PreferenceStore
	// Watcher is optional; without it the view only changes on local actions.
	Watcher *watch.Watcher
	Logger  zerolog.Logger

	// Subtitle is shown next to the title, e.g. the storage backend.
	Subtitle   string
	RevealStep int

	// NewTheme defaults to styles.NewTheme.
	NewTheme func(styles.Mode) *styles.Theme
	// Clipboard defaults to clipboard.WriteAll.
	Clipboard func(string) error
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the Bubble Tea model of the chat screen.
type Model struct {
	session   *session.Manager
	prefs     *storage.PreferenceStore
	watcher   *watch.Watcher
	logger    zerolog.Logger
	newTheme  func(styles.Mode) *styles.Theme
	clipboard func(string) error
	now       func() time.Time

	theme      *styles.Theme
	keys       KeyMap
	help       help.Model
	subtitle   string
	revealStep int

	// Components
	viewport viewport.Model
	editor   textarea.Model
	rename   textinput.Model
	spinner  spinner.Model
	markdown *markdownRenderer

	// UI state
	focus    Focus
	dialog   Dialog
	targetID string // conversation a dialog acts on
	reveal   *reveal

	status    string
	statusErr bool
	statusAt  time.Time

	width  int
	height int
	ready  bool
}

// New creates the chat model and starts the session.
func New(deps Deps) Model {
	if deps.NewTheme == nil {
		deps.NewTheme = styles.NewTheme
	}
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.RevealStep <= 0 {
		deps.RevealStep = DefaultRevealStep
	}

	mode := styles.DefaultMode
	if deps.Preferences != nil {
		mode = deps.Preferences.Theme()
	}
	theme := deps.NewTheme(mode)

	ed := textarea.New()
	ed.Placeholder = "Ask anything..."
	ed.ShowLineNumbers = false
	ed.CharLimit = 8000
	ed.SetHeight(editorLines)
	// Enter sends; newlines come from alt+enter.
	ed.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ed.Focus()

	ti := textinput.New()
	ti.Prompt = "Title: "
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = styles.ThinkingSpinner
	sp.Style = theme.Spinner

	deps.Session.Start()

	m := Model{
		session:    deps.Session,
		prefs:      deps.Preferences,
		watcher:    deps.Watcher,
		logger:     deps.Logger.With().Str("component", "tui").Logger(),
		newTheme:   deps.NewTheme,
		clipboard:  deps.Clipboard,
		now:        deps.Now,
		theme:      theme,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		subtitle:   deps.Subtitle,
		revealStep: deps.RevealStep,
		viewport:   viewport.New(80, 20),
		editor:     ed,
		rename:     ti,
		spinner:    sp,
		markdown:   &markdownRenderer{},
		focus:      FocusEditor,
	}
	m.applyThemeToComponents()
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink and the storage watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForChange(m.watcher))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case session.ReplyMsg:
		return m.handleReply(msg)

	case revealTickMsg:
		return m.handleRevealTick(msg)

	case StorageChangedMsg:
		return m.handleStorageChanged(msg)

	case clipboardMsg:
		if msg.err != nil {
			return m.setStatus("Copy failed: "+msg.err.Error(), true)
		}
		return m.setStatus("Copied reply to clipboard", false)

	case clearStatusMsg:
		if msg.set.Equal(m.statusAt) {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.session.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshViewport(false)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.dialog == DialogRename {
		m.rename, cmd = m.rename.Update(msg)
	} else {
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

// View renders the model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.render()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Focus returns the pane receiving keys.
func (m Model) Focus() Focus { return m.focus }

// Dialog returns the modal prompt being shown.
func (m Model) Dialog() Dialog { return m.dialog }

// Theme returns the active theme.
func (m Model) Theme() *styles.Theme { return m.theme }

// Status returns the status line text and whether it reports an error.
func (m Model) Status() (string, bool) { return m.status, m.statusErr }

// Revealing reports whether a reply is still being typed out.
func (m Model) Revealing() bool { return m.reveal != nil }

// EditorValue returns the text in the prompt editor.
func (m Model) EditorValue() string { return m.editor.Value() }
