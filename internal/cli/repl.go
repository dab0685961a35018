// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatdeck/internal/config"
	"github.com/jeranaias/chatdeck/internal/export"
	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/session"
	"github.com/jeranaias/chatdeck/internal/storage"
	"github.com/jeranaias/chatdeck/internal/ui/styles"
	"github.com/jeranaias/chatdeck/internal/util"
)

const (
	replPrompt      = "chatdeck> "
	replHistoryFile = "repl_history"
)

func newREPLCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Chat line by line without the full-screen interface",
		Long: `Chat line by line without the full-screen interface.

Lines are sent as prompts to the current conversation. Commands start
with a slash; type /help to list them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			line := newLineEditor()
			defer line.Close()

			r := &repl{
				in:    line,
				out:   newOutput(cmd.OutOrStdout()),
				mgr:   a.session(a.responder()),
				prefs: a.prefs,
				now:   time.Now,
			}
			return r.run(cmd.Context())
		},
	}
}

// =============================================================================
// LINE EDITING
// =============================================================================

// lineReader is the part of liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// lineEditor wraps liner with a persistent history file.
type lineEditor struct {
	*liner.State
	historyFile string
}

func newLineEditor() *lineEditor {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	e := &lineEditor{State: state, historyFile: filepath.Join(dir, replHistoryFile)}

	if f, err := os.Open(e.historyFile); err == nil {
		e.ReadHistory(f)
		f.Close()
	}
	return e
}

// Close saves history with owner-only permissions and restores the terminal.
func (e *lineEditor) Close() error {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(e.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			e.WriteHistory(f)
			f.Close()
		}
	}
	return e.State.Close()
}

// =============================================================================
// LOOP
// =============================================================================

// repl reads prompts and commands until the input ends or /quit.
type repl struct {
	in    lineReader
	out   *output
	mgr   *session.Manager
	prefs *storage.PreferenceStore
	now   func() time.Time
}

func (r *repl) run(ctx context.Context) error {
	r.mgr.Start()
	r.printHeader()

	for {
		input, err := r.in.Prompt(replPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				r.out.println()
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.in.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if !r.command(input) {
				return nil
			}
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return nil
		}

		if err := r.send(ctx, input); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			r.out.warnf("%v", err)
		}
	}
}

func (r *repl) printHeader() {
	current := r.mgr.Current()
	r.out.printf("%s %s\n", r.out.title.Render(current.Title), r.out.dim.Render("("+util.Pluralize(current.MessageCount(), "message")+")"))
	r.out.println(r.out.dim.Render("Type /help for commands, /quit to leave."))
}

// send submits a prompt and waits out the responder delay before the reply.
func (r *repl) send(ctx context.Context, prompt string) error {
	if _, err := r.mgr.Submit(prompt); err != nil {
		return err
	}
	r.warnIfUnsaved()

	r.out.println(r.out.dim.Render(styles.ThinkingSpinner.Frames[0] + " thinking..."))
	timer := time.NewTimer(r.mgr.ReplyDelay())
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	reply, err := r.mgr.Respond()
	if err != nil {
		return err
	}
	r.warnIfUnsaved()
	r.out.println(strings.TrimRight(r.out.markdown(reply.Content, r.prefs.Theme()), "\n"))
	return nil
}

func (r *repl) warnIfUnsaved() {
	if r.mgr.StorageStatus().Outcome == storage.OutcomeWriteFailed {
		r.out.warnf("Changes could not be saved")
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

const replHelp = `Commands:
  /new               start a new conversation
  /list              list conversations, newest first
  /switch <n|id>     switch to a conversation by list number or ID
  /rename <title>    rename the current conversation
  /delete            delete the current conversation
  /history           print the current conversation
  /theme [mode]      show or set the theme (dark, light, system)
  /quit              leave`

// command runs a slash command and reports whether the loop continues.
func (r *repl) command(input string) bool {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/quit", "/exit", "/q":
		return false

	case "/help", "/?":
		r.out.println(replHelp)

	case "/new":
		conv := r.mgr.NewConversation()
		r.out.successf("Started %s", conv.ID)

	case "/list":
		r.out.printf("%s", r.listing())

	case "/switch":
		r.switchTo(arg)

	case "/rename":
		if err := r.mgr.Rename(r.mgr.Current().ID, arg); err != nil {
			r.out.warnf("%v", err)
			return true
		}
		r.out.successf("Renamed to %q", r.mgr.Current().Title)

	case "/delete":
		current := r.mgr.Current()
		if err := r.mgr.Delete(current.ID); err != nil {
			r.out.warnf("%v", err)
			return true
		}
		r.out.successf("Deleted %q", current.Title)
		r.printHeader()

	case "/history":
		r.out.printf("%s", r.out.markdown(export.Markdown(r.mgr.Current()), r.prefs.Theme()))

	case "/theme":
		r.setTheme(arg)

	default:
		r.out.warnf("Unknown command %s (try /help)", name)
	}
	return true
}

// listing numbers conversations newest first; /switch accepts the numbers.
func (r *repl) listing() string {
	convs := storage.SortByRecent(r.mgr.Conversations())
	if len(convs) == 0 {
		return "No conversations found.\n"
	}

	currentID := r.mgr.Current().ID
	var sb strings.Builder
	for i, c := range convs {
		marker := "  "
		if c.ID == currentID {
			marker = "* "
		}
		sb.WriteString(marker + util.PadRight(strconv.Itoa(i+1)+".", 4) +
			util.TruncateWidth(util.SingleLine(c.Title), 50) + "  " +
			r.out.dim.Render(util.FormatRelativeTime(c.UpdatedAt, r.now())+", "+util.Pluralize(c.MessageCount(), "message")) + "\n")
	}
	return sb.String()
}

func (r *repl) switchTo(arg string) {
	if arg == "" {
		r.out.warnf("Usage: /switch <n|id>")
		return
	}

	id := arg
	if n, err := strconv.Atoi(arg); err == nil {
		convs := storage.SortByRecent(r.mgr.Conversations())
		if n < 1 || n > len(convs) {
			r.out.warnf("No conversation number %d", n)
			return
		}
		id = convs[n-1].ID
	}

	if err := r.mgr.Select(id); err != nil {
		r.out.warnf("%v: %s", err, id)
		return
	}
	r.printHeader()
	if last, ok := r.mgr.Current().LastMessage(); ok {
		r.out.printf("%s %s\n", r.out.label.Render(last.Role.DisplayName()+":"), last.Preview(model.PreviewLength))
	}
}

func (r *repl) setTheme(arg string) {
	if arg == "" {
		r.out.println(r.prefs.Theme().String())
		return
	}
	mode, err := styles.ParseMode(arg)
	if err != nil {
		r.out.warnf("%v", err)
		return
	}
	r.prefs.SetTheme(mode)
	r.out.successf("Theme set to %s", mode)
}
