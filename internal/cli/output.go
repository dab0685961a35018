// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/chatdeck/internal/ui/styles"
)

// output writes command results, styled only when the destination is a
// terminal.
type output struct {
	w      io.Writer
	styled bool
	width  int

	title   lipgloss.Style
	label   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	dim     lipgloss.Style
}

func newOutput(w io.Writer) *output {
	styled := colorsEnabled(w)

	r := lipgloss.NewRenderer(w)
	if !styled {
		r.SetColorProfile(termenv.Ascii)
	}

	return &output{
		w:       w,
		styled:  styled,
		width:   terminalWidth(w),
		title:   r.NewStyle().Bold(true).Foreground(styles.Purple),
		label:   r.NewStyle().Foreground(styles.TextSecondary),
		success: r.NewStyle().Foreground(styles.Emerald).Bold(true),
		warning: r.NewStyle().Foreground(styles.Amber),
		err:     r.NewStyle().Foreground(styles.Rose).Bold(true),
		dim:     r.NewStyle().Foreground(styles.TextMuted),
	}
}

func (o *output) println(a ...any) {
	fmt.Fprintln(o.w, a...)
}

func (o *output) printf(format string, a ...any) {
	fmt.Fprintf(o.w, format, a...)
}

func (o *output) successf(format string, a ...any) {
	fmt.Fprintln(o.w, o.success.Render(styles.StatusIndicators.Success)+" "+fmt.Sprintf(format, a...))
}

func (o *output) warnf(format string, a ...any) {
	fmt.Fprintln(o.w, o.warning.Render(styles.StatusIndicators.Warning)+" "+fmt.Sprintf(format, a...))
}

// markdown renders content with glamour on a terminal and returns it
// unchanged otherwise.
func (o *output) markdown(content string, mode styles.Mode) string {
	if !o.styled {
		return content
	}
	theme := styles.NewThemeFor(o.w, mode, termenv.HasDarkBackground())
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme.GlamourStyle()),
		glamour.WithWordWrap(o.width-2),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
