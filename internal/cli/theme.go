// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatdeck/internal/ui/styles"
)

func newThemeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|system]",
		Short:     "Show or set the stored theme preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light", "system"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var mode styles.Mode
			if len(args) == 1 {
				parsed, err := styles.ParseMode(args[0])
				if err != nil {
					return usageErrorf("%v", err)
				}
				mode = parsed
			}

			a, err := openApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			out := newOutput(cmd.OutOrStdout())
			if len(args) == 0 {
				out.println(a.prefs.Theme().String())
				return nil
			}

			a.prefs.SetTheme(mode)
			if a.prefs.Theme() != mode {
				return ErrNotWritten
			}
			out.successf("Theme set to %s", mode)
			return nil
		},
	}
}
