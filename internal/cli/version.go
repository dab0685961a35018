// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(cmd.OutOrStdout())
			out.printf("chatdeck %s\n", Version)
			out.printf("  %s %s\n", out.label.Render("Commit:"), GitCommit)
			out.printf("  %s %s\n", out.label.Render("Built:"), BuildDate)
			out.printf("  %s %s %s/%s\n", out.label.Render("Go:"), runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
