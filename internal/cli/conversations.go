// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatdeck/internal/export"
	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/session"
	"github.com/jeranaias/chatdeck/internal/storage"
	"github.com/jeranaias/chatdeck/internal/util"
)

// Sort orders accepted by list and search.
const (
	sortStored = "stored"
	sortRecent = "recent"
)

// lookup returns the conversation with id or an error wrapping
// session.ErrNotFound.
func lookup(store *storage.ConversationStore, id string) (model.Conversation, error) {
	conv, ok := store.Get(id)
	if !ok {
		return model.Conversation{}, fmt.Errorf("%w: %s", session.ErrNotFound, id)
	}
	return conv, nil
}

func sortConversations(convs []model.Conversation, order string) ([]model.Conversation, error) {
	switch order {
	case sortStored, "":
		return convs, nil
	case sortRecent:
		return storage.SortByRecent(convs), nil
	default:
		return nil, usageErrorf("invalid sort %q, must be one of: %s, %s", order, sortStored, sortRecent)
	}
}

// =============================================================================
// LIST / SEARCH
// =============================================================================

func newListCmd(flags *globalFlags) *cobra.Command {
	var order string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored conversations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			convs, err := sortConversations(a.store.LoadAll(), order)
			if err != nil {
				return err
			}
			newOutput(cmd.OutOrStdout()).printf("%s", storage.FormatList(convs, time.Now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&order, "sort", sortStored, "order: stored or recent")
	return cmd
}

func newSearchCmd(flags *globalFlags) *cobra.Command {
	var order string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find conversations by title or message text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			convs, err := sortConversations(a.store.Search(strings.Join(args, " ")), order)
			if err != nil {
				return err
			}
			newOutput(cmd.OutOrStdout()).printf("%s", storage.FormatList(convs, time.Now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&order, "sort", sortStored, "order: stored or recent")
	return cmd
}

// =============================================================================
// SHOW / EXPORT
// =============================================================================

func newShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			conv, err := lookup(a.store, args[0])
			if err != nil {
				return err
			}
			out := newOutput(cmd.OutOrStdout())
			out.printf("%s", out.markdown(export.Markdown(conv), a.prefs.Theme()))
			return nil
		},
	}
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var (
		format  string
		outPath string
		outDir  string
		open    bool
		bare    bool
	)

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a conversation as Markdown, JSON or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath != "" && outDir != "" {
				return usageErrorf("--out and --dir cannot be used together")
			}
			if open && outPath == "" && outDir == "" {
				return usageErrorf("--open needs --out or --dir")
			}

			a, err := openApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := export.DefaultOptions()
			opts.IncludeMetadata = !bare
			opts.Theme = a.prefs.Theme()
			exporter, err := export.ForFormat(format, opts)
			if err != nil {
				return usageErrorf("%v", err)
			}

			conv, err := lookup(a.store, args[0])
			if err != nil {
				return err
			}

			out := newOutput(cmd.OutOrStdout())
			var path string
			switch {
			case outDir != "":
				path, err = export.ExportToFile(conv, exporter, outDir)
				if err != nil {
					return fmt.Errorf("failed to export conversation: %w", err)
				}
			case outPath != "":
				data, err := exporter.Export(conv)
				if err != nil {
					return fmt.Errorf("failed to export conversation: %w", err)
				}
				if err := util.AtomicWriteFile(outPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", outPath, err)
				}
				path = outPath
			default:
				data, err := exporter.Export(conv)
				if err != nil {
					return fmt.Errorf("failed to export conversation: %w", err)
				}
				out.printf("%s", data)
				if len(data) > 0 && data[len(data)-1] != '\n' {
					out.println()
				}
				return nil
			}

			out.successf("Exported %q to %s", conv.Title, path)
			if open {
				if err := export.Open(path); err != nil {
					out.warnf("Could not open %s: %v", path, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatMarkdown,
		"output format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVarP(&outDir, "dir", "d", "", "write into this directory with a generated file name")
	cmd.Flags().BoolVar(&open, "open", false, "open the exported file in the default application")
	cmd.Flags().BoolVar(&bare, "bare", false, "omit the metadata header and footer")
	return cmd
}

// =============================================================================
// NEW / SEND
// =============================================================================

func newNewCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "new [first message]",
		Short: "Create an empty conversation and print its ID",
		Long: `Create an empty conversation and print its ID.

The optional first message only sets the title; use send to add messages.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			conv := a.store.CreateNew(strings.Join(args, " "))
			a.store.Save(conv)
			if err := checkWritten(a.store); err != nil {
				return err
			}
			newOutput(cmd.OutOrStdout()).println(conv.ID)
			return nil
		},
	}
}

func newSendCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "send <id> <prompt>",
		Short: "Add a prompt to a conversation and print the reply",
		Long: `Add a prompt to a conversation and print the reply.

The reply is produced immediately; the response delay only applies to the
interactive interfaces.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := lookup(a.store, args[0]); err != nil {
				return err
			}
			mgr := a.session(a.responder())
			if err := mgr.Select(args[0]); err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}
			if _, err := mgr.Submit(strings.Join(args[1:], " ")); err != nil {
				return err
			}
			if err := checkWritten(a.store); err != nil {
				return err
			}
			reply, err := mgr.Respond()
			if err != nil {
				return err
			}
			if err := checkWritten(a.store); err != nil {
				return err
			}

			out := newOutput(cmd.OutOrStdout())
			out.println(strings.TrimRight(out.markdown(reply.Content, a.prefs.Theme()), "\n"))
			return nil
		},
	}
}

// =============================================================================
// RENAME / DELETE
// =============================================================================

func newRenameCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Change a conversation's title",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return session.ErrEmptyTitle
			}

			a, err := openApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := lookup(a.store, args[0]); err != nil {
				return err
			}
			a.store.UpdateTitle(args[0], title)
			if err := checkWritten(a.store); err != nil {
				return err
			}
			newOutput(cmd.OutOrStdout()).successf("Renamed %s to %q", args[0], title)
			return nil
		},
	}
}

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a conversation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			conv, err := lookup(a.store, args[0])
			if err != nil {
				return err
			}
			a.store.Delete(conv.ID)
			if err := checkWritten(a.store); err != nil {
				return err
			}
			newOutput(cmd.OutOrStdout()).successf("Deleted %q", conv.Title)
			return nil
		},
	}
}
