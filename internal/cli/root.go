// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatdeck/internal/config"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	backend    string
	dataDir    string
	logLevel   string
}

// NewRootCmd builds the chatdeck command tree. Each call returns a fresh
// tree with its own flag state.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "chatdeck",
		Short: "A terminal chat client with persistent conversation history",
		Long: `chatdeck keeps a history of chat conversations in a key-value store
(a directory of JSON files, SQLite or Redis) and lets you browse and continue
them from a full-screen terminal UI or from individual commands.

Run without a subcommand to open the terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadDotEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (default: ~/.chatdeck/config.toml)")
	pf.StringVar(&flags.backend, "backend", "", "storage backend: file, sqlite, redis or memory")
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory for the file backend")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug/info/warn/error/disabled)")

	root.AddCommand(
		newListCmd(flags),
		newShowCmd(flags),
		newNewCmd(flags),
		newSendCmd(flags),
		newRenameCmd(flags),
		newDeleteCmd(flags),
		newSearchCmd(flags),
		newExportCmd(flags),
		newREPLCmd(flags),
		newThemeCmd(flags),
		newConfigCmd(flags),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args and prints any error to
// stderr. The caller exits with ExitCode(err).
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		out := newOutput(os.Stderr)
		fmt.Fprintln(os.Stderr, out.err.Render("Error:")+" "+err.Error())
	}
	return err
}

// loadDotEnv reads .env from the working directory when present.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// loadConfig reads the config file named by --config, or the default one,
// then applies flag overrides. Flags win over environment variables.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFromPath(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if f.backend != "" {
		cfg.Storage.Backend = strings.ToLower(f.backend)
	}
	if f.dataDir != "" {
		cfg.Storage.DataDir = f.dataDir
	}
	if f.logLevel != "" {
		cfg.Log.Level = strings.ToLower(f.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// configFilePath returns the file config commands read and write.
func (f *globalFlags) configFilePath() (string, error) {
	if f.configPath != "" {
		return f.configPath, nil
	}
	return config.ConfigPath()
}
