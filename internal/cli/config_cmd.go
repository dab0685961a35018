// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatdeck/internal/config"
)

const redacted = "[REDACTED]"

// secretKeys are printed redacted by config get.
var secretKeys = map[string]bool{
	"storage.redis_password": true,
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Long: `View and modify configuration.

Without a subcommand the effective configuration is shown, including
environment and flag overrides. set and init edit the config file only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, flags)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfig(cmd, flags)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := flags.configFilePath()
				if err != nil {
					return err
				}
				newOutput(cmd.OutOrStdout()).println(path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List configuration keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out := newOutput(cmd.OutOrStdout())
				for _, key := range config.GetAllKeys() {
					out.println(key)
				}
				return nil
			},
		},
		newConfigGetCmd(flags),
		newConfigSetCmd(flags),
		newConfigInitCmd(flags),
	)
	return cmd
}

func showConfig(cmd *cobra.Command, flags *globalFlags) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	newOutput(cmd.OutOrStdout()).printf("%s", cfg.String())
	return nil
}

func newConfigGetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			value, err := cfg.Get(args[0])
			if err != nil {
				return usageErrorf("%v", err)
			}

			out := newOutput(cmd.OutOrStdout())
			if secretKeys[strings.ToLower(args[0])] && fmt.Sprint(value) != "" {
				out.println(redacted)
				return nil
			}
			out.println(fmt.Sprint(value))
			return nil
		},
	}
}

func newConfigSetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in the config file",
		Example: `  chatdeck config set storage.backend sqlite
  chatdeck config set ui.theme dark
  chatdeck config set ui.response_delay_ms 500`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := flags.configFilePath()
			if err != nil {
				return err
			}

			cfg, err := readConfigFile(path)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return usageErrorf("%v", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			if err := config.SaveTo(cfg, path); err != nil {
				return err
			}

			value := args[1]
			if secretKeys[strings.ToLower(args[0])] {
				value = redacted
			}
			newOutput(cmd.OutOrStdout()).successf("Set %s = %s", args[0], value)
			return nil
		},
	}
}

func newConfigInitCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := flags.configFilePath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return usageErrorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveTo(config.Default(), path); err != nil {
				return err
			}
			newOutput(cmd.OutOrStdout()).successf("Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// readConfigFile returns the file's settings, or the defaults when the
// file does not exist yet.
func readConfigFile(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.ReadFile(path)
}
