package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/abelbrown/flicksearch/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCommand(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "api_url          %s\n", cfg.APIURL)
			fmt.Fprintf(out, "debounce         %s\n", cfg.Debounce)
			fmt.Fprintf(out, "request_timeout  %s\n", cfg.RequestTimeout)
			fmt.Fprintf(out, "rate_limit       %v\n", cfg.RateLimit)
			fmt.Fprintf(out, "log_level        %s\n", cfg.LogLevel)
			fmt.Fprintf(out, "events           %v\n", cfg.Events)
			fmt.Fprintf(out, "data_dir         %s\n", cfg.DataDir)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the current settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			path := config.ConfigPath(cfg.DataDir)
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
