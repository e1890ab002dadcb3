// Package main provides the isorecord CLI for assembling, validating and citing
// ISO 19115-2 discovery metadata records.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dlovans/isorecord/internal/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "isorecord"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string
	app := &App{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Assemble, validate and cite ISO 19115-2 discovery metadata records",
		Long: `isorecord builds ISO 19115-2 discovery metadata records from section
fragments and reference data, validates them against the record schema and
renders citations.

Configuration is read from --config, ISORECORD_CONFIG or ./isorecord.yaml,
with ISORECORD_* environment variables taking precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			a, err := NewApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			*app = *a
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(
		newCmd(app),
		assembleCmd(app),
		validateCmd(app),
		citeCmd(app),
		lintCmd(app),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			// no config needed
			PersistentPreRun: func(cmd *cobra.Command, args []string) {},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}
