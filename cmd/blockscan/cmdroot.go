// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/thediveo/lxkns/log"
)

func newRootCmd() (rootCmd *cobra.Command) {
	var cfg settings
	rootCmd = &cobra.Command{
		Use:   "blockscan [flags] target...",
		Short: "blockscan concurrently scans IPv4 address blocks for live hosts and open TCP ports",
		Long: `blockscan concurrently scans IPv4 address blocks for live hosts and open TCP ports.

Targets are either a single CIDR block ("10.0.0.0/24"), a single range
("10.0.0.1-10.0.0.42", excluding the upper address 10.0.0.42), or one or more
individual addresses. With --endless,
the single target address is the start of an endless scan in the specified
direction. With --container, the targets are the networks attached to the
specified Docker container instead.`,
		Version:      "1.0",
		SilenceUsage: true,
		Args: func(cmd *cobra.Command, args []string) error {
			container, _ := cmd.Flags().GetString(cfgContainer)
			if container != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err = loadSettings(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			jobs, netnsref, err := planJobs(cmd.Context(), cfg, args)
			if err != nil {
				return fmt.Errorf("cannot determine scan targets: %w", err)
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			return ScanAndReport(ctx, cmd.OutOrStdout(), cfg, jobs, netnsref)
		},
	}
	setupFlags(rootCmd)
	return
}
