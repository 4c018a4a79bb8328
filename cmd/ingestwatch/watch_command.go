package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/waabox/ingestwatch/internal/config"
	"github.com/waabox/ingestwatch/internal/domain"
	"github.com/waabox/ingestwatch/internal/probe"
	"github.com/waabox/ingestwatch/internal/tracker"
	"github.com/waabox/ingestwatch/internal/tui"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var baseURL string
	var interval time.Duration
	var plain bool

	cmd := &cobra.Command{
		Use:   "watch <identifier>",
		Short: "Track the ingestion stages of an uploaded document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if baseURL != "" {
				cfg.Probe.BaseURL = baseURL
			}
			if interval <= 0 {
				interval = cfg.PollIntervalOrDefault()
			}
			interactive := !plain && isTerminal(cmd.OutOrStdout())

			logger, closeLog, err := ctx.newLogger(cmd.ErrOrStderr(), interactive)
			if err != nil {
				return err
			}
			defer closeLog()

			stages, err := cfg.StageList()
			if err != nil {
				return err
			}

			feed := tracker.NewFeed()
			t := tracker.New(stages, newProber(*cfg, logger),
				tracker.WithLogger(logger),
				tracker.WithObserver(feed.Observe),
			)
			driver := tracker.NewDriver(t, interval)
			defer driver.Close()

			runCtx := cmd.Context()
			logger.Info("watching",
				"identifier", args[0],
				"base_url", cfg.BaseURLOrDefault(),
				"interval", interval.String(),
			)
			driver.Watch(runCtx, args[0])

			if interactive {
				return tui.Run(runCtx, feed.C(), t.Snapshot())
			}
			return watchPlain(runCtx, cmd.OutOrStdout(), feed.C())
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Healthcheck API base URL (overrides probe.base_url)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Poll interval (overrides poll_interval_ms)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print tables instead of the interactive view")
	return cmd
}

func newProber(cfg config.Config, logger *slog.Logger) domain.StageProber {
	client := probe.NewClient(cfg.BaseURLOrDefault(), cfg.Probe.Token, cfg.ProbeTimeout())
	naming := cfg.NamingOrDefault()
	renamer := probe.SuffixRenamer{Strip: naming.StripSuffix, Marker: naming.MarkerSuffix}
	return probe.NewLoggingProber(probe.NewAdapter(client, renamer), logger)
}

// watchPlain prints a table whenever a stage status or the tracked identifier
// changes, and returns once every stage is terminal.
func watchPlain(ctx context.Context, out io.Writer, snapshots <-chan tracker.Snapshot) error {
	var last tracker.Snapshot
	printed := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap := <-snapshots:
			if snap.Source == "" {
				continue
			}
			if !printed || changed(last, snap) {
				fmt.Fprintln(out, snapshotHeading(snap))
				fmt.Fprintln(out, renderSnapshot(snap))
				last = snap
				printed = true
			}
			if snap.Done() {
				return nil
			}
		}
	}
}

func changed(prev, next tracker.Snapshot) bool {
	if prev.RunID != next.RunID || prev.Identifier != next.Identifier {
		return true
	}
	return !slices.Equal(prev.Stages, next.Stages)
}
