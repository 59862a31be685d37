package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/draftboard-cli/internal/pipeline"
	"github.com/sells-group/draftboard-cli/internal/source"
)

var probeOut string

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check live data sources and save raw snapshots",
	Long:  "Fetches the ESPN scoreboard and team list, falling back to a TheSportsDB player search, and saves the raw response. Fails only when the snapshot cannot be written.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cmd.Flags().Changed("out") {
			cfg.Output.Dir = probeOut
		}
		if err := cfg.Validate("probe"); err != nil {
			return err
		}

		f := newFetchers(cfg)
		prober := pipeline.NewProber(
			source.NewESPNSite(f.api, cfg.ESPN.SiteBaseURL),
			source.NewSportsDB(f.api, cfg.SportsDB.BaseURL),
			cfg.Output.Dir,
		)
		res, err := prober.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "probe")
		}

		out := cmd.OutOrStdout()
		if !res.Live {
			fmt.Fprintln(out, "No live source reachable")
			return nil
		}
		fmt.Fprintf(out, "Live data reachable via %s (%d teams)\n", res.Source, res.Teams)
		fmt.Fprintf(out, "Snapshot saved to %s\n", res.Path)
		return nil
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeOut, "out", "", "output directory (default from config)")
	rootCmd.AddCommand(probeCmd)
}
