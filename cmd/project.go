package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/draftboard-cli/internal/injury"
	"github.com/sells-group/draftboard-cli/internal/model"
	"github.com/sells-group/draftboard-cli/internal/output"
	"github.com/sells-group/draftboard-cli/internal/pipeline"
	"github.com/sells-group/draftboard-cli/internal/projection"
	"github.com/sells-group/draftboard-cli/internal/roster"
)

var (
	projectPosition   string
	projectRank       int
	projectExperience int
	projectAge        int
	projectName       string
	projectTeam       string
	projectPolicy     string
	projectSeed       uint64
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Synthesize one player record and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := projection.ParsePolicy(projectPolicy)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.Synthesis.Seed = projectSeed
		}
		if err := cfg.Validate("project"); err != nil {
			return err
		}

		tb, err := loadTables(cfg)
		if err != nil {
			return err
		}

		p, ok := roster.Normalize(model.RawPlayer{
			Name:       projectName,
			Team:       projectTeam,
			Age:        projectAge,
			Experience: projectExperience,
		}, projectPosition)
		if !ok {
			return eris.Errorf("project: %q is not a fantasy position", projectPosition)
		}

		rng := pipeline.NewRand(cfg.Synthesis.Seed)
		proj, err := projection.New(tb, policy, cfg.Synthesis.SeasonGames, rng)
		if err != nil {
			return err
		}
		inj, err := injury.New(tb, injury.Options{MinorInjuryRate: cfg.Synthesis.MinorInjuryRate}, rng)
		if err != nil {
			return err
		}

		p.Stats = proj.Project(&p, projectRank)
		inj.Apply(&p)

		players := []model.Player{p}
		output.AssignIDs(players)

		data, err := json.MarshalIndent(players[0], "", "  ")
		if err != nil {
			return eris.Wrap(err, "project: marshal")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	f := projectCmd.Flags()
	f.StringVar(&projectPosition, "position", "", "player position (QB, RB, WR, TE, K, DEF)")
	f.IntVar(&projectRank, "rank", 1, "rank within the position")
	f.IntVar(&projectExperience, "experience", 0, "seasons of experience")
	f.IntVar(&projectAge, "age", 0, "player age; 0 leaves it unknown")
	f.StringVar(&projectName, "name", "", "player name, used for the injury history lookup")
	f.StringVar(&projectTeam, "team", "", "team abbreviation")
	f.StringVar(&projectPolicy, "policy", string(projection.PolicyRank), "projection policy: experience or rank")
	f.Uint64Var(&projectSeed, "seed", 0, "random seed; 0 seeds from the clock (default from config)")
	_ = projectCmd.MarkFlagRequired("position")
	rootCmd.AddCommand(projectCmd)
}
