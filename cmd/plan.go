package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathweaver/pathweaver/internal/instance"
	"github.com/pathweaver/pathweaver/internal/mastery"
	"github.com/pathweaver/pathweaver/internal/report"
	"github.com/pathweaver/pathweaver/internal/selector"
	"github.com/pathweaver/pathweaver/internal/sprint"
)

var planCmd = &cobra.Command{
	Use:   "plan <instance-file>",
	Short: "Compute a minimal-duration activity plan",
	Long: "Plan performs a single selection pass: the smallest-duration activity set\n" +
		"whose projected gains satisfy every lesson threshold, grouped into sprints.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, profile, err := instance.Load(args[0])
		if err != nil {
			return fmt.Errorf("load instance: %w", err)
		}

		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		sel := selector.New(selector.Options{
			TimeBudget: timeBudget(),
			Workers:    workers(),
			Logger:     logger,
		})
		state := mastery.NewState(profile.InitialMastery)
		res, err := sel.Select(cmd.Context(), inst, profile, state)
		if err != nil {
			return err
		}

		clu := &sprint.Clusterer{MaxSprintSize: sprintSize()}
		sprints, err := clu.Build(inst, res.ActivityIDs, state)
		if err != nil {
			return err
		}

		fmt.Println(report.Plan(inst, res, sprints))
		return nil
	},
}
