package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathweaver/pathweaver/internal/instance"
	"github.com/pathweaver/pathweaver/internal/pipeline"
	"github.com/pathweaver/pathweaver/internal/report"
	"github.com/pathweaver/pathweaver/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run <instance-file>",
	Short: "Run the full learning loop on an instance",
	Long: "Run repeatedly selects a minimal activity set, groups it into sprints,\n" +
		"consumes the first sprint under the chosen performance model, and updates\n" +
		"the learner until every threshold is met or the run proves infeasible.",
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

		var perf pipeline.PerformanceModel
		if seed, _ := cmd.Flags().GetInt64("perf-seed"); seed != 0 {
			min, _ := cmd.Flags().GetFloat64("perf-min")
			max, _ := cmd.Flags().GetFloat64("perf-max")
			perf = pipeline.NewRandomPerformance(seed, min, max)
		}

		runner := pipeline.NewRunner(pipeline.Options{
			MaxSprintSize: sprintSize(),
			TimeBudget:    timeBudget(),
			Workers:       workers(),
			Performance:   perf,
			Logger:        logger,
		})

		res, err := runner.Run(cmd.Context(), inst, profile)
		if err != nil {
			return err
		}

		if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
			if err := saveRun(cmd, res); err != nil {
				return fmt.Errorf("save run: %w", err)
			}
		}

		fmt.Println(report.Run(res))
		return nil
	},
}

func init() {
	runCmd.Flags().Int64("perf-seed", 0, "Seed for randomized performance (0 = perfect performance)")
	runCmd.Flags().Float64("perf-min", 0.5, "Minimum randomized performance")
	runCmd.Flags().Float64("perf-max", 1.0, "Maximum randomized performance")
	runCmd.Flags().Bool("no-save", false, "Do not persist the run to the database")
}

func saveRun(cmd *cobra.Command, res *pipeline.Result) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Runs().Save(cmd.Context(), res)
}
