package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pathweaver/pathweaver/internal/instance"
	"github.com/pathweaver/pathweaver/internal/mastery"
	"github.com/pathweaver/pathweaver/internal/selector"
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Benchmark the solver on synthetic instances",
	Long: "Benchmark generates seeded instances at a tier and times a full\n" +
		"selection pass over each, reporting per-instance duration and whether\n" +
		"the solver stayed within its time budget.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, _ := cmd.Flags().GetString("tier")
		count, _ := cmd.Flags().GetInt("count")
		parallel, _ := cmd.Flags().GetInt("parallel")
		if parallel < 1 {
			parallel = 1
		}
		baseSeed, _ := cmd.Flags().GetInt64("seed")

		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		type row struct {
			seed       int64
			activities int
			elapsed    time.Duration
			planned    int
			minutes    float64
			suboptimal bool
			err        error
		}
		rows := make([]row, count)

		var mu sync.Mutex
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(parallel)
		for i := 0; i < count; i++ {
			g.Go(func() error {
				seed := baseSeed + int64(i)
				f, err := instance.Generate(instance.Tier(tier), seed)
				if err != nil {
					return err
				}
				inst, profile, err := f.Materialize()
				if err != nil {
					return err
				}

				sel := selector.New(selector.Options{
					TimeBudget: timeBudget(),
					Workers:    workers(),
					Logger:     logger,
				})
				start := time.Now()
				res, err := sel.Select(ctx, inst, profile, mastery.NewState(profile.InitialMastery))
				r := row{seed: seed, activities: len(inst.Activities()), elapsed: time.Since(start), err: err}
				if err == nil {
					r.planned = len(res.ActivityIDs)
					r.minutes = res.TotalDuration
					r.suboptimal = res.Suboptimal
				}
				mu.Lock()
				rows[i] = r
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Printf("%-8s %-6s %-10s %-10s %-8s %-10s %s\n",
			"seed", "pool", "elapsed", "selected", "minutes", "optimal", "error")
		for _, r := range rows {
			errText := ""
			if r.err != nil {
				errText = r.err.Error()
			}
			fmt.Printf("%-8d %-6d %-10s %-10d %-8.1f %-10t %s\n",
				r.seed, r.activities, r.elapsed.Round(time.Millisecond),
				r.planned, r.minutes, !r.suboptimal, errText)
		}
		return nil
	},
}

func init() {
	benchmarkCmd.Flags().String("tier", string(instance.TierBasic), "Instance tier to benchmark")
	benchmarkCmd.Flags().Int("count", 5, "Number of instances")
	benchmarkCmd.Flags().Int("parallel", 1, "Instances solved concurrently")
	benchmarkCmd.Flags().Int64("seed", 42, "Base random seed; instance i uses seed+i")
}
