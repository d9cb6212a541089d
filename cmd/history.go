package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pathweaver/pathweaver/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show persisted runs",
	Long: "History lists recent runs, newest first. With a run ID it prints the\n" +
		"full record: every consumed sprint and the final mastery per lesson.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		st, err := store.Open(path)
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 1 {
			rec, err := st.Runs().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("run %s\n", rec.ID)
			fmt.Printf("  %s, %d sprints, %.1f minutes, %s\n",
				rec.Status, rec.Iterations, rec.TotalMinutes,
				rec.CreatedAt.Format("2006-01-02 15:04"))
			for _, sp := range rec.Sprints {
				fmt.Printf("  sprint %d (%.1f min): %s\n",
					sp.Seq+1, sp.Minutes, strings.Join(sp.Activities, ", "))
			}
			ids := make([]string, 0, len(rec.FinalMastery))
			for id := range rec.FinalMastery {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Printf("  %s: %.0f%%\n", id, rec.FinalMastery[id]*100)
			}
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.Runs().List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%s  %-11s %3d sprints  %7.1f min  %s\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.Status,
				r.Iterations, r.TotalMinutes, r.ID)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum runs to list")
}
