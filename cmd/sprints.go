package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pathweaver/pathweaver/internal/instance"
	"github.com/pathweaver/pathweaver/internal/mastery"
	"github.com/pathweaver/pathweaver/internal/sprint"
)

var sprintsCmd = &cobra.Command{
	Use:   "sprints <instance-file> <activity-id>...",
	Short: "Group a chosen activity set into ordered sprints",
	Long: "Sprints clusters an explicit activity set into similarity groups that can\n" +
		"be performed in order without violating any prerequisite, useful for\n" +
		"inspecting the clustering stage on its own.",
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, profile, err := instance.Load(args[0])
		if err != nil {
			return fmt.Errorf("load instance: %w", err)
		}

		clu := &sprint.Clusterer{MaxSprintSize: sprintSize()}
		state := mastery.NewState(profile.InitialMastery)
		sprints, err := clu.Build(inst, args[1:], state)
		if err != nil {
			return err
		}

		for i, sp := range sprints {
			fmt.Printf("sprint %d: %s\n", i+1, strings.Join(sp.Activities, ", "))
		}
		return nil
	},
}
