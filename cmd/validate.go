package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathweaver/pathweaver/internal/curriculum"
	"github.com/pathweaver/pathweaver/internal/instance"
)

var validateCmd = &cobra.Command{
	Use:   "validate <instance-file>...",
	Short: "Validate instance files",
	Long: "Validate checks each file against the instance schema and the\n" +
		"structural rules: unique IDs, acyclic prerequisites, positive durations,\n" +
		"and gains that reference existing lessons.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			inst, _, err := instance.Load(path)
			if err != nil {
				failed++
				var malformed *curriculum.MalformedInstanceError
				if errors.As(err, &malformed) {
					fmt.Printf("%s: malformed\n", path)
					for _, p := range malformed.Problems {
						fmt.Printf("  - %s\n", p)
					}
				} else {
					fmt.Printf("%s: %v\n", path, err)
				}
				continue
			}
			fmt.Printf("%s: ok (%d lessons, %d activities)\n",
				path, inst.Graph().Len(), len(inst.Activities()))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) failed validation", failed, len(args))
		}
		return nil
	},
}
