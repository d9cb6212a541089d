package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathweaver/pathweaver/internal/instance"
)

var generateCmd = &cobra.Command{
	Use:   "generate <output-file>",
	Short: "Generate a synthetic curriculum instance",
	Long: "Generate writes a random but well-formed instance file at the chosen\n" +
		"tier (basic, intermediate, advanced). The same seed always produces the\n" +
		"same instance.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, _ := cmd.Flags().GetString("tier")
		seed, _ := cmd.Flags().GetInt64("seed")

		f, err := instance.Generate(instance.Tier(tier), seed)
		if err != nil {
			return err
		}
		if err := instance.WriteFile(args[0], f); err != nil {
			return fmt.Errorf("write instance: %w", err)
		}

		fmt.Printf("wrote %s instance to %s (%d lessons, %d activities)\n",
			tier, args[0], len(f.Lessons), len(f.Activities))
		return nil
	},
}

func init() {
	generateCmd.Flags().String("tier", string(instance.TierBasic), "Instance size tier: basic, intermediate, advanced")
	generateCmd.Flags().Int64("seed", 42, "Random seed")
}
