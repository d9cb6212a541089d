package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pathweaver/pathweaver/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "pathweaver",
	Short: "Adaptive learning path planner",
	Long: "Pathweaver plans minimal-duration learning paths: it selects activities\n" +
		"that satisfy every lesson's mastery threshold, groups them into ordered\n" +
		"sprints, and simulates the full learner feedback loop.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default: ./pathweaver.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides PATHWEAVER_DB env var)")
	pf.Duration("budget", 0, "Per-selection solver time budget (default 10m)")
	pf.Int("workers", 0, "Concurrent solver subtrees (0 or 1 runs sequentially)")
	pf.Int("sprint-size", 0, "Maximum activities per sprint (default 5)")
	pf.Bool("verbose", false, "Enable debug logging")

	viper.BindPFlag("db", pf.Lookup("db"))
	viper.BindPFlag("budget", pf.Lookup("budget"))
	viper.BindPFlag("workers", pf.Lookup("workers"))
	viper.BindPFlag("sprint_size", pf.Lookup("sprint-size"))
	viper.BindPFlag("verbose", pf.Lookup("verbose"))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(sprintsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfg, _ := rootCmd.PersistentFlags().GetString("config"); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.SetConfigName("pathweaver")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/pathweaver")
	}
	viper.SetEnvPrefix("PATHWEAVER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; flags and env cover everything.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Println("warning: could not read config:", err)
		}
	}
}

// newLogger builds the CLI logger. Debug level when --verbose is set,
// otherwise warnings and errors only so command output stays clean.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if viper.GetBool("verbose") {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

func timeBudget() time.Duration { return viper.GetDuration("budget") }
func workers() int              { return viper.GetInt("workers") }
func sprintSize() int           { return viper.GetInt("sprint_size") }

// resolveDBPath returns the database path using --db / config / env
// (highest priority), then the default XDG path.
func resolveDBPath() (string, error) {
	if p := viper.GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
