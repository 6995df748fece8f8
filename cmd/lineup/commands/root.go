package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stitts-dev/dfs-lineup-builder/internal/ingest"
	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
	"github.com/stitts-dev/dfs-lineup-builder/internal/valuation"
	"github.com/stitts-dev/dfs-lineup-builder/pkg/logger"
)

var (
	// Global flags
	salaryFile  string
	contestName string
	oddsFile    string
	weatherFile string
	defenseFile string
	topFraction float64
	jsonOutput  bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "lineup",
	Short: "Build and analyze salary-cap fantasy football lineups",
	Long: `Offline lineup builder.

Reads a salary export, valuates the pool with optional odds, weather and
defense rankings, then prints players or builds and analyzes a lineup.

Examples:
  lineup players --file DKSalaries.csv --tab WR
  lineup build --file DKSalaries.csv --contest classic --strategy cash
  lineup build --file DKSalaries.csv --odds odds.json --exclude 1001,1002`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&salaryFile, "file", "f", "", "salary CSV export (required)")
	rootCmd.PersistentFlags().StringVarP(&contestName, "contest", "c", models.ContestClassic, "contest type (classic|showdown)")
	rootCmd.PersistentFlags().StringVar(&oddsFile, "odds", "", "JSON odds keyed by game code")
	rootCmd.PersistentFlags().StringVar(&weatherFile, "weather", "", "JSON weather keyed by game code")
	rootCmd.PersistentFlags().StringVar(&defenseFile, "defense", "", "JSON defense rankings keyed by TEAM_POS")
	rootCmd.PersistentFlags().Float64Var(&topFraction, "top-fraction", 0.10, "share of each position flagged as top value")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	_ = rootCmd.MarkPersistentFlagRequired("file")
}

func newLogger() *logrus.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.InitLogger(level, true)
}

// loadSlate reads the salary file and enrichment files and returns the
// valuated pool with the snapshot it was valuated against.
func loadSlate(log *logrus.Logger) ([]models.Player, *models.EnrichmentSnapshot, error) {
	f, err := os.Open(salaryFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open salary file: %w", err)
	}
	defer f.Close()

	result, err := ingest.ParseSalaryCSV(f)
	if err != nil {
		return nil, nil, err
	}
	for _, skipped := range result.Skipped {
		log.WithFields(logrus.Fields{"line": skipped.Line, "reason": skipped.Reason}).Warn("Skipped salary row")
	}

	snapshot := &models.EnrichmentSnapshot{}
	if err := readJSON(oddsFile, &snapshot.Odds); err != nil {
		return nil, nil, err
	}
	if err := readJSON(weatherFile, &snapshot.Weather); err != nil {
		return nil, nil, err
	}
	if err := readJSON(defenseFile, &snapshot.Defense); err != nil {
		return nil, nil, err
	}

	engine := valuation.NewEngine(valuation.Config{TopFraction: topFraction}, log)
	return engine.Recompute(result.Players, snapshot), snapshot, nil
}

func readJSON(path string, dest interface{}) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
