package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/dfs-lineup-builder/internal/analyzer"
	"github.com/stitts-dev/dfs-lineup-builder/internal/ingest"
	"github.com/stitts-dev/dfs-lineup-builder/internal/lineup"
	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

var (
	buildStrategy string
	buildExclude  []string
	buildLock     []string
	buildUpgrade  bool
	buildMinSlot  int
	buildExport   bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Auto-fill a lineup and analyze it",
	Long: `Build a lineup from the salary file with a fill strategy, then print
the lineup, its salary use and the analyzer's findings.

Locked players are seated first, in order, in the first slot that takes them.

Examples:
  lineup build --file DKSalaries.csv --strategy cash
  lineup build --file DKSalaries.csv --lock 1001 --exclude 1002,1003 --upgrade
  lineup build --file DKSalaries.csv --export > upload.csv`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildStrategy, "strategy", "s", "cash", "cash|greedy|value")
	buildCmd.Flags().StringSliceVar(&buildExclude, "exclude", nil, "player IDs to leave out")
	buildCmd.Flags().StringSliceVar(&buildLock, "lock", nil, "player IDs to seat before filling")
	buildCmd.Flags().BoolVar(&buildUpgrade, "upgrade", false, "run the single-swap upgrade pass")
	buildCmd.Flags().IntVar(&buildMinSlot, "min-slot-salary", lineup.DefaultMinSlotSalary, "salary reserved per open slot by the cash strategy")
	buildCmd.Flags().BoolVar(&buildExport, "export", false, "print the lineup as an upload CSV")
}

type buildOutput struct {
	Strategy string                 `json:"strategy"`
	Lineup   *models.Lineup         `json:"lineup"`
	Salary   models.SalarySummary   `json:"salary"`
	Unfilled []lineup.UnfilledSlot  `json:"unfilled,omitempty"`
	Swap     *lineup.Swap           `json:"swap,omitempty"`
	Analysis *models.LineupAnalysis `json:"analysis,omitempty"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := newLogger()

	contest, err := models.GetContestConfiguration(contestName)
	if err != nil {
		return err
	}
	strategy, err := lineup.StrategyByName(buildStrategy, buildMinSlot)
	if err != nil {
		return err
	}
	pool, snapshot, err := loadSlate(log)
	if err != nil {
		return err
	}

	excluded := make(map[string]bool, len(buildExclude))
	for _, id := range buildExclude {
		excluded[strings.TrimSpace(id)] = true
	}

	l := models.NewLineup(contest)
	index := models.IndexPlayers(pool)
	for _, id := range buildLock {
		p, ok := index[strings.TrimSpace(id)]
		if !ok {
			return fmt.Errorf("locked player %s is not in the pool", id)
		}
		if _, err := lineup.Add(l, *p); err != nil {
			return fmt.Errorf("failed to lock %s: %w", p.Name, err)
		}
	}

	result, err := lineup.AutoFill(lineup.FillRequest{
		Lineup:   l,
		Pool:     pool,
		Excluded: excluded,
		Snapshot: snapshot,
		Strategy: strategy,
		Upgrade:  buildUpgrade,
	})
	if err != nil {
		return err
	}

	out := buildOutput{
		Strategy: result.Strategy,
		Lineup:   result.Lineup,
		Salary:   result.Lineup.Summary(),
		Unfilled: result.Unfilled,
		Swap:     result.Swap,
	}
	analysis, err := analyzer.New().Analyze(result.Lineup, pool, snapshot)
	switch {
	case err == nil:
		out.Analysis = analysis
	case !errors.Is(err, analyzer.ErrIncompleteLineup):
		return err
	}

	if buildExport {
		data, err := ingest.ExportLineups([]*models.Lineup{result.Lineup})
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if jsonOutput {
		return printJSON(cmd, out)
	}
	printBuild(cmd.OutOrStdout(), out)
	return nil
}
