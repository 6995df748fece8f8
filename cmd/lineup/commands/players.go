package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/dfs-lineup-builder/internal/lineup"
	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

var (
	playersTab   string
	playersSort  string
	playersLimit int
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Print the valuated player pool",
	Long: `Print players under a position tab, sorted by a ranking key.

Example:
  lineup players --file DKSalaries.csv --tab FLEX --sort value --limit 20`,
	RunE: runPlayers,
}

func init() {
	rootCmd.AddCommand(playersCmd)

	playersCmd.Flags().StringVar(&playersTab, "tab", "", "position tab (QB, RB, WR, TE, DST, FLEX, CPT); empty for all")
	playersCmd.Flags().StringVar(&playersSort, "sort", string(lineup.RankByComposite), "composite|value|floor|salary")
	playersCmd.Flags().IntVar(&playersLimit, "limit", 0, "maximum rows, 0 for all")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	log := newLogger()

	contest, err := models.GetContestConfiguration(contestName)
	if err != nil {
		return err
	}
	pool, _, err := loadSlate(log)
	if err != nil {
		return err
	}

	tab := strings.ToUpper(strings.TrimSpace(playersTab))
	if tab != "" && !contest.HasTab(tab) {
		return fmt.Errorf("unknown tab %q for contest %s (tabs: %s)", playersTab, contest.Name, strings.Join(contest.Tabs, ", "))
	}
	key, ok := lineup.ParseRankKey(playersSort)
	if !ok {
		return fmt.Errorf("unknown sort key %q", playersSort)
	}

	players := lineup.FilterByTab(pool, contest, tab, nil, key)
	if playersLimit > 0 && len(players) > playersLimit {
		players = players[:playersLimit]
	}

	if jsonOutput {
		return printJSON(cmd, players)
	}
	printPlayerTable(cmd.OutOrStdout(), players)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d players\n", len(players))
	return nil
}
