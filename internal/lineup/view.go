package lineup

import (
	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

// FilterByTab returns the players shown under a position tab, minus excluded
// players, ordered by key.
func FilterByTab(players []models.Player, contest models.ContestConfiguration, tab string, excluded map[string]bool, key RankKey) []models.Player {
	positions := contest.TabPositions(tab)
	allowed := make(map[models.Position]bool, len(positions))
	for _, p := range positions {
		allowed[p] = true
	}

	var out []models.Player
	for _, p := range players {
		if tab != "" && !allowed[p.Position] {
			continue
		}
		if excluded[p.ID] {
			continue
		}
		out = append(out, p)
	}
	SortPlayers(out, key)
	return out
}
