package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

var ErrNoLineups = errors.New("no lineups to export")

// ExportLineups writes lineups in the DraftKings upload layout: one column per
// contest slot, each cell "Name (ID)". All lineups must share a contest and
// be complete.
func ExportLineups(lineups []*models.Lineup) ([]byte, error) {
	if len(lineups) == 0 {
		return nil, ErrNoLineups
	}
	contest := lineups[0].Contest

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := make([]string, len(contest.Slots))
	for i, slot := range contest.Slots {
		headers[i] = slot.Label
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	for n, l := range lineups {
		if l.Contest.Name != contest.Name {
			return nil, fmt.Errorf("lineup %d: contest %s does not match %s", n+1, l.Contest.Name, contest.Name)
		}
		if !l.IsComplete() {
			return nil, fmt.Errorf("lineup %d: %d of %d slots filled", n+1, l.FilledCount(), len(l.Slots))
		}
		row := make([]string, len(l.Slots))
		for i, o := range l.Slots {
			row[i] = fmt.Sprintf("%s (%s)", o.Name, o.PlayerID)
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write lineup: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}
