package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

var (
	ErrNoHeader       = errors.New("salary file has no header row")
	ErrMissingColumns = errors.New("salary file is missing required columns")
)

// Column names as they appear in a DraftKings salary export. Lookups are
// case-insensitive.
const (
	colPosition       = "position"
	colNameAndID      = "name + id"
	colName           = "name"
	colID             = "id"
	colRosterPosition = "roster position"
	colSalary         = "salary"
	colGameInfo       = "game info"
	colTeamAbbrev     = "teamabbrev"
	colTeam           = "team"
	colAvgPoints      = "avgpointspergame"
	colAvgPointsShort = "avgpoints"
)

var nameWithID = regexp.MustCompile(`^(.*?)\s*\((\w+)\)\s*$`)

// SkippedRow records a data row that could not become a player.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type Result struct {
	Players []models.Player `json:"players"`
	Skipped []SkippedRow    `json:"skipped,omitempty"`
}

type columns map[string]int

func (c columns) get(record []string, names ...string) string {
	for _, name := range names {
		if idx, ok := c[name]; ok && idx < len(record) {
			if v := strings.TrimSpace(record[idx]); v != "" {
				return v
			}
		}
	}
	return ""
}

// ParseSalaryCSV reads a salary export into players. Rows without a name,
// a recognizable position or a salary are skipped and reported; duplicate
// IDs keep the first row.
func ParseSalaryCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(columns, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols[colSalary]; !ok {
		return nil, fmt.Errorf("%w: Salary", ErrMissingColumns)
	}
	_, hasName := cols[colName]
	_, hasNameID := cols[colNameAndID]
	if !hasName && !hasNameID {
		return nil, fmt.Errorf("%w: Name", ErrMissingColumns)
	}

	result := &Result{}
	seen := make(map[string]bool)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}

		player, reason := parseRow(cols, record)
		if reason == "" && seen[player.ID] {
			reason = fmt.Sprintf("duplicate player id %s", player.ID)
		}
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedRow{Line: line, Reason: reason})
			continue
		}
		seen[player.ID] = true
		result.Players = append(result.Players, player)
	}
	return result, nil
}

func parseRow(cols columns, record []string) (models.Player, string) {
	name := cols.get(record, colName)
	id := cols.get(record, colID)
	if combined := cols.get(record, colNameAndID); combined != "" {
		if m := nameWithID.FindStringSubmatch(combined); m != nil {
			if name == "" {
				name = m[1]
			}
			if id == "" {
				id = m[2]
			}
		} else if name == "" {
			name = combined
		}
	}
	if name == "" {
		return models.Player{}, "missing name"
	}

	position, ok := models.ParsePosition(cols.get(record, colPosition))
	if !ok {
		// Roster Position may be "RB/FLEX"; the first entry is the natural spot.
		roster := strings.Split(cols.get(record, colRosterPosition), "/")[0]
		if position, ok = models.ParsePosition(roster); !ok {
			return models.Player{}, "missing or unknown position"
		}
	}

	salary, err := parseSalary(cols.get(record, colSalary))
	if err != nil || salary <= 0 {
		return models.Player{}, "missing salary"
	}

	team := strings.ToUpper(cols.get(record, colTeamAbbrev, colTeam))
	if id == "" {
		id = syntheticID(name, team, position)
	}

	avg, _ := strconv.ParseFloat(cols.get(record, colAvgPoints, colAvgPointsShort), 64)

	return models.Player{
		ID:        id,
		Name:      name,
		Team:      team,
		Position:  position,
		Salary:    salary,
		AvgPoints: avg,
		GameInfo:  cols.get(record, colGameInfo),
	}, ""
}

// maxSalary bounds a single player's salary well above any contest cap.
const maxSalary = 1_000_000

func parseSalary(raw string) (int, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(raw)
	if cleaned == "" {
		return 0, fmt.Errorf("empty salary")
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f > maxSalary {
		return 0, fmt.Errorf("salary %q out of range", raw)
	}
	return int(f), nil
}

func syntheticID(name, team string, pos models.Position) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), "-"))
	return fmt.Sprintf("%s-%s-%s", slug, strings.ToLower(team), strings.ToLower(string(pos)))
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
