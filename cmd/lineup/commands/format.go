package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

func printPlayerTable(w io.Writer, players []models.Player) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPOS\tTEAM\tSALARY\tAVG\tVALUE\tSCORE\tFLOOR\tTREND\t")
	for _, p := range players {
		top := ""
		if p.Metrics.IsTopValue {
			top = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%d\t%.1f\t%.2f%s\t%.1f\t%.1f\t%s\t\n",
			p.ID, p.Name, p.Position, p.Team, p.Salary, p.AvgPoints,
			p.Metrics.AdjValue, top, p.Metrics.CompositeScore, p.Metrics.FloorScore, p.Metrics.Trend)
	}
	tw.Flush()
}

func printBuild(w io.Writer, out buildOutput) {
	fmt.Fprintf(w, "Strategy: %s\n\n", out.Strategy)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tPLAYER\tPOS\tTEAM\tGAME\tSALARY\t")
	for i, o := range out.Lineup.Slots {
		label := out.Lineup.Contest.Slots[i].Label
		if o == nil {
			fmt.Fprintf(tw, "%s\t-\t\t\t\t\t\n", label)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t$%d\t\n", label, o.Name, o.Position, o.Team, o.Game, o.Salary)
	}
	tw.Flush()

	s := out.Salary
	fmt.Fprintf(w, "\nSalary: $%d / $%d  remaining $%d", s.Used, s.Cap, s.Remaining)
	if s.OverCap {
		fmt.Fprint(w, "  OVER CAP")
	}
	fmt.Fprintf(w, "\nFilled: %d / %d\n", s.Filled, s.Slots)

	for _, u := range out.Unfilled {
		fmt.Fprintf(w, "  unfilled %s (slot %d): %s\n", u.Label, u.Index, u.Reason)
	}
	if out.Swap != nil {
		fmt.Fprintf(w, "Upgrade: %s -> %s in slot %d\n", out.Swap.Out.Name, out.Swap.In.Name, out.Swap.Slot)
	}

	if out.Analysis == nil {
		fmt.Fprintln(w, "\nLineup incomplete, no analysis.")
		return
	}
	fmt.Fprintf(w, "\nScore: %.1f / 10\n", out.Analysis.Score)
	grouped := out.Analysis.ByCategory()
	for _, category := range models.FindingCategories {
		findings := grouped[category]
		if len(findings) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", category)
		for _, f := range findings {
			sign := "-"
			if f.IsStrength() {
				sign = "+"
			}
			fmt.Fprintf(w, "  %s %s (%+.1f)\n", sign, f.Title, f.Weight)
			if f.Detail != "" {
				fmt.Fprintf(w, "      %s\n", f.Detail)
			}
		}
	}
}
