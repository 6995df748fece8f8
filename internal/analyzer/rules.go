package analyzer

import (
	"fmt"
	"strings"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

// DefaultRules returns the built-in rule table.
func DefaultRules() []Rule {
	var rules []Rule
	rules = append(rules, constructionRules()...)
	rules = append(rules, correlationRules()...)
	rules = append(rules, gameEnvironmentRules()...)
	rules = append(rules, weatherRules()...)
	rules = append(rules, qualityRules()...)
	return rules
}

func constructionRules() []Rule {
	return []Rule{
		{
			ID: "unused-salary", Category: models.CategoryConstruction, Weight: -1.0,
			Title: "Unused salary",
			Check: func(c *Context) (string, bool) {
				left := c.Lineup.Remaining()
				return fmt.Sprintf("$%d left on the table", left), left > 1000
			},
		},
		{
			ID: "salary-usage", Category: models.CategoryConstruction, Weight: 0.75,
			Title: "Excellent salary usage",
			Check: func(c *Context) (string, bool) {
				left := c.Lineup.Remaining()
				return fmt.Sprintf("Only $%d unused", left), left >= 0 && left < 500
			},
		},
		{
			ID: "punt-overload", Category: models.CategoryConstruction, Weight: -1.0,
			Title: "Too many punt plays",
			Check: func(c *Context) (string, bool) {
				var punts []models.Player
				for _, p := range c.Players {
					if p.Position != models.PositionDST && p.Salary < 4000 {
						punts = append(punts, p)
					}
				}
				return fmt.Sprintf("%d players under $4000: %s", len(punts), strings.Join(names(punts), ", ")), len(punts) >= 3
			},
		},
		{
			ID: "single-rb", Category: models.CategoryConstruction, Weight: -0.5,
			Title: "Only one running back",
			Check: func(c *Context) (string, bool) {
				rbs := c.ofPosition(models.PositionRB)
				return fmt.Sprintf("%s is the only running back", strings.Join(names(rbs), "")), len(rbs) == 1
			},
		},
		{
			ID: "no-stud", Category: models.CategoryConstruction, Weight: -0.5,
			Title: "No premium player",
			Check: func(c *Context) (string, bool) {
				for _, p := range c.Players {
					if p.Salary >= 8500 {
						return "", false
					}
				}
				return "No player priced at $8500 or more", true
			},
		},
		{
			ID: "balanced-build", Category: models.CategoryConstruction, Weight: 0.5,
			Title: "Balanced build",
			Check: func(c *Context) (string, bool) {
				studs, values := 0, 0
				for _, p := range c.Players {
					if p.Salary >= 8000 {
						studs++
					}
					if p.Salary <= 4500 {
						values++
					}
				}
				return fmt.Sprintf("%d players at $8000+ and %d at $4500 or less", studs, values), studs >= 2 && values >= 2
			},
		},
		{
			ID: "expensive-dst", Category: models.CategoryConstruction, Weight: -0.25,
			Title: "Expensive defense",
			Check: func(c *Context) (string, bool) {
				for _, p := range c.ofPosition(models.PositionDST) {
					if p.Salary > 3500 {
						return fmt.Sprintf("%s costs $%d", p.Name, p.Salary), true
					}
				}
				return "", false
			},
		},
	}
}

func correlationRules() []Rule {
	return []Rule{
		{
			ID: "qb-vs-own-dst", Category: models.CategoryCorrelation, Weight: -2.5,
			Title: "Quarterback and defense on the same team",
			Check: func(c *Context) (string, bool) {
				for _, qb := range c.ofPosition(models.PositionQB) {
					for _, dst := range c.ofPosition(models.PositionDST) {
						if qb.Team == dst.Team {
							return fmt.Sprintf("%s and %s are both %s; a defense wants its own offense off the field", qb.Name, dst.Name, qb.Team), true
						}
					}
				}
				return "", false
			},
		},
		{
			ID: "naked-qb", Category: models.CategoryCorrelation, Weight: -1.5,
			Title: "Unstacked quarterback",
			Check: func(c *Context) (string, bool) {
				qb, ok := c.Quarterback()
				if !ok {
					return "", false
				}
				return fmt.Sprintf("%s has no %s pass-catchers with him", qb.Name, qb.Team), len(c.StackedPassCatchers(qb)) == 0
			},
		},
		{
			ID: "double-stack", Category: models.CategoryCorrelation, Weight: 1.0,
			Title: "Double stack",
			Check: func(c *Context) (string, bool) {
				qb, ok := c.Quarterback()
				if !ok {
					return "", false
				}
				stack := c.StackedPassCatchers(qb)
				return fmt.Sprintf("%s with %s", qb.Name, strings.Join(names(stack), " and ")), len(stack) >= 2
			},
		},
		{
			ID: "bring-back", Category: models.CategoryCorrelation, Weight: 0.75,
			Title: "Bring-back",
			Check: func(c *Context) (string, bool) {
				qb, opponents, ok := stackOpponents(c)
				if !ok || len(opponents) == 0 {
					return "", false
				}
				return fmt.Sprintf("%s runs it back against the %s stack", strings.Join(names(opponents), ", "), qb.Team), true
			},
		},
		{
			ID: "missing-bring-back", Category: models.CategoryCorrelation, Weight: -0.25,
			Title: "Missing bring-back",
			Check: func(c *Context) (string, bool) {
				qb, opponents, ok := stackOpponents(c)
				if !ok || len(opponents) > 0 {
					return "", false
				}
				return fmt.Sprintf("No %s player opposite the %s stack", qb.Opponent(), qb.Team), true
			},
		},
		{
			ID: "single-stack", Category: models.CategoryCorrelation, Weight: 0.5,
			Title: "Quarterback stack",
			Check: func(c *Context) (string, bool) {
				qb, ok := c.Quarterback()
				if !ok {
					return "", false
				}
				stack := c.StackedPassCatchers(qb)
				return fmt.Sprintf("%s paired with %s", qb.Name, strings.Join(names(stack), "")), len(stack) == 1
			},
		},
		{
			ID: "cannibalization", Category: models.CategoryCorrelation, Weight: -1.0,
			Title: "Teammates competing for touches",
			Check: func(c *Context) (string, bool) {
				groups := make(map[string][]models.Player)
				for _, p := range c.Players {
					if p.Position.IsSkill() {
						key := p.Team + "_" + string(p.Position)
						groups[key] = append(groups[key], p)
					}
				}
				for _, p := range c.Players {
					group := groups[p.Team+"_"+string(p.Position)]
					if len(group) >= 2 && !c.hasQuarterback(p.Team) {
						return fmt.Sprintf("%s share the %s %s workload without their quarterback",
							strings.Join(names(group), " and "), group[0].Team, group[0].Position), true
					}
				}
				return "", false
			},
		},
		{
			ID: "unanchored-pass-catchers", Category: models.CategoryCorrelation, Weight: -0.5,
			Title: "Pass-catchers without their quarterback",
			Check: func(c *Context) (string, bool) {
				byTeam := make(map[string][]models.Player)
				for _, p := range c.Players {
					if p.Position.IsPassCatcher() {
						byTeam[p.Team] = append(byTeam[p.Team], p)
					}
				}
				for _, p := range c.Players {
					group := byTeam[p.Team]
					if len(group) >= 2 && !c.hasQuarterback(p.Team) {
						return fmt.Sprintf("%s catch passes from a %s quarterback not in the lineup", strings.Join(names(group), " and "), p.Team), true
					}
				}
				return "", false
			},
		},
	}
}

// stackOpponents returns the quarterback's opponents in the lineup when the
// quarterback is double stacked.
func stackOpponents(c *Context) (models.Player, []models.Player, bool) {
	qb, ok := c.Quarterback()
	if !ok || len(c.StackedPassCatchers(qb)) < 2 {
		return qb, nil, false
	}
	opp := qb.Opponent()
	if opp == "" {
		return qb, nil, false
	}
	var opponents []models.Player
	for _, p := range c.Players {
		if p.Team == opp && p.Position != models.PositionDST {
			opponents = append(opponents, p)
		}
	}
	return qb, opponents, true
}
