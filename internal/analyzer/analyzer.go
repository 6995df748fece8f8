package analyzer

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/stitts-dev/dfs-lineup-builder/internal/models"
)

var ErrIncompleteLineup = errors.New("lineup must be complete before analysis")

const baseScore = 5.0

// Rule is one declarative lineup check. Check returns the detail text and
// whether the rule fires.
type Rule struct {
	ID       string
	Category models.FindingCategory
	Title    string
	Weight   float64
	Check    func(ctx *Context) (string, bool)
}

type Analyzer struct {
	rules []Rule
}

// New builds an analyzer over rules, or over DefaultRules when none are given.
func New(rules ...Rule) *Analyzer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Analyzer{rules: rules}
}

func (a *Analyzer) Rules() []Rule {
	return a.rules
}

// Analyze evaluates every rule against a complete lineup. Score is 5 plus the
// sum of fired rule weights, clamped to [0, 10].
func (a *Analyzer) Analyze(l *models.Lineup, pool []models.Player, snapshot *models.EnrichmentSnapshot) (*models.LineupAnalysis, error) {
	if l == nil || !l.IsComplete() {
		filled, total := 0, 0
		if l != nil {
			filled, total = l.FilledCount(), len(l.Slots)
		}
		return nil, fmt.Errorf("%d of %d slots filled: %w", filled, total, ErrIncompleteLineup)
	}

	ctx := newContext(l, pool, snapshot)
	analysis := &models.LineupAnalysis{}
	sum := 0.0
	for _, rule := range a.rules {
		detail, fired := rule.Check(ctx)
		if !fired {
			continue
		}
		analysis.Findings = append(analysis.Findings, models.Finding{
			RuleID:   rule.ID,
			Category: rule.Category,
			Weight:   rule.Weight,
			Title:    rule.Title,
			Detail:   detail,
		})
		sum += rule.Weight
		if rule.Weight > 0 {
			analysis.Strengths++
		} else if rule.Weight < 0 {
			analysis.Issues++
		}
	}

	sortFindings(analysis.Findings)
	analysis.Score = math.Max(0, math.Min(10, baseScore+sum))
	return analysis, nil
}

func categoryRank(c models.FindingCategory) int {
	for i, cat := range models.FindingCategories {
		if cat == c {
			return i
		}
	}
	return len(models.FindingCategories)
}

func sortFindings(findings []models.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		ci, cj := categoryRank(findings[i].Category), categoryRank(findings[j].Category)
		if ci != cj {
			return ci < cj
		}
		return math.Abs(findings[i].Weight) > math.Abs(findings[j].Weight)
	})
}
