package planner

import (
	"context"
	"sort"

	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Diagnostics 週菜單的蔬菜多樣性（僅供參考，不影響選菜）
type Diagnostics struct {
	VegetableCount int      `json:"vegetable_count"`
	Vegetables     []string `json:"vegetables"`
	Target         int      `json:"target"`
	Sufficient     bool     `json:"sufficient"`
}

type scored struct {
	score float64
	c     candidate
}

// GenerateWeekMenu 產生一週菜單：隨機選出第一天，之後每天挑選與前一天最相容、
// 且標題與本週已選食譜不相似的食譜。食譜少於 7 道時回傳 ErrInsufficientRecipes。
func (p *Planner) GenerateWeekMenu(ctx context.Context) (Menu, Diagnostics, error) {
	var menu Menu

	pool, err := p.loadCandidates(ctx)
	if err != nil {
		return menu, Diagnostics{}, err
	}
	if len(pool) < Days {
		common.LogWarn("食譜數量不足", zap.Int("count", len(pool)))
		return menu, Diagnostics{}, common.ErrInsufficientRecipes
	}

	start := p.rng.IntN(len(pool))
	chosen := []candidate{pool[start]}
	usedTitles := []string{pool[start].summary.Title}
	remaining := append(append([]candidate{}, pool[:start]...), pool[start+1:]...)

	common.LogDebug("起始食譜", zap.String("title", pool[start].summary.Title))

	for len(chosen) < Days {
		last := chosen[len(chosen)-1]
		lastMap := last.perServing(p.opts.TargetServings)

		ranked := make([]scored, len(remaining))
		for i, c := range remaining {
			ranked[i] = scored{
				score: p.scorer.Score(lastMap, c.perServing(p.opts.TargetServings), last.summary.Title, c.summary.Title),
				c:     c,
			}
		}
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

		best := ranked[0].c
		for _, s := range ranked[:min(p.opts.TopCandidates, len(ranked))] {
			if !p.titles.IsSimilar(s.c.summary.Title, usedTitles, p.opts.TitleThreshold) {
				best = s.c
				break
			}
		}

		chosen = append(chosen, best)
		usedTitles = append(usedTitles, best.summary.Title)
		remaining = removeCandidate(remaining, best.summary.ID)
	}

	for i, c := range chosen {
		s := c.summary
		menu[i] = &s
	}

	diag := p.vegetableDiagnostics(chosen)
	if diag.Sufficient {
		common.LogInfo("蔬菜多樣性足夠", zap.Int("vegetables", diag.VegetableCount))
	} else {
		common.LogWarn("蔬菜多樣性偏低",
			zap.Int("vegetables", diag.VegetableCount),
			zap.Int("target", diag.Target),
		)
	}
	return menu, diag, nil
}

func (p *Planner) vegetableDiagnostics(chosen []candidate) Diagnostics {
	cls := p.scorer.Classifier()
	seen := make(map[string]struct{})
	for _, c := range chosen {
		for _, name := range c.raw.Names() {
			if cls.IsVegetable(name) {
				seen[name] = struct{}{}
			}
		}
	}

	vegs := make([]string, 0, len(seen))
	for v := range seen {
		vegs = append(vegs, v)
	}
	sort.Strings(vegs)

	return Diagnostics{
		VegetableCount: len(vegs),
		Vegetables:     vegs,
		Target:         p.opts.VegetableTarget,
		Sufficient:     len(vegs) >= p.opts.VegetableTarget,
	}
}

func removeCandidate(list []candidate, id int64) []candidate {
	for i, c := range list {
		if c.summary.ID == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
