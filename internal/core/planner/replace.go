package planner

import (
	"context"
	"sort"
	"strings"

	"menu-planner/internal/core/scoring"
	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// ReplaceDay 重新挑選 day 這一天的食譜，其餘天數不變。
// 候選為標題（不分大小寫）未出現在菜單中的食譜，以原始份量對前後鄰日計分加總，
// 再從前 ReplacePool 名中隨機選一。沒有候選時回傳原菜單與 changed=false。
func (p *Planner) ReplaceDay(ctx context.Context, menu Menu, day int) (Menu, bool, error) {
	if day < 0 || day >= Days {
		return menu, false, common.ErrInvalidDay
	}

	pool, err := p.loadCandidates(ctx)
	if err != nil {
		return menu, false, err
	}

	used := make(map[string]struct{}, Days)
	for _, r := range menu {
		if r != nil {
			used[strings.ToLower(r.Title)] = struct{}{}
		}
	}

	maps := make(map[int64]*scoring.IngredientMap, len(pool))
	for _, c := range pool {
		maps[c.summary.ID] = c.raw
	}

	var neighbors []*common.RecipeSummary
	if day > 0 && menu[day-1] != nil {
		neighbors = append(neighbors, menu[day-1])
	}
	if day < Days-1 && menu[day+1] != nil {
		neighbors = append(neighbors, menu[day+1])
	}

	var ranked []scored
	for _, c := range pool {
		if _, taken := used[strings.ToLower(c.summary.Title)]; taken {
			continue
		}
		total := 0.0
		for _, n := range neighbors {
			// 已從資料庫移除的鄰日以空食材計分，複雜度與蔬菜懲罰仍適用
			m, ok := maps[n.ID]
			if !ok {
				m = scoring.NewIngredientMap()
			}
			total += p.scorer.Score(m, c.raw, n.Title, c.summary.Title)
		}
		ranked = append(ranked, scored{score: total, c: c})
	}

	if len(ranked) == 0 {
		common.LogInfo("沒有可替換的食譜", zap.Int("day", day))
		return menu, false, nil
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	top := ranked[:min(p.opts.ReplacePool, len(ranked))]
	pick := top[p.rng.IntN(len(top))].c.summary

	out := menu
	out[day] = &pick

	common.LogDebug("已替換食譜",
		zap.Int("day", day),
		zap.String("title", pick.Title),
	)
	return out, true, nil
}
