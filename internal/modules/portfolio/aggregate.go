package portfolio

import (
	"sort"

	"github.com/aristath/alpha/internal/domain"
)

// Aggregate folds enriched positions into portfolio totals in a single pass.
//
// Entry value is accumulated for every position. Current value and P&L are
// accumulated only for positions with data. Ties for best or worst performer
// go to the position met first. Asset type subtotals are ordered by type name.
func Aggregate(positions []EnrichedPosition) PortfolioSummary {
	summary := PortfolioSummary{
		TotalPositions: len(positions),
		ByAssetType:    make([]AssetTypeTotal, 0),
	}
	buckets := make(map[domain.AssetType]*AssetTypeTotal)
	best, worst := -1, -1

	for i := range positions {
		p := &positions[i]

		bucket, ok := buckets[p.AssetType]
		if !ok {
			bucket = &AssetTypeTotal{AssetType: p.AssetType}
			buckets[p.AssetType] = bucket
		}
		bucket.Count++
		bucket.EntryValue += p.EntryValue
		summary.TotalEntryValue += p.EntryValue

		if !p.HasData() {
			summary.PositionsWithErrors++
			continue
		}

		summary.PositionsWithData++
		summary.TotalCurrentValue += *p.CurrentValue
		summary.TotalUnrealizedPnL += *p.UnrealizedPnL
		bucket.PositionsWithData++
		bucket.CurrentValue += *p.CurrentValue
		bucket.UnrealizedPnL += *p.UnrealizedPnL

		pct := *p.UnrealizedPnLPercent
		if best < 0 || pct > *positions[best].UnrealizedPnLPercent {
			best = i
		}
		if worst < 0 || pct < *positions[worst].UnrealizedPnLPercent {
			worst = i
		}
	}

	if best >= 0 {
		b, w := positions[best], positions[worst]
		summary.BestPerformer = &b
		summary.WorstPerformer = &w
	}

	summary.TotalUnrealizedPnLPercent = percentOf(summary.TotalUnrealizedPnL, summary.TotalEntryValue)

	for _, bucket := range buckets {
		bucket.UnrealizedPnLPercent = percentOf(bucket.UnrealizedPnL, bucket.EntryValue)
		summary.ByAssetType = append(summary.ByAssetType, *bucket)
	}
	sort.Slice(summary.ByAssetType, func(i, j int) bool {
		return summary.ByAssetType[i].AssetType < summary.ByAssetType[j].AssetType
	})

	return summary
}

// percentOf returns part/whole*100, or 0 when whole is not positive
func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// RankPerformers returns up to limit positions with data ordered by P&L
// percentage, highest first. Equal percentages keep their input order.
func RankPerformers(positions []EnrichedPosition, limit int) []EnrichedPosition {
	ranked := make([]EnrichedPosition, 0, len(positions))
	for _, p := range positions {
		if p.UnrealizedPnLPercent != nil {
			ranked = append(ranked, p)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].UnrealizedPnLPercent > *ranked[j].UnrealizedPnLPercent
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
