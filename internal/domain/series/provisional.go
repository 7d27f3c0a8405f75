package series

import "slices"

// FoldAdjacent is the listing pass applied after GroupSeries. Rows are keyed
// by primary stage id and visited in ascending key order; the row keyed k+1
// is folded into the row keyed k when both belong to the same league season
// and k's code is not a format label. A folded row takes the union of both
// stage sets, the earlier start and the end of its last stage.
//
// Every emitted end is extended by the multi-day allowance of the last stage's
// code. The result is provisional: hydration re-checks the pairing against
// stage metadata and replaces the window.
func FoldAdjacent(rows []Row) []Row {
	byKey := make(map[int64]Row, len(rows))
	keys := make([]int64, 0, len(rows))
	for _, row := range rows {
		key := row.PrimaryStageID()
		if key <= 0 {
			continue
		}
		existing, ok := byKey[key]
		if !ok {
			keys = append(keys, key)
			byKey[key] = row.clone()
			continue
		}
		if !existing.HasDates() && row.HasDates() {
			byKey[key] = row.clone()
		}
	}
	slices.Sort(keys)

	used := make(map[int64]struct{}, len(keys))
	out := make([]Row, 0, len(keys))
	for _, key := range keys {
		if _, ok := used[key]; ok {
			continue
		}
		used[key] = struct{}{}

		base := byKey[key]
		last := base
		next, ok := byKey[key+1]
		if ok && foldable(base, next) {
			used[key+1] = struct{}{}
			base = mergeRows(base, next)
			last = next
		}

		if base.EndDate != nil {
			if extra := ExtraDays(last.Code); extra > 0 {
				end := base.EndDate.AddDate(0, 0, extra)
				base.EndDate = &end
			}
		}
		out = append(out, base)
	}
	return out
}

func foldable(base, next Row) bool {
	return base.LeagueID == next.LeagueID &&
		base.SeasonID == next.SeasonID &&
		!IsFormatCode(base.Code)
}

func mergeRows(base, next Row) Row {
	merged := base.clone()
	merged.StageIDs = normalizeStageIDs(append(slices.Clone(base.StageIDs), next.StageIDs...))

	if next.StartDate != nil && (merged.StartDate == nil || next.StartDate.Before(*merged.StartDate)) {
		merged.StartDate = cloneTime(next.StartDate)
	}
	if next.EndDate != nil {
		merged.EndDate = cloneTime(next.EndDate)
	}
	return merged
}
