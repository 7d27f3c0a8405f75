package series

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/fixture"
)

type stageGroup struct {
	stages map[int64]StageSummary
}

func (g *stageGroup) sorted() []StageSummary {
	out := make([]StageSummary, 0, len(g.stages))
	for _, s := range g.stages {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b StageSummary) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// GroupSeries folds provider fixtures into provisional series rows.
//
// Fixtures without a stage, league or season are skipped. Stages are bucketed
// by league id, season id and league code; buckets are emitted in the order
// they were first seen and stages inside a bucket by ascending id. A bucket
// whose first stage carries a format code emits one row per stage. Otherwise a
// stage named like a regular season is merged with its playoff stage, or with
// stage id+1 of the same league season when no playoff is named, and the
// merged row replaces the bucket. Without a regular season every stage is
// emitted on its own.
func GroupSeries(fixtures []fixture.Fixture) []Row {
	ranges := make(map[int64]*StageDateRange)
	groups := make(map[string]*stageGroup)
	order := make([]string, 0)

	for _, f := range fixtures {
		if !f.Linked() {
			continue
		}
		stageID := f.Stage.ID

		if !f.StartingAt.IsZero() {
			if r, ok := ranges[stageID]; ok {
				r.fold(f.StartingAt)
			} else {
				ranges[stageID] = newStageDateRange(stageID, f.StartingAt)
			}
		}

		key := groupKey(f.League.ID, f.Season.ID, f.League.Code)
		g, ok := groups[key]
		if !ok {
			g = &stageGroup{stages: make(map[int64]StageSummary)}
			groups[key] = g
			order = append(order, key)
		}
		if _, ok := g.stages[stageID]; !ok {
			g.stages[stageID] = StageSummary{
				ID:         stageID,
				Name:       f.Stage.Name,
				StageType:  f.Stage.Type,
				LeagueID:   f.League.ID,
				LeagueName: f.League.Name,
				SeasonID:   f.Season.ID,
				SeasonName: f.Season.Name,
				Code:       f.League.Code,
				SeriesType: f.Type,
				ImagePath:  f.League.ImagePath,
			}
		}
	}

	rows := make([]Row, 0, len(order))
	for _, key := range order {
		rows = append(rows, emitGroup(groups[key].sorted(), ranges)...)
	}
	return rows
}

// StageDateRanges exposes the per-stage fold GroupSeries uses.
func StageDateRanges(fixtures []fixture.Fixture) map[int64]StageDateRange {
	out := make(map[int64]StageDateRange)
	for _, f := range fixtures {
		if !f.Linked() || f.StartingAt.IsZero() {
			continue
		}
		r, ok := out[f.Stage.ID]
		if !ok {
			out[f.Stage.ID] = *newStageDateRange(f.Stage.ID, f.StartingAt)
			continue
		}
		r.fold(f.StartingAt)
		out[f.Stage.ID] = r
	}
	return out
}

func groupKey(leagueID, seasonID int64, code string) string {
	return strconv.FormatInt(leagueID, 10) + "_" + strconv.FormatInt(seasonID, 10) + "_" + code
}

func emitGroup(stages []StageSummary, ranges map[int64]*StageDateRange) []Row {
	if len(stages) == 0 {
		return nil
	}

	if IsFormatCode(stages[0].Code) {
		out := make([]Row, 0, len(stages))
		for _, s := range stages {
			out = append(out, stageRow(s, ranges, false))
		}
		return out
	}

	var regular, playoff *StageSummary
	for i := range stages {
		name := strings.ToLower(stages[i].Name)
		if strings.Contains(name, "regular") {
			regular = &stages[i]
		} else if strings.Contains(name, "play off") {
			playoff = &stages[i]
		}
	}

	if regular == nil {
		out := make([]Row, 0, len(stages))
		for _, s := range stages {
			out = append(out, stageRow(s, ranges, true))
		}
		return out
	}

	stageIDs := []int64{regular.ID}
	if playoff != nil {
		stageIDs = append(stageIDs, playoff.ID)
	} else if adjacent, ok := adjacentStage(stages, *regular); ok {
		stageIDs = append(stageIDs, adjacent.ID)
	}
	stageIDs = normalizeStageIDs(stageIDs)

	row := Row{
		StageIDs:    stageIDs,
		Name:        regular.Name,
		LeagueID:    regular.LeagueID,
		LeagueName:  regular.LeagueName,
		SeasonID:    regular.SeasonID,
		SeasonLabel: CompressSeasonLabel(regular.SeasonName),
		Code:        regular.Code,
		SeriesType:  regular.SeriesType,
		ImagePath:   regular.ImagePath,
	}
	row.StartDate, row.EndDate = spanOf(stageIDs, ranges)
	return []Row{row}
}

// adjacentStage finds stage regular.ID+1 inside the same league season. Stage
// ids are not guaranteed to be sequential within a season, so this can pair
// unrelated stages; hydration re-checks it against stage metadata.
func adjacentStage(stages []StageSummary, regular StageSummary) (StageSummary, bool) {
	for _, s := range stages {
		if s.ID == regular.ID+1 && s.LeagueID == regular.LeagueID && s.SeasonID == regular.SeasonID {
			return s, true
		}
	}
	return StageSummary{}, false
}

func stageRow(s StageSummary, ranges map[int64]*StageDateRange, compressSeason bool) Row {
	season := s.SeasonName
	if compressSeason {
		season = CompressSeasonLabel(season)
	}
	row := Row{
		StageIDs:    []int64{s.ID},
		Name:        s.Name,
		LeagueID:    s.LeagueID,
		LeagueName:  s.LeagueName,
		SeasonID:    s.SeasonID,
		SeasonLabel: season,
		Code:        s.Code,
		SeriesType:  s.SeriesType,
		ImagePath:   s.ImagePath,
	}
	row.StartDate, row.EndDate = spanOf(row.StageIDs, ranges)
	return row
}

func spanOf(stageIDs []int64, ranges map[int64]*StageDateRange) (*time.Time, *time.Time) {
	var start, end *time.Time
	for _, id := range stageIDs {
		r, ok := ranges[id]
		if !ok {
			continue
		}
		if start == nil || r.Start.Before(*start) {
			v := r.Start
			start = &v
		}
		if end == nil || r.End.After(*end) {
			v := r.End
			end = &v
		}
	}
	return start, end
}
