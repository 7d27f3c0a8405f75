package series

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// StageDateRange is the earliest and latest fixture start seen for a stage.
type StageDateRange struct {
	StageID int64
	Start   time.Time
	End     time.Time
}

func newStageDateRange(stageID int64, at time.Time) *StageDateRange {
	return &StageDateRange{StageID: stageID, Start: at, End: at}
}

func (r *StageDateRange) fold(at time.Time) {
	if at.Before(r.Start) {
		r.Start = at
	}
	if at.After(r.End) {
		r.End = at
	}
}

// StageSummary is what the grouper remembers about one stage of a group.
type StageSummary struct {
	ID         int64
	Name       string
	StageType  string
	LeagueID   int64
	LeagueName string
	SeasonID   int64
	SeasonName string
	Code       string
	SeriesType string
	ImagePath  string
}

// Row is one user facing series: a single stage, or a regular season merged
// with its playoff stage.
type Row struct {
	StageIDs    []int64
	Name        string
	LeagueID    int64
	LeagueName  string
	SeasonID    int64
	SeasonLabel string
	Code        string
	SeriesType  string
	ImagePath   string
	StartDate   *time.Time
	EndDate     *time.Time
	Hydrated    bool
}

// PrimaryStageID is the smallest stage id of the row, used as its key.
func (r Row) PrimaryStageID() int64 {
	if len(r.StageIDs) == 0 {
		return 0
	}
	return slices.Min(r.StageIDs)
}

func (r Row) HasDates() bool {
	return r.StartDate != nil && r.EndDate != nil
}

func (r Row) clone() Row {
	r.StageIDs = slices.Clone(r.StageIDs)
	r.StartDate = cloneTime(r.StartDate)
	r.EndDate = cloneTime(r.EndDate)
	return r
}

// Apply returns a copy of r with the non-empty values of p laid over it.
func (r Row) Apply(p Patch) Row {
	r = r.clone()
	if len(p.StageIDs) > 0 {
		r.StageIDs = normalizeStageIDs(p.StageIDs)
	}
	if p.StartDate != nil {
		r.StartDate = cloneTime(p.StartDate)
	}
	if p.EndDate != nil {
		r.EndDate = cloneTime(p.EndDate)
	}
	r.Hydrated = true
	return r
}

// Patch carries hydrated values for the row keyed by PrimaryStageID.
type Patch struct {
	PrimaryStageID int64
	StageIDs       []int64
	StartDate      *time.Time
	EndDate        *time.Time
}

// ParseSeriesID accepts "10" or "10,11" and returns the stage ids sorted
// ascending without duplicates.
func ParseSeriesID(raw string) ([]int64, error) {
	raw = strings.Trim(strings.TrimSpace(raw), "[]")
	if raw == "" {
		return nil, fmt.Errorf("series id is required")
	}

	ids := make([]int64, 0, 2)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid stage id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("series id is required")
	}

	return normalizeStageIDs(ids), nil
}

// FormatSeriesID is the inverse of ParseSeriesID.
func FormatSeriesID(stageIDs []int64) string {
	parts := make([]string, 0, len(stageIDs))
	for _, id := range stageIDs {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func normalizeStageIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
