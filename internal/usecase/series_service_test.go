package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/fixture"
	"github.com/riskibarqy/cricket-hub/internal/domain/stage"
	"github.com/riskibarqy/cricket-hub/internal/platform/cache"
)

type seriesFixtureSet struct {
	fixtures *fixtureProviderStub
	stages   *stageProviderStub
	store    *memoryRangeStore
}

func newSeriesFixtureSet() seriesFixtureSet {
	regular := linkedFixture(1, 10, "Regular Season", 5, 2024, "BBL", "T20", at(2025, 1, 5))
	playoff := linkedFixture(2, 11, "Play Off", 5, 2024, "BBL", "T20", at(2025, 1, 20))
	odiA := linkedFixture(3, 30, "India tour", 7, 2025, "ODI", "ODI", at(2025, 1, 8))
	odiB := linkedFixture(4, 31, "Australia tour", 7, 2025, "ODI", "ODI", at(2025, 1, 9))

	return seriesFixtureSet{
		fixtures: &fixtureProviderStub{
			windowFixtures: []fixture.Fixture{regular, playoff, odiA, odiB},
			live:           []fixture.Fixture{playoff},
			byStage: map[int64][]fixture.Fixture{
				10: {regular},
				11: {playoff},
				30: {odiA},
				31: {odiB},
			},
		},
		stages: &stageProviderStub{
			stages: map[int64]stage.Stage{
				10: {ID: 10, LeagueID: 5, SeasonID: 2024, Code: "BBL", Name: "Regular Season"},
				11: {ID: 11, LeagueID: 5, SeasonID: 2024, Code: "BBL", Name: "Play Off"},
				30: {ID: 30, LeagueID: 7, SeasonID: 2025, Code: "ODI"},
				31: {ID: 31, LeagueID: 7, SeasonID: 2025, Code: "ODI"},
				50: {ID: 50, LeagueID: 8, SeasonID: 2025, Code: "CPL", Name: "Caribbean Premier League"},
			},
			standings: map[int64][]stage.Standing{
				10: {{Position: 1, TeamID: 3, TeamName: "Sixers"}},
			},
		},
		store: newMemoryRangeStore(),
	}
}

func (set seriesFixtureSet) service(t *testing.T, responses *cache.Store) *SeriesService {
	t.Helper()

	rangeCache := NewRangeCache(set.store, 6*time.Hour, nil)
	h, err := NewRangeHydrator(set.fixtures, set.stages, rangeCache, RangeHydratorConfig{Workers: 4})
	if err != nil {
		t.Fatalf("new hydrator: %v", err)
	}
	t.Cleanup(h.Close)

	svc := NewSeriesService(set.fixtures, set.stages, h, rangeCache, SeriesServiceConfig{Responses: responses})
	svc.now = func() time.Time { return time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestSeriesService_ListSeries_WaitConverges(t *testing.T) {
	t.Parallel()

	set := newSeriesFixtureSet()
	rows, err := set.service(t, nil).ListSeries(context.Background(), ListSeriesInput{Wait: true})
	if err != nil {
		t.Fatalf("list series: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if ids := rows[0].StageIDs; len(ids) != 2 || ids[0] != 10 || ids[1] != 11 {
		t.Fatalf("expected paired BBL row first, got %v", ids)
	}
	if rows[1].PrimaryStageID() != 30 || rows[2].PrimaryStageID() != 31 {
		t.Fatalf("expected ODI rows ordered by start, got %d,%d", rows[1].PrimaryStageID(), rows[2].PrimaryStageID())
	}
	for _, row := range rows {
		if !row.Hydrated {
			t.Fatalf("expected row %v hydrated", row.StageIDs)
		}
	}
	if !rows[0].StartDate.Equal(at(2025, 1, 5)) || !rows[0].EndDate.Equal(at(2025, 1, 20)) {
		t.Fatalf("unexpected BBL window %v..%v", rows[0].StartDate, rows[0].EndDate)
	}
	if rows[0].SeasonLabel != "2024/2025" {
		t.Fatalf("unexpected season label %q", rows[0].SeasonLabel)
	}
}

func TestSeriesService_ListSeries_WarmsCacheInBackground(t *testing.T) {
	t.Parallel()

	set := newSeriesFixtureSet()
	svc := set.service(t, nil)

	rows, err := svc.ListSeries(context.Background(), ListSeriesInput{})
	if err != nil {
		t.Fatalf("list series: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 provisional rows, got %d", len(rows))
	}

	deadline := time.Now().Add(2 * time.Second)
	for set.store.sets.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("background hydration did not warm the cache, sets=%d", set.store.sets.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	rows, err = svc.ListSeries(context.Background(), ListSeriesInput{})
	if err != nil {
		t.Fatalf("list series again: %v", err)
	}
	for _, row := range rows {
		if !row.Hydrated {
			t.Fatalf("expected cached window applied to %v", row.StageIDs)
		}
	}
}

func TestSeriesService_ListSeries_UpstreamFailureFailsListing(t *testing.T) {
	t.Parallel()

	set := newSeriesFixtureSet()
	set.fixtures.liveErr = errUpstream

	_, err := set.service(t, nil).ListSeries(context.Background(), ListSeriesInput{Wait: true})
	if !errors.Is(err, errUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestSeriesService_ListSeries_ReusesCachedListing(t *testing.T) {
	t.Parallel()

	set := newSeriesFixtureSet()
	svc := set.service(t, cache.NewStore(time.Minute))

	for i := 0; i < 2; i++ {
		if _, err := svc.ListSeries(context.Background(), ListSeriesInput{Wait: true}); err != nil {
			t.Fatalf("list series: %v", err)
		}
	}
	if got := set.fixtures.windowCalls.Load(); got != 2 {
		t.Fatalf("expected one past and one future window fetch, got %d", got)
	}
	if got := set.fixtures.liveCalls.Load(); got != 1 {
		t.Fatalf("expected one live scores fetch, got %d", got)
	}
}

func TestSeriesService_StartSeriesSession(t *testing.T) {
	t.Parallel()

	set := newSeriesFixtureSet()
	rows, run, err := set.service(t, nil).StartSeriesSession(context.Background())
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	defer run.Cancel()

	if len(rows) != 3 {
		t.Fatalf("expected 3 snapshot rows, got %d", len(rows))
	}
	patches := collectPatches(run)
	if len(patches) != 3 {
		t.Fatalf("expected a patch per row, got %d", len(patches))
	}
	if ids := patches[10].StageIDs; len(ids) != 2 {
		t.Fatalf("expected BBL patch to carry both stages, got %v", ids)
	}
}

func TestSeriesService_GetSeries(t *testing.T) {
	t.Parallel()

	set := newSeriesFixtureSet()
	svc := set.service(t, nil)

	row, err := svc.GetSeries(context.Background(), "11,10")
	if err != nil {
		t.Fatalf("get series: %v", err)
	}
	if row.PrimaryStageID() != 10 || len(row.StageIDs) != 2 || !row.Hydrated {
		t.Fatalf("unexpected row %+v", row)
	}

	row, err = svc.GetSeries(context.Background(), "50")
	if err != nil {
		t.Fatalf("get series outside listing: %v", err)
	}
	if row.Name != "Caribbean Premier League" || row.LeagueID != 8 {
		t.Fatalf("expected row built from stage metadata, got %+v", row)
	}

	if _, err := svc.GetSeries(context.Background(), "99"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetSeries(context.Background(), "ten"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSeriesService_ListSeriesMatchesAndStandings(t *testing.T) {
	t.Parallel()

	set := newSeriesFixtureSet()
	svc := set.service(t, nil)

	matches, err := svc.ListSeriesMatches(context.Background(), "11,10")
	if err != nil {
		t.Fatalf("list series matches: %v", err)
	}
	if len(matches) != 2 || matches[0].ID != 1 || matches[1].ID != 2 {
		t.Fatalf("unexpected matches %+v", matches)
	}

	set.fixtures.stageErr = map[int64]error{11: errUpstream}
	if _, err := svc.ListSeriesMatches(context.Background(), "10,11"); !errors.Is(err, errUpstream) {
		t.Fatalf("expected stage failure to fail the listing, got %v", err)
	}

	standings, err := svc.ListSeriesStandings(context.Background(), "10,11")
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(standings) != 1 || standings[0].TeamName != "Sixers" {
		t.Fatalf("unexpected standings %+v", standings)
	}
}

func TestSeriesService_ListSeries_FoldsAdjacentStagesIntoOneRow(t *testing.T) {
	t.Parallel()

	groupA := linkedFixture(1, 10, "Group A", 5, 2024, "WPL", "T20", at(2025, 1, 5))
	final := linkedFixture(2, 11, "Final", 5, 2024, "WPL", "T20", at(2025, 1, 25))
	set := seriesFixtureSet{
		fixtures: &fixtureProviderStub{
			windowFixtures: []fixture.Fixture{groupA, final},
			byStage:        map[int64][]fixture.Fixture{10: {groupA}, 11: {final}},
		},
		stages: &stageProviderStub{stages: map[int64]stage.Stage{
			10: {ID: 10, LeagueID: 5, SeasonID: 2024, Code: "WPL"},
			11: {ID: 11, LeagueID: 5, SeasonID: 2024, Code: "WPL"},
		}},
		store: newMemoryRangeStore(),
	}

	rows, err := set.service(t, nil).ListSeries(context.Background(), ListSeriesInput{Wait: true})
	if err != nil {
		t.Fatalf("list series: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected stage 11 folded into stage 10, got %d rows", len(rows))
	}
	if ids := rows[0].StageIDs; len(ids) != 2 || ids[0] != 10 || ids[1] != 11 {
		t.Fatalf("expected stage ids [10 11], got %v", ids)
	}
	if !rows[0].StartDate.Equal(at(2025, 1, 5)) || !rows[0].EndDate.Equal(at(2025, 1, 25)) {
		t.Fatalf("unexpected window %v..%v", rows[0].StartDate, rows[0].EndDate)
	}
}
