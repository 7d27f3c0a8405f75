package series

import (
	"slices"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/fixture"
)

type fixtureCase struct {
	id         int64
	stageID    int64
	stageName  string
	leagueID   int64
	seasonID   int64
	code       string
	seasonName string
	matchType  string
	start      string
}

func buildFixture(t *testing.T, s fixtureCase) fixture.Fixture {
	t.Helper()

	startingAt, err := time.Parse("2006-01-02", s.start)
	if err != nil {
		t.Fatalf("parse start %q: %v", s.start, err)
	}
	season := s.seasonName
	if season == "" {
		season = "2024"
	}
	return fixture.Fixture{
		ID:         s.id,
		Type:       s.matchType,
		StartingAt: startingAt,
		Stage:      &fixture.StageRef{ID: s.stageID, Name: s.stageName},
		League:     &fixture.LeagueRef{ID: s.leagueID, Name: "League", Code: s.code},
		Season:     &fixture.SeasonRef{ID: s.seasonID, Name: season},
	}
}

func buildFixtures(t *testing.T, cases ...fixtureCase) []fixture.Fixture {
	t.Helper()
	out := make([]fixture.Fixture, 0, len(cases))
	for _, s := range cases {
		out = append(out, buildFixture(t, s))
	}
	return out
}

func mustDate(t *testing.T, v string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", v)
	if err != nil {
		t.Fatalf("parse %q: %v", v, err)
	}
	return parsed
}

func TestStageDateRanges_MinAndMaxPerStage(t *testing.T) {
	t.Parallel()

	fixtures := buildFixtures(t,
		fixtureCase{id: 1, stageID: 10, leagueID: 5, seasonID: 2024, start: "2024-03-10"},
		fixtureCase{id: 2, stageID: 10, leagueID: 5, seasonID: 2024, start: "2024-03-01"},
		fixtureCase{id: 3, stageID: 10, leagueID: 5, seasonID: 2024, start: "2024-04-20"},
		fixtureCase{id: 4, stageID: 11, leagueID: 5, seasonID: 2024, start: "2024-05-02"},
	)

	ranges := StageDateRanges(fixtures)
	if got := ranges[10]; !got.Start.Equal(mustDate(t, "2024-03-01")) || !got.End.Equal(mustDate(t, "2024-04-20")) {
		t.Fatalf("unexpected stage 10 range %v..%v", got.Start, got.End)
	}
	if got := ranges[11]; !got.Start.Equal(got.End) {
		t.Fatalf("expected single fixture stage to have start == end")
	}
}

func TestGroupSeries_SkipsUnlinkedFixtures(t *testing.T) {
	t.Parallel()

	linked := buildFixture(t, fixtureCase{id: 1, stageID: 10, stageName: "Group A", leagueID: 5, seasonID: 2024, start: "2024-03-01"})
	missingStage := linked
	missingStage.Stage = nil
	missingLeague := linked
	missingLeague.League = nil
	missingSeason := linked
	missingSeason.Season = nil

	rows := GroupSeries([]fixture.Fixture{missingStage, missingLeague, missingSeason})
	if len(rows) != 0 {
		t.Fatalf("expected no rows for unlinked fixtures, got %d", len(rows))
	}

	rows = GroupSeries([]fixture.Fixture{missingStage, linked})
	if len(rows) != 1 || rows[0].PrimaryStageID() != 10 {
		t.Fatalf("expected only the linked fixture to group, got %+v", rows)
	}
}

func TestGroupSeries_FormatCodeNeverPairs(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"ODI", "T20I", "Test", "test/5day", "List A", "4day"} {
		fixtures := buildFixtures(t,
			fixtureCase{id: 1, stageID: 30, stageName: "Regular Season", leagueID: 3, seasonID: 2024, code: code, seasonName: "2022/2025", start: "2024-01-10"},
			fixtureCase{id: 2, stageID: 31, stageName: "Play Offs", leagueID: 3, seasonID: 2024, code: code, seasonName: "2022/2025", start: "2024-02-10"},
			fixtureCase{id: 3, stageID: 32, stageName: "Tour", leagueID: 3, seasonID: 2024, code: code, seasonName: "2022/2025", start: "2024-03-10"},
		)

		rows := GroupSeries(fixtures)
		if len(rows) != 3 {
			t.Fatalf("code %q: expected one row per stage, got %d", code, len(rows))
		}
		for _, row := range rows {
			if len(row.StageIDs) != 1 {
				t.Fatalf("code %q: expected single stage row, got %v", code, row.StageIDs)
			}
			if row.SeasonLabel != "2022/2025" {
				t.Fatalf("code %q: format rows keep the raw season label, got %q", code, row.SeasonLabel)
			}
		}
		if rows[0].StartDate == nil || !rows[0].StartDate.Equal(mustDate(t, "2024-01-10")) {
			t.Fatalf("code %q: expected own stage window", code)
		}
	}
}

func TestGroupSeries_RegularAndPlayoffPair(t *testing.T) {
	t.Parallel()

	fixtures := buildFixtures(t,
		fixtureCase{id: 1, stageID: 10, stageName: "Regular Season", leagueID: 5, seasonID: 2024, code: "BBL", matchType: "T20", start: "2024-12-15"},
		fixtureCase{id: 2, stageID: 10, stageName: "Regular Season", leagueID: 5, seasonID: 2024, code: "BBL", matchType: "T20", start: "2025-01-19"},
		fixtureCase{id: 3, stageID: 11, stageName: "Play Offs", leagueID: 5, seasonID: 2024, code: "BBL", matchType: "T20", start: "2025-01-27"},
	)

	rows := GroupSeries(fixtures)
	if len(rows) != 1 {
		t.Fatalf("expected one paired row, got %d", len(rows))
	}
	row := rows[0]
	if !slices.Equal(row.StageIDs, []int64{10, 11}) {
		t.Fatalf("expected stage ids [10 11], got %v", row.StageIDs)
	}
	if row.Name != "Regular Season" || row.SeriesType != "T20" {
		t.Fatalf("expected regular stage name and type, got %q %q", row.Name, row.SeriesType)
	}
	if !row.StartDate.Equal(mustDate(t, "2024-12-15")) || !row.EndDate.Equal(mustDate(t, "2025-01-27")) {
		t.Fatalf("expected window covering both stages, got %v..%v", row.StartDate, row.EndDate)
	}

	reversed := slices.Clone(fixtures)
	slices.Reverse(reversed)
	again := GroupSeries(reversed)
	if len(again) != 1 || !slices.Equal(again[0].StageIDs, []int64{10, 11}) {
		t.Fatalf("pairing must not depend on fixture order, got %+v", again)
	}
}

func TestGroupSeries_HundredBallLeaguePairs(t *testing.T) {
	t.Parallel()

	fixtures := buildFixtures(t,
		fixtureCase{id: 1, stageID: 10, stageName: "Regular Season", leagueID: 8, seasonID: 2025, code: "100-Ball", start: "2025-08-05"},
		fixtureCase{id: 2, stageID: 11, stageName: "Play Offs", leagueID: 8, seasonID: 2025, code: "100-Ball", start: "2025-08-29"},
	)

	rows := GroupSeries(fixtures)
	if len(rows) != 1 || !slices.Equal(rows[0].StageIDs, []int64{10, 11}) {
		t.Fatalf("expected one paired row [10 11], got %+v", rows)
	}
}

func TestGroupSeries_PlayoffWithLowerIDSortsFirst(t *testing.T) {
	t.Parallel()

	fixtures := buildFixtures(t,
		fixtureCase{id: 1, stageID: 41, stageName: "Regular", leagueID: 5, seasonID: 2024, start: "2024-03-01"},
		fixtureCase{id: 2, stageID: 40, stageName: "Play Off", leagueID: 5, seasonID: 2024, start: "2024-04-01"},
	)

	rows := GroupSeries(fixtures)
	if len(rows) != 1 || !slices.Equal(rows[0].StageIDs, []int64{40, 41}) {
		t.Fatalf("expected sorted stage ids [40 41], got %+v", rows)
	}
	if rows[0].PrimaryStageID() != 40 {
		t.Fatalf("expected primary 40, got %d", rows[0].PrimaryStageID())
	}
}

// Adjacent ids are only a hint; provider ids are not guaranteed sequential
// within a season, so these cases document the heuristic rather than trust it.
func TestGroupSeries_AdjacencyFallback(t *testing.T) {
	t.Parallel()

	t.Run("pairs id+1 in the same league season", func(t *testing.T) {
		fixtures := buildFixtures(t,
			fixtureCase{id: 1, stageID: 20, stageName: "Regular", leagueID: 5, seasonID: 2024, start: "2024-03-01"},
			fixtureCase{id: 2, stageID: 21, stageName: "Final", leagueID: 5, seasonID: 2024, start: "2024-05-01"},
		)
		rows := GroupSeries(fixtures)
		if len(rows) != 1 || !slices.Equal(rows[0].StageIDs, []int64{20, 21}) {
			t.Fatalf("expected adjacency pair, got %+v", rows)
		}
	})

	t.Run("does not pair across leagues", func(t *testing.T) {
		fixtures := buildFixtures(t,
			fixtureCase{id: 1, stageID: 20, stageName: "Regular", leagueID: 5, seasonID: 2024, start: "2024-03-01"},
			fixtureCase{id: 2, stageID: 21, stageName: "Unrelated", leagueID: 9, seasonID: 2024, start: "2024-05-01"},
		)
		rows := GroupSeries(fixtures)
		if len(rows) != 2 {
			t.Fatalf("expected two separate rows, got %d", len(rows))
		}
		if !slices.Equal(rows[0].StageIDs, []int64{20}) || !slices.Equal(rows[1].StageIDs, []int64{21}) {
			t.Fatalf("unexpected rows %+v", rows)
		}
	})

	t.Run("gap of two is not adjacent", func(t *testing.T) {
		fixtures := buildFixtures(t,
			fixtureCase{id: 1, stageID: 20, stageName: "Regular", leagueID: 5, seasonID: 2024, start: "2024-03-01"},
			fixtureCase{id: 2, stageID: 22, stageName: "Final", leagueID: 5, seasonID: 2024, start: "2024-05-01"},
		)
		rows := GroupSeries(fixtures)
		if len(rows) != 1 || !slices.Equal(rows[0].StageIDs, []int64{20}) {
			t.Fatalf("expected regular stage alone, got %+v", rows)
		}
	})
}

// The id+1 fallback trusts league and season only. A qualifier that the
// provider numbered right after the regular stage is paired even though it
// belongs to another competition phase.
func TestGroupSeries_AdjacencyHeuristicMisPairsNonSequentialIDs(t *testing.T) {
	t.Parallel()

	fixtures := buildFixtures(t,
		fixtureCase{id: 1, stageID: 30, stageName: "Regular", leagueID: 5, seasonID: 2024, start: "2024-03-01"},
		fixtureCase{id: 2, stageID: 31, stageName: "Qualifier", leagueID: 5, seasonID: 2024, start: "2023-11-01"},
	)
	rows := GroupSeries(fixtures)
	if len(rows) != 1 || !slices.Equal(rows[0].StageIDs, []int64{30, 31}) {
		t.Fatalf("expected heuristic pair, got %+v", rows)
	}
	if rows[0].StartDate == nil || !rows[0].StartDate.Equal(mustDate(t, "2023-11-01")) {
		t.Fatalf("expected window widened by the mis-paired stage, got %v", rows[0].StartDate)
	}
}

func TestGroupSeries_LastRegularWins(t *testing.T) {
	t.Parallel()

	fixtures := buildFixtures(t,
		fixtureCase{id: 1, stageID: 50, stageName: "Regular Season North", leagueID: 5, seasonID: 2024, start: "2024-03-01"},
		fixtureCase{id: 2, stageID: 52, stageName: "Regular Season South", leagueID: 5, seasonID: 2024, start: "2024-03-05"},
	)

	rows := GroupSeries(fixtures)
	if len(rows) != 1 {
		t.Fatalf("expected a single row, got %d", len(rows))
	}
	if rows[0].Name != "Regular Season South" {
		t.Fatalf("expected the highest id regular stage, got %q", rows[0].Name)
	}
}

func TestGroupSeries_FallbackEmitsEveryStageWithCompressedSeason(t *testing.T) {
	t.Parallel()

	fixtures := buildFixtures(t,
		fixtureCase{id: 1, stageID: 61, stageName: "Group A", leagueID: 7, seasonID: 900, seasonName: "2022/2025", start: "2024-06-02"},
		fixtureCase{id: 2, stageID: 60, stageName: "Group B", leagueID: 7, seasonID: 900, seasonName: "2022/2025", start: "2024-06-01"},
	)

	rows := GroupSeries(fixtures)
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(rows))
	}
	if rows[0].PrimaryStageID() != 60 || rows[1].PrimaryStageID() != 61 {
		t.Fatalf("expected ascending stage order inside a group, got %d,%d", rows[0].PrimaryStageID(), rows[1].PrimaryStageID())
	}
	for _, row := range rows {
		if row.SeasonLabel != "2022" {
			t.Fatalf("expected compressed season label, got %q", row.SeasonLabel)
		}
	}
}

func TestGroupSeries_GroupKeyUsesFullTriple(t *testing.T) {
	t.Parallel()

	fixtures := buildFixtures(t,
		fixtureCase{id: 1, stageID: 70, stageName: "Regular", leagueID: 1, seasonID: 2024, code: "", start: "2024-01-01"},
		fixtureCase{id: 2, stageID: 90, stageName: "Regular", leagueID: 2, seasonID: 2024, code: "", start: "2024-01-02"},
	)

	rows := GroupSeries(fixtures)
	if len(rows) != 2 {
		t.Fatalf("expected distinct leagues with empty codes to stay apart, got %d rows", len(rows))
	}
}

func TestGroupSeries_EmitsGroupsInFirstSeenOrder(t *testing.T) {
	t.Parallel()

	fixtures := buildFixtures(t,
		fixtureCase{id: 1, stageID: 300, stageName: "Tour", leagueID: 3, seasonID: 1, start: "2024-09-01"},
		fixtureCase{id: 2, stageID: 100, stageName: "Tour", leagueID: 1, seasonID: 1, start: "2024-01-01"},
		fixtureCase{id: 3, stageID: 200, stageName: "Tour", leagueID: 2, seasonID: 1, start: "2024-05-01"},
	)

	rows := GroupSeries(fixtures)
	got := []int64{rows[0].PrimaryStageID(), rows[1].PrimaryStageID(), rows[2].PrimaryStageID()}
	if !slices.Equal(got, []int64{300, 100, 200}) {
		t.Fatalf("expected insertion order, got %v", got)
	}
}

func TestGroupSeries_UnknownStartLeavesRowUndated(t *testing.T) {
	t.Parallel()

	f := buildFixture(t, fixtureCase{id: 1, stageID: 80, stageName: "Tour", leagueID: 1, seasonID: 1, start: "2024-01-01"})
	f.StartingAt = time.Time{}

	rows := GroupSeries([]fixture.Fixture{f})
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].StartDate != nil || rows[0].EndDate != nil {
		t.Fatalf("expected no dates without a start time")
	}
}
