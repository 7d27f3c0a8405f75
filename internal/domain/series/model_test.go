package series

import (
	"slices"
	"sync"
	"testing"
	"time"
)

func TestParseSeriesID(t *testing.T) {
	t.Parallel()

	ids, err := ParseSeriesID(" 11, 10 ,10")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !slices.Equal(ids, []int64{10, 11}) {
		t.Fatalf("expected [10 11], got %v", ids)
	}
	if FormatSeriesID(ids) != "10,11" {
		t.Fatalf("unexpected format %q", FormatSeriesID(ids))
	}

	for _, raw := range []string{"", ",", "abc", "-4", "10,x"} {
		if _, err := ParseSeriesID(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestCollection_DedupePrefersDatedRow(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []Row{
		{StageIDs: []int64{10}, Name: "undated"},
		{StageIDs: []int64{10, 11}, Name: "dated", StartDate: &start, EndDate: &start},
		{StageIDs: []int64{12}, Name: "other"},
	}

	c := NewCollection(rows)
	if c.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", c.Len())
	}
	got, ok := c.Get(10)
	if !ok || got.Name != "dated" {
		t.Fatalf("expected dated row to win, got %+v", got)
	}
	if keys := c.Keys(); !slices.Equal(keys, []int64{10, 12}) {
		t.Fatalf("unexpected key order %v", keys)
	}
}

func TestCollection_ApplyPatchesByPrimaryStage(t *testing.T) {
	t.Parallel()

	c := NewCollection([]Row{{StageIDs: []int64{10}, Name: "Regular Season"}})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 2, 0)

	row, ok := c.Apply(Patch{PrimaryStageID: 10, StageIDs: []int64{11, 10}, StartDate: &start, EndDate: &end})
	if !ok {
		t.Fatalf("expected patch to apply")
	}
	if !slices.Equal(row.StageIDs, []int64{10, 11}) || !row.Hydrated {
		t.Fatalf("unexpected patched row %+v", row)
	}
	if _, ok := c.Apply(Patch{PrimaryStageID: 99}); ok {
		t.Fatalf("patch for unknown row must be ignored")
	}
	if c.Len() != 1 {
		t.Fatalf("patching must not create rows")
	}

	start = start.AddDate(1, 0, 0)
	stored, _ := c.Get(10)
	if stored.StartDate.Year() != 2024 {
		t.Fatalf("collection must not alias patch times")
	}
}

func TestCollection_ConcurrentApplyAndRead(t *testing.T) {
	t.Parallel()

	rows := make([]Row, 0, 50)
	for i := int64(1); i <= 50; i++ {
		rows = append(rows, Row{StageIDs: []int64{i * 10}})
	}
	c := NewCollection(rows)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			c.Apply(Patch{PrimaryStageID: id * 10, StartDate: &at, EndDate: &at})
		}(i)
		go func() {
			defer wg.Done()
			_ = c.Rows()
		}()
	}
	wg.Wait()

	for _, row := range c.Rows() {
		if !row.Hydrated {
			t.Fatalf("expected every row hydrated, row %d is not", row.PrimaryStageID())
		}
	}
}

func TestSortByStart(t *testing.T) {
	t.Parallel()

	d := func(day int) *time.Time {
		v := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
		return &v
	}
	rows := []Row{
		{StageIDs: []int64{5}},
		{StageIDs: []int64{4}, StartDate: d(3)},
		{StageIDs: []int64{3}, StartDate: d(1)},
		{StageIDs: []int64{2}, StartDate: d(3)},
		{StageIDs: []int64{1}},
	}
	SortByStart(rows)

	got := make([]int64, 0, len(rows))
	for _, row := range rows {
		got = append(got, row.PrimaryStageID())
	}
	if !slices.Equal(got, []int64{3, 2, 4, 1, 5}) {
		t.Fatalf("unexpected order %v", got)
	}
}
