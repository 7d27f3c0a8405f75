package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/fixture"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/domain/stage"
	"github.com/riskibarqy/cricket-hub/internal/platform/cache"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/singleflight"
)

const (
	seriesListingCacheKey = "series:listing_fixtures"
	seriesMatchesFanOut   = 4
)

// SeriesServiceConfig windows are relative to now. A nil Responses store
// disables caching of the upstream listing.
type SeriesServiceConfig struct {
	Lookback         time.Duration
	Lookahead        time.Duration
	HydrationTimeout time.Duration
	Responses        *cache.Store
	Logger           *logging.Logger
}

type ListSeriesInput struct {
	// Wait hydrates every row before returning.
	Wait bool
}

type SeriesService struct {
	fixtures   fixture.Provider
	stages     stage.Provider
	hydrator   *RangeHydrator
	rangeCache *RangeCache
	cfg        SeriesServiceConfig
	responses  *cache.Store
	logger     *logging.Logger
	warm       singleflight.Group
	now        func() time.Time
}

func NewSeriesService(
	fixtures fixture.Provider,
	stages stage.Provider,
	hydrator *RangeHydrator,
	rangeCache *RangeCache,
	cfg SeriesServiceConfig,
) *SeriesService {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 30 * 24 * time.Hour
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = 400 * 24 * time.Hour
	}
	if cfg.HydrationTimeout <= 0 {
		cfg.HydrationTimeout = 2 * time.Minute
	}

	return &SeriesService{
		fixtures:   fixtures,
		stages:     stages,
		hydrator:   hydrator,
		rangeCache: rangeCache,
		cfg:        cfg,
		responses:  cfg.Responses,
		logger:     logging.OrDefault(cfg.Logger).Named("series_service"),
		now:        time.Now,
	}
}

// ListSeries returns the grouped series ordered by start date. Cached windows
// are applied up front; without input.Wait the remaining rows are hydrated in
// the background so a later call converges.
func (s *SeriesService) ListSeries(ctx context.Context, input ListSeriesInput) ([]series.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeriesService.ListSeries")
	defer span.End()

	collection, err := s.provisional(ctx)
	if err != nil {
		return nil, err
	}

	if input.Wait {
		run := s.hydrator.Hydrate(ctx, pendingRows(collection.Rows()))
		for patch := range run.Patches() {
			collection.Apply(patch)
		}
	} else {
		s.warmInBackground(pendingRows(collection.Rows()))
	}

	rows := collection.Rows()
	series.SortByStart(rows)
	return rows, nil
}

// StartSeriesSession returns the provisional listing and a run that patches it.
// The caller owns the run and must cancel it when the session ends.
func (s *SeriesService) StartSeriesSession(ctx context.Context) ([]series.Row, *HydrationRun, error) {
	collection, err := s.provisional(ctx)
	if err != nil {
		return nil, nil, err
	}

	rows := collection.Rows()
	series.SortByStart(rows)
	return rows, s.hydrator.Hydrate(ctx, pendingRows(rows)), nil
}

// GetSeries accepts "10" or "10,11" and returns the series keyed by the
// smallest stage id with its resolved stage ids and window.
func (s *SeriesService) GetSeries(ctx context.Context, seriesID string) (series.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeriesService.GetSeries")
	defer span.End()

	stageIDs, err := series.ParseSeriesID(seriesID)
	if err != nil {
		return series.Row{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	primary := stageIDs[0]

	var (
		row   series.Row
		found bool
	)
	if collection, listErr := s.provisional(ctx); listErr != nil {
		s.logger.WarnContext(ctx, "series listing unavailable, falling back to stage lookup", "stage_id", primary, "error", listErr)
	} else {
		row, found = collection.Get(primary)
	}

	if !found {
		st, ok, err := s.stages.GetStage(ctx, primary)
		if err != nil {
			return series.Row{}, fmt.Errorf("get stage: %w", err)
		}
		if !ok {
			return series.Row{}, fmt.Errorf("%w: series=%s", ErrNotFound, seriesID)
		}
		row = series.Row{
			StageIDs: stageIDs,
			Name:     st.Name,
			LeagueID: st.LeagueID,
			SeasonID: st.SeasonID,
			Code:     st.Code,
		}
	}

	if !row.Hydrated {
		if patch, ok := s.hydrator.HydrateOne(ctx, primary); ok {
			row = row.Apply(patch)
		}
	}
	return row, nil
}

// ListSeriesMatches returns the fixtures of every stage in seriesID ordered by
// start time.
func (s *SeriesService) ListSeriesMatches(ctx context.Context, seriesID string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeriesService.ListSeriesMatches")
	defer span.End()

	stageIDs, err := series.ParseSeriesID(seriesID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	p := pool.NewWithResults[[]fixture.Fixture]().
		WithContext(ctx).
		WithMaxGoroutines(seriesMatchesFanOut).
		WithCancelOnError()
	for _, id := range stageIDs {
		p.Go(func(ctx context.Context) ([]fixture.Fixture, error) {
			items, err := s.fixtures.ListStageFixtures(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("list fixtures stage=%d: %w", id, err)
			}
			return items, nil
		})
	}
	batches, err := p.Wait()
	if err != nil {
		return nil, err
	}

	out := mergeFixtures(batches...)
	slices.SortStableFunc(out, func(a, b fixture.Fixture) int {
		if c := a.StartingAt.Compare(b.StartingAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// ListSeriesStandings returns the table of the series' primary stage.
func (s *SeriesService) ListSeriesStandings(ctx context.Context, seriesID string) ([]stage.Standing, error) {
	stageIDs, err := series.ParseSeriesID(seriesID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	standings, err := s.stages.ListStandings(ctx, stageIDs[0])
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	return standings, nil
}

// provisional builds the grouped listing, folds adjacent rows and overlays
// every valid cached window.
func (s *SeriesService) provisional(ctx context.Context) (*series.Collection, error) {
	fixtures, err := s.listingFixtures(ctx)
	if err != nil {
		return nil, err
	}

	collection := series.NewCollection(series.FoldAdjacent(series.GroupSeries(fixtures)))
	for _, key := range collection.Keys() {
		if patch, ok := s.rangeCache.Get(ctx, key); ok {
			collection.Apply(patch)
		}
	}
	return collection, nil
}

func (s *SeriesService) listingFixtures(ctx context.Context) ([]fixture.Fixture, error) {
	if s.responses == nil {
		return s.fetchListingFixtures(ctx)
	}

	value, err := s.responses.GetOrLoad(ctx, seriesListingCacheKey, func(ctx context.Context) (any, error) {
		return s.fetchListingFixtures(ctx)
	})
	if err != nil {
		return nil, err
	}
	fixtures, ok := value.([]fixture.Fixture)
	if !ok {
		return nil, fmt.Errorf("unexpected cached listing type %T", value)
	}
	return fixtures, nil
}

// fetchListingFixtures loads the past window, the future window and live
// scores together. Any failure fails the listing.
func (s *SeriesService) fetchListingFixtures(ctx context.Context) ([]fixture.Fixture, error) {
	now := s.now().UTC()
	past := fixture.Window{From: now.Add(-s.cfg.Lookback), To: now}
	upcoming := fixture.Window{From: now, To: now.Add(s.cfg.Lookahead)}

	p := pool.NewWithResults[[]fixture.Fixture]().
		WithContext(ctx).
		WithCancelOnError()
	p.Go(func(ctx context.Context) ([]fixture.Fixture, error) {
		return s.fixtures.ListFixtures(ctx, past)
	})
	p.Go(func(ctx context.Context) ([]fixture.Fixture, error) {
		return s.fixtures.ListFixtures(ctx, upcoming)
	})
	p.Go(func(ctx context.Context) ([]fixture.Fixture, error) {
		return s.fixtures.ListLiveScores(ctx)
	})

	batches, err := p.Wait()
	if err != nil {
		return nil, fmt.Errorf("list series fixtures: %w", err)
	}
	return mergeFixtures(batches...), nil
}

func (s *SeriesService) warmInBackground(rows []series.Row) {
	if len(rows) == 0 {
		return
	}
	s.warm.DoChan("warm", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HydrationTimeout)
		defer cancel()

		s.hydrator.Hydrate(ctx, rows).Wait()
		return nil, nil
	})
}

func pendingRows(rows []series.Row) []series.Row {
	out := make([]series.Row, 0, len(rows))
	for _, row := range rows {
		if !row.Hydrated {
			out = append(out, row)
		}
	}
	return out
}

// mergeFixtures concatenates batches keeping the first fixture seen per id.
func mergeFixtures(batches ...[]fixture.Fixture) []fixture.Fixture {
	total := 0
	for _, batch := range batches {
		total += len(batch)
	}

	seen := make(map[int64]struct{}, total)
	out := make([]fixture.Fixture, 0, total)
	for _, batch := range batches {
		for _, item := range batch {
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
