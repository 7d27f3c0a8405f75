package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/fixture"
	"github.com/riskibarqy/cricket-hub/internal/domain/media"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/domain/stage"
)

var errUpstream = errors.New("upstream down")

type fixtureProviderStub struct {
	windowFixtures []fixture.Fixture
	windowErr      error
	live           []fixture.Fixture
	liveErr        error
	byStage        map[int64][]fixture.Fixture
	stageErr       map[int64]error
	byID           map[int64]fixture.Fixture
	byTeam         map[int64][]fixture.Fixture
	delay          time.Duration

	windowCalls atomic.Int32
	liveCalls   atomic.Int32
	stageCalls  atomic.Int32
	aborted     atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	mu      sync.Mutex
	windows []fixture.Window
}

func (s *fixtureProviderStub) ListFixtures(_ context.Context, window fixture.Window) ([]fixture.Fixture, error) {
	s.windowCalls.Add(1)
	s.mu.Lock()
	s.windows = append(s.windows, window)
	s.mu.Unlock()
	if s.windowErr != nil {
		return nil, s.windowErr
	}
	var out []fixture.Fixture
	for _, item := range s.windowFixtures {
		if !item.StartingAt.Before(window.From) && item.StartingAt.Before(window.To) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *fixtureProviderStub) ListLiveScores(context.Context) ([]fixture.Fixture, error) {
	s.liveCalls.Add(1)
	return s.live, s.liveErr
}

func (s *fixtureProviderStub) ListStageFixtures(ctx context.Context, stageID int64) ([]fixture.Fixture, error) {
	s.stageCalls.Add(1)
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		seen := s.maxInFlight.Load()
		if current <= seen || s.maxInFlight.CompareAndSwap(seen, current) {
			break
		}
	}

	if s.delay > 0 {
		select {
		case <-ctx.Done():
			s.aborted.Add(1)
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if err := s.stageErr[stageID]; err != nil {
		return nil, err
	}
	return s.byStage[stageID], nil
}

func (s *fixtureProviderStub) GetFixture(_ context.Context, id int64) (fixture.Fixture, bool, error) {
	item, ok := s.byID[id]
	return item, ok, nil
}

func (s *fixtureProviderStub) ListTeamFixtures(_ context.Context, teamID int64) ([]fixture.Fixture, error) {
	return s.byTeam[teamID], nil
}

type stageProviderStub struct {
	stages    map[int64]stage.Stage
	errs      map[int64]error
	standings map[int64][]stage.Standing
	calls     atomic.Int32
}

func (s *stageProviderStub) GetStage(_ context.Context, id int64) (stage.Stage, bool, error) {
	s.calls.Add(1)
	if err := s.errs[id]; err != nil {
		return stage.Stage{}, false, err
	}
	st, ok := s.stages[id]
	return st, ok, nil
}

func (s *stageProviderStub) ListStandings(_ context.Context, id int64) ([]stage.Standing, error) {
	return s.standings[id], nil
}

type memoryRangeStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    atomic.Int32
	deletes atomic.Int32
}

func newMemoryRangeStore() *memoryRangeStore {
	return &memoryRangeStore{data: make(map[string][]byte)}
}

func (s *memoryRangeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memoryRangeStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.sets.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memoryRangeStore) Delete(_ context.Context, key string) error {
	s.deletes.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

type patchRecorder struct {
	mu      sync.Mutex
	patches []series.Patch
}

func (r *patchRecorder) PublishSeriesPatch(_ context.Context, patch series.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patches = append(r.patches, patch)
	return nil
}

func (r *patchRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.patches)
}

type newsSearcherStub struct {
	calls     atomic.Int32
	lastQuery string
	lastMax   int
	articles  []media.Article
}

func (s *newsSearcherStub) SearchNews(_ context.Context, query string, max int) ([]media.Article, error) {
	s.calls.Add(1)
	s.lastQuery = query
	s.lastMax = max
	return s.articles, nil
}

type videoSearcherStub struct {
	calls   atomic.Int32
	lastMax int
	videos  []media.Video
}

func (s *videoSearcherStub) SearchVideos(_ context.Context, _ string, max int) ([]media.Video, error) {
	s.calls.Add(1)
	s.lastMax = max
	return s.videos, nil
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 9, 0, 0, 0, time.UTC)
}

func linkedFixture(id, stageID int64, stageName string, leagueID, seasonID int64, code, matchType string, start time.Time) fixture.Fixture {
	return fixture.Fixture{
		ID:         id,
		Type:       matchType,
		StartingAt: start,
		Stage:      &fixture.StageRef{ID: stageID, Name: stageName},
		League:     &fixture.LeagueRef{ID: leagueID, Name: "League " + code, Code: code},
		Season:     &fixture.SeasonRef{ID: seasonID, Name: "2024/2025"},
	}
}
