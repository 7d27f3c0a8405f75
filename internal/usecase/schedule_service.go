package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/fixture"
	"github.com/riskibarqy/cricket-hub/internal/domain/stage"
	"github.com/riskibarqy/cricket-hub/internal/platform/cache"
)

const scheduleCacheKey = "schedule:fixtures"

type ScheduleServiceConfig struct {
	Lookback      time.Duration
	Lookahead     time.Duration
	TeamLookback  time.Duration
	TeamLookahead time.Duration
	Responses     *cache.Store
}

type ScheduleService struct {
	fixtures  fixture.Provider
	stages    stage.Provider
	cfg       ScheduleServiceConfig
	responses *cache.Store
	now       func() time.Time
}

func NewScheduleService(fixtures fixture.Provider, stages stage.Provider, cfg ScheduleServiceConfig) *ScheduleService {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 10 * 24 * time.Hour
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = 75 * 24 * time.Hour
	}
	if cfg.TeamLookback <= 0 {
		cfg.TeamLookback = 45 * 24 * time.Hour
	}
	if cfg.TeamLookahead <= 0 {
		cfg.TeamLookahead = 75 * 24 * time.Hour
	}

	return &ScheduleService{
		fixtures:  fixtures,
		stages:    stages,
		cfg:       cfg,
		responses: cfg.Responses,
		now:       time.Now,
	}
}

// ListSchedule returns fixtures starting inside the schedule window around now.
func (s *ScheduleService) ListSchedule(ctx context.Context) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ListSchedule")
	defer span.End()

	load := func(ctx context.Context) (any, error) {
		now := s.now().UTC()
		items, err := s.fixtures.ListFixtures(ctx, fixture.Window{
			From: now.Add(-s.cfg.Lookback),
			To:   now.Add(s.cfg.Lookahead),
		})
		if err != nil {
			return nil, fmt.Errorf("list schedule fixtures: %w", err)
		}
		return items, nil
	}

	if s.responses == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]fixture.Fixture), nil
	}

	value, err := s.responses.GetOrLoad(ctx, scheduleCacheKey, load)
	if err != nil {
		return nil, err
	}
	return value.([]fixture.Fixture), nil
}

func (s *ScheduleService) ListLiveMatches(ctx context.Context) ([]fixture.Fixture, error) {
	items, err := s.fixtures.ListLiveScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("list live scores: %w", err)
	}
	return items, nil
}

func (s *ScheduleService) ListTeamLiveMatches(ctx context.Context, teamID int64) ([]fixture.Fixture, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}

	items, err := s.ListLiveMatches(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if item.Involves(teamID) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *ScheduleService) GetMatch(ctx context.Context, matchID int64) (fixture.Fixture, error) {
	if matchID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}

	item, exists, err := s.fixtures.GetFixture(ctx, matchID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}
	return item, nil
}

// ListTeamMatches returns the team's fixtures and results strictly inside the
// team window, newest first.
func (s *ScheduleService) ListTeamMatches(ctx context.Context, teamID int64) ([]fixture.Fixture, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}

	items, err := s.fixtures.ListTeamFixtures(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team fixtures: %w", err)
	}

	now := s.now().UTC()
	from := now.Add(-s.cfg.TeamLookback)
	to := now.Add(s.cfg.TeamLookahead)

	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if item.StartingAt.After(from) && item.StartingAt.Before(to) {
			out = append(out, item)
		}
	}
	slices.SortStableFunc(out, func(a, b fixture.Fixture) int {
		if c := b.StartingAt.Compare(a.StartingAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (s *ScheduleService) GetStage(ctx context.Context, stageID int64) (stage.Stage, error) {
	if stageID <= 0 {
		return stage.Stage{}, fmt.Errorf("%w: stage id must be greater than zero", ErrInvalidInput)
	}

	item, exists, err := s.stages.GetStage(ctx, stageID)
	if err != nil {
		return stage.Stage{}, fmt.Errorf("get stage: %w", err)
	}
	if !exists {
		return stage.Stage{}, fmt.Errorf("%w: stage=%d", ErrNotFound, stageID)
	}
	return item, nil
}
