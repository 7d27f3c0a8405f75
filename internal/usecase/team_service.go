package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/riskibarqy/cricket-hub/internal/domain/fixture"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/domain/team"
	"github.com/riskibarqy/cricket-hub/internal/platform/cache"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	teamFanOut         = 4
	squadCachePrefix   = "team:squad:"
	seasonsCachePrefix = "team:seasons:"
)

type TeamServiceConfig struct {
	Responses *cache.Store
	Logger    *logging.Logger
}

type TeamService struct {
	fixtures  fixture.Provider
	teams     team.Provider
	responses *cache.Store
	logger    *logging.Logger
}

func NewTeamService(fixtures fixture.Provider, teams team.Provider, cfg TeamServiceConfig) *TeamService {
	return &TeamService{
		fixtures:  fixtures,
		teams:     teams,
		responses: cfg.Responses,
		logger:    logging.OrDefault(cfg.Logger).Named("team_service"),
	}
}

type squadKey struct {
	teamID   int64
	seasonID int64
}

// ListSeriesSquads returns one squad per team playing in seriesID, in order
// of the team's first fixture. A team whose roster the provider does not
// know is returned with no players.
func (s *TeamService) ListSeriesSquads(ctx context.Context, seriesID string) ([]team.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListSeriesSquads")
	defer span.End()

	stageIDs, err := series.ParseSeriesID(seriesID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	fp := pool.NewWithResults[[]fixture.Fixture]().
		WithContext(ctx).
		WithMaxGoroutines(teamFanOut).
		WithCancelOnError()
	for _, id := range stageIDs {
		fp.Go(func(ctx context.Context) ([]fixture.Fixture, error) {
			items, err := s.fixtures.ListStageFixtures(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("list fixtures stage=%d: %w", id, err)
			}
			return items, nil
		})
	}
	batches, err := fp.Wait()
	if err != nil {
		return nil, err
	}

	fixtures := mergeFixtures(batches...)
	slices.SortStableFunc(fixtures, func(a, b fixture.Fixture) int {
		if c := a.StartingAt.Compare(b.StartingAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	keys, names := seriesParticipants(fixtures)
	squads := make([]team.Squad, len(keys))

	sp := pool.New().
		WithContext(ctx).
		WithMaxGoroutines(teamFanOut).
		WithCancelOnError()
	for i, key := range keys {
		sp.Go(func(ctx context.Context) error {
			squad, found, err := s.squad(ctx, key.teamID, key.seasonID)
			if err != nil {
				return fmt.Errorf("get squad team=%d season=%d: %w", key.teamID, key.seasonID, err)
			}
			if !found {
				squad = team.Squad{TeamID: key.teamID, SeasonID: key.seasonID, Players: []team.Player{}}
			}
			if squad.TeamName == "" {
				squad.TeamName = names[key.teamID]
			}
			squads[i] = squad
			return nil
		})
	}
	if err := sp.Wait(); err != nil {
		return nil, err
	}
	return squads, nil
}

// GetTeamSquad returns the roster teamID registered for seasonID.
func (s *TeamService) GetTeamSquad(ctx context.Context, teamID, seasonID int64) (team.Squad, error) {
	if teamID <= 0 || seasonID <= 0 {
		return team.Squad{}, fmt.Errorf("%w: team id and season id must be greater than zero", ErrInvalidInput)
	}

	squad, found, err := s.squad(ctx, teamID, seasonID)
	if err != nil {
		return team.Squad{}, fmt.Errorf("get squad: %w", err)
	}
	if !found {
		return team.Squad{}, fmt.Errorf("%w: squad team=%d season=%d", ErrNotFound, teamID, seasonID)
	}
	return squad, nil
}

// ListTeamSeries returns the league seasons teamID has fixtures in, in order
// of first appearance in the team's fixture history. Seasons the provider no
// longer resolves are skipped.
func (s *TeamService) ListTeamSeries(ctx context.Context, teamID int64) ([]team.SeasonLeague, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeamSeries")
	defer span.End()

	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}

	value, err := s.load(ctx, seasonsCachePrefix+strconv.FormatInt(teamID, 10), func(ctx context.Context) (any, error) {
		return s.fetchTeamSeries(ctx, teamID)
	})
	if err != nil {
		return nil, err
	}
	return value.([]team.SeasonLeague), nil
}

func (s *TeamService) fetchTeamSeries(ctx context.Context, teamID int64) ([]team.SeasonLeague, error) {
	items, err := s.fixtures.ListTeamFixtures(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team fixtures: %w", err)
	}

	seasonIDs := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.SeasonID <= 0 {
			continue
		}
		if _, ok := seen[item.SeasonID]; ok {
			continue
		}
		seen[item.SeasonID] = struct{}{}
		seasonIDs = append(seasonIDs, item.SeasonID)
	}

	seasons := make([]team.SeasonLeague, len(seasonIDs))
	found := make([]bool, len(seasonIDs))
	p := pool.New().
		WithContext(ctx).
		WithMaxGoroutines(teamFanOut).
		WithCancelOnError()
	for i, id := range seasonIDs {
		p.Go(func(ctx context.Context) error {
			season, ok, err := s.teams.GetSeason(ctx, id)
			if err != nil {
				return fmt.Errorf("get season=%d: %w", id, err)
			}
			if !ok {
				s.logger.DebugContext(ctx, "season not resolvable, skipping", "team_id", teamID, "season_id", id)
				return nil
			}
			seasons[i], found[i] = season, true
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	out := make([]team.SeasonLeague, 0, len(seasons))
	for i, season := range seasons {
		if found[i] {
			out = append(out, season)
		}
	}
	return out, nil
}

type squadResult struct {
	squad team.Squad
	found bool
}

func (s *TeamService) squad(ctx context.Context, teamID, seasonID int64) (team.Squad, bool, error) {
	key := squadCachePrefix + strconv.FormatInt(teamID, 10) + ":" + strconv.FormatInt(seasonID, 10)
	value, err := s.load(ctx, key, func(ctx context.Context) (any, error) {
		squad, found, err := s.teams.GetSquad(ctx, teamID, seasonID)
		if err != nil {
			return nil, err
		}
		return squadResult{squad: squad, found: found}, nil
	})
	if err != nil {
		return team.Squad{}, false, err
	}
	result := value.(squadResult)
	return result.squad, result.found, nil
}

func (s *TeamService) load(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if s.responses == nil {
		return loader(ctx)
	}
	return s.responses.GetOrLoad(ctx, key, loader)
}

// seriesParticipants lists every (team, season) pair in fixture order along
// with the team names the fixtures carry.
func seriesParticipants(fixtures []fixture.Fixture) ([]squadKey, map[int64]string) {
	keys := make([]squadKey, 0)
	seen := make(map[squadKey]struct{})
	names := make(map[int64]string)
	add := func(teamID, seasonID int64, ref *fixture.Team) {
		if teamID <= 0 || seasonID <= 0 {
			return
		}
		if ref != nil && ref.Name != "" {
			names[teamID] = ref.Name
		}
		key := squadKey{teamID: teamID, seasonID: seasonID}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	for _, item := range fixtures {
		add(item.LocalTeamID, item.SeasonID, item.LocalTeam)
		add(item.VisitorTeamID, item.SeasonID, item.VisitorTeam)
	}
	return keys, names
}
