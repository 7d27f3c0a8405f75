package sportmonks

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/riskibarqy/cricket-hub/internal/domain/fixture"
	"github.com/sourcegraph/conc/pool"
)

const (
	includeListFixture   = "localteam,visitorteam,venue,runs,league,stage,season"
	includeMatchDetail   = "localteam,visitorteam,league,stage,season,venue,runs,lineup,balls,scoreboards,batting,bowling,manofmatch,firstumpire,secondumpire,tvumpire,referee"
	includeTeamFixtures  = "fixtures,results"
	pageFetchConcurrency = 4
)

// ListFixtures returns every fixture starting inside window, following the
// provider's pagination up to the configured page limit.
func (c *Client) ListFixtures(ctx context.Context, window fixture.Window) ([]fixture.Fixture, error) {
	if window.From.IsZero() || window.To.IsZero() || window.To.Before(window.From) {
		return nil, fmt.Errorf("invalid fixture window %s..%s", window.From, window.To)
	}

	query := url.Values{}
	query.Set("filter[starts_between]", formatFilterTime(window.From)+","+formatFilterTime(window.To))
	query.Set("include", includeListFixture)

	first, err := c.fetchFixturePage(ctx, query, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures page=1: %w", err)
	}

	totalPages := 1
	if first.Meta.Pagination != nil && first.Meta.Pagination.TotalPages > 1 {
		totalPages = first.Meta.Pagination.TotalPages
	}
	if totalPages > c.maxPages {
		c.logger.WarnContext(ctx, "fixture pagination truncated", "total_pages", totalPages, "max_pages", c.maxPages)
		totalPages = c.maxPages
	}

	items := first.Data
	if totalPages > 1 {
		p := pool.NewWithResults[[]fixtureItem]().
			WithContext(ctx).
			WithMaxGoroutines(pageFetchConcurrency).
			WithCancelOnError()
		for page := 2; page <= totalPages; page++ {
			p.Go(func(ctx context.Context) ([]fixtureItem, error) {
				env, err := c.fetchFixturePage(ctx, query, page)
				if err != nil {
					return nil, fmt.Errorf("fetch fixtures page=%d: %w", page, err)
				}
				return env.Data, nil
			})
		}
		pages, err := p.Wait()
		if err != nil {
			return nil, err
		}
		for _, pageItems := range pages {
			items = append(items, pageItems...)
		}
	}

	return mapFixtures(items), nil
}

func (c *Client) fetchFixturePage(ctx context.Context, base url.Values, page int) (fixturesEnvelope, error) {
	query := url.Values{}
	for key, values := range base {
		query[key] = values
	}
	query.Set("page", strconv.Itoa(page))

	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return fixturesEnvelope{}, err
	}
	return envelope, nil
}

func (c *Client) ListLiveScores(ctx context.Context) ([]fixture.Fixture, error) {
	query := url.Values{}
	query.Set("include", includeListFixture)

	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/livescores", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch livescores: %w", err)
	}
	return mapFixtures(envelope.Data), nil
}

func (c *Client) ListStageFixtures(ctx context.Context, stageID int64) ([]fixture.Fixture, error) {
	if stageID <= 0 {
		return nil, fmt.Errorf("stage id must be greater than zero")
	}

	query := url.Values{}
	query.Set("filter[stage_id]", idString(stageID))
	query.Set("include", includeListFixture)

	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures stage_id=%d: %w", stageID, err)
	}
	return mapFixtures(envelope.Data), nil
}

func (c *Client) GetFixture(ctx context.Context, fixtureID int64) (fixture.Fixture, bool, error) {
	if fixtureID <= 0 {
		return fixture.Fixture{}, false, fmt.Errorf("fixture id must be greater than zero")
	}

	query := url.Values{}
	query.Set("include", includeMatchDetail)

	var envelope fixtureEnvelope
	if err := c.doJSON(ctx, "/fixtures/"+idString(fixtureID), query, &envelope); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("fetch fixture id=%d: %w", fixtureID, err)
	}
	if envelope.Data == nil || envelope.Data.ID <= 0 {
		return fixture.Fixture{}, false, nil
	}
	return mapFixture(*envelope.Data), true, nil
}

// ListTeamFixtures returns the team's upcoming fixtures and past results.
func (c *Client) ListTeamFixtures(ctx context.Context, teamID int64) ([]fixture.Fixture, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}

	query := url.Values{}
	query.Set("include", includeTeamFixtures)

	var envelope teamEnvelope
	if err := c.doJSON(ctx, "/teams/"+idString(teamID), query, &envelope); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch team fixtures team_id=%d: %w", teamID, err)
	}
	if envelope.Data == nil {
		return nil, nil
	}

	items := make([]fixtureItem, 0, len(envelope.Data.Fixtures.Data)+len(envelope.Data.Results.Data))
	items = append(items, envelope.Data.Fixtures.Data...)
	items = append(items, envelope.Data.Results.Data...)
	return mapFixtures(items), nil
}

// mapFixtures converts and dedupes items by id, ordered by start time.
func mapFixtures(items []fixtureItem) []fixture.Fixture {
	seen := make(map[int64]struct{}, len(items))
	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, mapFixture(item))
	}

	slices.SortStableFunc(out, func(a, b fixture.Fixture) int {
		if c := a.StartingAt.Compare(b.StartingAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
