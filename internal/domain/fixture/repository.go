package fixture

import (
	"context"
	"time"
)

// Window is a starts-between filter, both ends inclusive.
type Window struct {
	From time.Time
	To   time.Time
}

// Provider exposes the fixture reads the service needs from the upstream
// cricket data feed.
type Provider interface {
	ListFixtures(ctx context.Context, window Window) ([]Fixture, error)
	ListLiveScores(ctx context.Context) ([]Fixture, error)
	ListStageFixtures(ctx context.Context, stageID int64) ([]Fixture, error)
	GetFixture(ctx context.Context, fixtureID int64) (Fixture, bool, error)
	ListTeamFixtures(ctx context.Context, teamID int64) ([]Fixture, error)
}
