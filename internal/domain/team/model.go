package team

import "context"

type Player struct {
	ID           int64
	FullName     string
	FirstName    string
	LastName     string
	Position     string
	BattingStyle string
	BowlingStyle string
	ImagePath    string
	CountryID    int64
}

// Squad is the roster a team registered for one season.
type Squad struct {
	TeamID    int64
	TeamName  string
	TeamCode  string
	ImagePath string
	SeasonID  int64
	Players   []Player
}

// SeasonLeague is a season together with the league that runs it. A team's
// series listing is one entry per season it plays in.
type SeasonLeague struct {
	SeasonID   int64
	SeasonName string
	LeagueID   int64
	LeagueName string
	LeagueCode string
}

// Provider reads team rosters and season metadata. Lookups report
// found=false with a nil error when the provider does not know the id.
type Provider interface {
	GetSquad(ctx context.Context, teamID, seasonID int64) (Squad, bool, error)
	GetSeason(ctx context.Context, seasonID int64) (SeasonLeague, bool, error)
}
