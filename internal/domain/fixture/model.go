package fixture

import (
	"strings"
	"time"
)

// Fixture is one cricket match as reported by the fixtures provider. Stage,
// League and Season are nil when the provider omitted the relation.
type Fixture struct {
	ID            int64
	Type          string
	Status        string
	Note          string
	Round         string
	StartingAt    time.Time
	SeasonID      int64
	LocalTeamID   int64
	VisitorTeamID int64
	TossWonTeamID int64
	WinnerTeamID  int64
	Elected       string
	Live          bool

	Stage       *StageRef
	League      *LeagueRef
	Season      *SeasonRef
	LocalTeam   *Team
	VisitorTeam *Team
	Venue       *Venue
	Runs        []Runs
}

type StageRef struct {
	ID   int64
	Name string
	Code string
	Type string
}

type LeagueRef struct {
	ID        int64
	Name      string
	Code      string
	ImagePath string
}

type SeasonRef struct {
	ID   int64
	Name string
	Code string
}

type Team struct {
	ID        int64
	Name      string
	Code      string
	ImagePath string
	National  bool
}

type Venue struct {
	ID       int64
	Name     string
	City     string
	Capacity int
}

// Runs is one innings total.
type Runs struct {
	TeamID  int64
	Inning  int
	Score   int
	Wickets int
	Overs   float64
}

// StageID returns the linked stage id or zero.
func (f Fixture) StageID() int64 {
	if f.Stage == nil {
		return 0
	}
	return f.Stage.ID
}

// Linked reports whether the fixture carries stage, league and season.
func (f Fixture) Linked() bool {
	return f.Stage != nil && f.League != nil && f.Season != nil
}

func (f Fixture) Involves(teamID int64) bool {
	return teamID > 0 && (f.LocalTeamID == teamID || f.VisitorTeamID == teamID)
}

var (
	liveStatuses = []string{
		"1st Innings", "2nd Innings", "3rd Innings", "4th Innings",
		"Stump Day 1", "Stump Day 2", "Stump Day 3", "Stump Day 4",
		"Innings Break", "Tea Break", "Lunch", "Dinner", "Int.",
		"Delayed",
	}
	completedStatuses = []string{"Finished", "Cancl", "Aban."}
	upcomingStatuses  = []string{"NS", "Postp."}
)

func IsLiveStatus(status string) bool {
	return statusIn(status, liveStatuses)
}

func IsCompletedStatus(status string) bool {
	return statusIn(status, completedStatuses)
}

func IsUpcomingStatus(status string) bool {
	return statusIn(status, upcomingStatuses)
}

func statusIn(status string, set []string) bool {
	status = strings.TrimSpace(status)
	for _, item := range set {
		if strings.EqualFold(status, item) {
			return true
		}
	}
	return false
}
