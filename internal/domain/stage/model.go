package stage

import "context"

// Stage is the provider's atomic tournament phase, e.g. a regular season or
// its playoffs.
type Stage struct {
	ID        int64
	LeagueID  int64
	SeasonID  int64
	Code      string
	Name      string
	Type      string
	Standings bool
}

// SameCompetition reports whether both stages belong to one league season.
func (s Stage) SameCompetition(other Stage) bool {
	return s.LeagueID == other.LeagueID && s.SeasonID == other.SeasonID
}

// Standing is one row of a stage table.
type Standing struct {
	Position      int
	TeamID        int64
	TeamName      string
	TeamCode      string
	TeamImagePath string
	Played        int
	Won           int
	Lost          int
	Draw          int
	NoResult      int
	Points        int
	NetRunRate    float64
	Recent        string
}

// Provider reads stage metadata. GetStage reports found=false with a nil
// error when the provider does not know the stage.
type Provider interface {
	GetStage(ctx context.Context, stageID int64) (Stage, bool, error)
	ListStandings(ctx context.Context, stageID int64) ([]Standing, error)
}
