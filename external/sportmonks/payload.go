package sportmonks

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-hub/internal/domain/fixture"
	"github.com/riskibarqy/cricket-hub/internal/domain/stage"
)

type pagination struct {
	Total       int `json:"total"`
	Count       int `json:"count"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

type listMeta struct {
	Pagination *pagination `json:"pagination"`
}

type fixturesEnvelope struct {
	Data []fixtureItem `json:"data"`
	Meta listMeta      `json:"meta"`
}

type fixtureEnvelope struct {
	Data *fixtureItem `json:"data"`
}

type stageEnvelope struct {
	Data *stageItem `json:"data"`
}

type teamEnvelope struct {
	Data *teamWithFixtures `json:"data"`
}

type standingsEnvelope struct {
	Data []standingItem `json:"data"`
}

type squadEnvelope struct {
	Data *squadTeamItem `json:"data"`
}

type seasonEnvelope struct {
	Data *seasonWithLeague `json:"data"`
}

type fixtureItem struct {
	ID            int64                `json:"id"`
	LeagueID      int64                `json:"league_id"`
	SeasonID      int64                `json:"season_id"`
	StageID       int64                `json:"stage_id"`
	Round         string               `json:"round"`
	LocalTeamID   int64                `json:"localteam_id"`
	VisitorTeamID int64                `json:"visitorteam_id"`
	StartingAt    string               `json:"starting_at"`
	Type          string               `json:"type"`
	Live          bool                 `json:"live"`
	Status        string               `json:"status"`
	Note          string               `json:"note"`
	TossWonTeamID int64                `json:"toss_won_team_id"`
	WinnerTeamID  int64                `json:"winner_team_id"`
	Elected       string               `json:"elected"`
	Stage         relation[stageItem]  `json:"stage"`
	League        relation[leagueItem] `json:"league"`
	Season        relation[seasonItem] `json:"season"`
	LocalTeam     relation[teamItem]   `json:"localteam"`
	VisitorTeam   relation[teamItem]   `json:"visitorteam"`
	Venue         relation[venueItem]  `json:"venue"`
	Runs          relation[[]runItem]  `json:"runs"`
}

type stageItem struct {
	ID        int64  `json:"id"`
	LeagueID  int64  `json:"league_id"`
	SeasonID  int64  `json:"season_id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Type      string `json:"type"`
	Standings bool   `json:"standings"`
}

type leagueItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	ImagePath string `json:"image_path"`
}

type seasonItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type teamItem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	ImagePath    string `json:"image_path"`
	NationalTeam bool   `json:"national_team"`
}

type teamWithFixtures struct {
	teamItem
	Fixtures relation[[]fixtureItem] `json:"fixtures"`
	Results  relation[[]fixtureItem] `json:"results"`
}

type squadTeamItem struct {
	teamItem
	Squad relation[[]playerItem] `json:"squad"`
}

type playerItem struct {
	ID           int64                  `json:"id"`
	CountryID    int64                  `json:"country_id"`
	FirstName    string                 `json:"firstname"`
	LastName     string                 `json:"lastname"`
	FullName     string                 `json:"fullname"`
	ImagePath    string                 `json:"image_path"`
	BattingStyle string                 `json:"battingstyle"`
	BowlingStyle string                 `json:"bowlingstyle"`
	Position     relation[positionItem] `json:"position"`
}

type positionItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type seasonWithLeague struct {
	seasonItem
	LeagueID int64                `json:"league_id"`
	League   relation[leagueItem] `json:"league"`
}

type venueItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
}

type runItem struct {
	TeamID  int64   `json:"team_id"`
	Inning  int     `json:"inning"`
	Score   int     `json:"score"`
	Wickets int     `json:"wickets"`
	Overs   float64 `json:"overs"`
}

type standingItem struct {
	StageID    int64              `json:"stage_id"`
	TeamID     int64              `json:"team_id"`
	Position   int                `json:"position"`
	Points     int                `json:"points"`
	Played     int                `json:"played"`
	Won        int                `json:"won"`
	Lost       int                `json:"lost"`
	Draw       int                `json:"draw"`
	NoResult   int                `json:"noresult"`
	NetRunRate float64            `json:"netto_run_rate"`
	RecentForm []string           `json:"recent_form"`
	Team       relation[teamItem] `json:"team"`
}

// relation decodes an include that may arrive bare or wrapped in {"data": ...}.
type relation[T any] struct {
	Data T
	Set  bool
}

func (r *relation[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		r.Set = false
		return nil
	}

	if trimmed[0] == '{' {
		var wrapped struct {
			Data *T `json:"data"`
		}
		if err := sonic.Unmarshal(trimmed, &wrapped); err == nil && wrapped.Data != nil {
			r.Data = *wrapped.Data
			r.Set = true
			return nil
		}
	}

	var direct T
	if err := sonic.Unmarshal(trimmed, &direct); err != nil {
		return err
	}
	r.Data = direct
	r.Set = true
	return nil
}

func mapFixture(item fixtureItem) fixture.Fixture {
	out := fixture.Fixture{
		ID:            item.ID,
		Type:          strings.TrimSpace(item.Type),
		Status:        strings.TrimSpace(item.Status),
		Note:          strings.TrimSpace(item.Note),
		Round:         strings.TrimSpace(item.Round),
		LocalTeamID:   item.LocalTeamID,
		VisitorTeamID: item.VisitorTeamID,
		TossWonTeamID: item.TossWonTeamID,
		WinnerTeamID:  item.WinnerTeamID,
		Elected:       item.Elected,
		Live:          item.Live,
	}
	if parsed := parseProviderDateTime(item.StartingAt); parsed != nil {
		out.StartingAt = *parsed
	}

	if item.Stage.Set && item.Stage.Data.ID > 0 {
		out.Stage = &fixture.StageRef{
			ID:   item.Stage.Data.ID,
			Name: strings.TrimSpace(item.Stage.Data.Name),
			Code: strings.TrimSpace(item.Stage.Data.Code),
			Type: strings.TrimSpace(item.Stage.Data.Type),
		}
	}
	if item.League.Set && item.League.Data.ID > 0 {
		out.League = &fixture.LeagueRef{
			ID:        item.League.Data.ID,
			Name:      strings.TrimSpace(item.League.Data.Name),
			Code:      strings.TrimSpace(item.League.Data.Code),
			ImagePath: strings.TrimSpace(item.League.Data.ImagePath),
		}
	}
	out.SeasonID = item.SeasonID
	if item.Season.Set && item.Season.Data.ID > 0 {
		out.SeasonID = firstID(item.SeasonID, item.Season.Data.ID)
		out.Season = &fixture.SeasonRef{
			ID:   item.Season.Data.ID,
			Name: strings.TrimSpace(item.Season.Data.Name),
			Code: strings.TrimSpace(item.Season.Data.Code),
		}
	}
	if item.LocalTeam.Set {
		out.LocalTeam = mapTeam(item.LocalTeam.Data)
	}
	if item.VisitorTeam.Set {
		out.VisitorTeam = mapTeam(item.VisitorTeam.Data)
	}
	if item.Venue.Set && item.Venue.Data.ID > 0 {
		out.Venue = &fixture.Venue{
			ID:       item.Venue.Data.ID,
			Name:     strings.TrimSpace(item.Venue.Data.Name),
			City:     strings.TrimSpace(item.Venue.Data.City),
			Capacity: item.Venue.Data.Capacity,
		}
	}
	if item.Runs.Set {
		out.Runs = make([]fixture.Runs, 0, len(item.Runs.Data))
		for _, run := range item.Runs.Data {
			out.Runs = append(out.Runs, fixture.Runs{
				TeamID:  run.TeamID,
				Inning:  run.Inning,
				Score:   run.Score,
				Wickets: run.Wickets,
				Overs:   run.Overs,
			})
		}
	}

	return out
}

func mapTeam(item teamItem) *fixture.Team {
	if item.ID <= 0 {
		return nil
	}
	return &fixture.Team{
		ID:        item.ID,
		Name:      strings.TrimSpace(item.Name),
		Code:      strings.TrimSpace(item.Code),
		ImagePath: strings.TrimSpace(item.ImagePath),
		National:  item.NationalTeam,
	}
}

func mapStage(item stageItem) stage.Stage {
	return stage.Stage{
		ID:        item.ID,
		LeagueID:  item.LeagueID,
		SeasonID:  item.SeasonID,
		Code:      strings.TrimSpace(item.Code),
		Name:      strings.TrimSpace(item.Name),
		Type:      strings.TrimSpace(item.Type),
		Standings: item.Standings,
	}
}

func mapStanding(item standingItem) stage.Standing {
	out := stage.Standing{
		Position:   item.Position,
		TeamID:     item.TeamID,
		Played:     item.Played,
		Won:        item.Won,
		Lost:       item.Lost,
		Draw:       item.Draw,
		NoResult:   item.NoResult,
		Points:     item.Points,
		NetRunRate: item.NetRunRate,
		Recent:     strings.Join(item.RecentForm, ""),
	}
	if item.Team.Set {
		out.TeamID = firstID(out.TeamID, item.Team.Data.ID)
		out.TeamName = strings.TrimSpace(item.Team.Data.Name)
		out.TeamCode = strings.TrimSpace(item.Team.Data.Code)
		out.TeamImagePath = strings.TrimSpace(item.Team.Data.ImagePath)
	}
	return out
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.000000Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}

func formatFilterTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05")
}

func firstID(values ...int64) int64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
