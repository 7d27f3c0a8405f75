package httpapi

import (
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/fixture"
	"github.com/riskibarqy/cricket-hub/internal/domain/media"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/domain/stage"
	"github.com/riskibarqy/cricket-hub/internal/domain/team"
)

type seriesDTO struct {
	ID         string  `json:"id"`
	StageIDs   []int64 `json:"stageIds"`
	Name       string  `json:"name"`
	LeagueID   int64   `json:"leagueId"`
	LeagueName string  `json:"leagueName"`
	SeasonID   int64   `json:"seasonId"`
	Season     string  `json:"season"`
	Code       string  `json:"code"`
	SeriesType string  `json:"seriesType"`
	ImagePath  string  `json:"imagePath,omitempty"`
	StartDate  *string `json:"startDate"`
	EndDate    *string `json:"endDate"`
	Hydrated   bool    `json:"hydrated"`
}

type seriesPatchDTO struct {
	ID             string  `json:"id"`
	PrimaryStageID int64   `json:"primaryStageId"`
	StageIDs       []int64 `json:"stageIds"`
	StartDate      *string `json:"startDate"`
	EndDate        *string `json:"endDate"`
}

type fixtureDTO struct {
	ID            int64          `json:"id"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	State         string         `json:"state"`
	Note          string         `json:"note,omitempty"`
	Round         string         `json:"round,omitempty"`
	StartingAt    *string        `json:"startingAt"`
	Live          bool           `json:"live"`
	StageID       int64          `json:"stageId,omitempty"`
	StageName     string         `json:"stageName,omitempty"`
	LeagueID      int64          `json:"leagueId,omitempty"`
	LeagueName    string         `json:"leagueName,omitempty"`
	LeagueCode    string         `json:"leagueCode,omitempty"`
	SeasonID      int64          `json:"seasonId,omitempty"`
	SeasonName    string         `json:"seasonName,omitempty"`
	LocalTeam     *teamDTO       `json:"localTeam,omitempty"`
	VisitorTeam   *teamDTO       `json:"visitorTeam,omitempty"`
	Venue         *venueDTO      `json:"venue,omitempty"`
	Runs          []inningRunDTO `json:"runs,omitempty"`
	TossWonTeamID int64          `json:"tossWonTeamId,omitempty"`
	Elected       string         `json:"elected,omitempty"`
	WinnerTeamID  int64          `json:"winnerTeamId,omitempty"`
}

type teamDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	ImagePath string `json:"imagePath,omitempty"`
}

type venueDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Capacity int    `json:"capacity,omitempty"`
}

type inningRunDTO struct {
	TeamID  int64   `json:"teamId"`
	Inning  int     `json:"inning"`
	Score   int     `json:"score"`
	Wickets int     `json:"wickets"`
	Overs   float64 `json:"overs"`
}

type stageDTO struct {
	ID        int64  `json:"id"`
	LeagueID  int64  `json:"leagueId"`
	SeasonID  int64  `json:"seasonId"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Standings bool   `json:"standings"`
}

type standingDTO struct {
	Position      int     `json:"position"`
	TeamID        int64   `json:"teamId"`
	TeamName      string  `json:"teamName"`
	TeamCode      string  `json:"teamCode"`
	TeamImagePath string  `json:"teamImagePath,omitempty"`
	Played        int     `json:"played"`
	Won           int     `json:"won"`
	Lost          int     `json:"lost"`
	Draw          int     `json:"draw"`
	NoResult      int     `json:"noResult"`
	Points        int     `json:"points"`
	NetRunRate    float64 `json:"netRunRate"`
	Recent        string  `json:"recent"`
}

type articleDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Content     string  `json:"content,omitempty"`
	URL         string  `json:"url"`
	ImageURL    string  `json:"image,omitempty"`
	PublishedAt *string `json:"publishedAt"`
	SourceName  string  `json:"sourceName"`
	SourceURL   string  `json:"sourceUrl,omitempty"`
}

type videoDTO struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	ChannelTitle string  `json:"channelTitle"`
	ThumbnailURL string  `json:"thumbnailUrl,omitempty"`
	PublishedAt  *string `json:"publishedAt"`
}

type squadDTO struct {
	TeamID    int64       `json:"teamId"`
	TeamName  string      `json:"teamName"`
	TeamCode  string      `json:"teamCode,omitempty"`
	ImagePath string      `json:"imagePath,omitempty"`
	SeasonID  int64       `json:"seasonId"`
	Players   []playerDTO `json:"players"`
}

type playerDTO struct {
	ID           int64  `json:"id"`
	FullName     string `json:"fullName"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Position     string `json:"position,omitempty"`
	BattingStyle string `json:"battingStyle,omitempty"`
	BowlingStyle string `json:"bowlingStyle,omitempty"`
	ImagePath    string `json:"imagePath,omitempty"`
	CountryID    int64  `json:"countryId,omitempty"`
}

type teamSeriesDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	League   string `json:"league"`
	SeasonID int64  `json:"seasonId"`
}

func formatTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func seriesToDTO(row series.Row) seriesDTO {
	return seriesDTO{
		ID:         series.FormatSeriesID(row.StageIDs),
		StageIDs:   append([]int64(nil), row.StageIDs...),
		Name:       row.Name,
		LeagueID:   row.LeagueID,
		LeagueName: row.LeagueName,
		SeasonID:   row.SeasonID,
		Season:     row.SeasonLabel,
		Code:       row.Code,
		SeriesType: row.SeriesType,
		ImagePath:  row.ImagePath,
		StartDate:  formatTime(row.StartDate),
		EndDate:    formatTime(row.EndDate),
		Hydrated:   row.Hydrated,
	}
}

func seriesListToDTO(rows []series.Row) []seriesDTO {
	out := make([]seriesDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, seriesToDTO(row))
	}
	return out
}

func seriesPatchToDTO(p series.Patch) seriesPatchDTO {
	stageIDs := p.StageIDs
	if len(stageIDs) == 0 {
		stageIDs = []int64{p.PrimaryStageID}
	}
	return seriesPatchDTO{
		ID:             series.FormatSeriesID(stageIDs),
		PrimaryStageID: p.PrimaryStageID,
		StageIDs:       append([]int64(nil), stageIDs...),
		StartDate:      formatTime(p.StartDate),
		EndDate:        formatTime(p.EndDate),
	}
}

func fixtureState(f fixture.Fixture) string {
	switch {
	case f.Live || fixture.IsLiveStatus(f.Status):
		return "live"
	case fixture.IsCompletedStatus(f.Status):
		return "completed"
	case fixture.IsUpcomingStatus(f.Status):
		return "upcoming"
	default:
		return "unknown"
	}
}

func fixtureToDTO(f fixture.Fixture) fixtureDTO {
	out := fixtureDTO{
		ID:            f.ID,
		Type:          f.Type,
		Status:        f.Status,
		State:         fixtureState(f),
		Note:          f.Note,
		Round:         f.Round,
		StartingAt:    formatTime(&f.StartingAt),
		Live:          f.Live,
		LocalTeam:     teamToDTO(f.LocalTeam),
		VisitorTeam:   teamToDTO(f.VisitorTeam),
		TossWonTeamID: f.TossWonTeamID,
		Elected:       f.Elected,
		WinnerTeamID:  f.WinnerTeamID,
	}
	if f.Stage != nil {
		out.StageID = f.Stage.ID
		out.StageName = f.Stage.Name
	}
	if f.League != nil {
		out.LeagueID = f.League.ID
		out.LeagueName = f.League.Name
		out.LeagueCode = f.League.Code
	}
	if f.Season != nil {
		out.SeasonID = f.Season.ID
		out.SeasonName = f.Season.Name
	}
	if f.Venue != nil {
		out.Venue = &venueDTO{ID: f.Venue.ID, Name: f.Venue.Name, City: f.Venue.City, Capacity: f.Venue.Capacity}
	}
	for _, run := range f.Runs {
		out.Runs = append(out.Runs, inningRunDTO{
			TeamID:  run.TeamID,
			Inning:  run.Inning,
			Score:   run.Score,
			Wickets: run.Wickets,
			Overs:   run.Overs,
		})
	}
	return out
}

func fixturesToDTO(items []fixture.Fixture) []fixtureDTO {
	out := make([]fixtureDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fixtureToDTO(item))
	}
	return out
}

func teamToDTO(t *fixture.Team) *teamDTO {
	if t == nil {
		return nil
	}
	return &teamDTO{ID: t.ID, Name: t.Name, Code: t.Code, ImagePath: t.ImagePath}
}

func stageToDTO(s stage.Stage) stageDTO {
	return stageDTO{
		ID:        s.ID,
		LeagueID:  s.LeagueID,
		SeasonID:  s.SeasonID,
		Code:      s.Code,
		Name:      s.Name,
		Type:      s.Type,
		Standings: s.Standings,
	}
}

func standingsToDTO(items []stage.Standing) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, standingDTO{
			Position:      item.Position,
			TeamID:        item.TeamID,
			TeamName:      item.TeamName,
			TeamCode:      item.TeamCode,
			TeamImagePath: item.TeamImagePath,
			Played:        item.Played,
			Won:           item.Won,
			Lost:          item.Lost,
			Draw:          item.Draw,
			NoResult:      item.NoResult,
			Points:        item.Points,
			NetRunRate:    item.NetRunRate,
			Recent:        item.Recent,
		})
	}
	return out
}

func articlesToDTO(items []media.Article) []articleDTO {
	out := make([]articleDTO, 0, len(items))
	for _, item := range items {
		out = append(out, articleDTO{
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.URL,
			ImageURL:    item.ImageURL,
			PublishedAt: formatTime(&item.PublishedAt),
			SourceName:  item.SourceName,
			SourceURL:   item.SourceURL,
		})
	}
	return out
}

func videosToDTO(items []media.Video) []videoDTO {
	out := make([]videoDTO, 0, len(items))
	for _, item := range items {
		out = append(out, videoDTO{
			ID:           item.ID,
			Title:        item.Title,
			Description:  item.Description,
			ChannelTitle: item.ChannelTitle,
			ThumbnailURL: item.ThumbnailURL,
			PublishedAt:  formatTime(&item.PublishedAt),
		})
	}
	return out
}

func squadToDTO(item team.Squad) squadDTO {
	players := make([]playerDTO, 0, len(item.Players))
	for _, p := range item.Players {
		players = append(players, playerDTO{
			ID:           p.ID,
			FullName:     p.FullName,
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			Position:     p.Position,
			BattingStyle: p.BattingStyle,
			BowlingStyle: p.BowlingStyle,
			ImagePath:    p.ImagePath,
			CountryID:    p.CountryID,
		})
	}
	return squadDTO{
		TeamID:    item.TeamID,
		TeamName:  item.TeamName,
		TeamCode:  item.TeamCode,
		ImagePath: item.ImagePath,
		SeasonID:  item.SeasonID,
		Players:   players,
	}
}

func squadsToDTO(items []team.Squad) []squadDTO {
	out := make([]squadDTO, 0, len(items))
	for _, item := range items {
		out = append(out, squadToDTO(item))
	}
	return out
}

// teamSeriesToDTO keys each entry by league id so clients can match it
// against series rows.
func teamSeriesToDTO(items []team.SeasonLeague) []teamSeriesDTO {
	out := make([]teamSeriesDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamSeriesDTO{
			ID:       item.LeagueID,
			Name:     item.SeasonName,
			League:   item.LeagueName,
			SeasonID: item.SeasonID,
		})
	}
	return out
}
