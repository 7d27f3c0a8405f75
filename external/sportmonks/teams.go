package sportmonks

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/riskibarqy/cricket-hub/internal/domain/team"
)

// GetSquad returns the roster teamID registered for seasonID.
func (c *Client) GetSquad(ctx context.Context, teamID, seasonID int64) (team.Squad, bool, error) {
	if teamID <= 0 || seasonID <= 0 {
		return team.Squad{}, false, fmt.Errorf("team id and season id must be greater than zero")
	}

	var envelope squadEnvelope
	path := "/teams/" + idString(teamID) + "/squad/" + idString(seasonID)
	if err := c.doJSON(ctx, path, url.Values{}, &envelope); err != nil {
		if isNotFound(err) {
			return team.Squad{}, false, nil
		}
		return team.Squad{}, false, fmt.Errorf("fetch squad team_id=%d season_id=%d: %w", teamID, seasonID, err)
	}
	if envelope.Data == nil || envelope.Data.ID <= 0 {
		return team.Squad{}, false, nil
	}
	return mapSquad(*envelope.Data, seasonID), true, nil
}

// GetSeason returns the season with its league.
func (c *Client) GetSeason(ctx context.Context, seasonID int64) (team.SeasonLeague, bool, error) {
	if seasonID <= 0 {
		return team.SeasonLeague{}, false, fmt.Errorf("season id must be greater than zero")
	}

	query := url.Values{}
	query.Set("include", "league")

	var envelope seasonEnvelope
	if err := c.doJSON(ctx, "/seasons/"+idString(seasonID), query, &envelope); err != nil {
		if isNotFound(err) {
			return team.SeasonLeague{}, false, nil
		}
		return team.SeasonLeague{}, false, fmt.Errorf("fetch season id=%d: %w", seasonID, err)
	}
	if envelope.Data == nil || envelope.Data.ID <= 0 || !envelope.Data.League.Set {
		return team.SeasonLeague{}, false, nil
	}

	league := envelope.Data.League.Data
	return team.SeasonLeague{
		SeasonID:   envelope.Data.ID,
		SeasonName: strings.TrimSpace(envelope.Data.Name),
		LeagueID:   firstID(league.ID, envelope.Data.LeagueID),
		LeagueName: strings.TrimSpace(league.Name),
		LeagueCode: strings.TrimSpace(league.Code),
	}, true, nil
}

func mapSquad(item squadTeamItem, seasonID int64) team.Squad {
	out := team.Squad{
		TeamID:    item.ID,
		TeamName:  strings.TrimSpace(item.Name),
		TeamCode:  strings.TrimSpace(item.Code),
		ImagePath: strings.TrimSpace(item.ImagePath),
		SeasonID:  seasonID,
		Players:   make([]team.Player, 0, len(item.Squad.Data)),
	}
	for _, p := range item.Squad.Data {
		if p.ID <= 0 {
			continue
		}
		player := team.Player{
			ID:           p.ID,
			FullName:     strings.TrimSpace(p.FullName),
			FirstName:    strings.TrimSpace(p.FirstName),
			LastName:     strings.TrimSpace(p.LastName),
			BattingStyle: strings.TrimSpace(p.BattingStyle),
			BowlingStyle: strings.TrimSpace(p.BowlingStyle),
			ImagePath:    strings.TrimSpace(p.ImagePath),
			CountryID:    p.CountryID,
		}
		if p.Position.Set {
			player.Position = strings.TrimSpace(p.Position.Data.Name)
		}
		out.Players = append(out.Players, player)
	}
	return out
}
