package sportmonks

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/riskibarqy/cricket-hub/internal/domain/stage"
)

// GetStage reports found=false when the provider has no such stage.
func (c *Client) GetStage(ctx context.Context, stageID int64) (stage.Stage, bool, error) {
	if stageID <= 0 {
		return stage.Stage{}, false, fmt.Errorf("stage id must be greater than zero")
	}

	var envelope stageEnvelope
	if err := c.doJSON(ctx, "/stages/"+idString(stageID), url.Values{}, &envelope); err != nil {
		if isNotFound(err) {
			return stage.Stage{}, false, nil
		}
		return stage.Stage{}, false, fmt.Errorf("fetch stage id=%d: %w", stageID, err)
	}
	if envelope.Data == nil || envelope.Data.ID <= 0 {
		return stage.Stage{}, false, nil
	}
	return mapStage(*envelope.Data), true, nil
}

func (c *Client) ListStandings(ctx context.Context, stageID int64) ([]stage.Standing, error) {
	if stageID <= 0 {
		return nil, fmt.Errorf("stage id must be greater than zero")
	}

	query := url.Values{}
	query.Set("include", "team")

	var envelope standingsEnvelope
	if err := c.doJSON(ctx, "/standings/stage/"+idString(stageID), query, &envelope); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch standings stage_id=%d: %w", stageID, err)
	}

	out := make([]stage.Standing, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		out = append(out, mapStanding(item))
	}
	slices.SortStableFunc(out, func(a, b stage.Standing) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return out, nil
}
