package remote

import (
	"context"
	"strings"

	"route-planner/internal/api/dto"
	"route-planner/internal/domain"
	"route-planner/internal/platform/apperr"
	"route-planner/internal/platform/obs"
)

// normalize collapses whitespace so equivalent queries hit the same cache key.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (c *Client) Geocode(ctx context.Context, text string) (_ domain.Suggestion, err error) {
	defer obs.Time(ctx, c.log, "remote.geocode")(&err)

	q := normalize(text)
	if q == "" {
		return domain.Suggestion{}, apperr.Validation("address is empty").WithOp("geocode")
	}
	if err := c.lookups.Wait(ctx); err != nil {
		return domain.Suggestion{}, apperr.Wrap(apperr.KindUnavailable, "request cancelled", err)
	}

	var res dto.SuggestionDTO
	if err := c.get(ctx, "/geocode", map[string]string{"q": q}, &res); err != nil {
		return domain.Suggestion{}, err
	}
	return res.ToDomain(), nil
}

func (c *Client) Autocomplete(ctx context.Context, text string) (_ []domain.Suggestion, err error) {
	defer obs.Time(ctx, c.log, "remote.autocomplete")(&err)

	q := normalize(text)
	if q == "" {
		return nil, nil
	}
	if err := c.lookups.Wait(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "request cancelled", err)
	}

	var res dto.AutocompleteResponse
	if err := c.get(ctx, "/autocomplete", map[string]string{"q": q}, &res); err != nil {
		return nil, err
	}

	out := make([]domain.Suggestion, 0, len(res.Suggestions))
	for _, s := range res.Suggestions {
		out = append(out, s.ToDomain())
	}
	return out, nil
}
