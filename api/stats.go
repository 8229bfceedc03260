package api

import (
	"context"
	"net/url"

	"shortlink-admin/client"
	"shortlink-admin/types"
)

// StatsAPI reads link analytics.
type StatsAPI struct {
	client *client.Client
}

func statsQuery(q types.StatsQuery) url.Values {
	query := url.Values{}
	setIfNotEmpty(query, "fullShortUrl", q.FullShortURL)
	setIfNotEmpty(query, "gid", q.Gid)
	setIfNotEmpty(query, "startDate", q.StartDate)
	setIfNotEmpty(query, "endDate", q.EndDate)
	setPage(query, q.Current, q.Size)
	return query
}

// Link returns the analytics of one link.
func (a *StatsAPI) Link(ctx context.Context, q types.StatsQuery) (types.LinkStats, error) {
	if q.FullShortURL == "" {
		return types.LinkStats{}, &ValidationError{Fields: map[string]string{"fullShortUrl": "is required"}}
	}
	if err := validateRequest(q); err != nil {
		return types.LinkStats{}, err
	}
	var stats types.LinkStats
	err := a.client.Get(ctx, Prefix+"/stats", statsQuery(q), &stats)
	return stats, err
}

// Group returns the analytics of every link in a group.
func (a *StatsAPI) Group(ctx context.Context, q types.StatsQuery) (types.LinkStats, error) {
	if q.Gid == "" {
		return types.LinkStats{}, &ValidationError{Fields: map[string]string{"gid": "is required"}}
	}
	if err := validateRequest(q); err != nil {
		return types.LinkStats{}, err
	}
	var stats types.LinkStats
	err := a.client.Get(ctx, Prefix+"/stats/group", statsQuery(q), &stats)
	return stats, err
}

// AccessRecords lists individual visits of a link.
func (a *StatsAPI) AccessRecords(ctx context.Context, q types.StatsQuery) (types.Page[types.AccessLog], error) {
	if q.FullShortURL == "" {
		return types.Page[types.AccessLog]{}, &ValidationError{Fields: map[string]string{"fullShortUrl": "is required"}}
	}
	if err := validateRequest(q); err != nil {
		return types.Page[types.AccessLog]{}, err
	}
	var page types.Page[types.AccessLog]
	err := a.client.Get(ctx, Prefix+"/stats/access-record", statsQuery(q), &page)
	return page, err
}
