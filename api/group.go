package api

import (
	"context"
	"net/url"

	"shortlink-admin/client"
	"shortlink-admin/types"
)

// GroupAPI manages link groups.
type GroupAPI struct {
	client *client.Client
}

// List returns the groups of the current user in display order.
func (a *GroupAPI) List(ctx context.Context) ([]types.Group, error) {
	groups := []types.Group{}
	if err := a.client.Get(ctx, Prefix+"/group", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Create adds a group.
func (a *GroupAPI) Create(ctx context.Context, name string) error {
	req := types.GroupCreateRequest{Name: name}
	if err := validateRequest(req); err != nil {
		return err
	}
	return a.client.Post(ctx, Prefix+"/group", req, nil)
}

// Rename changes the name of a group.
func (a *GroupAPI) Rename(ctx context.Context, gid, name string) error {
	req := types.GroupUpdateRequest{Gid: gid, Name: name}
	if err := validateRequest(req); err != nil {
		return err
	}
	return a.client.Put(ctx, Prefix+"/group", req, nil)
}

// Delete removes a group.
func (a *GroupAPI) Delete(ctx context.Context, gid string) error {
	if gid == "" {
		return &ValidationError{Fields: map[string]string{"gid": "is required"}}
	}
	return a.client.Delete(ctx, Prefix+"/group", url.Values{"gid": {gid}}, nil)
}

// Sort stores a new order for the given groups.
func (a *GroupAPI) Sort(ctx context.Context, order []types.GroupSortRequest) error {
	for _, item := range order {
		if err := validateRequest(item); err != nil {
			return err
		}
	}
	return a.client.Post(ctx, Prefix+"/group/sort", order, nil)
}
