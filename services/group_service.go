package services

import (
	"context"

	"go.uber.org/zap"

	"shortlink-admin/storage"
	"shortlink-admin/types"
)

type GroupService interface {
	// List returns the groups of username in display order with their active link counts.
	List(ctx context.Context, username string) ([]types.Group, error)
	Create(ctx context.Context, username, name string) (types.Group, error)
	Rename(ctx context.Context, username, gid, name string) error
	// Delete refuses groups that still hold links, recycled ones included.
	Delete(ctx context.Context, username, gid string) error
	Sort(ctx context.Context, username string, order []types.GroupSortRequest) error
}

type groupService struct {
	store  storage.Storage
	logger *zap.Logger
}

func NewGroupService(store storage.Storage, logger *zap.Logger) GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &groupService{store: store, logger: logger}
}

func (s *groupService) List(ctx context.Context, username string) ([]types.Group, error) {
	groups, err := s.store.ListGroups(ctx, username)
	if err != nil {
		return nil, handleStorageError(err)
	}
	links, err := s.store.ListLinks(ctx, func(l types.ShortLink) bool { return !l.Recycled() })
	if err != nil {
		return nil, handleStorageError(err)
	}
	counts := make(map[string]int, len(groups))
	for _, l := range links {
		counts[l.Gid]++
	}
	for i := range groups {
		groups[i].ShortLinkCount = counts[groups[i].Gid]
	}
	return groups, nil
}

func (s *groupService) Create(ctx context.Context, username, name string) (types.Group, error) {
	existing, err := s.store.ListGroups(ctx, username)
	if err != nil {
		return types.Group{}, handleStorageError(err)
	}
	gid, err := newID()
	if err != nil {
		return types.Group{}, err
	}
	order := 0
	for _, g := range existing {
		order = max(order, g.SortOrder+1)
	}
	group := types.Group{Gid: gid, Name: name, Username: username, SortOrder: order}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return types.Group{}, handleStorageError(err)
	}
	return group, nil
}

func (s *groupService) Rename(ctx context.Context, username, gid, name string) error {
	group, err := s.store.GetGroup(ctx, username, gid)
	if err != nil {
		return handleStorageError(err)
	}
	group.Name = name
	return handleStorageError(s.store.UpdateGroup(ctx, group))
}

func (s *groupService) Delete(ctx context.Context, username, gid string) error {
	if _, err := s.store.GetGroup(ctx, username, gid); err != nil {
		return handleStorageError(err)
	}
	links, err := s.store.ListLinks(ctx, func(l types.ShortLink) bool { return l.Gid == gid })
	if err != nil {
		return handleStorageError(err)
	}
	if len(links) > 0 {
		s.logger.Warn("Refusing to delete non-empty group", zap.String("gid", gid), zap.Int("links", len(links)))
		return ErrGroupNotEmpty
	}
	return handleStorageError(s.store.DeleteGroup(ctx, username, gid))
}

func (s *groupService) Sort(ctx context.Context, username string, order []types.GroupSortRequest) error {
	for _, item := range order {
		group, err := s.store.GetGroup(ctx, username, item.Gid)
		if err != nil {
			return handleStorageError(err)
		}
		group.SortOrder = item.SortOrder
		if err := s.store.UpdateGroup(ctx, group); err != nil {
			return handleStorageError(err)
		}
	}
	return nil
}
