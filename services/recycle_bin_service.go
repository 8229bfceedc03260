package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shortlink-admin/storage"
	"shortlink-admin/types"
	"shortlink-admin/utils"
)

// RecycleBinService moves links through their lifecycle:
// active -> recycled -> restored or purged. Purging is irreversible.
type RecycleBinService interface {
	Recycle(ctx context.Context, username string, req types.RecycleRequest) error
	Page(ctx context.Context, username string, q types.RecyclePageQuery) (types.Page[types.ShortLink], error)
	Restore(ctx context.Context, username string, req types.RecycleRequest) error
	Purge(ctx context.Context, username string, req types.RecycleRequest) error
}

type recycleBinService struct {
	store  storage.Storage
	logger *zap.Logger
	now    func() time.Time
}

func NewRecycleBinService(store storage.Storage, logger *zap.Logger) RecycleBinService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &recycleBinService{store: store, logger: logger, now: time.Now}
}

// find returns the owned link in the wanted state.
func (s *recycleBinService) find(ctx context.Context, username string, req types.RecycleRequest, recycled bool) (types.ShortLink, error) {
	gids, err := ownedGids(ctx, s.store, username)
	if err != nil {
		return types.ShortLink{}, err
	}
	link, err := s.store.FindLink(ctx, "", req.FullShortURL)
	if err != nil {
		return types.ShortLink{}, handleStorageError(err)
	}
	if !gids[link.Gid] || (req.Gid != "" && req.Gid != link.Gid) || link.Recycled() != recycled {
		return types.ShortLink{}, ErrShortLinkNotFound
	}
	return link, nil
}

func (s *recycleBinService) Recycle(ctx context.Context, username string, req types.RecycleRequest) error {
	link, err := s.find(ctx, username, req, false)
	if err != nil {
		return err
	}
	deleted := types.NewDateTime(s.now())
	link.EnableStatus = types.StatusRecycled
	link.DelTime = &deleted
	return handleStorageError(s.store.UpdateLink(ctx, link))
}

func (s *recycleBinService) Page(ctx context.Context, username string, q types.RecyclePageQuery) (types.Page[types.ShortLink], error) {
	gids, err := ownedGids(ctx, s.store, username)
	if err != nil {
		return types.Page[types.ShortLink]{}, err
	}
	links, err := s.store.ListLinks(ctx, linkFilter(gids, q.Gid, q.Keyword, true))
	if err != nil {
		return types.Page[types.ShortLink]{}, handleStorageError(err)
	}
	if err := withCounters(ctx, s.store, links, s.now()); err != nil {
		return types.Page[types.ShortLink]{}, err
	}
	newestFirst(links)

	current, size := utils.NormalizePage(q.Current, q.Size)
	return types.NewPage(utils.Paginate(links, current, size), len(links), current, size), nil
}

func (s *recycleBinService) Restore(ctx context.Context, username string, req types.RecycleRequest) error {
	link, err := s.find(ctx, username, req, true)
	if err != nil {
		return err
	}
	link.EnableStatus = types.StatusActive
	link.DelTime = nil
	return handleStorageError(s.store.UpdateLink(ctx, link))
}

func (s *recycleBinService) Purge(ctx context.Context, username string, req types.RecycleRequest) error {
	link, err := s.find(ctx, username, req, true)
	if err != nil {
		return err
	}
	if err := s.store.DeleteLink(ctx, link.ID); err != nil {
		return handleStorageError(err)
	}
	if err := s.store.DeleteAccessLogs(ctx, link.FullShortURL); err != nil {
		return handleStorageError(err)
	}
	s.logger.Info("Purged short link", zap.String("fullShortUrl", link.FullShortURL))
	return nil
}
