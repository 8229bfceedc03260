package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"shortlink-admin/types"
)

// InMemoryStorage implements the Storage interface in process memory.
// Nothing survives a restart.
type InMemoryStorage struct {
	mu       sync.RWMutex
	users    map[string]UserRecord
	sessions map[string]Session
	groups   []types.Group
	links    []types.ShortLink
	logs     []types.AccessLog
	capacity int // maximum number of links
	logger   *zap.Logger
}

// NewInMemoryStorage creates and returns a new InMemoryStorage instance
func NewInMemoryStorage(capacity int, logger *zap.Logger) *InMemoryStorage {
	if capacity <= 0 {
		capacity = 1000 // Default capacity if an invalid value is provided
	}
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			panic("Failed to initialize zap logger: " + err.Error())
		}
	}
	return &InMemoryStorage{
		users:    make(map[string]UserRecord),
		sessions: make(map[string]Session),
		links:    make([]types.ShortLink, 0, 64),
		capacity: capacity,
		logger:   logger,
	}
}

func (s *InMemoryStorage) cancelled(ctx context.Context, op string, fields ...zap.Field) error {
	if err := ctx.Err(); err != nil {
		s.logger.Warn(op+" operation cancelled", fields...)
		return err
	}
	return nil
}

// CreateUser adds an account.
func (s *InMemoryStorage) CreateUser(ctx context.Context, user UserRecord) error {
	if err := s.cancelled(ctx, "CreateUser", zap.String("username", user.Username)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		s.logger.Warn("Attempt to create duplicate user", zap.String("username", user.Username))
		return ErrUserExists
	}
	if user.CreateTime.IsZero() {
		user.CreateTime = time.Now()
	}
	s.users[user.Username] = user
	s.logger.Info("User created", zap.String("username", user.Username))
	return nil
}

// GetUser returns an account.
func (s *InMemoryStorage) GetUser(ctx context.Context, username string) (UserRecord, error) {
	if err := s.cancelled(ctx, "GetUser", zap.String("username", username)); err != nil {
		return UserRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return user, nil
}

// UpdateUser replaces an account.
func (s *InMemoryStorage) UpdateUser(ctx context.Context, user UserRecord) error {
	if err := s.cancelled(ctx, "UpdateUser", zap.String("username", user.Username)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.users[user.Username]
	if !ok {
		return ErrUserNotFound
	}
	user.CreateTime = old.CreateTime
	s.users[user.Username] = user
	s.logger.Info("User updated", zap.String("username", user.Username))
	return nil
}

// SaveSession creates or replaces the session of a user.
func (s *InMemoryStorage) SaveSession(ctx context.Context, session Session) error {
	if err := s.cancelled(ctx, "SaveSession", zap.String("username", session.Username)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.Username] = session
	return nil
}

// GetSession returns the live session of a user. Expired sessions are dropped.
func (s *InMemoryStorage) GetSession(ctx context.Context, username string) (Session, error) {
	if err := s.cancelled(ctx, "GetSession", zap.String("username", username)); err != nil {
		return Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[username]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		delete(s.sessions, username)
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

// DeleteSession ends the session of a user.
func (s *InMemoryStorage) DeleteSession(ctx context.Context, username string) error {
	if err := s.cancelled(ctx, "DeleteSession", zap.String("username", username)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[username]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, username)
	return nil
}

// CreateGroup adds a group.
func (s *InMemoryStorage) CreateGroup(ctx context.Context, group types.Group) error {
	if err := s.cancelled(ctx, "CreateGroup", zap.String("gid", group.Gid)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.groups {
		if g.Gid == group.Gid {
			return ErrGroupExists
		}
	}
	s.groups = append(s.groups, group)
	s.logger.Info("Group created", zap.String("gid", group.Gid), zap.String("username", group.Username))
	return nil
}

// GetGroup returns a group owned by username.
func (s *InMemoryStorage) GetGroup(ctx context.Context, username, gid string) (types.Group, error) {
	if err := s.cancelled(ctx, "GetGroup", zap.String("gid", gid)); err != nil {
		return types.Group{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.groups {
		if g.Gid == gid && g.Username == username {
			return g, nil
		}
	}
	return types.Group{}, ErrGroupNotFound
}

// ListGroups returns the groups of username ordered by sort order.
func (s *InMemoryStorage) ListGroups(ctx context.Context, username string) ([]types.Group, error) {
	if err := s.cancelled(ctx, "ListGroups", zap.String("username", username)); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]types.Group, 0)
	for _, g := range s.groups {
		if g.Username == username {
			groups = append(groups, g)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].SortOrder < groups[j].SortOrder })
	return groups, nil
}

// UpdateGroup replaces a group.
func (s *InMemoryStorage) UpdateGroup(ctx context.Context, group types.Group) error {
	if err := s.cancelled(ctx, "UpdateGroup", zap.String("gid", group.Gid)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.groups {
		if g.Gid == group.Gid && g.Username == group.Username {
			s.groups[i] = group
			return nil
		}
	}
	return ErrGroupNotFound
}

// DeleteGroup removes a group.
func (s *InMemoryStorage) DeleteGroup(ctx context.Context, username, gid string) error {
	if err := s.cancelled(ctx, "DeleteGroup", zap.String("gid", gid)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.groups {
		if g.Gid == gid && g.Username == username {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			s.logger.Info("Group deleted", zap.String("gid", gid))
			return nil
		}
	}
	return ErrGroupNotFound
}

// CreateLink appends a link. The full short URL must be unique.
func (s *InMemoryStorage) CreateLink(ctx context.Context, link types.ShortLink) error {
	if err := s.cancelled(ctx, "CreateLink", zap.String("fullShortUrl", link.FullShortURL)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.links) >= s.capacity {
		s.logger.Error("Storage capacity reached. Cannot create short link", zap.String("fullShortUrl", link.FullShortURL))
		return ErrStorageCapacityReached
	}
	for _, l := range s.links {
		if l.ID == link.ID || l.FullShortURL == link.FullShortURL {
			s.logger.Warn("Attempt to create duplicate short link", zap.String("fullShortUrl", link.FullShortURL))
			return ErrShortLinkExists
		}
	}
	s.links = append(s.links, link)
	s.logger.Info("Short link created successfully",
		zap.String("fullShortUrl", link.FullShortURL),
		zap.String("originUrl", link.OriginURL),
		zap.String("gid", link.Gid))
	return nil
}

// indexOf must be called with mu held.
func (s *InMemoryStorage) indexOf(id, fullShortURL string) int {
	if id != "" {
		for i, l := range s.links {
			if l.ID == id {
				return i
			}
		}
	}
	if fullShortURL != "" {
		for i, l := range s.links {
			if l.FullShortURL == fullShortURL {
				return i
			}
		}
	}
	return -1
}

// FindLink looks a link up by id, then by full short URL.
func (s *InMemoryStorage) FindLink(ctx context.Context, id, fullShortURL string) (types.ShortLink, error) {
	if err := s.cancelled(ctx, "FindLink", zap.String("id", id), zap.String("fullShortUrl", fullShortURL)); err != nil {
		return types.ShortLink{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id, fullShortURL)
	if i < 0 {
		return types.ShortLink{}, ErrShortLinkNotFound
	}
	return s.links[i], nil
}

// UpdateLink replaces the link with the same id, keeping its position.
func (s *InMemoryStorage) UpdateLink(ctx context.Context, link types.ShortLink) error {
	if err := s.cancelled(ctx, "UpdateLink", zap.String("id", link.ID)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(link.ID, "")
	if i < 0 {
		s.logger.Warn("Attempt to update non-existent short link", zap.String("id", link.ID))
		return ErrShortLinkNotFound
	}
	old := s.links[i]
	link.CreateTime = old.CreateTime
	s.links[i] = link
	s.logger.Info("Updated short link",
		zap.String("fullShortUrl", link.FullShortURL),
		zap.String("oldURL", old.OriginURL),
		zap.String("newURL", link.OriginURL),
		zap.Int("enableStatus", link.EnableStatus))
	return nil
}

// DeleteLink removes a link for good.
func (s *InMemoryStorage) DeleteLink(ctx context.Context, id string) error {
	if err := s.cancelled(ctx, "DeleteLink", zap.String("id", id)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id, "")
	if i < 0 {
		s.logger.Warn("Attempt to delete non-existent short link", zap.String("id", id))
		return ErrShortLinkNotFound
	}
	fullShortURL := s.links[i].FullShortURL
	s.links = append(s.links[:i], s.links[i+1:]...)
	s.logger.Info("Deleted short link", zap.String("fullShortUrl", fullShortURL))
	return nil
}

// ListLinks returns a copy of the links accepted by keep.
func (s *InMemoryStorage) ListLinks(ctx context.Context, keep func(types.ShortLink) bool) ([]types.ShortLink, error) {
	if err := s.cancelled(ctx, "ListLinks"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]types.ShortLink, 0, len(s.links))
	for _, l := range s.links {
		if keep == nil || keep(l) {
			links = append(links, l)
		}
	}
	return links, nil
}

// AppendAccessLog records a visit.
func (s *InMemoryStorage) AppendAccessLog(ctx context.Context, log types.AccessLog) error {
	if err := s.cancelled(ctx, "AppendAccessLog", zap.String("fullShortUrl", log.FullShortURL)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, log)
	return nil
}

// ListAccessLogs returns the visits of the given links, oldest first.
func (s *InMemoryStorage) ListAccessLogs(ctx context.Context, fullShortURLs ...string) ([]types.AccessLog, error) {
	if err := s.cancelled(ctx, "ListAccessLogs"); err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(fullShortURLs))
	for _, u := range fullShortURLs {
		wanted[u] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]types.AccessLog, 0)
	for _, l := range s.logs {
		if _, ok := wanted[l.FullShortURL]; ok {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

// DeleteAccessLogs drops every visit of a link.
func (s *InMemoryStorage) DeleteAccessLogs(ctx context.Context, fullShortURL string) error {
	if err := s.cancelled(ctx, "DeleteAccessLogs", zap.String("fullShortUrl", fullShortURL)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.logs[:0]
	for _, l := range s.logs {
		if l.FullShortURL != fullShortURL {
			kept = append(kept, l)
		}
	}
	s.logs = kept
	return nil
}
