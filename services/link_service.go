package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"shortlink-admin/storage"
	"shortlink-admin/types"
	"shortlink-admin/urlgen"
	"shortlink-admin/utils"
)

// codeAttempts bounds the search for an unused short code.
const codeAttempts = 10

type LinkService interface {
	Page(ctx context.Context, username string, q types.LinkPageQuery) (types.Page[types.ShortLink], error)
	Create(ctx context.Context, username string, req types.CreateLinkRequest) (types.ShortLink, error)
	BatchCreate(ctx context.Context, username string, req types.BatchCreateLinkRequest) ([]types.ShortLink, error)
	// Update locates the link by id, falling back to its full short URL.
	Update(ctx context.Context, username string, req types.UpdateLinkRequest) error
	Title(ctx context.Context, rawURL string) (string, error)
	// Resolve returns the active, unexpired link behind a short code.
	Resolve(ctx context.Context, shortURI string) (types.ShortLink, error)
}

type linkService struct {
	store  storage.Storage
	domain string
	titles TitleFetcher
	logger *zap.Logger
	now    func() time.Time
}

// LinkOption configures a LinkService.
type LinkOption func(*linkService)

// WithTitleFetcher makes Title look up page titles. Without one, or when the
// lookup fails, the title is the site's host.
func WithTitleFetcher(f TitleFetcher) LinkOption {
	return func(s *linkService) { s.titles = f }
}

func NewLinkService(store storage.Storage, domain string, logger *zap.Logger, opts ...LinkOption) LinkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &linkService{store: store, domain: domain, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ownedGids returns the set of group ids belonging to username.
func ownedGids(ctx context.Context, store storage.Storage, username string) (map[string]bool, error) {
	groups, err := store.ListGroups(ctx, username)
	if err != nil {
		return nil, handleStorageError(err)
	}
	gids := make(map[string]bool, len(groups))
	for _, g := range groups {
		gids[g.Gid] = true
	}
	return gids, nil
}

// linkFilter selects links of the owned groups, optionally narrowed to one
// group and a case-sensitive keyword.
func linkFilter(gids map[string]bool, gid, keyword string, recycled bool) func(types.ShortLink) bool {
	return func(l types.ShortLink) bool {
		if !gids[l.Gid] || l.Recycled() != recycled {
			return false
		}
		if gid != "" && l.Gid != gid {
			return false
		}
		if keyword == "" {
			return true
		}
		return strings.Contains(l.FullShortURL, keyword) ||
			strings.Contains(l.OriginURL, keyword) ||
			strings.Contains(l.Describe, keyword)
	}
}

// withCounters fills the visit counters of links from the access logs.
func withCounters(ctx context.Context, store storage.Storage, links []types.ShortLink, now time.Time) error {
	urls := make([]string, len(links))
	for i, l := range links {
		urls[i] = l.FullShortURL
	}
	logs, err := store.ListAccessLogs(ctx, urls...)
	if err != nil {
		return handleStorageError(err)
	}
	byURL := make(map[string][]types.AccessLog, len(links))
	for _, l := range logs {
		byURL[l.FullShortURL] = append(byURL[l.FullShortURL], l)
	}
	today := now.Format(types.DateLayout)
	for i := range links {
		all := byURL[links[i].FullShortURL]
		var todays []types.AccessLog
		for _, l := range all {
			if l.CreateTime.Format(types.DateLayout) == today {
				todays = append(todays, l)
			}
		}
		links[i].TotalPv, links[i].TotalUv, links[i].TotalUip = countVisits(all)
		links[i].TodayPv, links[i].TodayUv, links[i].TodayUip = countVisits(todays)
	}
	return nil
}

// countVisits returns page views, distinct visitors and distinct IPs.
func countVisits(logs []types.AccessLog) (pv, uv, uip int) {
	users := make(map[string]struct{})
	ips := make(map[string]struct{})
	for _, l := range logs {
		users[l.User] = struct{}{}
		ips[l.IP] = struct{}{}
	}
	return len(logs), len(users), len(ips)
}

var orderKeys = map[string]func(types.ShortLink) int{
	"totalPv":  func(l types.ShortLink) int { return l.TotalPv },
	"totalUv":  func(l types.ShortLink) int { return l.TotalUv },
	"totalUip": func(l types.ShortLink) int { return l.TotalUip },
	"todayPv":  func(l types.ShortLink) int { return l.TodayPv },
	"todayUv":  func(l types.ShortLink) int { return l.TodayUv },
	"todayUip": func(l types.ShortLink) int { return l.TodayUip },
}

// newestFirst reverses creation order in place.
func newestFirst(links []types.ShortLink) {
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}
}

func (s *linkService) Page(ctx context.Context, username string, q types.LinkPageQuery) (types.Page[types.ShortLink], error) {
	gids, err := ownedGids(ctx, s.store, username)
	if err != nil {
		return types.Page[types.ShortLink]{}, err
	}
	links, err := s.store.ListLinks(ctx, linkFilter(gids, q.Gid, q.Keyword, false))
	if err != nil {
		return types.Page[types.ShortLink]{}, handleStorageError(err)
	}
	if err := withCounters(ctx, s.store, links, s.now()); err != nil {
		return types.Page[types.ShortLink]{}, err
	}

	newestFirst(links)
	if key, ok := orderKeys[q.OrderTag]; ok {
		sort.SliceStable(links, func(i, j int) bool { return key(links[i]) > key(links[j]) })
	}

	current, size := utils.NormalizePage(q.Current, q.Size)
	return types.NewPage(utils.Paginate(links, current, size), len(links), current, size), nil
}

// validity normalizes the validity settings of a link.
func validity(validDateType int, validDate *types.DateTime) (*types.DateTime, error) {
	switch validDateType {
	case types.ValidPermanent:
		return nil, nil
	case types.ValidCustom:
		if validDate == nil || validDate.IsZero() {
			return nil, fmt.Errorf("%w: validDate is required for a custom validity", ErrInvalidRequest)
		}
		return validDate, nil
	default:
		return nil, fmt.Errorf("%w: unknown validDateType %d", ErrInvalidRequest, validDateType)
	}
}

func (s *linkService) codeTaken(ctx context.Context) func(string) bool {
	return func(code string) bool {
		_, err := s.store.FindLink(ctx, "", s.domain+"/"+code)
		return !errors.Is(err, storage.ErrShortLinkNotFound)
	}
}

func (s *linkService) Create(ctx context.Context, username string, req types.CreateLinkRequest) (types.ShortLink, error) {
	gids, err := ownedGids(ctx, s.store, username)
	if err != nil {
		return types.ShortLink{}, err
	}
	if !gids[req.Gid] {
		return types.ShortLink{}, ErrGroupNotFound
	}
	validDate, err := validity(req.ValidDateType, req.ValidDate)
	if err != nil {
		return types.ShortLink{}, err
	}

	code, err := urlgen.GenerateUnique(codeAttempts, s.codeTaken(ctx))
	if err != nil {
		return types.ShortLink{}, err
	}
	id, err := newID()
	if err != nil {
		return types.ShortLink{}, err
	}
	describe := req.Describe
	if describe == "" {
		describe = utils.Host(req.OriginURL)
	}
	link := types.ShortLink{
		ID:            id,
		Domain:        s.domain,
		ShortURI:      code,
		FullShortURL:  s.domain + "/" + code,
		OriginURL:     req.OriginURL,
		Gid:           req.Gid,
		CreatedType:   req.CreatedType,
		ValidDateType: req.ValidDateType,
		ValidDate:     validDate,
		Describe:      describe,
		Favicon:       utils.Favicon(req.OriginURL),
		EnableStatus:  types.StatusActive,
		CreateTime:    types.NewDateTime(s.now()),
	}
	if err := s.store.CreateLink(ctx, link); err != nil {
		return types.ShortLink{}, handleStorageError(err)
	}
	return link, nil
}

func (s *linkService) BatchCreate(ctx context.Context, username string, req types.BatchCreateLinkRequest) ([]types.ShortLink, error) {
	links := make([]types.ShortLink, 0, len(req.OriginURLs))
	for i, originURL := range req.OriginURLs {
		single := types.CreateLinkRequest{
			OriginURL:     originURL,
			Gid:           req.Gid,
			CreatedType:   req.CreatedType,
			ValidDateType: req.ValidDateType,
			ValidDate:     req.ValidDate,
		}
		if i < len(req.Describes) {
			single.Describe = req.Describes[i]
		}
		link, err := s.Create(ctx, username, single)
		if err != nil {
			return links, err
		}
		links = append(links, link)
	}
	s.logger.Info("Batch created short links", zap.String("gid", req.Gid), zap.Int("count", len(links)))
	return links, nil
}

func (s *linkService) Update(ctx context.Context, username string, req types.UpdateLinkRequest) error {
	if req.ID == "" && req.FullShortURL == "" {
		return fmt.Errorf("%w: id or fullShortUrl is required", ErrInvalidRequest)
	}
	gids, err := ownedGids(ctx, s.store, username)
	if err != nil {
		return err
	}
	link, err := s.store.FindLink(ctx, req.ID, req.FullShortURL)
	if err != nil {
		return handleStorageError(err)
	}
	if !gids[link.Gid] {
		return ErrShortLinkNotFound
	}
	if !gids[req.Gid] {
		return ErrGroupNotFound
	}
	validDate, err := validity(req.ValidDateType, req.ValidDate)
	if err != nil {
		return err
	}

	link.OriginURL = req.OriginURL
	link.Gid = req.Gid
	link.ValidDateType = req.ValidDateType
	link.ValidDate = validDate
	link.Describe = req.Describe
	link.Favicon = utils.Favicon(req.OriginURL)
	return handleStorageError(s.store.UpdateLink(ctx, link))
}

func (s *linkService) Title(ctx context.Context, rawURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	host := utils.Host(rawURL)
	if host == "" {
		return "", fmt.Errorf("%w: not an absolute URL", ErrInvalidRequest)
	}
	if s.titles == nil {
		return host, nil
	}
	title, err := s.titles.Fetch(ctx, rawURL)
	if err != nil || title == "" {
		s.logger.Debug("Page title unavailable, using host",
			zap.String("url", rawURL),
			zap.Error(err))
		return host, nil
	}
	return title, nil
}

func (s *linkService) Resolve(ctx context.Context, shortURI string) (types.ShortLink, error) {
	link, err := s.store.FindLink(ctx, "", s.domain+"/"+shortURI)
	if err != nil {
		return types.ShortLink{}, handleStorageError(err)
	}
	if link.Recycled() {
		return types.ShortLink{}, ErrShortLinkNotFound
	}
	if expired(link, s.now()) {
		return types.ShortLink{}, ErrShortLinkExpired
	}
	return link, nil
}

func expired(link types.ShortLink, now time.Time) bool {
	return link.ValidDateType == types.ValidCustom && link.ValidDate != nil && !link.ValidDate.IsZero() &&
		now.After(link.ValidDate.Time)
}
