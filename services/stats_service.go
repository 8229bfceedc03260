package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"shortlink-admin/storage"
	"shortlink-admin/types"
	"shortlink-admin/utils"
)

// topIPCount is how many addresses the top IP ranking keeps.
const topIPCount = 5

// maxStatsDays bounds the inclusive date range of a statistics query.
const maxStatsDays = 366

// Visit describes one redirect through a short link.
type Visit struct {
	IP        string
	UserAgent string
	Visitor   string // uv cookie value
	Locale    string
	Network   string
}

type StatsService interface {
	Record(ctx context.Context, link types.ShortLink, visit Visit) error
	Link(ctx context.Context, username string, q types.StatsQuery) (types.LinkStats, error)
	Group(ctx context.Context, username string, q types.StatsQuery) (types.LinkStats, error)
	// AccessRecords lists the visits of a link, or of a group when no link is given, newest first.
	AccessRecords(ctx context.Context, username string, q types.StatsQuery) (types.Page[types.AccessLog], error)
}

type statsService struct {
	store  storage.Storage
	logger *zap.Logger
	now    func() time.Time
}

func NewStatsService(store storage.Storage, logger *zap.Logger) StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &statsService{store: store, logger: logger, now: time.Now}
}

func (s *statsService) Record(ctx context.Context, link types.ShortLink, visit Visit) error {
	previous, err := s.store.ListAccessLogs(ctx, link.FullShortURL)
	if err != nil {
		return handleStorageError(err)
	}
	uvType := types.UvTypeNew
	for _, l := range previous {
		if l.User == visit.Visitor {
			uvType = types.UvTypeOld
			break
		}
	}
	ua := utils.ParseUserAgent(visit.UserAgent)
	entry := types.AccessLog{
		FullShortURL: link.FullShortURL,
		Gid:          link.Gid,
		IP:           visit.IP,
		Browser:      ua.Browser,
		OS:           ua.OS,
		Device:       ua.Device,
		Network:      visit.Network,
		Locale:       visit.Locale,
		User:         visit.Visitor,
		UvType:       uvType,
		CreateTime:   types.NewDateTime(s.now()),
	}
	return handleStorageError(s.store.AppendAccessLog(ctx, entry))
}

// dateRange parses the optional inclusive date bounds of q.
func dateRange(q types.StatsQuery) (start, end time.Time, err error) {
	if q.StartDate != "" {
		if start, err = time.ParseInLocation(types.DateLayout, q.StartDate, time.Local); err != nil {
			return start, end, fmt.Errorf("%w: startDate: %v", ErrInvalidRequest, err)
		}
	}
	if q.EndDate != "" {
		if end, err = time.ParseInLocation(types.DateLayout, q.EndDate, time.Local); err != nil {
			return start, end, fmt.Errorf("%w: endDate: %v", ErrInvalidRequest, err)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, fmt.Errorf("%w: endDate before startDate", ErrInvalidRequest)
	}
	if !start.IsZero() && !end.IsZero() && end.After(start.AddDate(0, 0, maxStatsDays-1)) {
		return start, end, fmt.Errorf("%w: date range longer than %d days", ErrInvalidRequest, maxStatsDays)
	}
	return start, end, nil
}

func inRange(t, start, end time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	if !start.IsZero() && day.Before(start) {
		return false
	}
	if !end.IsZero() && day.After(end) {
		return false
	}
	return true
}

// scopeURLs resolves the links a query covers: one link, or every link of a group.
func (s *statsService) scopeURLs(ctx context.Context, username string, q types.StatsQuery) ([]string, error) {
	gids, err := ownedGids(ctx, s.store, username)
	if err != nil {
		return nil, err
	}
	if q.FullShortURL != "" {
		link, err := s.store.FindLink(ctx, "", q.FullShortURL)
		if err != nil {
			return nil, handleStorageError(err)
		}
		if !gids[link.Gid] || (q.Gid != "" && q.Gid != link.Gid) {
			return nil, ErrShortLinkNotFound
		}
		return []string{link.FullShortURL}, nil
	}
	if !gids[q.Gid] {
		return nil, ErrGroupNotFound
	}
	links, err := s.store.ListLinks(ctx, func(l types.ShortLink) bool { return l.Gid == q.Gid })
	if err != nil {
		return nil, handleStorageError(err)
	}
	urls := make([]string, len(links))
	for i, l := range links {
		urls[i] = l.FullShortURL
	}
	return urls, nil
}

func (s *statsService) logs(ctx context.Context, username string, q types.StatsQuery) ([]types.AccessLog, time.Time, time.Time, error) {
	start, end, err := dateRange(q)
	if err != nil {
		return nil, start, end, err
	}
	urls, err := s.scopeURLs(ctx, username, q)
	if err != nil {
		return nil, start, end, err
	}
	all, err := s.store.ListAccessLogs(ctx, urls...)
	if err != nil {
		return nil, start, end, handleStorageError(err)
	}
	logs := all[:0]
	for _, l := range all {
		if inRange(l.CreateTime.Time, start, end) {
			logs = append(logs, l)
		}
	}
	return logs, start, end, nil
}

func (s *statsService) Link(ctx context.Context, username string, q types.StatsQuery) (types.LinkStats, error) {
	if q.FullShortURL == "" {
		return types.LinkStats{}, fmt.Errorf("%w: fullShortUrl is required", ErrInvalidRequest)
	}
	logs, start, end, err := s.logs(ctx, username, q)
	if err != nil {
		return types.LinkStats{}, err
	}
	return aggregate(logs, start, end), nil
}

func (s *statsService) Group(ctx context.Context, username string, q types.StatsQuery) (types.LinkStats, error) {
	q.FullShortURL = ""
	logs, start, end, err := s.logs(ctx, username, q)
	if err != nil {
		return types.LinkStats{}, err
	}
	return aggregate(logs, start, end), nil
}

func (s *statsService) AccessRecords(ctx context.Context, username string, q types.StatsQuery) (types.Page[types.AccessLog], error) {
	logs, _, _, err := s.logs(ctx, username, q)
	if err != nil {
		return types.Page[types.AccessLog]{}, err
	}
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	current, size := utils.NormalizePage(q.Current, q.Size)
	return types.NewPage(utils.Paginate(logs, current, size), len(logs), current, size), nil
}

// aggregate builds the analytics of logs. Daily rows cover every day of a
// bounded range, or only days with visits otherwise.
func aggregate(logs []types.AccessLog, start, end time.Time) types.LinkStats {
	stats := types.LinkStats{
		Daily:        []types.DailyStat{},
		HourStats:    make([]int, 24),
		WeekdayStats: make([]int, 7),
	}
	stats.Pv, stats.Uv, stats.Uip = countVisits(logs)

	byDay := make(map[string][]types.AccessLog)
	ips := make(map[string]int)
	browsers := make(map[string]int)
	systems := make(map[string]int)
	devices := make(map[string]int)
	uvTypes := make(map[string]int)
	for _, l := range logs {
		t := l.CreateTime.Time
		byDay[t.Format(types.DateLayout)] = append(byDay[t.Format(types.DateLayout)], l)
		stats.HourStats[t.Hour()]++
		// Monday first.
		stats.WeekdayStats[(int(t.Weekday())+6)%7]++
		ips[l.IP]++
		browsers[l.Browser]++
		systems[l.OS]++
		devices[l.Device]++
		uvTypes[l.UvType]++
	}

	var days []string
	if !start.IsZero() && !end.IsZero() {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			days = append(days, d.Format(types.DateLayout))
		}
	} else {
		for day := range byDay {
			days = append(days, day)
		}
		sort.Strings(days)
	}
	for _, day := range days {
		pv, uv, uip := countVisits(byDay[day])
		stats.Daily = append(stats.Daily, types.DailyStat{Date: day, Pv: pv, Uv: uv, Uip: uip})
	}

	total := len(logs)
	top := counters(ips, total)
	if len(top) > topIPCount {
		top = top[:topIPCount]
	}
	stats.TopIPStats = top
	stats.BrowserStats = counters(browsers, total)
	stats.OSStats = counters(systems, total)
	stats.DeviceStats = counters(devices, total)
	stats.UvTypeStats = counters(uvTypes, total)
	return stats
}

// counters turns a tally into labelled counts, largest first, with their
// share of total rounded to two decimals.
func counters(tally map[string]int, total int) []types.CountStat {
	out := make([]types.CountStat, 0, len(tally))
	for label, n := range tally {
		ratio := 0.0
		if total > 0 {
			ratio = math.Round(float64(n)/float64(total)*100) / 100
		}
		out = append(out, types.CountStat{Label: label, Count: n, Ratio: ratio})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
