package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"shortlink-admin/routeguard"
	"shortlink-admin/state"
	"shortlink-admin/types"
)

type action func(ctx context.Context, a *app, args []string) error

type command struct {
	// path is the console view the command stands for; the route guard decides on it.
	path    string
	summary string
	setup   func(fs *flag.FlagSet) action
}

var commands = map[string]command{
	"register":      {"/register", "create an account", registerCmd},
	"login":         {routeguard.LoginPath, "log in and store the token", loginCmd},
	"logout":        {routeguard.LoginPath, "end the session and forget the token", logoutCmd},
	"check":         {routeguard.LoginPath, "report whether the stored session is valid", checkCmd},
	"whoami":        {"/home/account", "show the logged in operator", whoamiCmd},
	"groups":        {"/home/space", "list groups", groupsCmd},
	"group-create":  {"/home/space", "create a group", groupCreateCmd},
	"group-rename":  {"/home/space", "rename a group", groupRenameCmd},
	"group-delete":  {"/home/space", "delete an empty group", groupDeleteCmd},
	"page":          {"/home/space", "list links of a group", pageCmd},
	"create":        {"/home/space", "create a short link", createCmd},
	"batch":         {"/home/space", "create short links in bulk and save the result spreadsheet", batchCmd},
	"update":        {"/home/space", "edit a short link", updateCmd},
	"title":         {"/home/space", "fetch the page title of a URL", titleCmd},
	"recycle":       {"/home/space", "move a short link to the recycle bin", recycleCmd},
	"recycle-page":  {"/home/recycleBin", "list links in the recycle bin", recyclePageCmd},
	"restore":       {"/home/recycleBin", "take a short link out of the recycle bin", restoreCmd},
	"purge":         {"/home/recycleBin", "delete a recycled short link for good", purgeCmd},
	"stats":         {"/home/space", "show analytics of a link or group", statsCmd},
	"access-record": {"/home/space", "list visits of a link", accessRecordCmd},
}

func printJSON(a *app, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

// validity turns an optional "2006-01-02 15:04:05" deadline into a validity type and date.
func validity(until string) (int, *types.DateTime, error) {
	if until == "" {
		return types.ValidPermanent, nil, nil
	}
	d, err := types.ParseDateTime(until)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid -valid-until %q: %w", until, err)
	}
	return types.ValidCustom, &d, nil
}

func registerCmd(fs *flag.FlagSet) action {
	var req types.RegisterRequest
	fs.StringVar(&req.Username, "username", "", "account name")
	fs.StringVar(&req.Password, "password", "", "password")
	fs.StringVar(&req.RealName, "real-name", "", "real name")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	fs.StringVar(&req.Mail, "mail", "", "mail address")
	return func(ctx context.Context, a *app, _ []string) error {
		available, err := a.api.User.UsernameAvailable(ctx, req.Username)
		if err != nil {
			return err
		}
		if !available {
			return fmt.Errorf("username %q is already taken", req.Username)
		}
		if err := a.api.User.Register(ctx, req); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Registered %s\n", req.Username)
		return nil
	}
}

func loginCmd(fs *flag.FlagSet) action {
	var req types.LoginRequest
	fs.StringVar(&req.Username, "username", "", "account name")
	fs.StringVar(&req.Password, "password", "", "password")
	fs.BoolVar(&req.RememberMe, "remember", false, "keep the session for 7 days")
	return func(ctx context.Context, a *app, _ []string) error {
		if _, err := a.api.User.Login(ctx, req); err != nil {
			return err
		}
		a.logger.Debug("Logged in", zap.String("username", req.Username), zap.Bool("remember", req.RememberMe))
		fmt.Fprintf(a.out, "Logged in as %s\n", req.Username)
		return nil
	}
}

func logoutCmd(*flag.FlagSet) action {
	return func(ctx context.Context, a *app, _ []string) error {
		if err := a.api.User.Logout(ctx); err != nil {
			return err
		}
		a.state.Reset()
		fmt.Fprintln(a.out, "Logged out")
		return nil
	}
}

func checkCmd(*flag.FlagSet) action {
	return func(ctx context.Context, a *app, _ []string) error {
		fmt.Fprintln(a.out, a.api.User.CheckLogin(ctx))
		return nil
	}
}

func whoamiCmd(*flag.FlagSet) action {
	return func(ctx context.Context, a *app, _ []string) error {
		username, _ := a.session.Username()
		user, err := a.api.User.Info(ctx, username)
		if err != nil {
			return err
		}
		a.state.SetUser(user)
		return printJSON(a, user)
	}
}

// loadGroups refreshes the group list in the state store.
func loadGroups(ctx context.Context, a *app) error {
	groups, err := a.api.Group.List(ctx)
	if err != nil {
		return err
	}
	a.state.SetGroups(groups)
	return nil
}

// selectGroup resolves an empty gid to the selected group.
func selectGroup(ctx context.Context, a *app, gid string) (string, error) {
	if err := loadGroups(ctx, a); err != nil {
		return "", err
	}
	if gid != "" {
		if !a.state.SelectGroup(gid) {
			return "", fmt.Errorf("unknown group %q", gid)
		}
		return gid, nil
	}
	g, ok := a.state.SelectedGroup()
	if !ok {
		return "", fmt.Errorf("no group available")
	}
	return g.Gid, nil
}

func groupsCmd(*flag.FlagSet) action {
	return func(ctx context.Context, a *app, _ []string) error {
		if err := loadGroups(ctx, a); err != nil {
			return err
		}
		return printJSON(a, a.state.Groups())
	}
}

func groupCreateCmd(fs *flag.FlagSet) action {
	name := fs.String("name", "", "group name")
	return func(ctx context.Context, a *app, _ []string) error {
		a.state.OpenModal(state.ModalGroup)
		defer a.state.CloseModal(state.ModalGroup)
		if err := a.api.Group.Create(ctx, *name); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created group %s\n", *name)
		return nil
	}
}

func groupRenameCmd(fs *flag.FlagSet) action {
	gid := fs.String("gid", "", "group id")
	name := fs.String("name", "", "new name")
	return func(ctx context.Context, a *app, _ []string) error {
		return a.api.Group.Rename(ctx, *gid, *name)
	}
}

func groupDeleteCmd(fs *flag.FlagSet) action {
	gid := fs.String("gid", "", "group id")
	return func(ctx context.Context, a *app, _ []string) error {
		return a.api.Group.Delete(ctx, *gid)
	}
}

func pageCmd(fs *flag.FlagSet) action {
	var q types.LinkPageQuery
	fs.StringVar(&q.Gid, "gid", "", "group id, defaults to the first group")
	fs.StringVar(&q.Keyword, "keyword", "", "filter by keyword")
	fs.StringVar(&q.OrderTag, "order", "", "sort by totalPv, totalUv, totalUip, todayPv, todayUv or todayUip")
	fs.IntVar(&q.Current, "current", 1, "page number")
	fs.IntVar(&q.Size, "size", 10, "page size")
	return func(ctx context.Context, a *app, _ []string) error {
		gid, err := selectGroup(ctx, a, q.Gid)
		if err != nil {
			return err
		}
		q.Gid = gid
		page, err := a.api.Link.Page(ctx, q)
		if err != nil {
			return err
		}
		return printJSON(a, page)
	}
}

func createCmd(fs *flag.FlagSet) action {
	var req types.CreateLinkRequest
	fs.StringVar(&req.Gid, "gid", "", "group id, defaults to the first group")
	fs.StringVar(&req.OriginURL, "url", "", "original URL")
	fs.StringVar(&req.Describe, "describe", "", "description")
	until := fs.String("valid-until", "", "expiry as \"2006-01-02 15:04:05\", permanent when empty")
	return func(ctx context.Context, a *app, _ []string) error {
		var err error
		if req.ValidDateType, req.ValidDate, err = validity(*until); err != nil {
			return err
		}
		if req.Gid, err = selectGroup(ctx, a, req.Gid); err != nil {
			return err
		}
		req.Domain = a.state.Domain()
		a.state.OpenModal(state.ModalCreateLink)
		defer a.state.CloseModal(state.ModalCreateLink)
		link, err := a.api.Link.Create(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(a, link)
	}
}

func batchCmd(fs *flag.FlagSet) action {
	var req types.BatchCreateLinkRequest
	fs.StringVar(&req.Gid, "gid", "", "group id, defaults to the first group")
	dir := fs.String("out", ".", "directory the result spreadsheet is written to")
	until := fs.String("valid-until", "", "expiry as \"2006-01-02 15:04:05\", permanent when empty")
	return func(ctx context.Context, a *app, urls []string) error {
		var err error
		if req.ValidDateType, req.ValidDate, err = validity(*until); err != nil {
			return err
		}
		if req.Gid, err = selectGroup(ctx, a, req.Gid); err != nil {
			return err
		}
		req.OriginURLs = urls
		a.state.OpenModal(state.ModalBatchCreate)
		defer a.state.CloseModal(state.ModalBatchCreate)
		sheet, err := a.api.Link.BatchCreate(ctx, req)
		if err != nil {
			return err
		}
		path := filepath.Join(*dir, filepath.Base(sheet.Filename))
		if err := os.WriteFile(path, sheet.Data, 0o644); err != nil {
			return fmt.Errorf("write spreadsheet: %w", err)
		}
		fmt.Fprintf(a.out, "Saved %s\n", path)
		return nil
	}
}

func updateCmd(fs *flag.FlagSet) action {
	var req types.UpdateLinkRequest
	fs.StringVar(&req.ID, "id", "", "link id")
	fs.StringVar(&req.FullShortURL, "full", "", "full short URL, used when -id is empty")
	fs.StringVar(&req.OriginURL, "url", "", "original URL")
	fs.StringVar(&req.OriginGid, "origin-gid", "", "current group id")
	fs.StringVar(&req.Gid, "gid", "", "target group id")
	fs.StringVar(&req.Describe, "describe", "", "description")
	until := fs.String("valid-until", "", "expiry as \"2006-01-02 15:04:05\", permanent when empty")
	return func(ctx context.Context, a *app, _ []string) error {
		var err error
		if req.ValidDateType, req.ValidDate, err = validity(*until); err != nil {
			return err
		}
		a.state.OpenModal(state.ModalEditLink)
		defer a.state.CloseModal(state.ModalEditLink)
		if err := a.api.Link.Update(ctx, req); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Updated")
		return nil
	}
}

func titleCmd(fs *flag.FlagSet) action {
	rawURL := fs.String("url", "", "page URL")
	return func(ctx context.Context, a *app, _ []string) error {
		title, err := a.api.Link.FetchTitle(ctx, *rawURL)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, title)
		return nil
	}
}

func recycleFlags(fs *flag.FlagSet) *types.RecycleRequest {
	var req types.RecycleRequest
	fs.StringVar(&req.Gid, "gid", "", "group id")
	fs.StringVar(&req.FullShortURL, "full", "", "full short URL")
	return &req
}

func recycleCmd(fs *flag.FlagSet) action {
	req := recycleFlags(fs)
	return func(ctx context.Context, a *app, _ []string) error {
		return a.api.Link.Recycle(ctx, *req)
	}
}

func restoreCmd(fs *flag.FlagSet) action {
	req := recycleFlags(fs)
	return func(ctx context.Context, a *app, _ []string) error {
		return a.api.Link.Restore(ctx, *req)
	}
}

func purgeCmd(fs *flag.FlagSet) action {
	req := recycleFlags(fs)
	return func(ctx context.Context, a *app, _ []string) error {
		return a.api.Link.Purge(ctx, *req)
	}
}

func recyclePageCmd(fs *flag.FlagSet) action {
	var q types.RecyclePageQuery
	fs.StringVar(&q.Gid, "gid", "", "group id, all groups when empty")
	fs.StringVar(&q.Keyword, "keyword", "", "filter by keyword")
	fs.IntVar(&q.Current, "current", 1, "page number")
	fs.IntVar(&q.Size, "size", 10, "page size")
	return func(ctx context.Context, a *app, _ []string) error {
		page, err := a.api.Link.RecyclePage(ctx, q)
		if err != nil {
			return err
		}
		return printJSON(a, page)
	}
}

func statsFlags(fs *flag.FlagSet) *types.StatsQuery {
	var q types.StatsQuery
	fs.StringVar(&q.FullShortURL, "full", "", "full short URL, the whole group when empty")
	fs.StringVar(&q.Gid, "gid", "", "group id")
	fs.StringVar(&q.StartDate, "start", "", "first day, 2006-01-02")
	fs.StringVar(&q.EndDate, "end", "", "last day, 2006-01-02")
	return &q
}

func statsCmd(fs *flag.FlagSet) action {
	q := statsFlags(fs)
	return func(ctx context.Context, a *app, _ []string) error {
		a.state.OpenModal(state.ModalStats)
		defer a.state.CloseModal(state.ModalStats)
		var (
			stats types.LinkStats
			err   error
		)
		if q.FullShortURL == "" && q.Gid == "" {
			if q.Gid, err = selectGroup(ctx, a, ""); err != nil {
				return err
			}
		}
		if q.FullShortURL != "" {
			stats, err = a.api.Stats.Link(ctx, *q)
		} else {
			stats, err = a.api.Stats.Group(ctx, *q)
		}
		if err != nil {
			return err
		}
		return printJSON(a, stats)
	}
}

func accessRecordCmd(fs *flag.FlagSet) action {
	q := statsFlags(fs)
	fs.IntVar(&q.Current, "current", 1, "page number")
	fs.IntVar(&q.Size, "size", 10, "page size")
	return func(ctx context.Context, a *app, _ []string) error {
		page, err := a.api.Stats.AccessRecords(ctx, *q)
		if err != nil {
			return err
		}
		return printJSON(a, page)
	}
}
