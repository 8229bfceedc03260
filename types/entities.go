package types

import "encoding/json"

// Link validity types.
const (
	ValidPermanent = 0
	ValidCustom    = 1
)

// Link enable statuses.
const (
	StatusActive   = 0
	StatusRecycled = 1
)

// Link creation channels.
const (
	CreatedByAPI     = 0
	CreatedByConsole = 1
)

// linkAliases collects the historical field names a link payload may carry.
type linkAliases struct {
	OriginalURL string `json:"originalUrl"`
	Title       string `json:"title"`
	Description string `json:"description"`
	GroupID     string `json:"groupId"`
}

// canonicalize folds the aliases into the canonical fields.
// Fallback order: originUrl, originalUrl / describe, title, description / gid, groupId.
func (a linkAliases) canonicalize(originURL, describe, gid *string) {
	*originURL = firstNonEmpty(*originURL, a.OriginalURL)
	*describe = firstNonEmpty(*describe, a.Title, a.Description)
	*gid = firstNonEmpty(*gid, a.GroupID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Group is a named collection of short links owned by a user.
type Group struct {
	Gid            string `json:"gid"`
	Name           string `json:"name"`
	Username       string `json:"username,omitempty"`
	SortOrder      int    `json:"sortOrder"`
	ShortLinkCount int    `json:"shortLinkCount"`
}

func (g *Group) UnmarshalJSON(data []byte) error {
	type plain Group
	var raw struct {
		plain
		GroupID string `json:"groupId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = Group(raw.plain)
	g.Gid = firstNonEmpty(g.Gid, raw.GroupID)
	return nil
}

// ShortLink is a short link record as exchanged with the admin API.
type ShortLink struct {
	ID            string    `json:"id"`
	Domain        string    `json:"domain"`
	ShortURI      string    `json:"shortUri"`
	FullShortURL  string    `json:"fullShortUrl"`
	OriginURL     string    `json:"originUrl"`
	Gid           string    `json:"gid"`
	CreatedType   int       `json:"createdType"`
	ValidDateType int       `json:"validDateType"`
	ValidDate     *DateTime `json:"validDate"`
	Describe      string    `json:"describe"`
	Favicon       string    `json:"favicon,omitempty"`
	EnableStatus  int       `json:"enableStatus"`
	TotalPv       int       `json:"totalPv"`
	TotalUv       int       `json:"totalUv"`
	TotalUip      int       `json:"totalUip"`
	TodayPv       int       `json:"todayPv"`
	TodayUv       int       `json:"todayUv"`
	TodayUip      int       `json:"todayUip"`
	CreateTime    DateTime  `json:"createTime"`
	DelTime       *DateTime `json:"delTime,omitempty"`
}

func (l *ShortLink) UnmarshalJSON(data []byte) error {
	type plain ShortLink
	var raw struct {
		plain
		linkAliases
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = ShortLink(raw.plain)
	raw.linkAliases.canonicalize(&l.OriginURL, &l.Describe, &l.Gid)
	return nil
}

// Recycled reports whether the link sits in the recycle bin.
func (l ShortLink) Recycled() bool {
	return l.EnableStatus == StatusRecycled
}

// User is the public profile of an account.
type User struct {
	Username string `json:"username"`
	RealName string `json:"realName"`
	Phone    string `json:"phone"`
	Mail     string `json:"mail"`
}

// AccessLog is a single recorded visit of a short link.
type AccessLog struct {
	FullShortURL string   `json:"fullShortUrl,omitempty"`
	Gid          string   `json:"gid,omitempty"`
	IP           string   `json:"ip"`
	Browser      string   `json:"browser"`
	OS           string   `json:"os"`
	Device       string   `json:"device"`
	Network      string   `json:"network"`
	Locale       string   `json:"locale"`
	User         string   `json:"user"`
	UvType       string   `json:"uvType"`
	CreateTime   DateTime `json:"createTime"`
}

// Visitor types reported in access logs.
const (
	UvTypeNew = "newUser"
	UvTypeOld = "oldUser"
)
