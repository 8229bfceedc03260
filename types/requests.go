package types

import "encoding/json"

// LoginRequest carries user credentials.
type LoginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"-"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6"`
	RealName string `json:"realName"`
	Phone    string `json:"phone" validate:"omitempty,numeric,min=6,max=20"`
	Mail     string `json:"mail" validate:"omitempty,email"`
}

// UpdateUserRequest changes profile fields. Empty fields are left unchanged.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
	RealName string `json:"realName,omitempty"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,numeric,min=6,max=20"`
	Mail     string `json:"mail,omitempty" validate:"omitempty,email"`
}

// GroupCreateRequest creates a group.
type GroupCreateRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// GroupUpdateRequest renames a group.
type GroupUpdateRequest struct {
	Gid  string `json:"gid" validate:"required"`
	Name string `json:"name" validate:"required,max=64"`
}

// GroupSortRequest moves a group to a new position.
type GroupSortRequest struct {
	Gid       string `json:"gid" validate:"required"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
}

// CreateLinkRequest creates a single short link.
type CreateLinkRequest struct {
	Domain        string    `json:"domain,omitempty"`
	OriginURL     string    `json:"originUrl" validate:"required,url"`
	Gid           string    `json:"gid" validate:"required"`
	CreatedType   int       `json:"createdType"`
	ValidDateType int       `json:"validDateType" validate:"oneof=0 1"`
	ValidDate     *DateTime `json:"validDate"`
	Describe      string    `json:"describe" validate:"max=1024"`
}

func (r *CreateLinkRequest) UnmarshalJSON(data []byte) error {
	type plain CreateLinkRequest
	var raw struct {
		plain
		linkAliases
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = CreateLinkRequest(raw.plain)
	raw.linkAliases.canonicalize(&r.OriginURL, &r.Describe, &r.Gid)
	return nil
}

// BatchCreateLinkRequest creates several links sharing group and validity.
type BatchCreateLinkRequest struct {
	OriginURLs    []string  `json:"originUrls" validate:"required,min=1,dive,required,url"`
	Describes     []string  `json:"describes"`
	Gid           string    `json:"gid" validate:"required"`
	CreatedType   int       `json:"createdType"`
	ValidDateType int       `json:"validDateType" validate:"oneof=0 1"`
	ValidDate     *DateTime `json:"validDate"`
}

// UpdateLinkRequest edits a link. The link is located by ID or by FullShortURL.
type UpdateLinkRequest struct {
	ID            string    `json:"id,omitempty"`
	FullShortURL  string    `json:"fullShortUrl,omitempty"`
	OriginURL     string    `json:"originUrl" validate:"required,url"`
	OriginGid     string    `json:"originGid,omitempty"`
	Gid           string    `json:"gid" validate:"required"`
	ValidDateType int       `json:"validDateType" validate:"oneof=0 1"`
	ValidDate     *DateTime `json:"validDate"`
	Describe      string    `json:"describe" validate:"max=1024"`
}

func (r *UpdateLinkRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateLinkRequest
	var raw struct {
		plain
		linkAliases
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = UpdateLinkRequest(raw.plain)
	raw.linkAliases.canonicalize(&r.OriginURL, &r.Describe, &r.Gid)
	return nil
}

// RecycleRequest identifies a link for the recycle bin operations.
type RecycleRequest struct {
	Gid          string `json:"gid"`
	FullShortURL string `json:"fullShortUrl" validate:"required"`
}

// LinkPageQuery selects a page of active links.
type LinkPageQuery struct {
	Gid      string `form:"gid"`
	Keyword  string `form:"keyword"`
	OrderTag string `form:"orderTag" validate:"omitempty,oneof=totalPv totalUv totalUip todayPv todayUv todayUip"`
	Current  int    `form:"current" validate:"gte=0"`
	Size     int    `form:"size" validate:"gte=0,lte=1000"`
}

// RecyclePageQuery selects a page of recycled links.
type RecyclePageQuery struct {
	Gid     string `form:"gid"`
	Keyword string `form:"keyword"`
	Current int    `form:"current" validate:"gte=0"`
	Size    int    `form:"size" validate:"gte=0,lte=1000"`
}

// StatsQuery selects the analytics of one link, or of a group when FullShortURL is empty.
type StatsQuery struct {
	FullShortURL string `form:"fullShortUrl"`
	Gid          string `form:"gid"`
	StartDate    string `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string `form:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Current      int    `form:"current" validate:"gte=0"`
	Size         int    `form:"size" validate:"gte=0,lte=1000"`
}
