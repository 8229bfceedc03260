// Package storage provides interfaces and common errors for the admin API storage.
package storage

import (
	"context"
	"errors"
	"time"

	"shortlink-admin/types"
)

// Common errors returned by storage operations.
var (
	ErrUserExists             = errors.New("user already exists")
	ErrUserNotFound           = errors.New("user not found")
	ErrSessionNotFound        = errors.New("session not found")
	ErrGroupExists            = errors.New("group already exists")
	ErrGroupNotFound          = errors.New("group not found")
	ErrShortLinkExists        = errors.New("short link already exists")
	ErrShortLinkNotFound      = errors.New("short link not found")
	ErrStorageCapacityReached = errors.New("storage capacity reached")
)

// UserRecord is an account as stored.
type UserRecord struct {
	types.User
	PasswordHash string
	CreateTime   time.Time
}

// Session is a live login of a user.
type Session struct {
	Username  string
	Token     string
	ExpiresAt time.Time
}

// UserStorage keeps accounts and their sessions.
type UserStorage interface {
	CreateUser(ctx context.Context, user UserRecord) error
	GetUser(ctx context.Context, username string) (UserRecord, error)
	UpdateUser(ctx context.Context, user UserRecord) error
	SaveSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, username string) (Session, error)
	DeleteSession(ctx context.Context, username string) error
}

// GroupStorage keeps link groups.
type GroupStorage interface {
	CreateGroup(ctx context.Context, group types.Group) error
	GetGroup(ctx context.Context, username, gid string) (types.Group, error)
	ListGroups(ctx context.Context, username string) ([]types.Group, error)
	UpdateGroup(ctx context.Context, group types.Group) error
	DeleteGroup(ctx context.Context, username, gid string) error
}

// LinkStorage keeps short links in creation order.
type LinkStorage interface {
	CreateLink(ctx context.Context, link types.ShortLink) error
	// FindLink looks a link up by id, falling back to its full short URL.
	FindLink(ctx context.Context, id, fullShortURL string) (types.ShortLink, error)
	UpdateLink(ctx context.Context, link types.ShortLink) error
	DeleteLink(ctx context.Context, id string) error
	// ListLinks returns the links accepted by keep, in creation order.
	ListLinks(ctx context.Context, keep func(types.ShortLink) bool) ([]types.ShortLink, error)
}

// AccessLogStorage keeps visits of short links.
type AccessLogStorage interface {
	AppendAccessLog(ctx context.Context, log types.AccessLog) error
	ListAccessLogs(ctx context.Context, fullShortURLs ...string) ([]types.AccessLog, error)
	DeleteAccessLogs(ctx context.Context, fullShortURL string) error
}

// Storage is everything the admin API persists.
type Storage interface {
	UserStorage
	GroupStorage
	LinkStorage
	AccessLogStorage
}
