package services

import (
	"errors"

	"shortlink-admin/storage"
)

var (
	ErrUserExists             = errors.New("username already registered")
	ErrUserNotFound           = errors.New("user not found")
	ErrLoginFailed            = errors.New("wrong username or password")
	ErrUnauthorized           = errors.New("user not logged in or session expired")
	ErrForbidden              = errors.New("not allowed to modify another user")
	ErrGroupNotFound          = errors.New("group not found")
	ErrGroupNotEmpty          = errors.New("group still contains short links")
	ErrShortLinkExists        = errors.New("short link already exists")
	ErrShortLinkNotFound      = errors.New("short link not found")
	ErrShortLinkExpired       = errors.New("short link has expired")
	ErrStorageCapacityReached = errors.New("storage capacity reached")
	ErrInvalidRequest         = errors.New("invalid request")
)

func handleStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrUserExists):
		return ErrUserExists
	case errors.Is(err, storage.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, storage.ErrSessionNotFound):
		return ErrUnauthorized
	case errors.Is(err, storage.ErrGroupNotFound):
		return ErrGroupNotFound
	case errors.Is(err, storage.ErrShortLinkExists):
		return ErrShortLinkExists
	case errors.Is(err, storage.ErrShortLinkNotFound):
		return ErrShortLinkNotFound
	case errors.Is(err, storage.ErrStorageCapacityReached):
		return ErrStorageCapacityReached
	default:
		return err
	}
}
