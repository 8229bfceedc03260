package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shortlink-admin/storage"
	"shortlink-admin/types"
	"shortlink-admin/utils"
)

// DefaultGroupName is the group every new account starts with.
const DefaultGroupName = "Default"

type UserService interface {
	Register(ctx context.Context, req types.RegisterRequest) error
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	Login(ctx context.Context, req types.LoginRequest) (types.LoginResponse, error)
	CheckLogin(ctx context.Context, username, token string) (bool, error)
	// Authenticate returns ErrUnauthorized unless token is the live session of username.
	Authenticate(ctx context.Context, username, token string) error
	Logout(ctx context.Context, username, token string) error
	Info(ctx context.Context, username string) (types.User, error)
	Update(ctx context.Context, actor string, req types.UpdateUserRequest) error
}

type userService struct {
	store  storage.Storage
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewUserService(store storage.Storage, secret []byte, ttl time.Duration, logger *zap.Logger) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{store: store, secret: secret, ttl: ttl, logger: logger, now: time.Now}
}

func (s *userService) Register(ctx context.Context, req types.RegisterRequest) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	record := storage.UserRecord{
		User: types.User{
			Username: req.Username,
			RealName: req.RealName,
			Phone:    req.Phone,
			Mail:     req.Mail,
		},
		PasswordHash: string(hash),
		CreateTime:   s.now(),
	}
	if err := s.store.CreateUser(ctx, record); err != nil {
		return handleStorageError(err)
	}

	gid, err := newID()
	if err != nil {
		return err
	}
	group := types.Group{Gid: gid, Name: DefaultGroupName, Username: req.Username}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return handleStorageError(err)
	}
	return nil
}

func (s *userService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	_, err := s.store.GetUser(ctx, username)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, storage.ErrUserNotFound):
		return true, nil
	default:
		return false, handleStorageError(err)
	}
}

func (s *userService) Login(ctx context.Context, req types.LoginRequest) (types.LoginResponse, error) {
	user, err := s.store.GetUser(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return types.LoginResponse{}, ErrLoginFailed
		}
		return types.LoginResponse{}, handleStorageError(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return types.LoginResponse{}, ErrLoginFailed
	}

	// An existing live session is handed out again.
	if session, err := s.store.GetSession(ctx, req.Username); err == nil {
		return types.LoginResponse{Token: session.Token}, nil
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   req.Username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return types.LoginResponse{}, err
	}
	if err := s.store.SaveSession(ctx, storage.Session{Username: req.Username, Token: token, ExpiresAt: expires}); err != nil {
		return types.LoginResponse{}, handleStorageError(err)
	}
	s.logger.Info("User logged in", zap.String("username", req.Username))
	return types.LoginResponse{Token: token}, nil
}

func (s *userService) Authenticate(ctx context.Context, username, token string) error {
	if username == "" || token == "" {
		return ErrUnauthorized
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject != username {
		return ErrUnauthorized
	}

	session, err := s.store.GetSession(ctx, username)
	if err != nil {
		return handleStorageError(err)
	}
	if session.Token != token {
		return ErrUnauthorized
	}
	return nil
}

func (s *userService) CheckLogin(ctx context.Context, username, token string) (bool, error) {
	err := s.Authenticate(ctx, username, token)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUnauthorized):
		return false, nil
	default:
		return false, err
	}
}

func (s *userService) Logout(ctx context.Context, username, token string) error {
	if err := s.Authenticate(ctx, username, token); err != nil {
		return err
	}
	if err := s.store.DeleteSession(ctx, username); err != nil {
		return handleStorageError(err)
	}
	s.logger.Info("User logged out", zap.String("username", username))
	return nil
}

func (s *userService) Info(ctx context.Context, username string) (types.User, error) {
	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		return types.User{}, handleStorageError(err)
	}
	info := user.User
	info.Phone = utils.MaskPhone(info.Phone)
	return info, nil
}

func (s *userService) Update(ctx context.Context, actor string, req types.UpdateUserRequest) error {
	if actor != req.Username {
		return ErrForbidden
	}
	user, err := s.store.GetUser(ctx, req.Username)
	if err != nil {
		return handleStorageError(err)
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.PasswordHash = string(hash)
	}
	if req.RealName != "" {
		user.RealName = req.RealName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Mail != "" {
		user.Mail = req.Mail
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return handleStorageError(err)
	}
	return nil
}
