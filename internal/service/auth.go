package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bantus/rental-backend/internal/model"
	"github.com/bantus/rental-backend/internal/repository"
	"github.com/bantus/rental-backend/internal/utils"
)

// AuthConfig holds token and hashing settings.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	Principal      model.Principal
	Username       string
	Access         string
	AccessExpires  time.Time
	Refresh        string
	RefreshExpires time.Time
}

// Profile is the caller's own account together with its landlord or
// tenant profile.
type Profile struct {
	Principal model.Principal `json:"principal"`
	Username  string          `json:"username"`
	Landlord  *model.Landlord `json:"landlord,omitempty"`
	Tenant    *model.Tenant   `json:"tenant,omitempty"`
}

// AuthService handles landlord sign-up, login and refresh-token rotation.
// Tenant accounts are created by landlords through TenantService.
type AuthService struct {
	cfg    AuthConfig
	owners *OwnershipResolver
	users  UserStore
	tokens TokenStore
	log    *zap.Logger
}

func NewAuthService(cfg AuthConfig, owners *OwnershipResolver, users UserStore, tokens TokenStore, log *zap.Logger) *AuthService {
	return &AuthService{cfg: cfg, owners: owners, users: users, tokens: tokens, log: log.Named("auth")}
}

// RegisterLandlord creates a landlord account and signs it in.
func (s *AuthService) RegisterLandlord(ctx context.Context, in AccountInput) (TokenPair, error) {
	if err := in.normalize(); err != nil {
		return TokenPair{}, err
	}
	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return TokenPair{}, internal("hash password", err)
	}
	l, err := s.users.CreateLandlord(ctx, in.Username, hash, in.FullName, in.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return TokenPair{}, newError(KindConflict, "username already taken")
		}
		return TokenPair{}, wrapError(KindPersistenceFailure, "could not create landlord", err)
	}
	s.log.Info("landlord registered", zap.Uint64("landlord_id", l.ID), zap.Uint64("user_id", l.UserID))
	return s.issue(ctx, model.Principal{UserID: l.UserID, Role: model.RoleLandlord}, strings.ToLower(in.Username))
}

// Login checks credentials.  Unknown users and wrong passwords produce the
// same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return TokenPair{}, invalidInput("username and password are required")
	}
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return TokenPair{}, newError(KindUnauthenticated, "invalid credentials")
	}
	if err != nil {
		return TokenPair{}, internal("load user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return TokenPair{}, newError(KindUnauthenticated, "invalid credentials")
	}
	return s.issue(ctx, model.Principal{UserID: u.ID, Role: u.Role}, u.Username)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, raw string) (TokenPair, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TokenPair{}, invalidInput("refresh_token is required")
	}
	hash := utils.HashRefreshRaw(raw)
	uid, err := s.tokens.ValidateRefresh(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return TokenPair{}, newError(KindUnauthenticated, "invalid refresh token")
	}
	if err != nil {
		return TokenPair{}, internal("validate refresh token", err)
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return TokenPair{}, internal("revoke refresh token", err)
	}
	u, err := s.users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return TokenPair{}, newError(KindUnauthenticated, "invalid refresh token")
	}
	if err != nil {
		return TokenPair{}, internal("load user", err)
	}
	return s.issue(ctx, model.Principal{UserID: u.ID, Role: u.Role}, u.Username)
}

// Logout revokes one refresh token when given, otherwise every token of
// the principal.
func (s *AuthService) Logout(ctx context.Context, p model.Principal, raw string) error {
	if raw = strings.TrimSpace(raw); raw != "" {
		if err := s.tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw)); err != nil {
			return internal("revoke refresh token", err)
		}
		return nil
	}
	if err := authorize(p, model.RoleLandlord, model.RoleTenant); err != nil {
		return err
	}
	if err := s.tokens.RevokeAllForUser(ctx, p.UserID); err != nil {
		return internal("revoke refresh tokens", err)
	}
	return nil
}

// Me returns the caller's account and profile.
func (s *AuthService) Me(ctx context.Context, p model.Principal) (Profile, error) {
	if err := authorize(p, model.RoleLandlord, model.RoleTenant); err != nil {
		return Profile{}, err
	}
	u, err := s.users.GetByID(ctx, p.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return Profile{}, newError(KindUnauthenticated, "account no longer exists")
	}
	if err != nil {
		return Profile{}, internal("load user", err)
	}
	out := Profile{Principal: p, Username: u.Username}
	switch p.Role {
	case model.RoleLandlord:
		l, err := s.owners.LandlordFor(ctx, p)
		if err != nil {
			return Profile{}, err
		}
		out.Landlord = &l
	case model.RoleTenant:
		t, err := s.owners.TenantFor(ctx, p)
		if err != nil {
			return Profile{}, err
		}
		out.Tenant = &t
	}
	return out, nil
}

func (s *AuthService) issue(ctx context.Context, p model.Principal, username string) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, p, s.cfg.AccessTTLMin)
	if err != nil {
		return TokenPair{}, internal("issue access token", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return TokenPair{}, internal("issue refresh token", err)
	}
	if err := s.tokens.StoreRefresh(ctx, p.UserID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return TokenPair{}, internal("store refresh token", err)
	}
	return TokenPair{
		Principal:      p,
		Username:       username,
		Access:         access.Token,
		AccessExpires:  access.Exp,
		Refresh:        refresh.Raw,
		RefreshExpires: refresh.Exp,
	}, nil
}
