package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/bantus/rental-backend/internal/model"
	"github.com/bantus/rental-backend/internal/repository"
	"github.com/bantus/rental-backend/internal/utils"
)

// AccountInput is the registration payload for both landlords and tenants.
type AccountInput struct {
	Username string
	Password string
	FullName string
	Phone    string
}

func (in *AccountInput) normalize() error {
	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Username == "" || in.FullName == "" {
		return invalidInput("username and full_name are required")
	}
	if len(in.Password) < utils.MinPasswordLength {
		return invalidInput("password must be at least %d characters", utils.MinPasswordLength)
	}
	return nil
}

// TenantService lets a landlord create tenant accounts and list the
// tenants housed in their rooms.
type TenantService struct {
	owners     *OwnershipResolver
	users      UserStore
	bcryptCost int
	log        *zap.Logger
}

func NewTenantService(owners *OwnershipResolver, users UserStore, bcryptCost int, log *zap.Logger) *TenantService {
	return &TenantService{owners: owners, users: users, bcryptCost: bcryptCost, log: log.Named("tenants")}
}

// RegisterTenant creates a tenant login.  Only landlords may do this.
func (s *TenantService) RegisterTenant(ctx context.Context, p model.Principal, in AccountInput) (model.Tenant, error) {
	if err := in.normalize(); err != nil {
		return model.Tenant{}, err
	}
	l, err := s.owners.LandlordFor(ctx, p)
	if err != nil {
		return model.Tenant{}, err
	}
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return model.Tenant{}, internal("hash password", err)
	}
	t, err := s.users.CreateTenant(ctx, in.Username, hash, in.FullName, in.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Tenant{}, newError(KindConflict, "username already taken")
		}
		return model.Tenant{}, wrapError(KindPersistenceFailure, "could not create tenant", err)
	}
	s.log.Info("tenant registered", zap.Uint64("tenant_id", t.ID), zap.Uint64("by_landlord", l.ID))
	return t, nil
}

// ListTenants returns current and former tenants of the landlord's rooms.
func (s *TenantService) ListTenants(ctx context.Context, p model.Principal) ([]model.TenantListing, error) {
	l, err := s.owners.LandlordFor(ctx, p)
	if err != nil {
		return nil, err
	}
	list, err := s.users.ListTenantsForLandlord(ctx, l.ID)
	if err != nil {
		return nil, internal("list tenants", err)
	}
	return list, nil
}
