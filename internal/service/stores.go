package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bantus/rental-backend/internal/model"
	"github.com/bantus/rental-backend/internal/repository"
)

// The interfaces below list exactly what the services need from storage.
// The repository package implements all of them; tests use in-memory fakes.

type UserStore interface {
	CreateLandlord(ctx context.Context, username, hash, fullName, phone string) (model.Landlord, error)
	CreateTenant(ctx context.Context, username, hash, fullName, phone string) (model.Tenant, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	LandlordByUserID(ctx context.Context, userID uint64) (model.Landlord, error)
	TenantByUserID(ctx context.Context, userID uint64) (model.Tenant, error)
	TenantByID(ctx context.Context, id uint64) (model.Tenant, error)
	ListTenantsForLandlord(ctx context.Context, landlordID uint64) ([]model.TenantListing, error)
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

type PropertyStore interface {
	CreateMinicite(ctx context.Context, m *model.Minicite) error
	ListMinicitesByLandlord(ctx context.Context, landlordID uint64) ([]model.Minicite, error)
	GetMinicite(ctx context.Context, id uint64) (model.Minicite, error)
	UpdateMinicite(ctx context.Context, id uint64, name, location string) error
	DeleteMinicite(ctx context.Context, id uint64) error
	CreateRoom(ctx context.Context, room *model.Room) error
	ListRoomsByMinicite(ctx context.Context, miniciteID uint64) ([]model.Room, error)
	GetRoom(ctx context.Context, id uint64) (model.Room, error)
	UpdateRoom(ctx context.Context, id uint64, label string, annualRent decimal.Decimal) error
	DeleteRoom(ctx context.Context, id uint64) error
	RoomOwner(ctx context.Context, roomID uint64) (miniciteID, landlordID uint64, err error)
}

type ReadingStore interface {
	ExistsForPeriod(ctx context.Context, roomID uint64, p model.Period) (bool, error)
	Create(ctx context.Context, m *model.MeterReading) error
	Previous(ctx context.Context, roomID uint64, p model.Period) (model.MeterReading, error)
	GetByID(ctx context.Context, id uint64) (model.MeterReading, error)
	ListByRoom(ctx context.Context, roomID uint64) ([]model.MeterReading, error)
}

type SessionStore interface {
	CreateActive(ctx context.Context, s *model.TenantSession) error
	Close(ctx context.Context, sessionID uint64, exit time.Time) error
	GetByID(ctx context.Context, id uint64) (model.TenantSession, error)
	ActiveCoveringRoom(ctx context.Context, roomID uint64, onOrBefore time.Time) ([]model.TenantSession, error)
	ActiveForRoom(ctx context.Context, roomID uint64) (model.TenantSession, error)
	ActiveForTenant(ctx context.Context, tenantID uint64) (model.TenantSession, error)
	ListByRoom(ctx context.Context, roomID uint64) ([]model.TenantSession, error)
	DetailForTenant(ctx context.Context, tenantID uint64) (model.SessionDetail, error)
	SessionOwner(ctx context.Context, sessionID uint64) (roomID, landlordID uint64, err error)
}

type BillStore interface {
	InsertPair(ctx context.Context, water, electricity *model.UtilityBill) error
	ExistsForReading(ctx context.Context, readingID uint64) (bool, error)
	ListByTenant(ctx context.Context, tenantID uint64) ([]model.UtilityBill, error)
	ListBySession(ctx context.Context, sessionID uint64) ([]model.UtilityBill, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.RentPayment) error
	ListBySession(ctx context.Context, sessionID uint64) ([]model.RentPayment, error)
	ListByLandlord(ctx context.Context, landlordID uint64) ([]model.RentPayment, error)
}

type IssueStore interface {
	Create(ctx context.Context, i *model.IssueReport) error
	GetByID(ctx context.Context, id uint64) (model.IssueReport, error)
	ListBySession(ctx context.Context, sessionID uint64) ([]model.IssueReport, error)
	ListByLandlord(ctx context.Context, landlordID uint64) ([]model.IssueReport, error)
	UpdateStatus(ctx context.Context, id uint64, status model.IssueStatus) error
}

var (
	_ UserStore     = (*repository.UserRepo)(nil)
	_ TokenStore    = (*repository.TokenRepo)(nil)
	_ PropertyStore = (*repository.PropertyRepo)(nil)
	_ ReadingStore  = (*repository.ReadingRepo)(nil)
	_ SessionStore  = (*repository.SessionRepo)(nil)
	_ BillStore     = (*repository.BillRepo)(nil)
	_ PaymentStore  = (*repository.PaymentRepo)(nil)
	_ IssueStore    = (*repository.IssueRepo)(nil)
)
