package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bantus/rental-backend/internal/model"
)

func TestOwnershipResolver(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	svc := w.services(nil, nil)

	room, err := svc.Owners.VerifyLandlordOwnsRoom(ctx, landlordOne, 101)
	require.NoError(t, err)
	assert.Equal(t, "R101", room.Label)

	_, err = svc.Owners.VerifyLandlordOwnsRoom(ctx, landlordTwo, 101)
	assertKind(t, err, KindAccessDenied)
	_, err = svc.Owners.VerifyLandlordOwnsRoom(ctx, landlordOne, 999)
	assertKind(t, err, KindNotFound)
	_, err = svc.Owners.VerifyLandlordOwnsRoom(ctx, model.Principal{UserID: 1, Role: "admin"}, 101)
	assertKind(t, err, KindAccessDenied)

	_, err = svc.Owners.VerifyLandlordOwnsMinicite(ctx, landlordTwo, 10)
	assertKind(t, err, KindAccessDenied)
	_, err = svc.Owners.VerifyLandlordOwnsSession(ctx, landlordOne, 1002)
	require.NoError(t, err)
	_, err = svc.Owners.VerifyLandlordOwnsSession(ctx, landlordTwo, 1002)
	assertKind(t, err, KindAccessDenied)
	_, err = svc.Owners.VerifyLandlordOwnsSession(ctx, landlordOne, 4242)
	assertKind(t, err, KindNotFound)

	// A landlord-role token whose user has no landlord profile.
	_, err = svc.Owners.LandlordFor(ctx, model.Principal{UserID: 3, Role: model.RoleLandlord})
	assertKind(t, err, KindAccessDenied)
}

func TestAssignTenant(t *testing.T) {
	ctx := context.Background()

	newTenant := func(t *testing.T, svc *Services) model.Tenant {
		t.Helper()
		ten, err := svc.Tenants.RegisterTenant(ctx, landlordOne, AccountInput{
			Username: "eve", Password: "secret-pass", FullName: "Eve Tenant",
		})
		require.NoError(t, err)
		return ten
	}

	t.Run("opens a session and occupies the room", func(t *testing.T) {
		w := newWorld()
		svc := w.services(nil, nil)
		ten := newTenant(t, svc)

		s, err := svc.Tenancy.AssignTenant(ctx, landlordOne, AssignTenantInput{
			RoomID: 103, TenantID: ten.ID, EntryDate: time.Date(2025, 5, 3, 14, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, model.SessionActive, s.Status)
		assert.Equal(t, date(2025, 5, 3), s.EntryDate)
		assert.Equal(t, model.RoomOccupied, w.rooms[103].Status)
	})

	t.Run("occupied room conflicts", func(t *testing.T) {
		w := newWorld()
		svc := w.services(nil, nil)
		ten := newTenant(t, svc)
		_, err := svc.Tenancy.AssignTenant(ctx, landlordOne, AssignTenantInput{RoomID: 101, TenantID: ten.ID, EntryDate: date(2025, 5, 1)})
		assertKind(t, err, KindConflict)
	})

	t.Run("tenant with an active session conflicts", func(t *testing.T) {
		svc := newWorld().services(nil, nil)
		_, err := svc.Tenancy.AssignTenant(ctx, landlordOne, AssignTenantInput{RoomID: 103, TenantID: 1, EntryDate: date(2025, 5, 1)})
		assertKind(t, err, KindConflict)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		svc := newWorld().services(nil, nil)
		_, err := svc.Tenancy.AssignTenant(ctx, landlordOne, AssignTenantInput{RoomID: 103, TenantID: 77, EntryDate: date(2025, 5, 1)})
		assertKind(t, err, KindNotFound)
	})

	t.Run("someone else's room", func(t *testing.T) {
		w := newWorld()
		svc := w.services(nil, nil)
		ten := newTenant(t, svc)
		_, err := svc.Tenancy.AssignTenant(ctx, landlordTwo, AssignTenantInput{RoomID: 103, TenantID: ten.ID, EntryDate: date(2025, 5, 1)})
		assertKind(t, err, KindAccessDenied)
		assert.Equal(t, model.RoomVacant, w.rooms[103].Status)
	})
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()

	t.Run("closes and frees the room", func(t *testing.T) {
		w := newWorld()
		svc := w.services(nil, nil)
		s, err := svc.Tenancy.EndSession(ctx, landlordOne, 1001, date(2025, 6, 30))
		require.NoError(t, err)
		assert.Equal(t, model.SessionClosed, s.Status)
		require.NotNil(t, s.ExitDate)
		assert.Equal(t, date(2025, 6, 30), *s.ExitDate)
		assert.Equal(t, model.RoomVacant, w.rooms[101].Status)

		_, err = svc.Tenancy.EndSession(ctx, landlordOne, 1001, date(2025, 7, 1))
		assertKind(t, err, KindConflict)
	})

	t.Run("zero exit date means today", func(t *testing.T) {
		w := newWorld()
		svc := w.services(nil, nil)
		svc.Tenancy.now = func() time.Time { return time.Date(2025, 8, 2, 17, 45, 0, 0, time.UTC) }
		s, err := svc.Tenancy.EndSession(ctx, landlordOne, 1002, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, date(2025, 8, 2), *s.ExitDate)
	})

	t.Run("exit before entry", func(t *testing.T) {
		svc := newWorld().services(nil, nil)
		_, err := svc.Tenancy.EndSession(ctx, landlordOne, 1001, date(2025, 1, 1))
		assertKind(t, err, KindInvalidInput)
	})

	t.Run("closed session no longer covers the room", func(t *testing.T) {
		w, svc := billingFixture(t)
		apr := w.addReading(101, april, 10, 10)
		_, err := svc.Tenancy.EndSession(ctx, landlordOne, 1001, date(2025, 4, 30))
		require.NoError(t, err)
		_, err = svc.Billing.GenerateBillsFromReading(ctx, landlordOne, aprilInput(apr.ID))
		assertKind(t, err, KindNoActiveSession)
	})
}

func TestTenantDashboard(t *testing.T) {
	ctx := context.Background()
	svc := newWorld().services(nil, nil)

	d, err := svc.Tenancy.TenantDashboard(ctx, tenantOne)
	require.NoError(t, err)
	assert.Equal(t, uint64(1001), d.Session.ID)
	assert.Equal(t, "R101", d.RoomLabel)
	assert.Equal(t, "Alice Landlord", d.LandlordName)

	_, err = svc.Tenancy.TenantDashboard(ctx, landlordOne)
	assertKind(t, err, KindAccessDenied)

	_, err = svc.Tenancy.EndSession(ctx, landlordOne, 1001, date(2025, 6, 1))
	require.NoError(t, err)
	_, err = svc.Tenancy.TenantDashboard(ctx, tenantOne)
	assertKind(t, err, KindNoActiveSession)
}

func TestListTenants(t *testing.T) {
	svc := newWorld().services(nil, nil)
	list, err := svc.Tenants.ListTenants(context.Background(), landlordOne)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "chantal", list[0].Username)

	list, err = svc.Tenants.ListTenants(context.Background(), landlordTwo)
	require.NoError(t, err)
	assert.Empty(t, list)
}
