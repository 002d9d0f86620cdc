package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bantus/rental-backend/internal/idempotency"
	"github.com/bantus/rental-backend/internal/model"
	"github.com/bantus/rental-backend/internal/repository"
)

// world is an in-memory stand-in for the database shared by every fake
// store.  It mirrors the repository semantics, including the sentinel
// errors and the room/session lockstep.
type world struct {
	mu        sync.Mutex
	nextID    uint64
	users     map[uint64]model.User
	landlords map[uint64]model.Landlord
	tenants   map[uint64]model.Tenant
	minicites map[uint64]model.Minicite
	rooms     map[uint64]model.Room
	sessions  map[uint64]model.TenantSession
	readings  map[uint64]model.MeterReading
	bills     []model.UtilityBill
	payments  []model.RentPayment
	issues    map[uint64]model.IssueReport
	tokens    map[string]fakeToken

	billInsertErr   error
	readingExistsOK bool // ExistsForPeriod always reports false, as under a race
}

type fakeToken struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

var (
	landlordOne = model.Principal{UserID: 1, Role: model.RoleLandlord}
	landlordTwo = model.Principal{UserID: 2, Role: model.RoleLandlord}
	tenantOne   = model.Principal{UserID: 3, Role: model.RoleTenant}
	tenantTwo   = model.Principal{UserID: 4, Role: model.RoleTenant}
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// newWorld seeds two landlords, two tenants and these rooms:
//
//	101 R101 (landlord 1) occupied by tenant 1 since 2025-01-15, session 1001
//	102 R102 (landlord 1) occupied by tenant 2 since 2025-02-01, session 1002
//	103 R103 (landlord 1) vacant
//	201 B201 (landlord 2) vacant
func newWorld() *world {
	w := &world{
		nextID:    5000,
		users:     map[uint64]model.User{},
		landlords: map[uint64]model.Landlord{},
		tenants:   map[uint64]model.Tenant{},
		minicites: map[uint64]model.Minicite{},
		rooms:     map[uint64]model.Room{},
		sessions:  map[uint64]model.TenantSession{},
		readings:  map[uint64]model.MeterReading{},
		issues:    map[uint64]model.IssueReport{},
		tokens:    map[string]fakeToken{},
	}
	w.users[1] = model.User{ID: 1, Username: "alice", Role: model.RoleLandlord}
	w.users[2] = model.User{ID: 2, Username: "bruno", Role: model.RoleLandlord}
	w.users[3] = model.User{ID: 3, Username: "chantal", Role: model.RoleTenant}
	w.users[4] = model.User{ID: 4, Username: "didier", Role: model.RoleTenant}
	w.landlords[1] = model.Landlord{ID: 1, UserID: 1, FullName: "Alice Landlord", Phone: "+237 600"}
	w.landlords[2] = model.Landlord{ID: 2, UserID: 2, FullName: "Bruno Landlord"}
	w.tenants[1] = model.Tenant{ID: 1, UserID: 3, FullName: "Chantal Tenant"}
	w.tenants[2] = model.Tenant{ID: 2, UserID: 4, FullName: "Didier Tenant"}
	w.minicites[10] = model.Minicite{ID: 10, LandlordID: 1, Name: "Les Palmiers", Location: "Douala"}
	w.minicites[20] = model.Minicite{ID: 20, LandlordID: 2, Name: "Bastos", Location: "Yaoundé"}
	w.rooms[101] = model.Room{ID: 101, MiniciteID: 10, Label: "R101", AnnualRent: decimal.NewFromInt(600000), Status: model.RoomOccupied}
	w.rooms[102] = model.Room{ID: 102, MiniciteID: 10, Label: "R102", AnnualRent: decimal.NewFromInt(550000), Status: model.RoomOccupied}
	w.rooms[103] = model.Room{ID: 103, MiniciteID: 10, Label: "R103", AnnualRent: decimal.NewFromInt(500000), Status: model.RoomVacant}
	w.rooms[201] = model.Room{ID: 201, MiniciteID: 20, Label: "B201", AnnualRent: decimal.NewFromInt(700000), Status: model.RoomVacant}
	w.sessions[1001] = model.TenantSession{ID: 1001, TenantID: 1, RoomID: 101, EntryDate: date(2025, 1, 15), Status: model.SessionActive}
	w.sessions[1002] = model.TenantSession{ID: 1002, TenantID: 2, RoomID: 102, EntryDate: date(2025, 2, 1), Status: model.SessionActive}
	return w
}

func (w *world) id() uint64 { w.nextID++; return w.nextID }

// addReading inserts a reading directly, bypassing the service.
func (w *world) addReading(roomID uint64, p model.Period, water, elec int64) model.MeterReading {
	w.mu.Lock()
	defer w.mu.Unlock()
	m := model.MeterReading{ID: w.id(), RoomID: roomID, Period: p,
		WaterIndex: decimal.NewFromInt(water), ElectricityIndex: decimal.NewFromInt(elec), RecordedAt: time.Now()}
	w.readings[m.ID] = m
	return m
}

func (w *world) billCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.bills)
}

func (w *world) services(guard idempotency.Guard, log *zap.Logger) *Services {
	if log == nil {
		log = zap.NewNop()
	}
	return New(Deps{
		Users:    fakeUsers{w},
		Tokens:   fakeTokens{w},
		Props:    fakeProps{w},
		Readings: fakeReadings{w},
		Sessions: fakeSessions{w},
		Bills:    fakeBills{w},
		Payments: fakePayments{w},
		Issues:   fakeIssues{w},
		Guard:    guard,
		Auth:     AuthConfig{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4},
		Log:      log,
	})
}

// ---- users ----

type fakeUsers struct{ w *world }

func (f fakeUsers) createUser(username, hash string, role model.Role) (uint64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	for _, u := range f.w.users {
		if u.Username == username {
			return 0, repository.ErrDuplicate
		}
	}
	id := f.w.id()
	f.w.users[id] = model.User{ID: id, Username: username, PasswordHash: hash, Role: role, CreatedAt: time.Now()}
	return id, nil
}

func (f fakeUsers) CreateLandlord(_ context.Context, username, hash, fullName, phone string) (model.Landlord, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	uid, err := f.createUser(username, hash, model.RoleLandlord)
	if err != nil {
		return model.Landlord{}, err
	}
	l := model.Landlord{ID: f.w.id(), UserID: uid, FullName: fullName, Phone: phone}
	f.w.landlords[l.ID] = l
	return l, nil
}

func (f fakeUsers) CreateTenant(_ context.Context, username, hash, fullName, phone string) (model.Tenant, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	uid, err := f.createUser(username, hash, model.RoleTenant)
	if err != nil {
		return model.Tenant{}, err
	}
	t := model.Tenant{ID: f.w.id(), UserID: uid, FullName: fullName, Phone: phone}
	f.w.tenants[t.ID] = t
	return t, nil
}

func (f fakeUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	username = strings.ToLower(strings.TrimSpace(username))
	for _, u := range f.w.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	u, ok := f.w.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f fakeUsers) LandlordByUserID(_ context.Context, userID uint64) (model.Landlord, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, l := range f.w.landlords {
		if l.UserID == userID {
			return l, nil
		}
	}
	return model.Landlord{}, repository.ErrNotFound
}

func (f fakeUsers) TenantByUserID(_ context.Context, userID uint64) (model.Tenant, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, t := range f.w.tenants {
		if t.UserID == userID {
			return t, nil
		}
	}
	return model.Tenant{}, repository.ErrNotFound
}

func (f fakeUsers) TenantByID(_ context.Context, id uint64) (model.Tenant, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	t, ok := f.w.tenants[id]
	if !ok {
		return model.Tenant{}, repository.ErrNotFound
	}
	return t, nil
}

func (f fakeUsers) ListTenantsForLandlord(_ context.Context, landlordID uint64) ([]model.TenantListing, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []model.TenantListing{}
	for _, s := range f.w.sessions {
		room := f.w.rooms[s.RoomID]
		m := f.w.minicites[room.MiniciteID]
		if m.LandlordID != landlordID {
			continue
		}
		t := f.w.tenants[s.TenantID]
		out = append(out, model.TenantListing{TenantID: t.ID, FullName: t.FullName, Username: f.w.users[t.UserID].Username,
			SessionID: s.ID, Status: s.Status, EntryDate: s.EntryDate, ExitDate: s.ExitDate,
			RoomID: room.ID, RoomLabel: room.Label, MiniciteName: m.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out, nil
}

// ---- tokens ----

type fakeTokens struct{ w *world }

func (f fakeTokens) StoreRefresh(_ context.Context, userID uint64, hash string, exp time.Time) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	f.w.tokens[hash] = fakeToken{userID: userID, exp: exp}
	return nil
}

func (f fakeTokens) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	t, ok := f.w.tokens[hash]
	if !ok || t.revoked || time.Now().After(t.exp) {
		return 0, repository.ErrNotFound
	}
	return t.userID, nil
}

func (f fakeTokens) RevokeByHash(_ context.Context, hash string) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if t, ok := f.w.tokens[hash]; ok {
		t.revoked = true
		f.w.tokens[hash] = t
	}
	return nil
}

func (f fakeTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for h, t := range f.w.tokens {
		if t.userID == userID {
			t.revoked = true
			f.w.tokens[h] = t
		}
	}
	return nil
}

// ---- properties ----

type fakeProps struct{ w *world }

func (f fakeProps) CreateMinicite(_ context.Context, m *model.Minicite) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	m.ID = f.w.id()
	f.w.minicites[m.ID] = *m
	return nil
}

func (f fakeProps) ListMinicitesByLandlord(_ context.Context, landlordID uint64) ([]model.Minicite, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []model.Minicite{}
	for _, m := range f.w.minicites {
		if m.LandlordID == landlordID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f fakeProps) GetMinicite(_ context.Context, id uint64) (model.Minicite, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	m, ok := f.w.minicites[id]
	if !ok {
		return model.Minicite{}, repository.ErrNotFound
	}
	return m, nil
}

func (f fakeProps) UpdateMinicite(_ context.Context, id uint64, name, location string) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	m, ok := f.w.minicites[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Name, m.Location = name, location
	f.w.minicites[id] = m
	return nil
}

func (f fakeProps) DeleteMinicite(_ context.Context, id uint64) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if _, ok := f.w.minicites[id]; !ok {
		return repository.ErrNotFound
	}
	for _, r := range f.w.rooms {
		if r.MiniciteID == id {
			return repository.ErrConflict
		}
	}
	delete(f.w.minicites, id)
	return nil
}

func (f fakeProps) CreateRoom(_ context.Context, room *model.Room) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	room.ID = f.w.id()
	room.Status = model.RoomVacant
	f.w.rooms[room.ID] = *room
	return nil
}

func (f fakeProps) ListRoomsByMinicite(_ context.Context, miniciteID uint64) ([]model.Room, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []model.Room{}
	for _, r := range f.w.rooms {
		if r.MiniciteID == miniciteID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (f fakeProps) GetRoom(_ context.Context, id uint64) (model.Room, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	r, ok := f.w.rooms[id]
	if !ok {
		return model.Room{}, repository.ErrNotFound
	}
	return r, nil
}

func (f fakeProps) UpdateRoom(_ context.Context, id uint64, label string, rent decimal.Decimal) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	r, ok := f.w.rooms[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Label, r.AnnualRent = label, rent
	f.w.rooms[id] = r
	return nil
}

func (f fakeProps) DeleteRoom(_ context.Context, id uint64) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if _, ok := f.w.rooms[id]; !ok {
		return repository.ErrNotFound
	}
	for _, s := range f.w.sessions {
		if s.RoomID == id {
			return repository.ErrConflict
		}
	}
	for _, m := range f.w.readings {
		if m.RoomID == id {
			return repository.ErrConflict
		}
	}
	delete(f.w.rooms, id)
	return nil
}

func (f fakeProps) RoomOwner(_ context.Context, roomID uint64) (uint64, uint64, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	r, ok := f.w.rooms[roomID]
	if !ok {
		return 0, 0, repository.ErrNotFound
	}
	m, ok := f.w.minicites[r.MiniciteID]
	if !ok {
		return 0, 0, repository.ErrNotFound
	}
	return m.ID, m.LandlordID, nil
}

// ---- readings ----

type fakeReadings struct{ w *world }

func (f fakeReadings) ExistsForPeriod(_ context.Context, roomID uint64, p model.Period) (bool, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if f.w.readingExistsOK {
		return false, nil
	}
	for _, m := range f.w.readings {
		if m.RoomID == roomID && m.Period == p {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeReadings) Create(_ context.Context, m *model.MeterReading) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, x := range f.w.readings {
		if x.RoomID == m.RoomID && x.Period == m.Period {
			return repository.ErrDuplicate
		}
	}
	m.ID = f.w.id()
	m.RecordedAt = time.Now()
	f.w.readings[m.ID] = *m
	return nil
}

func (f fakeReadings) Previous(_ context.Context, roomID uint64, p model.Period) (model.MeterReading, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var (
		best  model.MeterReading
		found bool
	)
	for _, m := range f.w.readings {
		if m.RoomID == roomID && m.Period.Before(p) && (!found || best.Period.Before(m.Period)) {
			best, found = m, true
		}
	}
	if !found {
		return model.MeterReading{}, repository.ErrNotFound
	}
	return best, nil
}

func (f fakeReadings) GetByID(_ context.Context, id uint64) (model.MeterReading, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	m, ok := f.w.readings[id]
	if !ok {
		return model.MeterReading{}, repository.ErrNotFound
	}
	return m, nil
}

func (f fakeReadings) ListByRoom(_ context.Context, roomID uint64) ([]model.MeterReading, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []model.MeterReading{}
	for _, m := range f.w.readings {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[j].Period.Before(out[i].Period) })
	return out, nil
}

// ---- sessions ----

type fakeSessions struct{ w *world }

func (f fakeSessions) CreateActive(_ context.Context, s *model.TenantSession) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	room, ok := f.w.rooms[s.RoomID]
	if !ok {
		return repository.ErrNotFound
	}
	if room.Status != model.RoomVacant {
		return repository.ErrConflict
	}
	for _, x := range f.w.sessions {
		if x.TenantID == s.TenantID && x.Status == model.SessionActive {
			return repository.ErrConflict
		}
	}
	s.ID = f.w.id()
	s.Status = model.SessionActive
	f.w.sessions[s.ID] = *s
	room.Status = model.RoomOccupied
	f.w.rooms[room.ID] = room
	return nil
}

func (f fakeSessions) Close(_ context.Context, id uint64, exit time.Time) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	s, ok := f.w.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if s.Status != model.SessionActive {
		return repository.ErrConflict
	}
	s.Status = model.SessionClosed
	s.ExitDate = &exit
	f.w.sessions[id] = s
	room := f.w.rooms[s.RoomID]
	room.Status = model.RoomVacant
	f.w.rooms[room.ID] = room
	return nil
}

func (f fakeSessions) GetByID(_ context.Context, id uint64) (model.TenantSession, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	s, ok := f.w.sessions[id]
	if !ok {
		return model.TenantSession{}, repository.ErrNotFound
	}
	return s, nil
}

func (f fakeSessions) active(pred func(model.TenantSession) bool) []model.TenantSession {
	var out []model.TenantSession
	for _, s := range f.w.sessions {
		if s.Status == model.SessionActive && pred(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.After(out[j].EntryDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f fakeSessions) ActiveCoveringRoom(_ context.Context, roomID uint64, onOrBefore time.Time) ([]model.TenantSession, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	return f.active(func(s model.TenantSession) bool {
		return s.RoomID == roomID && !s.EntryDate.After(onOrBefore)
	}), nil
}

func (f fakeSessions) ActiveForRoom(_ context.Context, roomID uint64) (model.TenantSession, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	list := f.active(func(s model.TenantSession) bool { return s.RoomID == roomID })
	if len(list) == 0 {
		return model.TenantSession{}, repository.ErrNotFound
	}
	return list[0], nil
}

func (f fakeSessions) ActiveForTenant(_ context.Context, tenantID uint64) (model.TenantSession, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	list := f.active(func(s model.TenantSession) bool { return s.TenantID == tenantID })
	if len(list) == 0 {
		return model.TenantSession{}, repository.ErrNotFound
	}
	return list[0], nil
}

func (f fakeSessions) ListByRoom(_ context.Context, roomID uint64) ([]model.TenantSession, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []model.TenantSession{}
	for _, s := range f.w.sessions {
		if s.RoomID == roomID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f fakeSessions) DetailForTenant(_ context.Context, tenantID uint64) (model.SessionDetail, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	list := f.active(func(s model.TenantSession) bool { return s.TenantID == tenantID })
	if len(list) == 0 {
		return model.SessionDetail{}, repository.ErrNotFound
	}
	s := list[0]
	room := f.w.rooms[s.RoomID]
	m := f.w.minicites[room.MiniciteID]
	l := f.w.landlords[m.LandlordID]
	return model.SessionDetail{Session: s, RoomLabel: room.Label, AnnualRent: room.AnnualRent.StringFixed(2),
		MiniciteName: m.Name, MiniciteLocation: m.Location, LandlordName: l.FullName, LandlordPhone: l.Phone}, nil
}

func (f fakeSessions) SessionOwner(_ context.Context, id uint64) (uint64, uint64, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	s, ok := f.w.sessions[id]
	if !ok {
		return 0, 0, repository.ErrNotFound
	}
	room, ok := f.w.rooms[s.RoomID]
	if !ok {
		return 0, 0, repository.ErrNotFound
	}
	m, ok := f.w.minicites[room.MiniciteID]
	if !ok {
		return 0, 0, repository.ErrNotFound
	}
	return room.ID, m.LandlordID, nil
}

// ---- bills ----

type fakeBills struct{ w *world }

func (f fakeBills) InsertPair(_ context.Context, water, electricity *model.UtilityBill) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if f.w.billInsertErr != nil {
		return f.w.billInsertErr
	}
	for _, b := range f.w.bills {
		if b.ReadingID == water.ReadingID && b.SessionID == water.SessionID {
			return repository.ErrDuplicate
		}
	}
	water.ID = f.w.id()
	electricity.ID = f.w.id()
	f.w.bills = append(f.w.bills, *water, *electricity)
	return nil
}

func (f fakeBills) ExistsForReading(_ context.Context, readingID uint64) (bool, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, b := range f.w.bills {
		if b.ReadingID == readingID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeBills) sorted(pred func(model.UtilityBill) bool) []model.UtilityBill {
	out := []model.UtilityBill{}
	for _, b := range f.w.bills {
		if pred(b) {
			b.Period = f.w.readings[b.ReadingID].Period
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[j].Period.Before(out[i].Period)
		}
		return out[i].Type == model.UtilityWater && out[j].Type != model.UtilityWater
	})
	return out
}

func (f fakeBills) ListByTenant(_ context.Context, tenantID uint64) ([]model.UtilityBill, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	return f.sorted(func(b model.UtilityBill) bool { return f.w.sessions[b.SessionID].TenantID == tenantID }), nil
}

func (f fakeBills) ListBySession(_ context.Context, sessionID uint64) ([]model.UtilityBill, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	return f.sorted(func(b model.UtilityBill) bool { return b.SessionID == sessionID }), nil
}

// ---- payments ----

type fakePayments struct{ w *world }

func (f fakePayments) Create(_ context.Context, p *model.RentPayment) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	p.ID = f.w.id()
	f.w.payments = append(f.w.payments, *p)
	return nil
}

func (f fakePayments) ListBySession(_ context.Context, sessionID uint64) ([]model.RentPayment, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []model.RentPayment{}
	for _, p := range f.w.payments {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakePayments) ListByLandlord(_ context.Context, landlordID uint64) ([]model.RentPayment, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []model.RentPayment{}
	for _, p := range f.w.payments {
		s := f.w.sessions[p.SessionID]
		room := f.w.rooms[s.RoomID]
		if f.w.minicites[room.MiniciteID].LandlordID == landlordID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ---- issues ----

type fakeIssues struct{ w *world }

func (f fakeIssues) Create(_ context.Context, i *model.IssueReport) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	i.ID = f.w.id()
	i.Status = model.IssueOpen
	i.CreatedAt = time.Now()
	f.w.issues[i.ID] = *i
	return nil
}

func (f fakeIssues) GetByID(_ context.Context, id uint64) (model.IssueReport, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	i, ok := f.w.issues[id]
	if !ok {
		return model.IssueReport{}, repository.ErrNotFound
	}
	return i, nil
}

func (f fakeIssues) ListBySession(_ context.Context, sessionID uint64) ([]model.IssueReport, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []model.IssueReport{}
	for _, i := range f.w.issues {
		if i.SessionID == sessionID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f fakeIssues) ListByLandlord(_ context.Context, landlordID uint64) ([]model.IssueReport, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []model.IssueReport{}
	for _, i := range f.w.issues {
		s := f.w.sessions[i.SessionID]
		room := f.w.rooms[s.RoomID]
		if f.w.minicites[room.MiniciteID].LandlordID == landlordID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f fakeIssues) UpdateStatus(_ context.Context, id uint64, status model.IssueStatus) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	i, ok := f.w.issues[id]
	if !ok {
		return repository.ErrNotFound
	}
	i.Status = status
	f.w.issues[id] = i
	return nil
}

// heldGuard behaves as if another request holds every lock.
type heldGuard struct{}

func (heldGuard) Acquire(context.Context, string) (func(), bool, error) { return nil, false, nil }
