package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bantus/rental-backend/internal/model"
	"github.com/bantus/rental-backend/internal/repository"
)

// PropertyService manages a landlord's minicités and rooms.
type PropertyService struct {
	owners   *OwnershipResolver
	props    PropertyStore
	sessions SessionStore
	payments PaymentStore
	issues   IssueStore
	log      *zap.Logger
}

func NewPropertyService(owners *OwnershipResolver, props PropertyStore, sessions SessionStore,
	payments PaymentStore, issues IssueStore, log *zap.Logger) *PropertyService {
	return &PropertyService{owners: owners, props: props, sessions: sessions, payments: payments, issues: issues, log: log.Named("properties")}
}

func (s *PropertyService) CreateMinicite(ctx context.Context, p model.Principal, name, location string) (model.Minicite, error) {
	name, location = strings.TrimSpace(name), strings.TrimSpace(location)
	if name == "" {
		return model.Minicite{}, invalidInput("name is required")
	}
	l, err := s.owners.LandlordFor(ctx, p)
	if err != nil {
		return model.Minicite{}, err
	}
	m := model.Minicite{LandlordID: l.ID, Name: name, Location: location}
	if err := s.props.CreateMinicite(ctx, &m); err != nil {
		return model.Minicite{}, wrapError(KindPersistenceFailure, "could not create minicité", err)
	}
	s.log.Info("minicité created", zap.Uint64("minicite_id", m.ID), zap.Uint64("landlord_id", l.ID))
	return m, nil
}

func (s *PropertyService) ListMinicites(ctx context.Context, p model.Principal) ([]model.Minicite, error) {
	l, err := s.owners.LandlordFor(ctx, p)
	if err != nil {
		return nil, err
	}
	list, err := s.props.ListMinicitesByLandlord(ctx, l.ID)
	if err != nil {
		return nil, internal("list minicités", err)
	}
	return list, nil
}

func (s *PropertyService) UpdateMinicite(ctx context.Context, p model.Principal, id uint64, name, location string) (model.Minicite, error) {
	name, location = strings.TrimSpace(name), strings.TrimSpace(location)
	if name == "" {
		return model.Minicite{}, invalidInput("name is required")
	}
	m, err := s.owners.VerifyLandlordOwnsMinicite(ctx, p, id)
	if err != nil {
		return model.Minicite{}, err
	}
	if err := s.props.UpdateMinicite(ctx, id, name, location); err != nil {
		return model.Minicite{}, wrapError(KindPersistenceFailure, "could not update minicité", err)
	}
	m.Name, m.Location = name, location
	return m, nil
}

// DeleteMinicite refuses to remove a minicité that still has rooms.
func (s *PropertyService) DeleteMinicite(ctx context.Context, p model.Principal, id uint64) error {
	if _, err := s.owners.VerifyLandlordOwnsMinicite(ctx, p, id); err != nil {
		return err
	}
	if err := s.props.DeleteMinicite(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return newError(KindConflict, "minicité still has rooms")
		}
		return wrapError(KindPersistenceFailure, "could not delete minicité", err)
	}
	return nil
}

// RoomInput is used for creation and update.
type RoomInput struct {
	Label      string
	AnnualRent decimal.Decimal
}

func (in RoomInput) validate() error {
	if strings.TrimSpace(in.Label) == "" {
		return invalidInput("label is required")
	}
	if in.AnnualRent.IsNegative() {
		return invalidInput("annual_rent must not be negative")
	}
	return nil
}

// CreateRoom adds a vacant room to one of the landlord's minicités.
func (s *PropertyService) CreateRoom(ctx context.Context, p model.Principal, miniciteID uint64, in RoomInput) (model.Room, error) {
	if err := in.validate(); err != nil {
		return model.Room{}, err
	}
	if _, err := s.owners.VerifyLandlordOwnsMinicite(ctx, p, miniciteID); err != nil {
		return model.Room{}, err
	}
	room := model.Room{MiniciteID: miniciteID, Label: strings.TrimSpace(in.Label), AnnualRent: in.AnnualRent}
	if err := s.props.CreateRoom(ctx, &room); err != nil {
		return model.Room{}, wrapError(KindPersistenceFailure, "could not create room", err)
	}
	s.log.Info("room created", zap.Uint64("room_id", room.ID), zap.Uint64("minicite_id", miniciteID))
	return room, nil
}

func (s *PropertyService) ListRooms(ctx context.Context, p model.Principal, miniciteID uint64) ([]model.Room, error) {
	if _, err := s.owners.VerifyLandlordOwnsMinicite(ctx, p, miniciteID); err != nil {
		return nil, err
	}
	list, err := s.props.ListRoomsByMinicite(ctx, miniciteID)
	if err != nil {
		return nil, internal("list rooms", err)
	}
	return list, nil
}

// UpdateRoom changes label and rent.  Status follows the session lifecycle
// and is not editable.
func (s *PropertyService) UpdateRoom(ctx context.Context, p model.Principal, roomID uint64, in RoomInput) (model.Room, error) {
	if err := in.validate(); err != nil {
		return model.Room{}, err
	}
	room, err := s.owners.VerifyLandlordOwnsRoom(ctx, p, roomID)
	if err != nil {
		return model.Room{}, err
	}
	label := strings.TrimSpace(in.Label)
	if err := s.props.UpdateRoom(ctx, roomID, label, in.AnnualRent); err != nil {
		return model.Room{}, wrapError(KindPersistenceFailure, "could not update room", err)
	}
	room.Label, room.AnnualRent = label, in.AnnualRent
	return room, nil
}

// DeleteRoom removes a room that has never been occupied or metered.
func (s *PropertyService) DeleteRoom(ctx context.Context, p model.Principal, roomID uint64) error {
	room, err := s.owners.VerifyLandlordOwnsRoom(ctx, p, roomID)
	if err != nil {
		return err
	}
	if room.Status == model.RoomOccupied {
		return newError(KindConflict, "room is occupied")
	}
	if err := s.props.DeleteRoom(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return newError(KindConflict, "room has session or reading history")
		}
		return wrapError(KindPersistenceFailure, "could not delete room", err)
	}
	return nil
}

// RoomDetails gathers everything the landlord's room page shows.
func (s *PropertyService) RoomDetails(ctx context.Context, p model.Principal, roomID uint64) (model.RoomDetails, error) {
	room, err := s.owners.VerifyLandlordOwnsRoom(ctx, p, roomID)
	if err != nil {
		return model.RoomDetails{}, err
	}
	m, err := s.props.GetMinicite(ctx, room.MiniciteID)
	if err != nil {
		return model.RoomDetails{}, internal("load minicité", err)
	}
	out := model.RoomDetails{Room: room, Minicite: m, RentHistory: []model.RentPayment{}, Issues: []model.IssueReport{}}

	active, err := s.sessions.ActiveForRoom(ctx, roomID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return out, nil
	case err != nil:
		return model.RoomDetails{}, internal("load active session", err)
	}
	out.ActiveSession = &active

	if out.RentHistory, err = s.payments.ListBySession(ctx, active.ID); err != nil {
		return model.RoomDetails{}, internal("load rent history", err)
	}
	if out.Issues, err = s.issues.ListBySession(ctx, active.ID); err != nil {
		return model.RoomDetails{}, internal("load issues", err)
	}
	return out, nil
}
