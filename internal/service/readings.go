package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bantus/rental-backend/internal/model"
	"github.com/bantus/rental-backend/internal/repository"
)

// MeterReadingStore records one reading per room per calendar month and
// looks readings up for billing.
type MeterReadingStore struct {
	owners   *OwnershipResolver
	readings ReadingStore
	log      *zap.Logger
}

func NewMeterReadingStore(owners *OwnershipResolver, readings ReadingStore, log *zap.Logger) *MeterReadingStore {
	return &MeterReadingStore{owners: owners, readings: readings, log: log.Named("readings")}
}

// RecordReadingInput is what a landlord submits for a room.
type RecordReadingInput struct {
	RoomID           uint64
	Period           model.Period
	WaterIndex       decimal.Decimal
	ElectricityIndex decimal.Decimal
}

// RecordReading stores a reading after the ownership check.  A second
// reading for the same room and month fails with DuplicateReading whether
// it is caught by the pre-check or by the unique index.
func (s *MeterReadingStore) RecordReading(ctx context.Context, p model.Principal, in RecordReadingInput) (model.MeterReading, error) {
	if in.Period.IsZero() {
		return model.MeterReading{}, invalidInput("period is required")
	}
	if in.WaterIndex.IsNegative() || in.ElectricityIndex.IsNegative() {
		return model.MeterReading{}, invalidInput("meter indices must not be negative")
	}
	if _, err := s.owners.VerifyLandlordOwnsRoom(ctx, p, in.RoomID); err != nil {
		return model.MeterReading{}, err
	}

	exists, err := s.readings.ExistsForPeriod(ctx, in.RoomID, in.Period)
	if err != nil {
		return model.MeterReading{}, internal("check existing reading", err)
	}
	if exists {
		return model.MeterReading{}, newError(KindDuplicateReading, "a reading for "+in.Period.String()+" already exists for this room")
	}

	m := model.MeterReading{
		RoomID:           in.RoomID,
		Period:           in.Period,
		WaterIndex:       in.WaterIndex,
		ElectricityIndex: in.ElectricityIndex,
	}
	if err := s.readings.Create(ctx, &m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.MeterReading{}, newError(KindDuplicateReading, "a reading for "+in.Period.String()+" already exists for this room")
		}
		return model.MeterReading{}, wrapError(KindPersistenceFailure, "could not save reading", err)
	}
	s.log.Info("reading recorded",
		zap.Uint64("reading_id", m.ID), zap.Uint64("room_id", m.RoomID), zap.Stringer("period", m.Period))
	return m, nil
}

// PreviousReading returns the most recent reading strictly before the
// given month.  found is false when the room has no earlier reading.
func (s *MeterReadingStore) PreviousReading(ctx context.Context, roomID uint64, before model.Period) (m model.MeterReading, found bool, err error) {
	m, err = s.readings.Previous(ctx, roomID, before)
	if errors.Is(err, repository.ErrNotFound) {
		return model.MeterReading{}, false, nil
	}
	if err != nil {
		return model.MeterReading{}, false, internal("load previous reading", err)
	}
	return m, true, nil
}

// ReadingByID fails with ReadingNotFound for an unknown id.
func (s *MeterReadingStore) ReadingByID(ctx context.Context, id uint64) (model.MeterReading, error) {
	m, err := s.readings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.MeterReading{}, newError(KindReadingNotFound, "meter reading not found")
	}
	if err != nil {
		return model.MeterReading{}, internal("load reading", err)
	}
	return m, nil
}

// ReadingsForRoom lists a room's readings, latest period first.
func (s *MeterReadingStore) ReadingsForRoom(ctx context.Context, p model.Principal, roomID uint64) ([]model.MeterReading, error) {
	if _, err := s.owners.VerifyLandlordOwnsRoom(ctx, p, roomID); err != nil {
		return nil, err
	}
	list, err := s.readings.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, internal("list readings", err)
	}
	return list, nil
}
