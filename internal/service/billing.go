package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bantus/rental-backend/internal/idempotency"
	"github.com/bantus/rental-backend/internal/model"
	"github.com/bantus/rental-backend/internal/repository"
)

// GenerateBillsInput carries the rates and deadline for one billing run.
type GenerateBillsInput struct {
	ReadingID       uint64
	WaterRate       decimal.Decimal
	ElectricityRate decimal.Decimal
	Deadline        time.Time
}

// BillingEngine turns a meter reading into a water bill and an electricity
// bill for the session occupying the room.  All checks and arithmetic run
// before anything is written; the two inserts share one transaction.
type BillingEngine struct {
	owners   *OwnershipResolver
	readings *MeterReadingStore
	tenancy  *TenancyDirectory
	bills    BillStore
	guard    idempotency.Guard
	log      *zap.Logger
	now      func() time.Time
}

func NewBillingEngine(owners *OwnershipResolver, readings *MeterReadingStore, tenancy *TenancyDirectory,
	bills BillStore, guard idempotency.Guard, log *zap.Logger) *BillingEngine {
	if guard == nil {
		guard = idempotency.NoopGuard{}
	}
	return &BillingEngine{
		owners:   owners,
		readings: readings,
		tenancy:  tenancy,
		bills:    bills,
		guard:    guard,
		log:      log.Named("billing"),
		now:      time.Now,
	}
}

// GenerateBillsFromReading validates in this order: rates and deadline
// (InvalidInput), the reading (ReadingNotFound), ownership of the
// reading's room (AccessDenied), the covering session (NoActiveSession).
// A room without an earlier reading is billed from a zero baseline.
func (e *BillingEngine) GenerateBillsFromReading(ctx context.Context, p model.Principal, in GenerateBillsInput) (model.BillSummary, error) {
	if err := e.validate(in); err != nil {
		return model.BillSummary{}, err
	}

	cur, err := e.readings.ReadingByID(ctx, in.ReadingID)
	if err != nil {
		return model.BillSummary{}, err
	}
	if _, err := e.owners.VerifyLandlordOwnsRoom(ctx, p, cur.RoomID); err != nil {
		return model.BillSummary{}, err
	}
	session, err := e.tenancy.ActiveSessionCoveringRoom(ctx, cur.RoomID, cur.Period)
	if err != nil {
		return model.BillSummary{}, err
	}

	prev, found, err := e.readings.PreviousReading(ctx, cur.RoomID, cur.Period)
	if err != nil {
		return model.BillSummary{}, err
	}
	if !found {
		// Zero baseline.  Real meters rarely start at zero, so the first
		// bill of a room covers the full index.
		prev = model.MeterReading{WaterIndex: decimal.Zero, ElectricityIndex: decimal.Zero}
		e.log.Info("no previous reading, billing from zero baseline",
			zap.Uint64("reading_id", cur.ID), zap.Uint64("room_id", cur.RoomID))
	}

	summary, err := computeBills(cur, prev, session.ID, in.WaterRate, in.ElectricityRate)
	if err != nil {
		return model.BillSummary{}, err
	}

	release, ok, err := e.guard.Acquire(ctx, strconv.FormatUint(cur.ID, 10))
	if err != nil {
		return model.BillSummary{}, internal("acquire billing lock", err)
	}
	if !ok {
		return model.BillSummary{}, newError(KindConflict, "bills for this reading are already being generated")
	}
	defer release()

	exists, err := e.bills.ExistsForReading(ctx, cur.ID)
	if err != nil {
		return model.BillSummary{}, internal("check existing bills", err)
	}
	if exists {
		return model.BillSummary{}, newError(KindDuplicateBill, "bills have already been generated for this reading")
	}

	deadline := dateOf(in.Deadline)
	water := &model.UtilityBill{
		SessionID:     session.ID,
		ReadingID:     cur.ID,
		Type:          model.UtilityWater,
		UnitsConsumed: summary.Water.Consumed,
		Amount:        summary.Water.Cost,
		Deadline:      deadline,
		Status:        model.BillUnpaid,
		Period:        cur.Period,
	}
	electricity := &model.UtilityBill{
		SessionID:     session.ID,
		ReadingID:     cur.ID,
		Type:          model.UtilityElectricity,
		UnitsConsumed: summary.Electricity.Consumed,
		Amount:        summary.Electricity.Cost,
		Deadline:      deadline,
		Status:        model.BillUnpaid,
		Period:        cur.Period,
	}
	if err := e.bills.InsertPair(ctx, water, electricity); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.BillSummary{}, newError(KindDuplicateBill, "bills have already been generated for this reading")
		}
		e.log.Error("bill insert rolled back", zap.Uint64("reading_id", cur.ID), zap.Error(err))
		return model.BillSummary{}, wrapError(KindPersistenceFailure, "could not save bills", err)
	}

	e.log.Info("bills generated",
		zap.Uint64("reading_id", cur.ID),
		zap.Uint64("session_id", session.ID),
		zap.Stringer("period", cur.Period),
		zap.Stringer("total", summary.Total))
	return summary, nil
}

func (e *BillingEngine) validate(in GenerateBillsInput) error {
	if in.ReadingID == 0 {
		return invalidInput("reading id is required")
	}
	if !in.WaterRate.IsPositive() {
		return invalidInput("water_rate must be greater than zero")
	}
	if !in.ElectricityRate.IsPositive() {
		return invalidInput("electricity_rate must be greater than zero")
	}
	if in.Deadline.IsZero() {
		return invalidInput("deadline is required")
	}
	if dateOf(in.Deadline).Before(dateOf(e.now())) {
		return invalidInput("deadline must be today or later")
	}
	return nil
}

// computeBills is the pure part of billing: consumption is the index
// delta, cost is consumption times rate, all in exact decimals.
func computeBills(cur, prev model.MeterReading, sessionID uint64, waterRate, electricityRate decimal.Decimal) (model.BillSummary, error) {
	waterUsed := cur.WaterIndex.Sub(prev.WaterIndex)
	elecUsed := cur.ElectricityIndex.Sub(prev.ElectricityIndex)
	if waterUsed.IsNegative() {
		return model.BillSummary{}, newError(KindInvalidConsumption,
			"water index "+cur.WaterIndex.String()+" is below the previous reading "+prev.WaterIndex.String())
	}
	if elecUsed.IsNegative() {
		return model.BillSummary{}, newError(KindInvalidConsumption,
			"electricity index "+cur.ElectricityIndex.String()+" is below the previous reading "+prev.ElectricityIndex.String())
	}

	waterCost := waterUsed.Mul(waterRate)
	elecCost := elecUsed.Mul(electricityRate)
	return model.BillSummary{
		ReadingID:   cur.ID,
		SessionID:   sessionID,
		RoomID:      cur.RoomID,
		Period:      cur.Period,
		Water:       model.BillLine{Consumed: waterUsed, Cost: waterCost},
		Electricity: model.BillLine{Consumed: elecUsed, Cost: elecCost},
		Total:       waterCost.Add(elecCost),
	}, nil
}
