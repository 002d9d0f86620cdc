package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// MeterReading is a snapshot of a room's cumulative water and electricity
// meter indices for one calendar month.  At most one reading exists per
// (RoomID, Period).  Readings are immutable once recorded.
//
// Fields:
//  ID               – primary key identifier.
//  RoomID           – room whose meters were read.
//  Period           – calendar month of the reading.
//  WaterIndex       – cumulative water meter index.
//  ElectricityIndex – cumulative electricity meter index.
//  RecordedAt       – when the landlord submitted the reading.
type MeterReading struct {
    ID               uint64          `json:"id"`                // meter_readings.id
    RoomID           uint64          `json:"room_id"`           // meter_readings.room_id
    Period           Period          `json:"period"`            // meter_readings.period_month
    WaterIndex       decimal.Decimal `json:"water_index"`       // meter_readings.water_index
    ElectricityIndex decimal.Decimal `json:"electricity_index"` // meter_readings.electricity_index
    RecordedAt       time.Time       `json:"recorded_at"`       // meter_readings.recorded_at
}
