package model

import (
    "fmt"
    "strings"
    "time"
)

// Period identifies a calendar month.  Meter readings are stamped with a
// Period and compared by year and month only; the day component of any
// input date is discarded.
type Period struct {
    Year  int
    Month time.Month
}

// PeriodOf returns the calendar month containing t (in UTC).
func PeriodOf(t time.Time) Period {
    t = t.UTC()
    return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod accepts "2006-01" or "2006-01-02".  A full date is truncated
// to its month.
func ParsePeriod(s string) (Period, error) {
    s = strings.TrimSpace(s)
    for _, layout := range []string{"2006-01", "2006-01-02"} {
        if t, err := time.Parse(layout, s); err == nil {
            return PeriodOf(t), nil
        }
    }
    return Period{}, fmt.Errorf("invalid period %q: want YYYY-MM or YYYY-MM-DD", s)
}

// Start returns midnight UTC on the first day of the month.  This is the
// value persisted in meter_readings.period_month.
func (p Period) Start() time.Time {
    return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last calendar day of the month at midnight UTC.
func (p Period) End() time.Time {
    return p.Next().Start().AddDate(0, 0, -1)
}

// Next returns the following month.
func (p Period) Next() Period {
    return PeriodOf(p.Start().AddDate(0, 1, 0))
}

// Before reports whether p is strictly earlier than o.
func (p Period) Before(o Period) bool {
    if p.Year != o.Year {
        return p.Year < o.Year
    }
    return p.Month < o.Month
}

// IsZero reports whether p is unset.
func (p Period) IsZero() bool { return p.Year == 0 && p.Month == 0 }

func (p Period) String() string {
    return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// MarshalJSON encodes the period as "YYYY-MM".
func (p Period) MarshalJSON() ([]byte, error) {
    return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts the same formats as ParsePeriod.
func (p *Period) UnmarshalJSON(b []byte) error {
    s := strings.Trim(string(b), `"`)
    if s == "" || s == "null" {
        *p = Period{}
        return nil
    }
    v, err := ParsePeriod(s)
    if err != nil {
        return err
    }
    *p = v
    return nil
}
