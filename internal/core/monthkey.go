package core

import (
	"fmt"
	"time"
)

// MonthKey identifies a calendar month. The canonical string form is
// "YYYY-MM". The zero value is not a valid key.
type MonthKey struct {
	Year  int
	Month time.Month
}

func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey{Year: year, Month: month}
}

// MonthKeyOf returns the key of the month containing t.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey parses the canonical "YYYY-MM" form. Anything else, including
// out-of-range months, yields ErrInvalidMonthKey.
func ParseMonthKey(s string) (MonthKey, error) {
	if len(s) != 7 || s[4] != '-' {
		return MonthKey{}, ErrInvalidMonthKey
	}
	var year, month int
	for _, r := range s[:4] {
		if r < '0' || r > '9' {
			return MonthKey{}, ErrInvalidMonthKey
		}
		year = year*10 + int(r-'0')
	}
	for _, r := range s[5:] {
		if r < '0' || r > '9' {
			return MonthKey{}, ErrInvalidMonthKey
		}
		month = month*10 + int(r-'0')
	}
	k := MonthKey{Year: year, Month: time.Month(month)}
	if !k.Valid() {
		return MonthKey{}, ErrInvalidMonthKey
	}
	return k, nil
}

func (k MonthKey) Valid() bool {
	return k.Year >= 1 && k.Month >= time.January && k.Month <= time.December
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Next returns the following month, rolling over the year boundary.
func (k MonthKey) Next() MonthKey {
	if k.Month == time.December {
		return MonthKey{Year: k.Year + 1, Month: time.January}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

func (k MonthKey) Before(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

func (k MonthKey) After(o MonthKey) bool {
	return o.Before(k)
}

// Bounds returns the first and last day of the month at midnight UTC. Both
// dates belong to the month, matching the inclusive range the transaction
// store queries with.
func (k MonthKey) Bounds() (start, end time.Time) {
	start = time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}
