package domain

import (
	"time"

	"github.com/google/uuid"
)

// ISODateFormat is the canonical date key format used for completion records.
const ISODateFormat = "2006-01-02"

// PaymentEvent is one concrete, dated instance of a recurring contribution
// obligation. Events are derived per queried month and never persisted.
type PaymentEvent struct {
	InvestmentID uuid.UUID
	Year         int
	Month        int // 1-12
	Day          int // never exceeds the day-count of (Year, Month)
}

// Date returns the event's calendar date at midnight UTC.
func (e PaymentEvent) Date() time.Time {
	return time.Date(e.Year, time.Month(e.Month), e.Day, 0, 0, 0, 0, time.UTC)
}

// ISODate returns the event's date formatted as a completion-record key.
func (e PaymentEvent) ISODate() string {
	return e.Date().Format(ISODateFormat)
}

// DayStatus labels a calendar day on the contribution calendar.
type DayStatus string

const (
	// DayStatusNone means no events are scheduled on the day.
	DayStatusNone DayStatus = "NONE"
	// DayStatusCompleted means every event on the day is marked completed.
	DayStatusCompleted DayStatus = "COMPLETED"
	// DayStatusMissed means the day is strictly in the past with at least
	// one incomplete event.
	DayStatusMissed DayStatus = "MISSED"
	// DayStatusScheduled means the day is today or later with at least one
	// incomplete event.
	DayStatusScheduled DayStatus = "SCHEDULED"
)
