package domain

import "time"

// ActiveCall is a live call as reported by the PBX engine. It is display
// data only; the panel never mutates it.
type ActiveCall struct {
	CallID    string
	TenantID  int64
	Caller    string
	Callee    string
	State     string // ringing, up, hold
	StartedAt time.Time
}

// CallRecord is one CDR row: the logged summary of a completed call.
type CallRecord struct {
	ID            int64
	TenantID      int64
	UniqueID      string
	CallDate      time.Time
	Source        string
	Destination   string
	Channel       string
	LastApp       string
	Duration      int // seconds, total
	BillSec       int // seconds, billable
	Disposition   Disposition
	RecordingFile string
}

// CallSummary aggregates CDR rows for the dashboard counters.
type CallSummary struct {
	Total       int
	Answered    int
	Missed      int
	AvgDuration float64 // seconds, answered calls only
}
