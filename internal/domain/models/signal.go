package models

import (
	"strings"
	"time"
)

// Direction is the trade side of a signal.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// ParseDirection normalizes a raw direction string. Returns false when the
// value is neither LONG nor SHORT.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToUpper(s)) {
	case DirectionLong:
		return DirectionLong, true
	case DirectionShort:
		return DirectionShort, true
	default:
		return "", false
	}
}

// Status is the lifecycle state of a signal.
//
// PENDING is the only non-terminal state; it is reachable only through
// classification at ingest time. APPROVED and REJECTED are terminal.
type Status string

const (
	StatusApproved Status = "APPROVED"
	StatusPending  Status = "PENDING"
	StatusRejected Status = "REJECTED"
)

// ParseStatus normalizes a raw status string.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToUpper(s)) {
	case StatusApproved:
		return StatusApproved, true
	case StatusPending:
		return StatusPending, true
	case StatusRejected:
		return StatusRejected, true
	default:
		return "", false
	}
}

// SignalInput is the canonical, validated intake shape. It carries no
// identity or lifecycle state; those are assigned at acceptance time.
type SignalInput struct {
	Asset           string
	Direction       Direction
	EntryPrice      float64
	StopLoss        float64
	TakeProfit      float64
	RRRatio         float64
	ConfidenceScore int
}

// Signal is the persisted trade recommendation. All fields except Status
// are immutable once the store accepts the record.
type Signal struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Asset           string    `json:"asset"`
	Direction       Direction `json:"signal_type"`
	EntryPrice      float64   `json:"entry_price"`
	StopLoss        float64   `json:"stop_loss"`
	TakeProfit      float64   `json:"take_profit"`
	RRRatio         float64   `json:"rr_ratio"`
	ConfidenceScore int       `json:"confidence_score"`
	Status          Status    `json:"status"`
}

// Clone returns an independent copy. The store hands out clones only, so
// callers can never mutate the authoritative record.
func (s *Signal) Clone() *Signal {
	c := *s
	return &c
}

// StatusCounts holds per-status totals for the stats endpoint.
type StatusCounts struct {
	Total    int `json:"total_signals"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}
