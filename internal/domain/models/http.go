package models

// Requests and responses for the signals HTTP API. Defined in domain for
// consistency and reuse. The ingest body is deliberately NOT typed here:
// it arrives as map[string]any and goes through the engine's two-stage
// normalize/validate intake.

type ListSignalsRequest struct {
	Status string `query:"status" json:"status" validate:"omitempty,oneof=APPROVED PENDING REJECTED approved pending rejected"`
	Limit  int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}

type RejectRequest struct {
	// Reason is an audit annotation echoed back to the caller. It is not
	// persisted on the signal.
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// IngestResult is the success response for POST /signals/ingest. Accepted
// covers both non-rejected and rejected-at-creation outcomes; the latter is
// still a successful ingestion (HTTP 202).
type IngestResult struct {
	SignalID       string   `json:"signal_id"`
	ApprovalStatus Status   `json:"approval_status"`
	Message        string   `json:"message"`
	Warnings       []string `json:"warnings,omitempty"`
}

// ValidationFailure is the request-level failure for POST /signals/ingest.
type ValidationFailure struct {
	Reason   string   `json:"reason"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

type TransitionResult struct {
	SignalID string `json:"signal_id"`
	Status   Status `json:"status"`
	Reason   string `json:"reason,omitempty"`
}

type SignalList struct {
	Count   int       `json:"count"`
	Signals []*Signal `json:"signals"`
}

type WatchlistResponse struct {
	ApprovedAssets []string `json:"approved_assets"`
	Count          int      `json:"count"`
}

type StatsResponse struct {
	StatusCounts
	TelegramConfigured bool `json:"telegram_configured"`
}

type HealthResponse struct {
	Status             string `json:"status"`
	Timestamp          string `json:"timestamp"`
	Version            string `json:"version"`
	TelegramConfigured bool   `json:"telegram_configured"`
	SinkBackend        string `json:"sink_backend"`
}
