package engine

import (
	"strings"
	"testing"

	"SignalGate/internal/domain/models"
)

func testWatchlist() *Watchlist {
	return NewWatchlist([]string{"BTCUSD", "ETHUSD", "SOLUSD"})
}

func validPayload() Payload {
	return Payload{
		"asset":            "btcusd",
		"signal_type":      "long",
		"entry_price":      50000.0,
		"stop_loss":        49000.0,
		"take_profit":      52000.0,
		"rr_ratio":         2.0,
		"confidence_score": 8,
	}
}

func newTestValidator() *Validator {
	return NewValidator(testWatchlist(), DefaultRRWarnThreshold)
}

func TestValidateOK(t *testing.T) {
	res := newTestValidator().Validate(validPayload())
	if !res.Valid() {
		t.Fatalf("expected valid, errors: %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	in := res.Input
	if in.Asset != "BTCUSD" {
		t.Fatalf("asset not uppercased: %s", in.Asset)
	}
	if in.Direction != models.DirectionLong {
		t.Fatalf("direction = %s", in.Direction)
	}
	if in.ConfidenceScore != 8 || in.RRRatio != 2.0 {
		t.Fatalf("fields not carried over: %+v", in)
	}
}

func TestValidateMissingFieldsShortCircuit(t *testing.T) {
	res := newTestValidator().Validate(Payload{"asset": "BTCUSD"})
	if res.Valid() {
		t.Fatalf("expected errors")
	}
	if len(res.Errors) != 6 {
		t.Fatalf("expected 6 missing-field errors, got %d: %v", len(res.Errors), res.Errors)
	}
	for _, e := range res.Errors {
		if !strings.HasPrefix(e, "missing required field:") {
			t.Fatalf("missing fields must abort later checks, got error: %s", e)
		}
	}
}

func TestValidateWatchlistRejection(t *testing.T) {
	p := validPayload()
	p["asset"] = "DOGECOIN"
	res := newTestValidator().Validate(p)
	if res.Valid() {
		t.Fatalf("expected rejection for off-watchlist asset")
	}
	found := false
	for _, e := range res.Errors {
		if strings.Contains(e, "DOGECOIN") && strings.Contains(e, "watchlist") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected watchlist error, got %v", res.Errors)
	}
}

func TestValidateDirectionalConsistencyLong(t *testing.T) {
	p := validPayload()
	p["stop_loss"] = 51000.0  // stop above entry
	p["take_profit"] = 48000.0 // target below entry
	res := newTestValidator().Validate(p)
	if res.Valid() {
		t.Fatalf("expected directional errors")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("both violations must be collected, got %v", res.Errors)
	}
}

func TestValidateDirectionalConsistencyShort(t *testing.T) {
	p := validPayload()
	p["signal_type"] = "SHORT"
	// LONG-shaped prices are inverted for a SHORT.
	res := newTestValidator().Validate(p)
	if res.Valid() {
		t.Fatalf("expected directional errors for SHORT with LONG-shaped prices")
	}

	p["stop_loss"] = 51000.0
	p["take_profit"] = 48000.0
	res = newTestValidator().Validate(p)
	if !res.Valid() {
		t.Fatalf("expected valid SHORT, errors: %v", res.Errors)
	}
}

func TestValidateBadDirectionCollectsOtherErrors(t *testing.T) {
	p := validPayload()
	p["signal_type"] = "HOLD"
	p["confidence_score"] = 15
	res := newTestValidator().Validate(p)
	if res.Valid() {
		t.Fatalf("expected errors")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected direction and confidence errors together, got %v", res.Errors)
	}
}

func TestValidateNonNumericPrices(t *testing.T) {
	p := validPayload()
	p["entry_price"] = "fifty thousand"
	res := newTestValidator().Validate(p)
	if res.Valid() {
		t.Fatalf("expected error")
	}
	found := false
	for _, e := range res.Errors {
		if strings.Contains(e, "numeric") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected numeric price error, got %v", res.Errors)
	}
}

func TestValidateRRWarning(t *testing.T) {
	p := validPayload()
	p["rr_ratio"] = 1.2
	res := newTestValidator().Validate(p)
	if !res.Valid() {
		t.Fatalf("low rr must be a warning, not an error: %v", res.Errors)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", res.Warnings)
	}
}

func TestValidateConfidenceBounds(t *testing.T) {
	for _, bad := range []any{-1, 11, 7.5, "high"} {
		p := validPayload()
		p["confidence_score"] = bad
		res := newTestValidator().Validate(p)
		if res.Valid() {
			t.Fatalf("expected confidence error for %v", bad)
		}
	}
	for _, good := range []any{0, 10, float64(5), "7"} {
		p := validPayload()
		p["confidence_score"] = good
		res := newTestValidator().Validate(p)
		if !res.Valid() {
			t.Fatalf("expected %v to be a valid confidence, errors: %v", good, res.Errors)
		}
	}
}

func TestValidateStringNumbersCoerced(t *testing.T) {
	p := validPayload()
	p["entry_price"] = "50000"
	p["stop_loss"] = "49000"
	p["take_profit"] = "52000"
	p["rr_ratio"] = "2.0"
	res := newTestValidator().Validate(p)
	if !res.Valid() {
		t.Fatalf("numeric strings must coerce, errors: %v", res.Errors)
	}
}
