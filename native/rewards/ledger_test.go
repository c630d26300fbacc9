package rewards

import (
	"errors"
	"math"
	"testing"

	"syndeo/core/events"
)

// newLedger builds an engine with the admin plus members 2..n, matching the
// closed-group setups used across these tests.
func newLedger(t *testing.T, cap uint64, members ...byte) *Engine {
	t.Helper()
	admin := addr(1)
	e := NewEngine(admin, Params{MaxPointsPerSender: cap})
	for _, m := range members {
		if err := e.AddMember(admin, addr(m)); err != nil {
			t.Fatalf("add member %d: %v", m, err)
		}
	}
	return e
}

// checkCounters asserts invariant I1: the total equals the sum of both
// counter maps.
func checkCounters(t *testing.T, e *Engine) {
	t.Helper()
	var sent, earned uint64
	for _, v := range e.pointsBySender {
		sent += v
	}
	for _, v := range e.pointsByRecipient {
		earned += v
	}
	if sent != e.totalPoints || earned != e.totalPoints {
		t.Fatalf("counter mismatch: total=%d sent=%d earned=%d", e.totalPoints, sent, earned)
	}
}

func TestAwardScenario(t *testing.T) {
	e := newLedger(t, 5, 2, 3)
	admin := addr(1)

	if err := e.Award(admin, addr(2), 2); err != nil {
		t.Fatalf("award: %v", err)
	}
	checkCounters(t, e)
	if err := e.Award(admin, addr(3), 3); err != nil {
		t.Fatalf("award: %v", err)
	}
	checkCounters(t, e)

	if e.TotalPoints() != 5 {
		t.Fatalf("expected total 5, got %d", e.TotalPoints())
	}
	if got := len(e.ActiveRecipients()); got != 2 {
		t.Fatalf("expected 2 active recipients, got %d", got)
	}
	if got := len(e.ActiveSenders()); got != 1 {
		t.Fatalf("expected 1 active sender, got %d", got)
	}

	// A fresh sender asking for 10 against cap 5 is over the limit, not a
	// zero-amount failure.
	if err := e.Award(addr(2), addr(3), 10); !errors.Is(err, ErrMaxPointsExceeded) {
		t.Fatalf("expected ErrMaxPointsExceeded, got %v", err)
	}
	checkCounters(t, e)
}

func TestAwardZeroAmount(t *testing.T) {
	e := newLedger(t, 5, 2)
	if err := e.Award(addr(1), addr(2), 0); !errors.Is(err, ErrAwardMustBePositive) {
		t.Fatalf("expected ErrAwardMustBePositive, got %v", err)
	}
}

func TestAwardSelf(t *testing.T) {
	e := newLedger(t, 5, 2)
	// Self-award fails before any membership check, even for non-members.
	if err := e.Award(addr(9), addr(9), 3); !errors.Is(err, ErrCannotAwardYourself) {
		t.Fatalf("expected ErrCannotAwardYourself, got %v", err)
	}
}

func TestAwardMembershipPrecedence(t *testing.T) {
	e := newLedger(t, 5, 2)

	// Sender is checked before the recipient.
	if err := e.Award(addr(8), addr(9), 1); !errors.Is(err, ErrSenderIsNotMember) {
		t.Fatalf("expected ErrSenderIsNotMember, got %v", err)
	}
	if err := e.Award(addr(1), addr(9), 1); !errors.Is(err, ErrRecipientIsNotMember) {
		t.Fatalf("expected ErrRecipientIsNotMember, got %v", err)
	}
	if e.TotalPoints() != 0 {
		t.Fatalf("failed awards must not mutate the ledger")
	}
}

func TestAwardCapEnforcedCumulatively(t *testing.T) {
	e := newLedger(t, 5, 2, 3)
	admin := addr(1)

	if err := e.Award(admin, addr(2), 3); err != nil {
		t.Fatalf("award: %v", err)
	}
	if err := e.Award(admin, addr(3), 2); err != nil {
		t.Fatalf("award: %v", err)
	}
	// The cap is reached exactly; one more point is over it.
	if err := e.Award(admin, addr(2), 1); !errors.Is(err, ErrMaxPointsExceeded) {
		t.Fatalf("expected ErrMaxPointsExceeded, got %v", err)
	}
	if e.TotalPoints() != 5 {
		t.Fatalf("rejected award must leave counters unchanged, total=%d", e.TotalPoints())
	}
	checkCounters(t, e)
	if got := e.SenderAvailablePoints(admin); got != 0 {
		t.Fatalf("expected no available points, got %d", got)
	}
}

func TestAwardOverflowAborts(t *testing.T) {
	e := newLedger(t, math.MaxUint64, 2)
	admin := addr(1)

	if err := e.Award(admin, addr(2), math.MaxUint64); err != nil {
		t.Fatalf("award: %v", err)
	}
	if err := e.Award(admin, addr(2), 1); !errors.Is(err, ErrPointsOverflow) {
		t.Fatalf("expected ErrPointsOverflow, got %v", err)
	}
	if e.TotalPoints() != math.MaxUint64 {
		t.Fatalf("overflowing award must not mutate the ledger")
	}
	checkCounters(t, e)
}

func TestAwardEventCarriesNewRecipientFlag(t *testing.T) {
	e := newLedger(t, 5, 2)
	emitter := &captureEmitter{}
	e.SetEmitter(emitter)
	admin := addr(1)

	if err := e.Award(admin, addr(2), 1); err != nil {
		t.Fatalf("award: %v", err)
	}
	first, ok := emitter.last().(events.RewardsPointsAwarded)
	if !ok {
		t.Fatalf("expected award event, got %T", emitter.last())
	}
	if !first.NewRecipient {
		t.Fatalf("first award must flag a new recipient")
	}
	if first.Sender != admin || first.Recipient != addr(2) || first.Amount != 1 {
		t.Fatalf("unexpected award event: %+v", first)
	}

	if err := e.Award(admin, addr(2), 1); err != nil {
		t.Fatalf("award: %v", err)
	}
	second := emitter.last().(events.RewardsPointsAwarded)
	if second.NewRecipient {
		t.Fatalf("repeat award must not flag a new recipient")
	}
}

func TestInvariantAcrossAwardSequences(t *testing.T) {
	e := newLedger(t, 100, 2, 3, 4)
	awards := []struct {
		sender, recipient byte
		amount            uint64
	}{
		{1, 2, 10}, {2, 3, 25}, {3, 4, 7}, {4, 1, 60}, {2, 1, 75}, {3, 2, 93},
	}
	for _, a := range awards {
		if err := e.Award(addr(a.sender), addr(a.recipient), a.amount); err != nil {
			t.Fatalf("award %d->%d: %v", a.sender, a.recipient, err)
		}
		checkCounters(t, e)
	}
}
