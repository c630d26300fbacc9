package rewards

import (
	"math/big"
	"testing"
)

func TestRewardsSummary(t *testing.T) {
	e := newLedger(t, 10, 2, 3)
	admin := addr(1)
	e.SetState(newFundState(4200))

	if err := e.Award(admin, addr(2), 2); err != nil {
		t.Fatalf("award: %v", err)
	}
	if err := e.Award(admin, addr(3), 3); err != nil {
		t.Fatalf("award: %v", err)
	}

	sum := e.RewardsSummary()
	if sum.AssignedPoints != 5 {
		t.Fatalf("expected 5 assigned points, got %d", sum.AssignedPoints)
	}
	if sum.MembersAwarded != 2 {
		t.Fatalf("expected 2 members awarded, got %d", sum.MembersAwarded)
	}
	if sum.Funds.Cmp(big.NewInt(4200)) != 0 {
		t.Fatalf("expected funds 4200, got %s", sum.Funds)
	}
}

func TestRewardsSummaryWithoutState(t *testing.T) {
	e := newLedger(t, 10)
	sum := e.RewardsSummary()
	if sum.Funds.Sign() != 0 {
		t.Fatalf("expected zero funds without a state backend")
	}
}

func TestSenderAvailablePoints(t *testing.T) {
	e := newLedger(t, 10, 2)
	admin := addr(1)

	if got := e.SenderAvailablePoints(admin); got != 10 {
		t.Fatalf("expected full cap for fresh sender, got %d", got)
	}
	if err := e.Award(admin, addr(2), 4); err != nil {
		t.Fatalf("award: %v", err)
	}
	if got := e.SenderAvailablePoints(admin); got != 6 {
		t.Fatalf("expected 6 available, got %d", got)
	}

	// Lowering the cap below current usage saturates at zero.
	if err := e.SetMaxPointsPerSender(admin, 3); err != nil {
		t.Fatalf("set cap: %v", err)
	}
	if got := e.SenderAvailablePoints(admin); got != 0 {
		t.Fatalf("expected saturated zero, got %d", got)
	}
}

func TestSenderAvailablePointsUnknownSender(t *testing.T) {
	e := newLedger(t, 10)
	if got := e.SenderAvailablePoints(addr(9)); got != 10 {
		t.Fatalf("unknown sender has the full cap available, got %d", got)
	}
}
