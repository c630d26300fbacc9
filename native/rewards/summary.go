package rewards

import "math/big"

// Summary is the read-only projection of the current accounting period.
type Summary struct {
	// AssignedPoints is the total number of points awarded this period.
	AssignedPoints uint64
	// MembersAwarded counts the recipients with at least one award.
	MembersAwarded int
	// Funds is the pooled balance currently available for distribution.
	Funds *big.Int
}

// RewardsSummary reports the assigned points, active recipients and pooled
// funds. It has no preconditions.
func (e *Engine) RewardsSummary() Summary {
	funds := big.NewInt(0)
	if e.st != nil {
		funds = e.st.PoolBalance()
	}
	return Summary{
		AssignedPoints: e.totalPoints,
		MembersAwarded: len(e.recipients),
		Funds:          funds,
	}
}

// SenderAvailablePoints returns how many points the sender may still award
// this period. The subtraction saturates at zero: a cap lowered below a
// sender's current usage reports no available points rather than a negative
// number.
func (e *Engine) SenderAvailablePoints(sender [20]byte) uint64 {
	used := e.pointsBySender[sender]
	if used >= e.maxPointsPerSender {
		return 0
	}
	return e.maxPointsPerSender - used
}

// MaxPointsPerSender returns the current per-sender cap.
func (e *Engine) MaxPointsPerSender() uint64 {
	return e.maxPointsPerSender
}

// TotalPoints returns the points assigned in the current period.
func (e *Engine) TotalPoints() uint64 {
	return e.totalPoints
}

// ActiveRecipients returns the recipients of the current period in the order
// of their first award, the same order a distribution pays them in.
func (e *Engine) ActiveRecipients() [][20]byte {
	out := make([][20]byte, len(e.recipients))
	copy(out, e.recipients)
	return out
}

// ActiveSenders returns the members that sent at least one award this period.
func (e *Engine) ActiveSenders() [][20]byte {
	out := make([][20]byte, len(e.senders))
	copy(out, e.senders)
	return out
}
