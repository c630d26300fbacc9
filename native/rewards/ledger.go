package rewards

import "syndeo/core/events"

// Award credits amount points from sender to recipient. Both parties must be
// members, the sender's cumulative usage must stay within the per-sender cap
// and no state is mutated when any check fails.
func (e *Engine) Award(sender, recipient [20]byte, amount uint64) error {
	if amount == 0 {
		return ErrAwardMustBePositive
	}
	if sender == recipient {
		return ErrCannotAwardYourself
	}
	if err := e.checkValidMember(sender, recipient); err != nil {
		return err
	}

	used := e.pointsBySender[sender]
	newUsed, err := checkedAdd(used, amount)
	if err != nil {
		return err
	}
	if newUsed > e.maxPointsPerSender {
		return ErrMaxPointsExceeded
	}
	newEarned, err := checkedAdd(e.pointsByRecipient[recipient], amount)
	if err != nil {
		return err
	}
	newTotal, err := checkedAdd(e.totalPoints, amount)
	if err != nil {
		return err
	}

	_, senderActive := e.pointsBySender[sender]
	_, recipientActive := e.pointsByRecipient[recipient]

	e.pointsBySender[sender] = newUsed
	e.pointsByRecipient[recipient] = newEarned
	e.totalPoints = newTotal
	if !senderActive {
		e.senders = append(e.senders, sender)
	}
	if !recipientActive {
		e.recipients = append(e.recipients, recipient)
	}

	e.emit(events.RewardsPointsAwarded{
		Sender:       sender,
		Recipient:    recipient,
		Amount:       amount,
		NewRecipient: !recipientActive,
	})
	e.telemetry.ObserveAward(e.totalPoints, len(e.recipients))
	return nil
}

// checkedAdd adds two point amounts, failing on wraparound. Silent wraparound
// would desynchronise the total from the per-account counters.
func checkedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrPointsOverflow
	}
	return sum, nil
}

// resetPeriod wipes all per-period bookkeeping after a successful
// distribution. Sender entries are deleted, not zeroed, so the counter maps
// and the active sets stay consistent.
func (e *Engine) resetPeriod() {
	for _, sender := range e.senders {
		delete(e.pointsBySender, sender)
	}
	for _, recipient := range e.recipients {
		delete(e.pointsByRecipient, recipient)
	}
	e.senders = nil
	e.recipients = nil
	e.totalPoints = 0
}
