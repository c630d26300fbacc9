package rewards

import (
	"fmt"
	"math/big"

	"syndeo/core/events"
)

// payout pairs a recipient with its computed share of the reward pool.
type payout struct {
	recipient [20]byte
	points    uint64
	amount    *big.Int
}

// DistributeRewards converts the accumulated points into a proportional
// payout of the pooled funds and starts a fresh accounting period. Admin
// only.
//
// When explicitAmount is nil the full pool balance is distributed; a zero or
// negative amount fails with ErrNullFunds. Each recipient receives
// floor(points * totalRewards / totalPoints); the remainder of the floor
// division stays in the pool (bounded by recipients-1 minor units).
//
// A failed transfer aborts the whole distribution and leaves the point
// ledger untouched, so a retry attempts exactly the same undistributed
// state. The host rolls the partial fund movements back.
func (e *Engine) DistributeRewards(caller [20]byte, explicitAmount *big.Int) error {
	if err := e.checkAdmin(caller); err != nil {
		return err
	}
	if e.st == nil {
		return errNilState
	}
	if len(e.recipients) == 0 {
		return ErrNoRecipients
	}

	balance := e.st.PoolBalance()
	totalRewards := balance
	if explicitAmount != nil {
		totalRewards = new(big.Int).Set(explicitAmount)
	}
	if totalRewards.Sign() <= 0 {
		return ErrNullFunds
	}
	if explicitAmount != nil && totalRewards.Cmp(balance) > 0 {
		return fmt.Errorf("%w: %s requested, %s available", ErrRewardExceedsBalance, totalRewards, balance)
	}

	// Compute every share before moving any funds so a transfer failure
	// cannot leave the ledger half-drained. Recipients are paid in the
	// order they first earned points this period.
	totalPoints := new(big.Int).SetUint64(e.totalPoints)
	payouts := make([]payout, 0, len(e.recipients))
	paid := big.NewInt(0)
	for _, recipient := range e.recipients {
		points := e.pointsByRecipient[recipient]
		share := new(big.Int).SetUint64(points)
		share.Mul(share, totalRewards)
		share.Quo(share, totalPoints)
		payouts = append(payouts, payout{recipient: recipient, points: points, amount: share})
		paid.Add(paid, share)
	}

	for _, p := range payouts {
		if err := e.st.TransferFromPool(p.recipient, p.amount); err != nil {
			return fmt.Errorf("rewards: transfer to recipient failed: %w", err)
		}
		e.emit(events.RewardsRewardPaid{
			Recipient: p.recipient,
			Amount:    new(big.Int).Set(p.amount),
			Points:    p.points,
		})
	}

	remainder := new(big.Int).Sub(totalRewards, paid)
	e.emit(events.RewardsDistributionCompleted{
		TotalRewards: new(big.Int).Set(totalRewards),
		TotalPoints:  e.totalPoints,
		Recipients:   len(payouts),
		Remainder:    remainder,
	})
	e.telemetry.ObserveDistribution(paid, remainder)

	e.resetPeriod()
	return nil
}
