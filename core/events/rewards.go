package events

import "math/big"

const (
	// TypeRewardsMemberAdded is emitted when the admin registers a new
	// member on the ledger.
	TypeRewardsMemberAdded = "rewards.member.added"
	// TypeRewardsMemberRemoved is emitted when the admin removes a member
	// from the ledger.
	TypeRewardsMemberRemoved = "rewards.member.removed"
	// TypeRewardsAdminChanged is emitted when the admin role is handed to a
	// different account.
	TypeRewardsAdminChanged = "rewards.admin.changed"
	// TypeRewardsMaxPointsUpdated is emitted when the per-sender point cap
	// is replaced.
	TypeRewardsMaxPointsUpdated = "rewards.maxpoints.updated"
	// TypeRewardsPointsAwarded is emitted for every successful award.
	TypeRewardsPointsAwarded = "rewards.points.awarded"
	// TypeRewardsRewardPaid is emitted per recipient during a distribution.
	TypeRewardsRewardPaid = "rewards.reward.paid"
	// TypeRewardsDistributionCompleted is emitted once a distribution has
	// paid every recipient and reset the ledger.
	TypeRewardsDistributionCompleted = "rewards.distribution.completed"
)

// RewardsMemberAdded captures a new member registration.
type RewardsMemberAdded struct {
	Member [20]byte
}

// EventType implements the Event interface.
func (RewardsMemberAdded) EventType() string { return TypeRewardsMemberAdded }

// RewardsMemberRemoved captures a member removal.
type RewardsMemberRemoved struct {
	Member [20]byte
}

// EventType implements the Event interface.
func (RewardsMemberRemoved) EventType() string { return TypeRewardsMemberRemoved }

// RewardsAdminChanged captures an admin handover.
type RewardsAdminChanged struct {
	OldAdmin [20]byte
	NewAdmin [20]byte
}

// EventType implements the Event interface.
func (RewardsAdminChanged) EventType() string { return TypeRewardsAdminChanged }

// RewardsMaxPointsUpdated captures a cap replacement.
type RewardsMaxPointsUpdated struct {
	OldMax uint64
	NewMax uint64
}

// EventType implements the Event interface.
func (RewardsMaxPointsUpdated) EventType() string { return TypeRewardsMaxPointsUpdated }

// RewardsPointsAwarded captures a single sender-to-recipient award.
// NewRecipient is set when this award is the first one the recipient received
// in the current accounting period.
type RewardsPointsAwarded struct {
	Sender       [20]byte
	Recipient    [20]byte
	Amount       uint64
	NewRecipient bool
}

// EventType implements the Event interface.
func (RewardsPointsAwarded) EventType() string { return TypeRewardsPointsAwarded }

// RewardsRewardPaid captures the payout granted to one recipient during a
// distribution, together with the points that earned it.
type RewardsRewardPaid struct {
	Recipient [20]byte
	Amount    *big.Int
	Points    uint64
}

// EventType implements the Event interface.
func (RewardsRewardPaid) EventType() string { return TypeRewardsRewardPaid }

// RewardsDistributionCompleted summarises a finished distribution.
type RewardsDistributionCompleted struct {
	TotalRewards *big.Int
	TotalPoints  uint64
	Recipients   int
	Remainder    *big.Int
}

// EventType implements the Event interface.
func (RewardsDistributionCompleted) EventType() string {
	return TypeRewardsDistributionCompleted
}
