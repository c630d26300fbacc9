package rewards

import "errors"

var (
	ErrMemberAlreadyExists   = errors.New("rewards: member already exists")
	ErrMemberDoesNotExist    = errors.New("rewards: member does not exist")
	ErrAdminRequired         = errors.New("rewards: admin required")
	ErrMaxPointsCannotBeZero = errors.New("rewards: max points per sender cannot be zero")
	ErrMaxPointsExceeded     = errors.New("rewards: max points per sender exceeded")
	ErrAwardMustBePositive   = errors.New("rewards: award points must be greater than zero")
	ErrCannotAwardYourself   = errors.New("rewards: cannot award yourself")
	ErrSenderIsNotMember     = errors.New("rewards: sender is not a member")
	ErrRecipientIsNotMember  = errors.New("rewards: recipient is not a member")
	ErrNoRecipients          = errors.New("rewards: no recipients to reward")
	ErrRewardExceedsBalance  = errors.New("rewards: reward exceeds pool balance")
	ErrNullFunds             = errors.New("rewards: no funds to distribute")

	// ErrPointsOverflow signals an arithmetic overflow in the point
	// counters. It is an internal fault, not part of the caller-facing
	// taxonomy: amounts are bounded by the per-sender cap well below the
	// uint64 ceiling, so hitting it means corrupted state.
	ErrPointsOverflow = errors.New("rewards: point counter overflow")

	errNilState = errors.New("rewards: state not configured")
)
