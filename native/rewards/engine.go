package rewards

import (
	"math/big"

	"syndeo/core/events"
	"syndeo/observability/metrics"
)

// FundState describes the minimal functionality the rewards engine needs from
// the surrounding execution host: reading the pooled balance and paying funds
// out of it. A failed transfer aborts the enclosing operation.
type FundState interface {
	PoolBalance() *big.Int
	TransferFromPool(to [20]byte, amount *big.Int) error
}

// Engine is the contribution-reward ledger: a closed member set awards each
// other capped points which the admin periodically converts into a
// proportional payout of the pooled funds.
//
// The engine is not safe for concurrent use. Every operation runs to
// completion atomically relative to every other operation; callers serialise
// access (the RPC server holds one mutex per call).
type Engine struct {
	st        FundState
	emitter   events.Emitter
	telemetry *metrics.RewardsMetrics

	admin     [20]byte
	members   [][20]byte
	memberSet map[[20]byte]struct{}

	pointsBySender    map[[20]byte]uint64
	pointsByRecipient map[[20]byte]uint64
	senders           [][20]byte
	recipients        [][20]byte
	totalPoints       uint64

	maxPointsPerSender uint64
}

// NewEngine constructs a ledger with the creator as admin and sole initial
// member. Params are normalized, so a zero cap falls back to the default.
func NewEngine(admin [20]byte, params Params) *Engine {
	params = params.Normalize()
	e := &Engine{
		emitter:            events.NoopEmitter{},
		telemetry:          metrics.Rewards(),
		admin:              admin,
		memberSet:          make(map[[20]byte]struct{}),
		pointsBySender:     make(map[[20]byte]uint64),
		pointsByRecipient:  make(map[[20]byte]uint64),
		maxPointsPerSender: params.MaxPointsPerSender,
	}
	e.members = append(e.members, admin)
	e.memberSet[admin] = struct{}{}
	return e
}

// SetState configures the fund backend used by the engine.
func (e *Engine) SetState(st FundState) { e.st = st }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

// Admin returns the current admin identity.
func (e *Engine) Admin() [20]byte { return e.admin }

// IsMember reports whether the address is registered on the ledger.
func (e *Engine) IsMember(addr [20]byte) bool {
	_, ok := e.memberSet[addr]
	return ok
}

// Members returns the member set in insertion order.
func (e *Engine) Members() [][20]byte {
	out := make([][20]byte, len(e.members))
	copy(out, e.members)
	return out
}

// checkAdmin is the access-control guard run first by every admin-gated
// operation. It is side-effect free.
func (e *Engine) checkAdmin(caller [20]byte) error {
	if caller != e.admin {
		return ErrAdminRequired
	}
	return nil
}

// checkValidMember verifies both parties of an award. The sender is checked
// before the recipient; error precedence is part of the contract.
func (e *Engine) checkValidMember(sender, recipient [20]byte) error {
	if !e.IsMember(sender) {
		return ErrSenderIsNotMember
	}
	if !e.IsMember(recipient) {
		return ErrRecipientIsNotMember
	}
	return nil
}

// AddMember registers a new member. Admin only.
func (e *Engine) AddMember(caller, member [20]byte) error {
	if err := e.checkAdmin(caller); err != nil {
		return err
	}
	return e.addMember(member)
}

func (e *Engine) addMember(member [20]byte) error {
	if e.IsMember(member) {
		return ErrMemberAlreadyExists
	}
	e.members = append(e.members, member)
	e.memberSet[member] = struct{}{}
	e.emit(events.RewardsMemberAdded{Member: member})
	return nil
}

// RemoveMember deletes a member from the registry. Admin only. Removing the
// admin account itself is not blocked; the admin keeps administrative rights
// but loses the ability to send awards.
func (e *Engine) RemoveMember(caller, member [20]byte) error {
	if err := e.checkAdmin(caller); err != nil {
		return err
	}
	if !e.IsMember(member) {
		return ErrMemberDoesNotExist
	}
	for i := range e.members {
		if e.members[i] == member {
			// Order among remaining members is not part of the
			// contract, swap-remove is fine.
			e.members[i] = e.members[len(e.members)-1]
			e.members = e.members[:len(e.members)-1]
			break
		}
	}
	delete(e.memberSet, member)
	e.emit(events.RewardsMemberRemoved{Member: member})
	return nil
}

// SetAdmin hands the admin role to another account. Admin only. If the new
// admin is not yet a member it is registered first, so the new admin is
// always a member after the call.
func (e *Engine) SetAdmin(caller, newAdmin [20]byte) error {
	if err := e.checkAdmin(caller); err != nil {
		return err
	}
	if !e.IsMember(newAdmin) {
		if err := e.addMember(newAdmin); err != nil {
			return err
		}
	}
	oldAdmin := e.admin
	e.admin = newAdmin
	e.emit(events.RewardsAdminChanged{OldAdmin: oldAdmin, NewAdmin: newAdmin})
	return nil
}

// SetMaxPointsPerSender replaces the per-sender cap. Admin only.
//
// The guard checks the pre-existing cap, not the proposed one: a new value of
// zero is accepted (blocking all future awards until corrected), while a
// second call with the cap already at zero fails. This mirrors the behaviour
// the contract has always had; do not "fix" it without a product decision.
func (e *Engine) SetMaxPointsPerSender(caller [20]byte, newMax uint64) error {
	if err := e.checkAdmin(caller); err != nil {
		return err
	}
	if e.maxPointsPerSender == 0 {
		return ErrMaxPointsCannotBeZero
	}
	oldMax := e.maxPointsPerSender
	e.maxPointsPerSender = newMax
	e.emit(events.RewardsMaxPointsUpdated{OldMax: oldMax, NewMax: newMax})
	return nil
}
