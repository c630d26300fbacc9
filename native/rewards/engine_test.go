package rewards

import (
	"errors"
	"testing"

	"syndeo/core/events"
)

func addr(index byte) [20]byte {
	var out [20]byte
	out[19] = index
	return out
}

type captureEmitter struct {
	events []events.Event
}

func (c *captureEmitter) Emit(evt events.Event) {
	c.events = append(c.events, evt)
}

func (c *captureEmitter) last() events.Event {
	if len(c.events) == 0 {
		return nil
	}
	return c.events[len(c.events)-1]
}

func TestNewEngineRegistersCreator(t *testing.T) {
	admin := addr(1)
	e := NewEngine(admin, Params{})

	if e.Admin() != admin {
		t.Fatalf("expected creator to be admin")
	}
	if !e.IsMember(admin) {
		t.Fatalf("expected creator to be the first member")
	}
	if got := len(e.Members()); got != 1 {
		t.Fatalf("expected exactly one member, got %d", got)
	}
	if got := e.MaxPointsPerSender(); got != DefaultMaxPointsPerSender {
		t.Fatalf("expected default cap %d, got %d", DefaultMaxPointsPerSender, got)
	}
}

func TestNewEngineExplicitCap(t *testing.T) {
	e := NewEngine(addr(1), Params{MaxPointsPerSender: 5})
	if got := e.MaxPointsPerSender(); got != 5 {
		t.Fatalf("expected cap 5, got %d", got)
	}
}

func TestAddMember(t *testing.T) {
	admin := addr(1)
	e := NewEngine(admin, Params{})
	emitter := &captureEmitter{}
	e.SetEmitter(emitter)

	if err := e.AddMember(admin, addr(2)); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if !e.IsMember(addr(2)) {
		t.Fatalf("expected member to be registered")
	}
	evt, ok := emitter.last().(events.RewardsMemberAdded)
	if !ok {
		t.Fatalf("expected member added event, got %T", emitter.last())
	}
	if evt.Member != addr(2) {
		t.Fatalf("unexpected member in event")
	}

	if err := e.AddMember(admin, addr(2)); !errors.Is(err, ErrMemberAlreadyExists) {
		t.Fatalf("expected ErrMemberAlreadyExists, got %v", err)
	}
	if got := len(e.Members()); got != 2 {
		t.Fatalf("duplicate add must leave member set unchanged, got %d members", got)
	}
}

func TestAddMemberRequiresAdmin(t *testing.T) {
	e := NewEngine(addr(1), Params{})
	if err := e.AddMember(addr(2), addr(3)); !errors.Is(err, ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}
	if e.IsMember(addr(3)) {
		t.Fatalf("failed call must not mutate the member set")
	}
}

func TestRemoveMember(t *testing.T) {
	admin := addr(1)
	e := NewEngine(admin, Params{})
	emitter := &captureEmitter{}
	e.SetEmitter(emitter)

	if err := e.AddMember(admin, addr(2)); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := e.RemoveMember(admin, addr(2)); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if e.IsMember(addr(2)) {
		t.Fatalf("expected member to be gone")
	}
	if _, ok := emitter.last().(events.RewardsMemberRemoved); !ok {
		t.Fatalf("expected member removed event, got %T", emitter.last())
	}

	if err := e.RemoveMember(admin, addr(2)); !errors.Is(err, ErrMemberDoesNotExist) {
		t.Fatalf("expected ErrMemberDoesNotExist, got %v", err)
	}
}

func TestRemoveMemberNonAdmin(t *testing.T) {
	e := NewEngine(addr(1), Params{})
	if err := e.RemoveMember(addr(2), addr(1)); !errors.Is(err, ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}
}

// The admin may remove their own membership. They keep the admin role but can
// no longer send awards; this is a known policy gap, the test pins the
// behaviour down.
func TestAdminCanRemoveSelf(t *testing.T) {
	admin := addr(1)
	e := NewEngine(admin, Params{})
	if err := e.AddMember(admin, addr(2)); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := e.RemoveMember(admin, admin); err != nil {
		t.Fatalf("remove self: %v", err)
	}
	if e.IsMember(admin) {
		t.Fatalf("expected admin membership to be gone")
	}
	if e.Admin() != admin {
		t.Fatalf("expected admin role to survive self-removal")
	}
	if err := e.Award(admin, addr(2), 1); !errors.Is(err, ErrSenderIsNotMember) {
		t.Fatalf("expected removed admin to be unable to award, got %v", err)
	}
	if err := e.AddMember(admin, addr(3)); err != nil {
		t.Fatalf("expected admin to retain administrative rights: %v", err)
	}
}

func TestSetAdminPromotesMember(t *testing.T) {
	admin := addr(1)
	e := NewEngine(admin, Params{})
	if err := e.AddMember(admin, addr(2)); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := e.SetAdmin(admin, addr(2)); err != nil {
		t.Fatalf("set admin: %v", err)
	}
	if e.Admin() != addr(2) {
		t.Fatalf("expected admin change")
	}
}

func TestSetAdminRegistersNonMember(t *testing.T) {
	admin := addr(1)
	e := NewEngine(admin, Params{})
	emitter := &captureEmitter{}
	e.SetEmitter(emitter)

	if err := e.SetAdmin(admin, addr(2)); err != nil {
		t.Fatalf("set admin: %v", err)
	}
	if !e.IsMember(addr(2)) {
		t.Fatalf("new admin must be a member after the change")
	}
	evt, ok := emitter.last().(events.RewardsAdminChanged)
	if !ok {
		t.Fatalf("expected admin changed event, got %T", emitter.last())
	}
	if evt.OldAdmin != addr(1) || evt.NewAdmin != addr(2) {
		t.Fatalf("unexpected admin change event: %+v", evt)
	}

	// The old admin has handed the role over.
	if err := e.AddMember(admin, addr(3)); !errors.Is(err, ErrAdminRequired) {
		t.Fatalf("expected old admin to lose rights, got %v", err)
	}
}

func TestSetAdminRequiresAdmin(t *testing.T) {
	e := NewEngine(addr(1), Params{})
	if err := e.SetAdmin(addr(2), addr(2)); !errors.Is(err, ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}
}

// The cap guard checks the pre-existing value, not the proposed one: setting
// zero succeeds and locks awards, a second update is then rejected.
func TestSetMaxPointsPerSenderGuardsCurrentValue(t *testing.T) {
	admin := addr(1)
	e := NewEngine(admin, Params{MaxPointsPerSender: 7})

	if err := e.SetMaxPointsPerSender(admin, 0); err != nil {
		t.Fatalf("setting a zero cap must be accepted: %v", err)
	}
	if got := e.MaxPointsPerSender(); got != 0 {
		t.Fatalf("expected cap 0, got %d", got)
	}
	if err := e.SetMaxPointsPerSender(admin, 9); !errors.Is(err, ErrMaxPointsCannotBeZero) {
		t.Fatalf("expected ErrMaxPointsCannotBeZero once the cap is zero, got %v", err)
	}

	// With a zero cap every award is over the limit.
	if err := e.AddMember(admin, addr(2)); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := e.Award(admin, addr(2), 1); !errors.Is(err, ErrMaxPointsExceeded) {
		t.Fatalf("expected awards to be locked out, got %v", err)
	}
}

func TestSetMaxPointsPerSenderRequiresAdmin(t *testing.T) {
	e := NewEngine(addr(1), Params{})
	if err := e.SetMaxPointsPerSender(addr(2), 20); !errors.Is(err, ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}
}
