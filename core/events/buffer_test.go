package events

import "testing"

func TestBufferRetainsEmissionOrder(t *testing.T) {
	buf := NewBuffer(10)
	buf.Emit(RewardsMemberAdded{Member: [20]byte{1}})
	buf.Emit(RewardsPointsAwarded{Amount: 3})
	buf.Emit(RewardsMemberRemoved{Member: [20]byte{1}})

	recs := buf.Since(0)
	if len(recs) != 3 {
		t.Fatalf("expected 3 events, got %d", len(recs))
	}
	for i, rec := range recs {
		if rec.Sequence != uint64(i+1) {
			t.Fatalf("expected sequence %d, got %d", i+1, rec.Sequence)
		}
	}
	if recs[1].Event.EventType() != TypeRewardsPointsAwarded {
		t.Fatalf("unexpected event order")
	}
}

func TestBufferSince(t *testing.T) {
	buf := NewBuffer(10)
	for i := 0; i < 5; i++ {
		buf.Emit(RewardsPointsAwarded{Amount: uint64(i)})
	}
	recs := buf.Since(3)
	if len(recs) != 2 {
		t.Fatalf("expected 2 events after sequence 3, got %d", len(recs))
	}
	if recs[0].Sequence != 4 {
		t.Fatalf("expected first sequence 4, got %d", recs[0].Sequence)
	}
}

func TestBufferDropsOldest(t *testing.T) {
	buf := NewBuffer(3)
	for i := 0; i < 5; i++ {
		buf.Emit(RewardsPointsAwarded{Amount: uint64(i)})
	}
	recs := buf.Since(0)
	if len(recs) != 3 {
		t.Fatalf("expected capacity 3, got %d", len(recs))
	}
	if recs[0].Sequence != 3 {
		t.Fatalf("expected oldest retained sequence 3, got %d", recs[0].Sequence)
	}
}
