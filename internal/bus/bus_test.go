package bus

import (
	"testing"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/gesture"
)

func TestPublishStatusReachesAllSubscribers(t *testing.T) {
	b := New(nil)
	var got1, got2 []bool
	b.SubscribeStatus(func(c bool) { got1 = append(got1, c) })
	b.SubscribeStatus(func(c bool) { got2 = append(got2, c) })

	b.PublishStatus(true)
	b.PublishStatus(false)

	for i, got := range [][]bool{got1, got2} {
		if len(got) != 2 || got[0] != true || got[1] != false {
			t.Errorf("subscriber %d got %v, want [true false]", i+1, got)
		}
	}
}

func TestPanickingSubscriberIsolated(t *testing.T) {
	b := New(nil)
	b.SubscribeExecuted(func(gesture.Category) { panic("observer bug") })
	var got []gesture.Category
	b.SubscribeExecuted(func(c gesture.Category) { got = append(got, c) })

	b.PublishExecuted(gesture.Jump)

	if len(got) != 1 || got[0] != gesture.Jump {
		t.Fatalf("healthy subscriber got %v, want [Jump]", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New(nil)
	var calls int
	id := b.SubscribeStatus(func(bool) { calls++ })

	b.PublishStatus(true)
	b.Unsubscribe(id)
	b.PublishStatus(false)

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	// Unknown id is a no-op.
	b.Unsubscribe("nope")
}

func TestChannelsAreIndependent(t *testing.T) {
	b := New(nil)
	var statusCalls, execCalls int
	b.SubscribeStatus(func(bool) { statusCalls++ })
	b.SubscribeExecuted(func(gesture.Category) { execCalls++ })

	b.PublishExecuted(gesture.Slide)
	if statusCalls != 0 || execCalls != 1 {
		t.Fatalf("status=%d exec=%d, want 0 and 1", statusCalls, execCalls)
	}
}
