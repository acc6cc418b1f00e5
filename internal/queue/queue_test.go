package queue

import (
	"testing"
	"time"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/gesture"
)

func eventAt(i int) gesture.Event {
	return gesture.Event{Category: gesture.Jump, Confidence: 0.9, SourceTime: float64(i)}
}

func TestFIFOPreservationUnderOverflow(t *testing.T) {
	q := New(10)
	base := time.Now()

	// Fifteen distinct arrivals into a ten-slot queue.
	for i := 1; i <= 15; i++ {
		q.Push(eventAt(i), base)
	}
	if q.Len() != 10 {
		t.Fatalf("len = %d, want 10", q.Len())
	}

	got := q.PopReady(base.Add(time.Second), 100*time.Millisecond, 100)
	if len(got) != 10 {
		t.Fatalf("released %d entries, want 10", len(got))
	}
	// Arrivals 1-5 were evicted; 6-15 remain in original relative order.
	for i, ev := range got {
		if want := float64(i + 6); ev.SourceTime != want {
			t.Errorf("entry %d: source time %v, want %v", i, ev.SourceTime, want)
		}
	}
}

func TestPopReadyHonorsDelay(t *testing.T) {
	q := New(10)
	base := time.Now()
	q.Push(eventAt(1), base)
	q.Push(eventAt(2), base.Add(80*time.Millisecond))

	// Only the first entry has aged past the delay.
	got := q.PopReady(base.Add(100*time.Millisecond), 100*time.Millisecond, 100)
	if len(got) != 1 || got[0].SourceTime != 1 {
		t.Fatalf("got %v, want only entry 1", got)
	}
	if q.Len() != 1 {
		t.Fatalf("len = %d, want 1", q.Len())
	}
}

func TestPopReadyBoundedPerTick(t *testing.T) {
	q := New(20)
	base := time.Now()
	for i := 1; i <= 12; i++ {
		q.Push(eventAt(i), base)
	}

	first := q.PopReady(base.Add(time.Second), 0, 5)
	if len(first) != 5 {
		t.Fatalf("first drain released %d, want 5", len(first))
	}
	second := q.PopReady(base.Add(time.Second), 0, 5)
	if len(second) != 5 {
		t.Fatalf("second drain released %d, want 5", len(second))
	}
	if first[0].SourceTime != 1 || second[0].SourceTime != 6 {
		t.Errorf("drain order broken: %v then %v", first[0].SourceTime, second[0].SourceTime)
	}
}

func TestClear(t *testing.T) {
	q := New(5)
	base := time.Now()
	for i := 0; i < 3; i++ {
		q.Push(eventAt(i), base)
	}
	q.Clear()
	if q.Len() != 0 {
		t.Fatalf("len after clear = %d, want 0", q.Len())
	}
	if got := q.PopReady(base.Add(time.Hour), 0, 100); len(got) != 0 {
		t.Fatalf("cleared queue released %d entries", len(got))
	}
}

func TestPushReportsEviction(t *testing.T) {
	q := New(2)
	base := time.Now()
	if q.Push(eventAt(1), base) {
		t.Error("first push reported eviction")
	}
	if q.Push(eventAt(2), base) {
		t.Error("second push reported eviction")
	}
	if !q.Push(eventAt(3), base) {
		t.Error("overflow push did not report eviction")
	}
}
