package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/gesture"
)

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	for i, cat := range []gesture.Category{gesture.Jump, gesture.Slide, gesture.LaneLeft} {
		if err := store.Record(ctx, cat, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Newest first.
	if got[0].Category != "lane_left" || got[1].Category != "slide" {
		t.Fatalf("categories = [%s %s], want [lane_left slide]", got[0].Category, got[1].Category)
	}
	if got[0].SessionID != store.SessionID() {
		t.Errorf("session id mismatch")
	}
	if !got[0].FiredAt.Equal(base.Add(2 * time.Second)) {
		t.Errorf("fired_at = %v, want %v", got[0].FiredAt, base.Add(2*time.Second))
	}
}

func TestReopenKeepsRowsNewSession(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Record(ctx, gesture.Jump, time.Now()); err != nil {
		t.Fatalf("record: %v", err)
	}
	firstSession := first.SessionID()
	first.Close()

	second, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	if second.SessionID() == firstSession {
		t.Error("session id reused across opens")
	}
	got, err := second.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 surviving row", len(got))
	}
}
