package admin

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/bus"
	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/client"
	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/dispatch"
)

type idleTarget struct{}

func (idleTarget) Active() bool   { return true }
func (idleTarget) Jump()          {}
func (idleTarget) Slide()         {}
func (idleTarget) ChangeLane(int) {}

func newTestServer(t *testing.T) (*Server, *client.Client, string) {
	t.Helper()
	b := bus.New(nil)
	d := dispatch.New(idleTarget{}, b, nil, 0.6, 300*time.Millisecond)
	c := client.New(client.Options{
		URL:           "ws://127.0.0.1:8765/gestures",
		AutoReconnect: true,
		FastMode:      true,
	}, d, b)

	socket := filepath.Join(t.TempDir(), "gestured.sock")
	srv, err := Listen(socket, c, nil)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv, c, socket
}

func TestSetThreshold(t *testing.T) {
	_, c, socket := newTestServer(t)

	if _, err := Send(socket, Command{Type: "set_threshold", Value: 0.8}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := c.Dispatcher().Threshold(); got != 0.8 {
		t.Fatalf("threshold = %v, want 0.8", got)
	}

	if _, err := Send(socket, Command{Type: "set_threshold", Value: 1.5}); err == nil {
		t.Fatal("expected error for out-of-range threshold")
	}
}

func TestSetCooldown(t *testing.T) {
	_, c, socket := newTestServer(t)

	if _, err := Send(socket, Command{Type: "set_cooldown", Value: 0.45}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := c.Dispatcher().Cooldown(); got != 450*time.Millisecond {
		t.Fatalf("cooldown = %v, want 450ms", got)
	}
}

func TestSetFastModeAndURL(t *testing.T) {
	_, c, socket := newTestServer(t)

	if _, err := Send(socket, Command{Type: "set_fast_mode", Enabled: false}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if c.FastMode() {
		t.Fatal("fast mode still enabled")
	}

	if _, err := Send(socket, Command{Type: "set_url", URL: "ws://detector.local:9000"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := c.ServerURL(); got != "ws://detector.local:9000" {
		t.Fatalf("url = %q", got)
	}
}

func TestStatus(t *testing.T) {
	_, _, socket := newTestServer(t)

	resp, err := Send(socket, Command{Type: "status"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if resp.State != "disconnected" {
		t.Errorf("state = %q, want disconnected", resp.State)
	}
	if resp.Threshold != 0.6 {
		t.Errorf("threshold = %v, want 0.6", resp.Threshold)
	}
	if resp.FastMode == nil || !*resp.FastMode {
		t.Error("fast_mode missing or false")
	}
}

func TestUnknownCommandRejected(t *testing.T) {
	_, _, socket := newTestServer(t)
	if _, err := Send(socket, Command{Type: "reboot"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
