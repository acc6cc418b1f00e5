// Package dispatch is the only place a wire-level gesture becomes a
// game-level action. It applies confidence filtering and per-category
// cooldown before invoking the action target.
package dispatch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/bus"
	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/gesture"
)

// Target is the external action collaborator. Calls are synchronous and
// safe to repeat; debouncing is the dispatcher's job, not the target's.
// Active must be checked before any action call.
type Target interface {
	Active() bool
	Jump()
	Slide()
	ChangeLane(direction int)
}

// Outcome classifies the result of evaluating one gesture. Precondition
// misses are defined no-ops, distinct from TargetUnavailable which is a
// reported failure.
type Outcome int

const (
	Executed Outcome = iota
	RejectedUnknown
	RejectedConfidence
	Suppressed
	TargetUnavailable
)

func (o Outcome) String() string {
	switch o {
	case Executed:
		return "executed"
	case RejectedUnknown:
		return "rejected_unknown"
	case RejectedConfidence:
		return "rejected_confidence"
	case Suppressed:
		return "suppressed"
	case TargetUnavailable:
		return "target_unavailable"
	default:
		return "invalid"
	}
}

// Dispatcher holds the cooldown table and the runtime-mutable threshold
// and cooldown settings. Evaluation runs only on the tick loop, but the
// settings may be changed from the admin path, so they sit behind a mutex.
type Dispatcher struct {
	mu        sync.Mutex
	threshold float64
	cooldown  time.Duration

	lastFired map[gesture.Category]time.Time

	target Target
	bus    *bus.Bus
	logger *slog.Logger
	now    func() time.Time
}

// New creates a dispatcher. threshold is clamped to [0,1]. A nil now
// function uses time.Now.
func New(target Target, b *bus.Bus, logger *slog.Logger, threshold float64, cooldown time.Duration) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		threshold: gesture.Clamp01(threshold),
		cooldown:  cooldown,
		lastFired: make(map[gesture.Category]time.Time),
		target:    target,
		bus:       b,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock replaces the time source. Test hook.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now = now
}

// SetThreshold updates the confidence threshold; takes effect on the next
// evaluated event.
func (d *Dispatcher) SetThreshold(t float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.threshold = gesture.Clamp01(t)
}

// Threshold returns the current confidence threshold.
func (d *Dispatcher) Threshold() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.threshold
}

// SetCooldown updates the per-category cooldown window.
func (d *Dispatcher) SetCooldown(c time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cooldown = c
}

// Cooldown returns the current cooldown window.
func (d *Dispatcher) Cooldown() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cooldown
}

// Dispatch evaluates one gesture event. Threshold is checked before the
// cooldown lookup, so a sub-threshold repeat never consumes a cooldown
// slot; a failed target invocation leaves the cooldown table untouched so
// the category stays eligible for retry.
func (d *Dispatcher) Dispatch(ev gesture.Event) Outcome {
	d.mu.Lock()
	threshold := d.threshold
	cooldown := d.cooldown
	now := d.now()
	d.mu.Unlock()

	if ev.Category == gesture.Unknown {
		d.logger.Debug("gesture rejected", "reason", "unknown category", "confidence", ev.Confidence)
		return RejectedUnknown
	}

	if ev.Confidence < threshold {
		d.logger.Debug("gesture rejected",
			"reason", "below threshold",
			"gesture", ev.Category.String(),
			"confidence", ev.Confidence,
			"threshold", threshold)
		return RejectedConfidence
	}

	if last, ok := d.lastFired[ev.Category]; ok && now.Sub(last) < cooldown {
		// Defined no-op, not an error.
		d.logger.Debug("gesture suppressed",
			"gesture", ev.Category.String(),
			"since_last", now.Sub(last))
		return Suppressed
	}

	if d.target == nil || !d.target.Active() {
		// Reported failure; lastFired stays untouched so the same category
		// is immediately eligible once the target comes back.
		d.logger.Warn("action target unavailable", "gesture", ev.Category.String())
		return TargetUnavailable
	}

	switch ev.Category {
	case gesture.Jump:
		d.target.Jump()
	case gesture.Slide:
		d.target.Slide()
	case gesture.LaneLeft:
		d.target.ChangeLane(-1)
	case gesture.LaneRight:
		d.target.ChangeLane(+1)
	}

	d.lastFired[ev.Category] = now
	d.logger.Info("gesture executed", "gesture", ev.Category.String(), "confidence", ev.Confidence)
	if d.bus != nil {
		d.bus.PublishExecuted(ev.Category)
	}
	return Executed
}
