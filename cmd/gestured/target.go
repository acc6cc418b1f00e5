package main

import (
	"encoding/json"
	"io"
	"sync"
)

// actionWriter emits one line-delimited JSON object per executed action on
// the given writer, for the host process to consume. It is the production
// dispatch.Target.
type actionWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

type actionLine struct {
	Action    string `json:"action"`
	Direction int    `json:"direction,omitempty"`
}

func newActionWriter(w io.Writer) *actionWriter {
	return &actionWriter{enc: json.NewEncoder(w)}
}

func (a *actionWriter) Active() bool { return true }

func (a *actionWriter) Jump() {
	a.emit(actionLine{Action: "jump"})
}

func (a *actionWriter) Slide() {
	a.emit(actionLine{Action: "slide"})
}

func (a *actionWriter) ChangeLane(direction int) {
	a.emit(actionLine{Action: "change_lane", Direction: direction})
}

func (a *actionWriter) emit(line actionLine) {
	a.mu.Lock()
	defer a.mu.Unlock()
	// An encode failure here means stdout is gone; nothing useful to do.
	_ = a.enc.Encode(line)
}
