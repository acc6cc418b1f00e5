// Package client owns the connection to the gesture detector and the
// consumer-side tick loop. The websocket read pump runs on its own
// goroutine and hands raw payloads to an inbox the tick loop swaps out;
// decode, smoothing and dispatch all happen on the tick loop.
package client

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/bus"
	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/dispatch"
	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/queue"
	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/wire"
)

// State is the connection lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Options configures a Client.
type Options struct {
	URL             string
	ReconnectDelay  time.Duration
	AutoReconnect   bool
	FastMode        bool
	InputDelay      time.Duration
	QueueCapacity   int
	MaxDrainPerTick int
	Transport       Transport
	Logger          *slog.Logger
}

// Client is the gesture streaming client: connection state machine,
// reconnect timer, inbox, smoothing queue and dispatch wiring.
type Client struct {
	mu                sync.Mutex
	state             State
	conn              Conn
	gen               uint64 // bumped on every connect/close; stale outcomes check it
	url               string
	reconnectDelay    time.Duration
	autoReconnect     bool
	suppressReconnect bool // set by explicit close, never cleared
	retryTimer        *time.Timer
	fastMode          bool
	inputDelay        time.Duration
	maxDrain          int

	inboxMu sync.Mutex
	inbox   [][]byte

	queue      *queue.Queue
	dispatcher *dispatch.Dispatcher
	bus        *bus.Bus
	transport  Transport
	logger     *slog.Logger
}

// New creates a client. Connect must be called separately.
func New(opts Options, d *dispatch.Dispatcher, b *bus.Bus) *Client {
	if opts.Transport == nil {
		opts.Transport = WebsocketTransport{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 3 * time.Second
	}
	if opts.QueueCapacity <= 0 {
		opts.QueueCapacity = 10
	}
	if opts.MaxDrainPerTick <= 0 {
		opts.MaxDrainPerTick = 5
	}
	return &Client{
		url:            opts.URL,
		reconnectDelay: opts.ReconnectDelay,
		autoReconnect:  opts.AutoReconnect,
		fastMode:       opts.FastMode,
		inputDelay:     opts.InputDelay,
		maxDrain:       opts.MaxDrainPerTick,
		queue:          queue.New(opts.QueueCapacity),
		dispatcher:     d,
		bus:            b,
		transport:      opts.Transport,
		logger:         opts.Logger,
	}
}

// Connect starts an asynchronous connection attempt. No-op when already
// connecting or connected. At most one attempt is outstanding at a time.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateConnected {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.gen++
	gen := c.gen
	url := c.url
	c.mu.Unlock()

	c.logger.Info("connecting", "url", url)
	go c.dial(gen, url)
}

func (c *Client) dial(gen uint64, url string) {
	conn, err := c.transport.Dial(url)

	c.mu.Lock()
	if gen != c.gen || c.state != StateConnecting {
		// State moved on while the dial was in flight; the outcome is stale.
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}

	if err != nil {
		c.state = StateDisconnected
		c.scheduleRetryLocked()
		c.mu.Unlock()
		c.logger.Warn("connect failed", "url", url, "error", err)
		return
	}

	c.conn = conn
	c.state = StateConnected
	c.mu.Unlock()

	c.logger.Info("connected", "url", url)
	c.bus.PublishStatus(true)
	go c.readLoop(conn, gen)
}

// readLoop is the transport-side producer. It only appends to the inbox;
// everything else happens on the tick loop.
func (c *Client) readLoop(conn Conn, gen uint64) {
	for {
		payload, err := conn.ReadMessage()
		if err != nil {
			c.handleReadError(gen, err)
			return
		}
		c.inboxMu.Lock()
		c.inbox = append(c.inbox, payload)
		c.inboxMu.Unlock()
	}
}

func (c *Client) handleReadError(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen {
		// Close already tore this connection down.
		c.mu.Unlock()
		return
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.state = StateDisconnected
	if !errors.Is(err, ErrNormalClosure) {
		c.scheduleRetryLocked()
	}
	c.mu.Unlock()

	c.logger.Warn("connection lost", "error", err)
	c.bus.PublishStatus(false)
}

// scheduleRetryLocked arms the fixed-delay reconnect timer. The flag is
// re-checked at fire time so an explicit close in between aborts the
// attempt. Caller holds c.mu.
func (c *Client) scheduleRetryLocked() {
	if !c.autoReconnect || c.suppressReconnect {
		return
	}
	if c.retryTimer != nil {
		c.retryTimer.Stop()
	}
	delay := c.reconnectDelay
	c.retryTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		ok := c.autoReconnect && !c.suppressReconnect && c.state == StateDisconnected
		c.mu.Unlock()
		if ok {
			c.Connect()
		}
	})
	c.logger.Info("reconnect scheduled", "delay", delay)
}

// Close tears the connection down. An explicit close also suppresses all
// future reconnect attempts; that is the only way to stop them.
func (c *Client) Close(explicit bool) {
	c.mu.Lock()
	if explicit {
		c.suppressReconnect = true
	}
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	if c.state == StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.state = StateClosing
	c.gen++
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	c.logger.Info("closed", "explicit", explicit)
	c.bus.PublishStatus(false)
}

// Pause drops the connection without suppressing reconnects, e.g. when the
// host application loses foreground. Treated like a network drop.
func (c *Client) Pause() {
	c.Close(false)
}

// Resume re-establishes the connection after a Pause if reconnection is
// still allowed.
func (c *Client) Resume() {
	c.mu.Lock()
	ok := c.autoReconnect && !c.suppressReconnect
	c.mu.Unlock()
	if ok {
		c.Connect()
	}
}

// Tick drains the inbox and the smoothing queue. The host invokes it once
// per frame or step; nothing in it blocks.
func (c *Client) Tick() {
	c.inboxMu.Lock()
	pending := c.inbox
	c.inbox = nil
	c.inboxMu.Unlock()

	now := time.Now()
	fast := c.FastMode()

	for _, raw := range pending {
		msg, err := wire.Decode(raw)
		if err != nil {
			// Single message discarded; never fatal to the loop.
			c.logger.Debug("message discarded", "error", err)
			continue
		}
		switch msg.Kind {
		case wire.KindGesture:
			if fast {
				c.dispatcher.Dispatch(msg.Event)
			} else if c.queue.Push(msg.Event, now) {
				c.logger.Debug("smoothing queue full, oldest entry dropped")
			}
		case wire.KindConnected:
			c.logger.Debug("server acknowledged connection")
		case wire.KindPong:
			c.logger.Debug("pong")
		default:
			c.logger.Debug("ignoring message", "type", msg.Type)
		}
	}

	c.mu.Lock()
	delay := c.inputDelay
	drainMax := c.maxDrain
	c.mu.Unlock()
	for _, ev := range c.queue.PopReady(now, delay, drainMax) {
		c.dispatcher.Dispatch(ev)
	}
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ServerURL returns the configured endpoint.
func (c *Client) ServerURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.url
}

// SetServerURL changes the endpoint; takes effect on the next dial.
func (c *Client) SetServerURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = u
}

// FastMode reports whether events bypass the smoothing queue.
func (c *Client) FastMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fastMode
}

// SetFastMode toggles the smoothing queue bypass. Entries already queued
// keep draining on subsequent ticks.
func (c *Client) SetFastMode(fast bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fastMode = fast
}

// ClearQueue discards all pending smoothing entries without dispatching.
func (c *Client) ClearQueue() {
	c.queue.Clear()
}

// QueueLen reports the number of pending smoothing entries.
func (c *Client) QueueLen() int {
	return c.queue.Len()
}

// Dispatcher exposes the dispatcher for runtime administration.
func (c *Client) Dispatcher() *dispatch.Dispatcher {
	return c.dispatcher
}

// injectRaw feeds a payload straight into the inbox. Test hook.
func (c *Client) injectRaw(raw []byte) {
	c.inboxMu.Lock()
	c.inbox = append(c.inbox, raw)
	c.inboxMu.Unlock()
}
