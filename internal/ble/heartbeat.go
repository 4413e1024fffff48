package ble

import (
	"log/slog"
	"sync"
	"time"
)

// HeartbeatOptions configures link supervision once a connection is up.
type HeartbeatOptions struct {
	Interval time.Duration // keepalive ping period
	Timeout  time.Duration // silence after which the link is declared lost
}

// DefaultHeartbeatOptions returns sensible defaults.
func DefaultHeartbeatOptions() HeartbeatOptions {
	return HeartbeatOptions{
		Interval: 2 * time.Second,
		Timeout:  6 * time.Second,
	}
}

// heartbeat pings the peer every interval and calls onLost once if nothing
// has been heard for longer than timeout.
type heartbeat struct {
	opts   HeartbeatOptions
	ping   func() error
	onLost func()
	now    func() time.Time

	mu       sync.Mutex
	lastSeen time.Time
	stopped  bool

	stop chan struct{}
	once sync.Once
}

func newHeartbeat(opts HeartbeatOptions, ping func() error, onLost func()) *heartbeat {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.Timeout <= opts.Interval {
		opts.Timeout = 3 * opts.Interval
	}
	return &heartbeat{
		opts:   opts,
		ping:   ping,
		onLost: onLost,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
}

// Start runs the supervision loop in a goroutine.
func (h *heartbeat) Start() {
	h.Beat()
	go h.loop()
}

// Beat records that the peer is alive.
func (h *heartbeat) Beat() {
	h.mu.Lock()
	h.lastSeen = h.now()
	h.mu.Unlock()
}

// Stop ends supervision without calling onLost. Safe to call more than once.
func (h *heartbeat) Stop() {
	h.once.Do(func() {
		h.mu.Lock()
		h.stopped = true
		h.mu.Unlock()
		close(h.stop)
	})
}

func (h *heartbeat) loop() {
	ticker := time.NewTicker(h.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
		}

		if h.expired() {
			slog.Warn("[BLE] heartbeat lost", "timeout", h.opts.Timeout)
			h.Stop()
			h.onLost()
			return
		}
		if err := h.ping(); err != nil {
			slog.Warn("[BLE] keepalive write failed", "error", err)
		}
	}
}

// expired reports whether the peer has been silent longer than the timeout.
func (h *heartbeat) expired() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	return h.now().Sub(h.lastSeen) > h.opts.Timeout
}
