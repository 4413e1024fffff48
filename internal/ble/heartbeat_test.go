package ble

import (
	"sync/atomic"
	"testing"
	"time"
)

func fastHeartbeat() HeartbeatOptions {
	return HeartbeatOptions{Interval: 5 * time.Millisecond, Timeout: 20 * time.Millisecond}
}

func TestHeartbeatDeclaresLostAfterSilence(t *testing.T) {
	var pings, lost atomic.Int32
	hb := newHeartbeat(fastHeartbeat(), func() error {
		pings.Add(1)
		return nil
	}, func() {
		lost.Add(1)
	})
	hb.Start()
	defer hb.Stop()

	time.Sleep(150 * time.Millisecond)

	if got := lost.Load(); got != 1 {
		t.Errorf("onLost called %d times, want 1", got)
	}
	if pings.Load() == 0 {
		t.Error("expected keepalive pings before the link was declared lost")
	}
}

func TestHeartbeatStaysAliveWhilePeerAnswers(t *testing.T) {
	var lost atomic.Int32
	var hb *heartbeat
	hb = newHeartbeat(fastHeartbeat(), func() error {
		// Peer answers every ping immediately.
		hb.Beat()
		return nil
	}, func() {
		lost.Add(1)
	})
	hb.Start()

	time.Sleep(100 * time.Millisecond)
	hb.Stop()

	if got := lost.Load(); got != 0 {
		t.Errorf("onLost called %d times, want 0", got)
	}
}

func TestHeartbeatStopSuppressesLost(t *testing.T) {
	var lost atomic.Int32
	hb := newHeartbeat(fastHeartbeat(), func() error { return nil }, func() {
		lost.Add(1)
	})
	hb.Start()
	hb.Stop()
	hb.Stop() // second stop must not panic

	time.Sleep(60 * time.Millisecond)

	if got := lost.Load(); got != 0 {
		t.Errorf("onLost called %d times after Stop, want 0", got)
	}
}

func TestNewHeartbeatNormalisesOptions(t *testing.T) {
	hb := newHeartbeat(HeartbeatOptions{Interval: time.Second, Timeout: time.Second}, nil, nil)
	if hb.opts.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s when not greater than interval", hb.opts.Timeout)
	}

	hb = newHeartbeat(HeartbeatOptions{}, nil, nil)
	if hb.opts.Interval != 2*time.Second {
		t.Errorf("Interval = %v, want 2s default", hb.opts.Interval)
	}
}
