// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package loop implements the single-threaded cooperative event loop:
// every subscriber wakeup, periodic timers, and signal handling
// run as callbacks on one goroutine, so the router core never needs
// locking.
//
// Real transports (the NATS-backed endpoint.Factory) deliver message
// availability asynchronously from their own goroutines; AddReader's
// notify channel is the seam that funnels that asynchronous delivery
// back onto the single loop goroutine before the registered callback
// ever runs.
package loop

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Loop is the event loop. The zero value is not usable; use New.
type Loop struct {
	work chan func()
	stop chan struct{}
}

// New returns an unstarted Loop.
func New() *Loop {
	return &Loop{
		work: make(chan func(), 256),
		stop: make(chan struct{}),
	}
}

// AddReader registers cb to run on the loop goroutine every time
// notify fires. The loop processes whichever notify channels happen
// to be ready in a single select pass; this gives fairness across
// ports without guaranteeing strict round-robin ordering.
func (l *Loop) AddReader(notify <-chan struct{}, cb func()) {
	go func() {
		for {
			select {
			case _, ok := <-notify:
				if !ok {
					return
				}
				select {
				case l.work <- cb:
				case <-l.stop:
					return
				}
			case <-l.stop:
				return
			}
		}
	}()
}

// Timer is a handle returned by AddTimer; Reset restarts its period
// from now.
type Timer struct {
	ticker *time.Ticker
	period time.Duration
}

// Reset restarts the timer's period from the current time.
func (t *Timer) Reset() {
	t.ticker.Reset(t.period)
}

// AddTimer registers cb to run on the loop goroutine every period,
// starting after the first period elapses. The router registers one
// 1 Hz timer that logs a debug heartbeat; no metric is flushed or
// reset by it.
func (l *Loop) AddTimer(period time.Duration, cb func()) *Timer {
	ticker := time.NewTicker(period)
	t := &Timer{ticker: ticker, period: period}
	go func() {
		for {
			select {
			case <-ticker.C:
				select {
				case l.work <- cb:
				case <-l.stop:
					return
				}
			case <-l.stop:
				return
			}
		}
	}()
	return t
}

// Run blocks, executing registered callbacks serially on the calling
// goroutine, until ctx is cancelled, Stop is called, or the process
// receives SIGINT/SIGTERM/SIGQUIT.
func (l *Loop) Run(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	for {
		select {
		case fn := <-l.work:
			fn()
		case <-sigCh:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return nil
		}
	}
}

// Stop ends a running Run call and causes all AddReader/AddTimer
// goroutines to exit.
func (l *Loop) Stop() {
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
}
