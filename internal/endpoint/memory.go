// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package endpoint

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryFactory is an in-process Factory backed by channels instead
// of a real transport. It exists for tests, where no real NATS
// connection is wanted.
//
// Addresses are arbitrary names. CreatePublisher, CreateSubscriber and
// Endpoint all return the same MemoryEndpoint for the same address, so
// bytes sent on an address become readable on it, and a test can call
// Endpoint to inspect what was delivered.
type MemoryFactory struct {
	mu   sync.Mutex
	subs map[string]*MemoryEndpoint
}

// NewMemoryFactory returns an empty MemoryFactory.
func NewMemoryFactory() *MemoryFactory {
	return &MemoryFactory{subs: make(map[string]*MemoryEndpoint)}
}

// MemoryEndpoint is both a Publisher and a Subscriber: writes via Send
// become readable via Read, FIFO, whole-message per Send call. It also
// records every call for test assertions.
type MemoryEndpoint struct {
	mu       sync.Mutex
	queue    [][]byte
	closed   bool
	onDrop   func(droppedBytes uint64)
	blocked  bool
	ready    chan struct{}
	Sent     [][]byte
	DropSize int
}

func (f *MemoryFactory) CreatePublisher(_ context.Context, addr string) (Publisher, error) {
	return f.endpointFor(addr), nil
}

func (f *MemoryFactory) CreateSubscriber(_ context.Context, addr string) (Subscriber, error) {
	return f.endpointFor(addr), nil
}

// Endpoint returns (creating if necessary) the shared in-memory
// endpoint for addr, so a test can hold one side while the router
// holds the other.
func (f *MemoryFactory) Endpoint(addr string) *MemoryEndpoint {
	return f.endpointFor(addr)
}

func (f *MemoryFactory) endpointFor(addr string) *MemoryEndpoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	ep, ok := f.subs[addr]
	if !ok {
		ep = &MemoryEndpoint{}
		f.subs[addr] = ep
	}
	return ep
}

// SetBlocked forces subsequent Send calls to report would-block,
// simulating the EAGAIN back-pressure path of a real transport.
func (e *MemoryEndpoint) SetBlocked(blocked bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blocked = blocked
}

func (e *MemoryEndpoint) Send(data []byte) (wouldBlock bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false, fmt.Errorf("endpoint: send on closed endpoint")
	}
	if e.blocked {
		if e.onDrop != nil {
			e.onDrop(uint64(len(data)))
		}
		e.DropSize += len(data)
		return true, nil
	}
	cp := append([]byte(nil), data...)
	e.queue = append(e.queue, cp)
	e.Sent = append(e.Sent, cp)
	e.signalReady()
	return false, nil
}

// Notify returns a channel that fires whenever Send or Feed adds data
// to the queue.
func (e *MemoryEndpoint) Notify() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready == nil {
		e.ready = make(chan struct{}, 1)
	}
	return e.ready
}

func (e *MemoryEndpoint) signalReady() {
	if e.ready == nil {
		return
	}
	select {
	case e.ready <- struct{}{}:
	default:
	}
}

func (e *MemoryEndpoint) SetBackpressureCallback(fn func(droppedBytes uint64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onDrop = fn
}

func (e *MemoryEndpoint) Read(buf []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		if e.closed {
			return 0, io.EOF
		}
		return 0, nil
	}
	msg := e.queue[0]
	n := copy(buf, msg)
	if n < len(msg) {
		e.queue[0] = msg[n:]
	} else {
		e.queue = e.queue[1:]
	}
	return n, nil
}

// Feed injects raw bytes as if a real transport had delivered them,
// for tests driving the subscriber side directly.
func (e *MemoryEndpoint) Feed(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = append(e.queue, append([]byte(nil), data...))
	e.signalReady()
}

func (e *MemoryEndpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}
