// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package endpoint defines the publisher/subscriber contract the
// router dispatches through, and the Factory used to create endpoints
// by address. The concrete transport (NATS core pub/sub, or an
// in-memory double for tests) is an external collaborator — this
// package only pins down the interface the rest of the router depends
// on.
package endpoint

import "context"

// Publisher is the outbound half of a Port. Send is non-blocking:
// back-pressure from the transport is reported via wouldBlock=true,
// never via a retry or a block.
type Publisher interface {
	Send(data []byte) (wouldBlock bool, err error)
	// SetBackpressureCallback installs fn, invoked once per Send that
	// reports wouldBlock=true, with the number of bytes that were
	// dropped. fn must not block.
	SetBackpressureCallback(fn func(droppedBytes uint64))
	Close() error
}

// Subscriber is the inbound half of a Port. Read is non-blocking: it
// returns 0, nil when nothing is currently available rather than
// blocking the single event-loop thread.
type Subscriber interface {
	Read(buf []byte) (n int, err error)
	// Notify returns a channel that receives a value whenever data may
	// have become available to Read. It is the seam loop.AddReader uses
	// to turn the transport's asynchronous delivery into a loop wakeup;
	// a send is best-effort, so a burst of deliveries may coalesce into
	// one wakeup, which is fine since Read drains whatever is queued.
	Notify() <-chan struct{}
	Close() error
}

// Role selects which half of a Port an address is being bound for.
type Role int

const (
	RolePubServer Role = iota
	RoleSubServer
)

// Factory creates publisher/subscriber endpoints bound to an address.
// Production code uses the NATS-backed factory in nats.go; tests
// substitute the in-memory factory in memory.go. This indirection is
// the Go equivalent of a function-pointer endpoint creation, letting
// tests substitute dummy endpoints without touching dispatch logic.
type Factory interface {
	CreatePublisher(ctx context.Context, addr string) (Publisher, error)
	CreateSubscriber(ctx context.Context, addr string) (Subscriber, error)
}
