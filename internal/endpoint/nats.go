// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package endpoint

import (
	"context"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
)

// NATSFactory creates publisher/subscriber endpoints as NATS core
// pub/sub subjects on a shared connection. It is the router's default
// production Factory: a Port's pub_addr/sub_addr are NATS subject
// names (e.g. "sbp.firmware.out").
//
// NATS core pub/sub has no durable queue and no delivery guarantee,
// which matches a fire-and-forget dispatch bus more closely than a
// persistent-queue transport would.
type NATSFactory struct {
	conn *nats.Conn

	// highWaterBytes bounds the connection's outbound buffer before
	// Send starts reporting would-block instead of publishing. NATS
	// core pub/sub has no per-subject flow control signal, so this is
	// the adapter's approximation of transport back-pressure, modeled
	// as an EAGAIN-style non-blocking would-block result.
	highWaterBytes int
}

// NewNATSFactory dials url and returns a Factory bound to that
// connection. highWaterBytes <= 0 uses a conservative 1 MiB default.
func NewNATSFactory(url string, highWaterBytes int) (*NATSFactory, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("endpoint: connecting to nats at %s: %w", url, err)
	}
	if highWaterBytes <= 0 {
		highWaterBytes = 1 << 20
	}
	return &NATSFactory{conn: conn, highWaterBytes: highWaterBytes}, nil
}

func (f *NATSFactory) Close() {
	f.conn.Close()
}

func (f *NATSFactory) CreatePublisher(_ context.Context, addr string) (Publisher, error) {
	return &natsPublisher{conn: f.conn, subject: addr, highWater: f.highWaterBytes}, nil
}

func (f *NATSFactory) CreateSubscriber(_ context.Context, addr string) (Subscriber, error) {
	msgs := make(chan []byte, 1024)
	ready := make(chan struct{}, 1)
	sub, err := f.conn.Subscribe(addr, func(m *nats.Msg) {
		select {
		case msgs <- m.Data:
		default:
			// Slow consumer: the subscriber isn't draining fast enough.
			// Dropping here (rather than blocking the NATS dispatch
			// goroutine) keeps delivery non-blocking end to end.
		}
		select {
		case ready <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("endpoint: subscribing to %s: %w", addr, err)
	}
	return &natsSubscriber{sub: sub, msgs: msgs, ready: ready}, nil
}

type natsPublisher struct {
	conn      *nats.Conn
	subject   string
	highWater int
	onDrop    func(droppedBytes uint64)
}

func (p *natsPublisher) Send(data []byte) (wouldBlock bool, err error) {
	if buffered, _ := p.conn.Buffered(); buffered > p.highWater {
		if p.onDrop != nil {
			p.onDrop(uint64(len(data)))
		}
		return true, nil
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return false, err
	}
	return false, nil
}

func (p *natsPublisher) SetBackpressureCallback(fn func(droppedBytes uint64)) {
	p.onDrop = fn
}

func (p *natsPublisher) Close() error {
	return nil
}

type natsSubscriber struct {
	sub     *nats.Subscription
	msgs    chan []byte
	ready   chan struct{}
	pending []byte
}

func (s *natsSubscriber) Notify() <-chan struct{} { return s.ready }

func (s *natsSubscriber) Read(buf []byte) (int, error) {
	if len(s.pending) == 0 {
		select {
		case m, ok := <-s.msgs:
			if !ok {
				return 0, io.EOF
			}
			s.pending = m
		default:
			return 0, nil
		}
	}
	n := copy(buf, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *natsSubscriber) Close() error {
	return s.sub.Unsubscribe()
}
