// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package router

import (
	"time"

	"github.com/swift-nav/endpoint-router/internal/endpoint"
	"github.com/swift-nav/endpoint-router/internal/metrics"
)

// Forward delivers msg to the destination set computed from cache, as
// described for the Dispatcher: a short message or one whose prefix
// misses the cached slot falls through to default_accept; an exact
// slot match delivers to that slot's destinations. A destination whose
// Send reports would-block is skipped, not retried — its own
// back-pressure callback (installed at bind time) accounts the drop.
func Forward(cache *RuleCache, msg []byte) []CachedDestination {
	if len(msg) < cache.Prefixes.Len || cache.MPH == nil {
		return cache.DefaultAccept
	}

	key := msg[:cache.Prefixes.Len]
	i := cache.MPH.Index(key)
	slot := cache.Slots[i]
	if string(slot.Prefix) == string(key) {
		return slot.Destinations
	}
	return cache.DefaultAccept
}

func send(dests []CachedDestination, msg []byte) {
	for _, d := range dests {
		if d.Pub == nil {
			continue
		}
		d.Pub.Send(msg) //nolint:errcheck // not retried; a transport error is neither logged nor counted here, would-block is handled by the backpressure callback
	}
}

// PortRuntime is the live, per-port state the dispatcher drives on
// every wakeup: the immutable cache, the bound subscriber, and a
// reusable scratch read buffer.
type PortRuntime struct {
	Cache *RuleCache
	Sub   endpoint.Subscriber
	Coll  *metrics.Collector

	scratch [65536]byte
}

// NewPortRuntime wraps cache and sub for dispatch.
func NewPortRuntime(cache *RuleCache, sub endpoint.Subscriber, coll *metrics.Collector) *PortRuntime {
	return &PortRuntime{Cache: cache, Sub: sub, Coll: coll}
}

// OnWakeup implements the per-wakeup contract: read what's available,
// optionally de-frame, and forward every resulting message. It is
// called by the event loop's AddReader callback for this port.
func (p *PortRuntime) OnWakeup() {
	start := time.Now()
	n, err := p.Sub.Read(p.scratch[:])
	if err != nil {
		p.Coll.RecordReadError(p.Cache.PortName, err)
		return
	}
	if n == 0 {
		return
	}
	buf := p.scratch[:n]
	msgCount := 0

	if p.Cache.Framer == nil {
		dests := Forward(p.Cache, buf)
		send(dests, buf)
		p.Coll.RecordDispatch(p.Cache.PortName, outcomeFor(dests), n, time.Since(start))
		msgCount = 1
		p.Coll.RecordWakeup(p.Cache.PortName, msgCount)
		return
	}

	for _, d := range p.Cache.SkipFramer {
		if d.Pub == nil {
			continue
		}
		d.Pub.Send(buf) //nolint:errcheck // would-block handled by backpressure callback
	}
	if len(p.Cache.SkipFramer) > 0 {
		p.Coll.RecordSkipFramerBypass(p.Cache.PortName, n)
	}
	if p.Cache.RuleCount == p.Cache.NoFramerCount {
		p.Coll.RecordWakeup(p.Cache.PortName, 0)
		return
	}

	remaining := buf
	for len(remaining) > 0 {
		consumed, frame, ferr := p.Cache.Framer.Process(remaining)
		if ferr != nil {
			p.Coll.RecordFrameError(p.Cache.PortName)
			break // malformed input: discard the rest of this read buffer
		}
		if frame != nil {
			dests := Forward(p.Cache, frame)
			send(dests, frame)
			p.Coll.RecordDispatch(p.Cache.PortName, outcomeFor(dests), len(frame), time.Since(start))
			msgCount++
		}
		p.Coll.RecordFrame(p.Cache.PortName, p.Cache.Framer.LeftoverLen())
		if consumed == 0 {
			break
		}
		remaining = remaining[consumed:]
	}

	p.Coll.RecordWakeup(p.Cache.PortName, msgCount)
}

func outcomeFor(dests []CachedDestination) string {
	if len(dests) == 0 {
		return "dropped_no_match"
	}
	return "forwarded"
}
