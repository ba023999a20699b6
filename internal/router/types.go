// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package router builds and runs the per-port dispatch cache that
// turns a parsed configuration into a live message bus: extracting
// each port's deduped filter-prefix set, building a minimal perfect
// hash over it, replaying rule matching into per-slot destination
// lists, and driving the per-wakeup read/frame/forward cycle.
package router

import (
	"github.com/swift-nav/endpoint-router/internal/endpoint"
	"github.com/swift-nav/endpoint-router/internal/router/framer"
	"github.com/swift-nav/endpoint-router/internal/router/mph"
)

// MaxPrefixLen bounds how many leading bytes of a message a filter may
// match on. All non-empty prefixes on a single port must share one
// length, no greater than this.
const MaxPrefixLen = 16

// RulePrefixTable is the deduped, sorted set of non-empty filter
// prefixes collected from one port's rules, all of equal length Len.
type RulePrefixTable struct {
	Len      int
	Prefixes [][]byte
}

// CachedDestination names a publisher for logging/metrics purposes
// alongside the handle dispatch actually writes to.
type CachedDestination struct {
	Name string
	Pub  endpoint.Publisher
}

// CachedPortSlot holds, for one MPH slot, the prefix that produced it
// and the destinations a message with that exact prefix is forwarded
// to.
type CachedPortSlot struct {
	Prefix       []byte
	Destinations []CachedDestination
}

// RuleCache is the immutable, read-only dispatch structure built once
// per port after binding. The dispatcher never mutates it.
type RuleCache struct {
	PortName string

	RuleCount int

	Prefixes RulePrefixTable
	MPH      *mph.Table // nil iff Prefixes.Len == 0 (no non-empty prefixes)
	Slots    []CachedPortSlot

	DefaultAccept []CachedDestination
	SkipFramer    []CachedDestination

	NoFramerCount int // rules whose skip_framer is true

	Framer framer.Framer // nil if this port has no framer configured
}
