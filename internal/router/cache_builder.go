// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package router

import (
	"bytes"
	"fmt"

	"github.com/swift-nav/endpoint-router/internal/config"
	"github.com/swift-nav/endpoint-router/internal/endpoint"
	"github.com/swift-nav/endpoint-router/internal/router/framer"
	"github.com/swift-nav/endpoint-router/internal/router/mph"
)

// BuildCache constructs the immutable RuleCache for port. pubs maps
// every port name in the config to its already-bound Publisher (see
// binder.go); fr is the framer instance for this port, or nil if
// framing is disabled.
func BuildCache(port *config.Port, pubs map[string]endpoint.Publisher, fr framer.Framer) (*RuleCache, error) {
	table, err := ExtractPrefixTable(port)
	if err != nil {
		return nil, err
	}

	skipFramer, defaultAccept, noFramerCount := destinationsForPort(port, pubs)

	cache := &RuleCache{
		PortName:      port.Name,
		RuleCount:     len(port.Rules),
		Prefixes:      table,
		DefaultAccept: defaultAccept,
		SkipFramer:    skipFramer,
		NoFramerCount: noFramerCount,
		Framer:        fr,
	}

	if table.Len == 0 {
		return cache, nil
	}

	m, err := mph.Build(table.Prefixes)
	if err != nil {
		return nil, fmt.Errorf("router: port %q: building dispatch hash: %w", port.Name, err)
	}
	cache.MPH = m

	slots := make([]CachedPortSlot, len(table.Prefixes))
	for i, prefix := range table.Prefixes {
		idx := m.Index(prefix)
		slots[idx] = CachedPortSlot{
			Prefix:       prefix,
			Destinations: replayRules(port, prefix, pubs),
		}
	}
	cache.Slots = slots

	return cache, nil
}

// replayRules runs the per-slot rule replay described for the Dispatch
// Cache Builder: for prefix p, each rule matches iff the first filter
// that is either empty or byte-equal to p has action ACCEPT. Rules are
// walked in declaration order, so a publisher named by more than one
// matching rule appears once per match, in that order.
func replayRules(port *config.Port, prefix []byte, pubs map[string]endpoint.Publisher) []CachedDestination {
	var dests []CachedDestination
	for _, rule := range port.Rules {
		if rule.DstPort == nil {
			continue
		}
		for _, f := range rule.Filters {
			if !f.Empty() && !bytes.Equal(f.Prefix, prefix) {
				continue
			}
			if f.Action == config.ActionAccept {
				dests = append(dests, CachedDestination{
					Name: rule.DstPort.Name,
					Pub:  pubs[rule.DstPort.Name],
				})
			}
			break
		}
	}
	return dests
}
