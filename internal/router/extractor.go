// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package router

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/swift-nav/endpoint-router/internal/config"
	"github.com/swift-nav/endpoint-router/internal/endpoint"
)

// ExtractPrefixTable walks every filter of every rule on port and
// returns the deduped, sorted set of non-empty prefixes, all of equal
// length. A port with no non-empty prefixes gets an empty table (Len
// == 0, no Prefixes): every message on it falls through to
// default_accept.
func ExtractPrefixTable(port *config.Port) (RulePrefixTable, error) {
	var (
		length = -1
		raw    [][]byte
	)

	for _, rule := range port.Rules {
		for _, f := range rule.Filters {
			if f.Empty() {
				continue
			}
			l := len(f.Prefix)
			if length == -1 {
				length = l
			} else if l != length {
				return RulePrefixTable{}, fmt.Errorf(
					"router: port %q: prefix length mismatch: rule uses %d bytes, port already fixed at %d",
					port.Name, l, length)
			}
			if l > MaxPrefixLen {
				return RulePrefixTable{}, fmt.Errorf(
					"router: port %q: prefix length %d exceeds max %d",
					port.Name, l, MaxPrefixLen)
			}
			raw = append(raw, f.Prefix)
		}
	}

	if length == -1 {
		return RulePrefixTable{}, nil
	}

	sort.Slice(raw, func(i, j int) bool { return bytes.Compare(raw[i], raw[j]) < 0 })
	deduped := make([][]byte, 0, len(raw))
	for i, p := range raw {
		if i > 0 && bytes.Equal(p, raw[i-1]) {
			continue
		}
		deduped = append(deduped, p)
	}

	return RulePrefixTable{Len: length, Prefixes: deduped}, nil
}

// destinationsForPort walks port's rules in order and returns, as
// CachedDestinations, every rule's dst_port publisher tagged
// skip_framer, and separately every rule whose last filter is ACCEPT
// (the port's default_accept set). Endpoints must already be bound
// (pubs holds each destination port's publisher) by the time this runs.
func destinationsForPort(port *config.Port, pubs map[string]endpoint.Publisher) (skipFramer, defaultAccept []CachedDestination, noFramerCount int) {
	for _, rule := range port.Rules {
		if rule.DstPort == nil {
			continue
		}
		dst := CachedDestination{Name: rule.DstPort.Name, Pub: pubs[rule.DstPort.Name]}
		if rule.SkipFramer {
			skipFramer = append(skipFramer, dst)
			noFramerCount++
		}
		if rule.LastAccept() {
			defaultAccept = append(defaultAccept, dst)
		}
	}
	return skipFramer, defaultAccept, noFramerCount
}
