// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package config loads the router's YAML configuration into an owned,
// cross-referenced graph: a RouterConfig holding an ordered slice of
// Ports, each holding an ordered slice of ForwardingRules, each holding
// an ordered slice of Filters. Destination port references are
// resolved by name in a second pass after the whole document parses;
// see Load.
package config

import "strings"

// FilterAction is the outcome a Filter contributes when it matches.
type FilterAction int

const (
	ActionReject FilterAction = iota
	ActionAccept
)

func (a FilterAction) String() string {
	if a == ActionAccept {
		return "ACCEPT"
	}
	return "REJECT"
}

// Filter is an ordered predicate within a ForwardingRule: it matches
// any message whose leading bytes equal Prefix (an empty Prefix
// matches every message) and contributes Action when it is the first
// matching filter in its rule.
type Filter struct {
	Action FilterAction
	Prefix []byte
}

// Empty reports whether this filter has no prefix and therefore
// matches unconditionally.
func (f Filter) Empty() bool { return len(f.Prefix) == 0 }

// ForwardingRule declares that messages matching its Filters chain
// (in order, first match wins) should be emitted to DstPort.
// DstPort is nil until resolve (resolve.go) has run.
type ForwardingRule struct {
	DstPortName string
	DstPort     *Port
	Filters     []Filter
	SkipFramer  bool
}

// LastAccept reports whether this rule's last filter has action
// ACCEPT, i.e. whether the rule is "default-accept".
func (r *ForwardingRule) LastAccept() bool {
	if len(r.Filters) == 0 {
		return false
	}
	return r.Filters[len(r.Filters)-1].Action == ActionAccept
}

// Port is a named pairing of a publisher address, a subscriber
// address, and the forwarding rules applied to whatever arrives on
// the subscriber. Its publisher and subscriber endpoints are created
// later by the endpoint binder (router.Bind) and are not part of the
// config graph itself.
type Port struct {
	Name    string
	Metric  string
	PubAddr string
	SubAddr string
	Rules   []ForwardingRule

	index int
}

// Index returns the port's position within its RouterConfig.Ports.
func (p *Port) Index() int { return p.index }

// RouterConfig is the fully parsed and resolved configuration graph
// for one router instance.
type RouterConfig struct {
	Name  string
	Ports []Port
}

// PortByName looks up a port by case-insensitive name.
func (c *RouterConfig) PortByName(name string) *Port {
	for i := range c.Ports {
		if strings.EqualFold(c.Ports[i].Name, name) {
			return &c.Ports[i]
		}
	}
	return nil
}
