// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package framer implements the pluggable de-framer: a stateful
// decoder that turns a byte stream into discrete messages, retaining
// partial-message state across calls so a message split across two
// reads is still reconstructed whole.
//
// Real deployments load framers from a shared protocol library named
// by PROTOCOL_LIBRARY_PATH; this module has no dlopen story, so
// framers are registered by name in an in-process Registry instead.
package framer

import "fmt"

// Framer decodes one message at a time out of a byte stream. Process
// is called with some newly read bytes; it returns how many of those
// bytes it consumed and, if a message completed, the message's raw
// bytes (including any wire preamble — dispatch matches on the
// message's own leading bytes, so headers stripped here would break
// prefix matching). consumed is less than len(data) when a message
// completed before the end of data; the caller calls Process again
// with the rest. When data ends mid-message, all of it is consumed
// into the framer's internal buffer and frame is nil. A non-nil error means the current
// input was malformed and the framer has reset its internal state;
// the caller discards the rest of the read buffer and continues the
// loop.
type Framer interface {
	Process(data []byte) (consumed int, frame []byte, err error)
	// LeftoverLen reports how many bytes of a partially-decoded message
	// are currently buffered inside the framer, awaiting more input.
	LeftoverLen() int
}

// Factory constructs a fresh Framer instance (one per port — framer
// state is per-subscriber, never shared).
type Factory func() Framer

// Registry maps protocol names to Framer factories, the in-process
// stand-in for PROTOCOL_LIBRARY_PATH's shared-library plugins.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a Registry pre-seeded with "none" (the identity
// framer) and "sbp" (see sbp.go).
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("none", func() Framer { return &NoneFramer{} })
	r.Register("sbp", func() Framer { return NewSBPFramer() })
	return r
}

// Register installs a named framer factory, overwriting any existing
// registration for that name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Create instantiates a fresh Framer for name.
func (r *Registry) Create(name string) (Framer, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("framer: no protocol registered under name %q", name)
	}
	return f(), nil
}
