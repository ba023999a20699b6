// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package config

import "fmt"

// resolve back-patches every rule's DstPortName into a DstPort pointer
// by case-insensitive lookup against cfg.Ports. It never mutates the
// graph again after this pass completes.
//
// resolve appends to errs rather than returning early so that a single
// Load call reports every unresolved reference at once, not just the
// first.
func resolve(cfg *RouterConfig, errs *ValidationErrors) error {
	for i := range cfg.Ports {
		port := &cfg.Ports[i]
		for j := range port.Rules {
			rule := &port.Rules[j]
			dst := cfg.PortByName(rule.DstPortName)
			if dst == nil {
				*errs = append(*errs, ValidationError{
					Field:   fmt.Sprintf("ports[%d].forwarding_rules[%d].dst_port", i, j),
					Message: fmt.Sprintf("references undefined port %q", rule.DstPortName),
				})
				continue
			}
			rule.DstPort = dst
		}
	}
	return nil
}
