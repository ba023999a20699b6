// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// documentSchema mirrors the router YAML document shape. Strings are
// owned copies produced by yaml.Unmarshal; no node in this tree is
// ever mutated after Load returns.
type documentSchema struct {
	Name  string       `yaml:"name"`
	Ports []portSchema `yaml:"ports"`
}

type portSchema struct {
	Name            string         `yaml:"name"`
	Metric          string         `yaml:"metric"`
	PubAddr         string         `yaml:"pub_addr"`
	SubAddr         string         `yaml:"sub_addr"`
	ForwardingRules []ruleSchema   `yaml:"forwarding_rules"`
}

type ruleSchema struct {
	DstPort    string         `yaml:"dst_port"`
	SkipFramer bool           `yaml:"skip_framer"`
	Filters    []filterSchema `yaml:"filters"`
}

type filterSchema struct {
	Action string `yaml:"action"`
	Prefix []int  `yaml:"prefix"`
}

// Load reads path, parses it as a router YAML document, and returns a
// fully resolved RouterConfig. Any parse error, invalid action
// keyword, invalid metric, or unresolved dst_port fails the whole
// load; no partial config is ever returned.
func Load(path string) (*RouterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse behaves like Load but takes the document body directly; it
// exists mainly so tests can exercise the loader without touching
// disk.
func Parse(data []byte) (*RouterConfig, error) {
	var doc documentSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing document: %w", err)
	}

	cfg := &RouterConfig{Name: doc.Name}
	cfg.Ports = make([]Port, len(doc.Ports))

	var errs ValidationErrors
	for i, ps := range doc.Ports {
		if !validMetric(ps.Metric) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("ports[%d].metric", i),
				Message: "metric must be non-empty and not entirely whitespace",
			})
		}

		rules := make([]ForwardingRule, len(ps.ForwardingRules))
		for j, rs := range ps.ForwardingRules {
			filters := make([]Filter, len(rs.Filters))
			for k, fs := range rs.Filters {
				action, err := parseAction(fs.Action)
				if err != nil {
					errs = append(errs, ValidationError{
						Field:   fmt.Sprintf("ports[%d].forwarding_rules[%d].filters[%d].action", i, j, k),
						Message: err.Error(),
					})
				}
				filters[k] = Filter{Action: action, Prefix: intsToBytes(fs.Prefix)}
			}
			rules[j] = ForwardingRule{
				DstPortName: rs.DstPort,
				Filters:     filters,
				SkipFramer:  rs.SkipFramer,
			}
		}

		cfg.Ports[i] = Port{
			Name:    ps.Name,
			Metric:  ps.Metric,
			PubAddr: ps.PubAddr,
			SubAddr: ps.SubAddr,
			Rules:   rules,
			index:   i,
		}
	}

	if err := resolve(cfg, &errs); err != nil {
		return nil, err
	}

	if errs.HasErrors() {
		return nil, fmt.Errorf("config: invalid configuration: %w", errs)
	}

	return cfg, nil
}

func intsToBytes(vals []int) []byte {
	if len(vals) == 0 {
		return nil
	}
	out := make([]byte, len(vals))
	for i, v := range vals {
		out[i] = byte(v)
	}
	return out
}
