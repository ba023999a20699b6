// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package config

import (
	"fmt"
	"io"
)

// Dump writes a human-readable rendering of the resolved graph to w,
// used by the router binary's --print flag. Unlike a raw YAML re-dump,
// this shows rule destinations and filter prefixes as they were
// resolved, matching the router_cfg_print behavior of dumping the
// graph rather than the file.
func (c *RouterConfig) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "router %q (%d ports)\n", c.Name, len(c.Ports)); err != nil {
		return err
	}
	for _, port := range c.Ports {
		if _, err := fmt.Fprintf(w, "  port %q metric=%q pub=%s sub=%s\n",
			port.Name, port.Metric, port.PubAddr, port.SubAddr); err != nil {
			return err
		}
		for _, rule := range port.Rules {
			dstName := rule.DstPortName
			if rule.DstPort != nil {
				dstName = rule.DstPort.Name
			}
			if _, err := fmt.Fprintf(w, "    -> %q skip_framer=%v\n", dstName, rule.SkipFramer); err != nil {
				return err
			}
			for _, f := range rule.Filters {
				if _, err := fmt.Fprintf(w, "       %s %s\n", f.Action, formatPrefix(f.Prefix)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func formatPrefix(p []byte) string {
	if len(p) == 0 {
		return "[]"
	}
	out := "["
	for i, b := range p {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("0x%02x", b)
	}
	return out + "]"
}
