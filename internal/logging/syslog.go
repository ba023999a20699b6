// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"fmt"
	"log/syslog"
)

// SyslogConfig configures an optional syslog forwarder for router logs.
type SyslogConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Protocol string // "udp" or "tcp"
	Tag      string
	Facility int // standard syslog facility number, e.g. 1 = user-level
}

// DefaultSyslogConfig returns the forwarder disabled, with Port,
// Protocol and Tag set to the defaults that NewSyslogWriter applies
// when those fields are left zero, and Facility set to 1 (user-level).
// NewSyslogWriter does not default Facility; a zero Facility is used
// as is.
func DefaultSyslogConfig() SyslogConfig {
	return SyslogConfig{
		Enabled:  false,
		Port:     514,
		Protocol: "udp",
		Tag:      "endpoint-router",
		Facility: 1,
	}
}

// NewSyslogWriter dials a syslog writer per cfg, applying defaults for
// any zero-valued field. Host is required.
func NewSyslogWriter(cfg SyslogConfig) (*syslog.Writer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("logging: syslog host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 514
	}
	if cfg.Protocol == "" {
		cfg.Protocol = "udp"
	}
	if cfg.Tag == "" {
		cfg.Tag = "endpoint-router"
	}

	priority := syslog.Priority(cfg.Facility<<3) | syslog.LOG_INFO
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return syslog.Dial(cfg.Protocol, addr, priority, cfg.Tag)
}
