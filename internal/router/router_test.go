// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package router

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/swift-nav/endpoint-router/internal/endpoint"
	"github.com/swift-nav/endpoint-router/internal/logging"
)

// destNames returns the CachedDestination.Name set as a plain string
// slice, order-preserving, for assertions against an expected set.
func destNames(dests []CachedDestination) []string {
	names := make([]string, len(dests))
	for i, d := range dests {
		names[i] = d.Name
	}
	return names
}

func TestRouterNewBuildsFullMultiPortFixture(t *testing.T) {
	mf := endpoint.NewMemoryFactory()
	r, err := New(context.Background(), "testdata/sbp_router_full.yml", Options{
		Name:       "test",
		Factory:    mf,
		Registerer: prometheus.NewRegistry(),
		Logger:     logging.NewStderr("test", false),
	})
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.caches, 8)
	fw := r.caches["SBP_PORT_FIRMWARE"]
	require.Equal(t, 3, fw.Prefixes.Len)
	require.Len(t, fw.Slots, 3)

	// scenario: [0x55, 0xAE, 0x00] -> SETTINGS_DAEMON, INTERNAL only
	dests := Forward(fw, []byte{0x55, 0xAE, 0x00, 0x01})
	require.ElementsMatch(t, []string{"SBP_PORT_SETTINGS_DAEMON", "SBP_PORT_INTERNAL"}, destNames(dests))

	// scenario: [0x55, 0xA5, 0x00] -> SETTINGS_DAEMON, EXTERNAL, INTERNAL
	dests = Forward(fw, []byte{0x55, 0xA5, 0x00, 0x01})
	require.ElementsMatch(t, []string{"SBP_PORT_SETTINGS_DAEMON", "SBP_PORT_EXTERNAL", "SBP_PORT_INTERNAL"}, destNames(dests))

	// scenario: [0x55, 0xAF, 0x00] -> SETTINGS_DAEMON, SETTINGS_CLIENT, EXTERNAL, INTERNAL
	dests = Forward(fw, []byte{0x55, 0xAF, 0x00, 0x01})
	require.ElementsMatch(t,
		[]string{"SBP_PORT_SETTINGS_DAEMON", "SBP_PORT_SETTINGS_CLIENT", "SBP_PORT_EXTERNAL", "SBP_PORT_INTERNAL"},
		destNames(dests))
}

func TestRouterNewEndToEndDeliversThroughOnWakeup(t *testing.T) {
	mf := endpoint.NewMemoryFactory()
	r, err := New(context.Background(), "testdata/sbp_router_full.yml", Options{
		Name:       "test",
		Factory:    mf,
		Registerer: prometheus.NewRegistry(),
		Logger:     logging.NewStderr("test", false),
	})
	require.NoError(t, err)
	defer r.Close()

	srcSub := mf.Endpoint("FIRMWARE_SUB")
	srcSub.Feed([]byte{0x55, 0xAF, 0x00, 0x01})

	r.runtimes["SBP_PORT_FIRMWARE"].OnWakeup()

	require.Len(t, mf.Endpoint("SETTINGS_DAEMON_PUB").Sent, 1)
	require.Len(t, mf.Endpoint("SETTINGS_CLIENT_PUB").Sent, 1)
	require.Len(t, mf.Endpoint("EXTERNAL_PUB").Sent, 1)
	require.Len(t, mf.Endpoint("INTERNAL_PUB").Sent, 1)
	require.Empty(t, mf.Endpoint("FILEIO_FIRMWARE_PUB").Sent)
	require.Empty(t, mf.Endpoint("SKYLARK_PUB").Sent)
	require.Empty(t, mf.Endpoint("NAV_DAEMON_PUB").Sent)
}

func TestRouterNewFailsOnUnresolvedDstPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: broken
ports:
  - name: A
    metric: a
    pub_addr: A_PUB
    sub_addr: A_SUB
    forwarding_rules:
      - dst_port: DOES_NOT_EXIST
        filters:
          - action: ACCEPT
            prefix: []
`), 0o644))

	mf := endpoint.NewMemoryFactory()
	_, err := New(context.Background(), path, Options{
		Name:    "test",
		Factory: mf,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined port")
}
