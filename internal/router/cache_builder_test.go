// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swift-nav/endpoint-router/internal/config"
	"github.com/swift-nav/endpoint-router/internal/endpoint"
)

func twoPortConfig() *config.RouterConfig {
	cfg, err := config.Parse([]byte(`
name: basic
ports:
  - name: SRC
    metric: src
    pub_addr: SRC_PUB
    sub_addr: SRC_SUB
    forwarding_rules:
      - dst_port: DST
        filters:
          - action: ACCEPT
            prefix: [1, 2]
  - name: DST
    metric: dst
    pub_addr: DST_PUB
    sub_addr: DST_SUB
`))
	if err != nil {
		panic(err)
	}
	return cfg
}

func TestBuildCacheBasicTwoPortRoute(t *testing.T) {
	cfg := twoPortConfig()
	pubs := map[string]endpoint.Publisher{
		"DST": endpoint.NewMemoryFactory().Endpoint("DST_PUB"),
	}

	cache, err := BuildCache(&cfg.Ports[0], pubs, nil)
	require.NoError(t, err)
	require.Equal(t, 2, cache.Prefixes.Len)
	require.Len(t, cache.Slots, 1)

	dests := Forward(cache, []byte{1, 2, 9, 9})
	require.Len(t, dests, 1)
	require.Equal(t, "DST", dests[0].Name)
}

func TestBuildCacheMissingPrefixFallsThroughToDefaultAccept(t *testing.T) {
	cfg := twoPortConfig()
	// append a catch-all ACCEPT; the rule's last filter stays ACCEPT, so
	// DST is in default_accept and the fallthrough has somewhere to go
	cfg.Ports[0].Rules[0].Filters = append(cfg.Ports[0].Rules[0].Filters, config.Filter{Action: config.ActionAccept})
	pubs := map[string]endpoint.Publisher{
		"DST": endpoint.NewMemoryFactory().Endpoint("DST_PUB"),
	}

	cache, err := BuildCache(&cfg.Ports[0], pubs, nil)
	require.NoError(t, err)

	dests := Forward(cache, []byte{9, 9, 9, 9})
	require.Len(t, dests, 1)
	require.Equal(t, "DST", dests[0].Name)
}

func TestBuildCacheShortMessageFallsThroughToDefaultAccept(t *testing.T) {
	cfg := twoPortConfig()
	pubs := map[string]endpoint.Publisher{
		"DST": endpoint.NewMemoryFactory().Endpoint("DST_PUB"),
	}

	cache, err := BuildCache(&cfg.Ports[0], pubs, nil)
	require.NoError(t, err)

	// message shorter than the 2-byte prefix; the rule's last (and only)
	// filter is ACCEPT, so it is default-accept and DST receives it.
	dests := Forward(cache, []byte{1})
	require.Len(t, dests, 1)
	require.Equal(t, "DST", dests[0].Name)
}

func TestBuildCacheNoRulesYieldsEmptyCache(t *testing.T) {
	cfg := twoPortConfig()
	cache, err := BuildCache(&cfg.Ports[1], nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, cache.Prefixes.Len)
	require.Nil(t, cache.MPH)
	require.Empty(t, cache.DefaultAccept)
}
