// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swift-nav/endpoint-router/internal/config"
)

func TestExtractPrefixTableDedupesAcrossRules(t *testing.T) {
	port := &config.Port{
		Name: "P",
		Rules: []config.ForwardingRule{
			{Filters: []config.Filter{{Action: config.ActionAccept, Prefix: []byte{1, 2}}}},
			{Filters: []config.Filter{{Action: config.ActionReject, Prefix: []byte{1, 2}}}},
			{Filters: []config.Filter{{Action: config.ActionAccept, Prefix: []byte{3, 4}}}},
		},
	}

	table, err := ExtractPrefixTable(port)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len)
	require.Len(t, table.Prefixes, 2)
	require.Equal(t, []byte{1, 2}, table.Prefixes[0])
	require.Equal(t, []byte{3, 4}, table.Prefixes[1])
}

func TestExtractPrefixTableRejectsMismatchedLengths(t *testing.T) {
	port := &config.Port{
		Name: "P",
		Rules: []config.ForwardingRule{
			{Filters: []config.Filter{{Action: config.ActionAccept, Prefix: []byte{1, 2}}}},
			{Filters: []config.Filter{{Action: config.ActionAccept, Prefix: []byte{1, 2, 3}}}},
		},
	}

	_, err := ExtractPrefixTable(port)
	require.Error(t, err)
}

func TestExtractPrefixTableRejectsOverLongPrefix(t *testing.T) {
	port := &config.Port{
		Name: "P",
		Rules: []config.ForwardingRule{
			{Filters: []config.Filter{{Action: config.ActionAccept, Prefix: make([]byte, MaxPrefixLen+1)}}},
		},
	}

	_, err := ExtractPrefixTable(port)
	require.Error(t, err)
}

func TestExtractPrefixTableEmptyWhenNoNonEmptyPrefixes(t *testing.T) {
	port := &config.Port{
		Name: "P",
		Rules: []config.ForwardingRule{
			{Filters: []config.Filter{{Action: config.ActionAccept, Prefix: nil}}},
		},
	}

	table, err := ExtractPrefixTable(port)
	require.NoError(t, err)
	require.Equal(t, 0, table.Len)
	require.Nil(t, table.Prefixes)
}
