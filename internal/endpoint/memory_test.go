// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package endpoint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryEndpointSendThenRead(t *testing.T) {
	f := NewMemoryFactory()
	ep := f.Endpoint("port.a")

	wouldBlock, err := ep.Send([]byte("hello"))
	require.NoError(t, err)
	require.False(t, wouldBlock)

	buf := make([]byte, 16)
	n, err := ep.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf[:n]))
}

func TestMemoryEndpointBlockedReportsWouldBlockAndDrops(t *testing.T) {
	ep := NewMemoryFactory().Endpoint("port.a")

	var dropped uint64
	ep.SetBackpressureCallback(func(n uint64) { dropped = n })
	ep.SetBlocked(true)

	wouldBlock, err := ep.Send([]byte("abc"))
	require.NoError(t, err)
	require.True(t, wouldBlock)
	require.Equal(t, uint64(3), dropped)
	require.Equal(t, 3, ep.DropSize)
}

func TestMemoryEndpointNotifyFiresOnFeed(t *testing.T) {
	ep := NewMemoryFactory().Endpoint("port.a")
	notify := ep.Notify()

	ep.Feed([]byte{1, 2, 3})

	select {
	case <-notify:
	default:
		t.Fatal("expected Notify channel to fire after Feed")
	}
}

func TestMemoryEndpointReadEOFAfterClose(t *testing.T) {
	ep := NewMemoryFactory().Endpoint("port.a")
	require.NoError(t, ep.Close())

	buf := make([]byte, 4)
	_, err := ep.Read(buf)
	require.Error(t, err)
}
