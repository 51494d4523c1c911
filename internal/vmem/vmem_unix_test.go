//go:build unix

package vmem

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestUnmapTwiceFails(t *testing.T) {
	data, err := Map(4096)
	require.NoError(t, err)
	require.NoError(t, Unmap(data))
	require.ErrorIs(t, Unmap(data), unix.EINVAL)
}

func TestUnmapPartialFails(t *testing.T) {
	data, err := Map(2 * 4096)
	require.NoError(t, err)
	require.Error(t, Unmap(data[:4096:4096]))
	require.NoError(t, Unmap(data))
}
