package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModuleAddress(t *testing.T) {
	treasury := ModuleAddress("treasury")
	require.Len(t, []byte(treasury), AddrSize)

	// deterministic and name-scoped
	require.Equal(t, treasury, ModuleAddress("treasury"))
	require.NotEqual(t, treasury, ModuleAddress("insurance-fund"))
}

func TestZeroAddress(t *testing.T) {
	zero := ZeroAddress()
	require.Len(t, []byte(zero), AddrSize)
	require.True(t, zero.IsZero())
	require.False(t, RandAddress().IsZero())
}

func TestHexToAddress(t *testing.T) {
	addr := RandAddress()

	parsed, err := HexToAddress(addr.String())
	require.NoError(t, err)
	require.Equal(t, addr, parsed)

	parsed, err = HexToAddress("0x" + addr.String())
	require.NoError(t, err)
	require.Equal(t, addr, parsed)

	_, err = HexToAddress("abcd")
	require.Error(t, err)
}
