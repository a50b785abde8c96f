package redirectcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, 8)
		require.True(t, Valid(code), code)
	}
}

func TestGenerate_Distinct(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		code, err := Generate()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	// 32 bits per code: a handful of collisions in 1000 draws would mean a broken source.
	require.GreaterOrEqual(t, len(seen), 998)
}

func TestValid(t *testing.T) {
	require.True(t, Valid("a1b2c3d4"))
	require.False(t, Valid("a1b2c3d"))
	require.False(t, Valid("A1B2C3D4"))
	require.False(t, Valid("a1b2c3dz"))
	require.False(t, Valid(""))
}
