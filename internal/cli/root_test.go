package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"tokens"},
		{"quote"},
		{"create", "btc-to-stablecoin"},
		{"create", "stablecoin-to-btc"},
		{"status"},
		{"pending"},
		{"history"},
		{"sync"},
		{"claim"},
		{"refund"},
		{"calldata"},
		{"wait-funds"},
	} {
		cmd, rest, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestJSONFlagIsGlobal(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"status"})
	require.NoError(t, err)
	assert.NotNil(t, cmd.InheritedFlags().Lookup("json"))
}

func TestCentered(t *testing.T) {
	assert.Equal(t, "  ab", centered("ab", 6))
	assert.Equal(t, "abcdef", centered("abcdef", 4))
}

func TestVerboseFlagDescribesStderr(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	assert.Contains(t, flag.Usage, "stderr")
}
