package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-tools/walletcore/internal/domain"
	"github.com/iota-tools/walletcore/internal/walleterr"
)

func TestParseFilter_AcceptedTokens(t *testing.T) {
	cases := map[string]domain.TransactionFilter{
		"":    domain.FilterAll,
		"all": domain.FilterAll,
		"ALL": domain.FilterAll,
		"in":  domain.FilterIn,
		"In":  domain.FilterIn,
		"out": domain.FilterOut,
		"OUT": domain.FilterOut,
	}
	for input, want := range cases {
		got, err := domain.ParseFilter(input)
		require.NoError(t, err, "input %q", input)
		require.Equal(t, want, got, "input %q", input)
	}
}

func TestParseFilter_UnknownToken_IsClassifiedInput(t *testing.T) {
	_, err := domain.ParseFilter("sideways")
	require.Error(t, err)
	require.True(t, walleterr.Is(err, walleterr.Input))
	require.Contains(t, err.Error(), "Unknown transaction filter: 'sideways'")
}
