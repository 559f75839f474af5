package domain_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

func TestNewAllowedDenom(t *testing.T) {
	denom, err := domain.NewAllowedDenom("uusd", "USD", 6)
	require.NoError(t, err)
	require.Equal(t, "uusd", denom.BankDenom)
	require.Equal(t, "USD", denom.DisplayDenom)
	require.Equal(t, uint32(6), denom.Exponent)

	_, err = domain.NewAllowedDenom("", "USD", 6)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = domain.NewAllowedDenom("uusd", "", 6)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAllowedDenomDisplayAmount(t *testing.T) {
	denom, err := domain.NewAllowedDenom("uusd", "USD", 6)
	require.NoError(t, err)

	require.Equal(t, "2.5", denom.DisplayAmount(math.NewInt(2500000)).String())
	require.Equal(t, "0.000001", denom.DisplayAmount(math.NewInt(1)).String())
}
