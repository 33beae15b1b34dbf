package matching_test

import (
	"testing"

	"github.com/productPach/tutorio-backend-sub000/internal/database/types"
	"github.com/productPach/tutorio-backend-sub000/internal/database/types/enum"
	"github.com/productPach/tutorio-backend-sub000/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v int) *int { return &v }

func TestBandForTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tier     int
		amount   int
		contains bool
	}{
		{name: "tier 1 includes zero", tier: 1, amount: 0, contains: true},
		{name: "tier 1 excludes upper bound", tier: 1, amount: 1000, contains: false},
		{name: "tier 2 includes lower bound", tier: 2, amount: 1000, contains: true},
		{name: "tier 2 includes mid band", tier: 2, amount: 1200, contains: true},
		{name: "tier 2 excludes upper bound", tier: 2, amount: 1500, contains: false},
		{name: "tier 3 includes lower bound", tier: 3, amount: 1500, contains: true},
		{name: "tier 3 is unbounded above", tier: 3, amount: 1_000_000, contains: true},
		{name: "tier 3 excludes below", tier: 3, amount: 1499, contains: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			band, err := matching.BandForTier(tt.tier)
			require.NoError(t, err)
			assert.Equal(t, tt.contains, band.Contains(tt.amount))
		})
	}

	t.Run("unknown tier is a configuration error", func(t *testing.T) {
		t.Parallel()

		_, err := matching.BandForTier(4)
		require.ErrorIs(t, err, matching.ErrUnknownPriceTier)

		_, err = matching.BandForTier(0)
		require.ErrorIs(t, err, matching.ErrUnknownPriceTier)
	})
}

func TestPassesPriceBand(t *testing.T) {
	t.Parallel()

	online := matching.FormatSet{Online: true}
	tier2, err := matching.BandForTier(2)
	require.NoError(t, err)

	t.Run("requested format price in band passes", func(t *testing.T) {
		t.Parallel()

		prices := []*types.TutorPrice{
			{Format: enum.FormatOnline, Amount: amount(1200)},
		}
		assert.True(t, matching.PassesPriceBand(prices, online, tier2))
	})

	t.Run("requested format price out of band fails", func(t *testing.T) {
		t.Parallel()

		// An in-band price in another format must not rescue the tutor once
		// a price exists in the requested format.
		prices := []*types.TutorPrice{
			{Format: enum.FormatOnline, Amount: amount(900)},
			{Format: enum.FormatHome, Amount: amount(1200)},
		}
		assert.False(t, matching.PassesPriceBand(prices, online, tier2))
	})

	t.Run("falls back to any price when requested format absent", func(t *testing.T) {
		t.Parallel()

		prices := []*types.TutorPrice{
			{Format: enum.FormatHome, Amount: amount(1100)},
			{Format: enum.FormatTravel, Amount: amount(2000)},
		}
		assert.True(t, matching.PassesPriceBand(prices, online, tier2))
	})

	t.Run("all fallback prices out of band fails", func(t *testing.T) {
		t.Parallel()

		prices := []*types.TutorPrice{
			{Format: enum.FormatHome, Amount: amount(900)},
		}
		assert.False(t, matching.PassesPriceBand(prices, online, tier2))
	})

	t.Run("no prices passes unconditionally", func(t *testing.T) {
		t.Parallel()

		assert.True(t, matching.PassesPriceBand(nil, online, tier2))
	})

	t.Run("declared zero price is a real price", func(t *testing.T) {
		t.Parallel()

		tier1, err := matching.BandForTier(1)
		require.NoError(t, err)

		prices := []*types.TutorPrice{
			{Format: enum.FormatOnline, Amount: amount(0)},
		}
		assert.True(t, matching.PassesPriceBand(prices, online, tier1))
		assert.False(t, matching.PassesPriceBand(prices, online, tier2))
	})

	t.Run("multiple requested formats pass on any in band", func(t *testing.T) {
		t.Parallel()

		both := matching.FormatSet{Online: true, Travel: true}
		prices := []*types.TutorPrice{
			{Format: enum.FormatOnline, Amount: amount(900)},
			{Format: enum.FormatTravel, Amount: amount(1300)},
		}
		assert.True(t, matching.PassesPriceBand(prices, both, tier2))
	})
}
