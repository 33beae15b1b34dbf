package matching

import (
	"errors"
	"fmt"

	"github.com/productPach/tutorio-backend-sub000/internal/database/types"
)

// ErrUnknownPriceTier is returned when an order carries a price tier outside
// the known ordinals. This is a configuration error, never a silent default.
var ErrUnknownPriceTier = errors.New("unknown price tier")

// PriceBand is the half-open cost interval [Min, Max) implied by an order's
// price tier. Unbounded reports whether the band has no upper limit.
type PriceBand struct {
	Min       int
	Max       int
	Unbounded bool
}

// BandForTier translates a price tier ordinal into its cost band.
func BandForTier(tier int) (PriceBand, error) {
	switch tier {
	case 1:
		return PriceBand{Min: 0, Max: 1000}, nil
	case 2:
		return PriceBand{Min: 1000, Max: 1500}, nil
	case 3:
		return PriceBand{Min: 1500, Unbounded: true}, nil
	default:
		return PriceBand{}, fmt.Errorf("%w: %d", ErrUnknownPriceTier, tier)
	}
}

// Contains reports whether the given amount falls inside the band.
func (b PriceBand) Contains(amount int) bool {
	if amount < b.Min {
		return false
	}

	return b.Unbounded || amount < b.Max
}

// PassesPriceBand applies the price-band refinement to one candidate's price
// rows for the matched subject. A price declared in a requested format must
// fall in the band; when the tutor has subject prices only in other formats,
// any of them in the band suffices; a tutor with no subject prices at all
// passes unconditionally, since missing pricing data must not exclude them.
func PassesPriceBand(prices []*types.TutorPrice, formats FormatSet, band PriceBand) bool {
	var (
		sawRequested    bool
		requestedInBand bool
		sawAny          bool
		anyInBand       bool
	)

	for _, price := range prices {
		if price.Amount == nil {
			continue
		}

		sawAny = true
		inBand := band.Contains(*price.Amount)

		if inBand {
			anyInBand = true
		}

		if formats.Contains(price.Format) {
			sawRequested = true

			if inBand {
				requestedInBand = true
			}
		}
	}

	if !sawAny {
		return true
	}

	if sawRequested {
		return requestedInBand
	}

	return anyInBand
}
