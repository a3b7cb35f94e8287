package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/modules/sales/models"
)

var ErrInvalidBands = errors.New("invalid error margins")

// Classify returns the index of the band x falls into.
//
// Band i covers (bands[i+1].Max, bands[i].Max]; the band after the last one
// is -Inf. Values above the first band's Max match nothing, so a list only
// covers every real value when its first Max is +Inf. NaN matches nothing.
func Classify(bands models.Bands, x float64) (int, bool) {
	if math.IsNaN(x) {
		return -1, false
	}

	for i := range bands {
		lower := math.Inf(-1)
		if i+1 < len(bands) {
			lower = bands[i+1].Max
		}
		if x <= bands[i].Max && x > lower {
			return i, true
		}
	}
	return -1, false
}

// ValidateBands checks that bands are identified and strictly descending
func ValidateBands(bands models.Bands) error {
	seen := make(map[string]bool, len(bands))
	for i, band := range bands {
		if band.ID == "" {
			return fmt.Errorf("%w: band %d has no id", ErrInvalidBands, i)
		}
		if seen[band.ID] {
			return fmt.Errorf("%w: duplicate band id %q", ErrInvalidBands, band.ID)
		}
		seen[band.ID] = true

		if math.IsNaN(band.Max) {
			return fmt.Errorf("%w: band %q has no numeric max", ErrInvalidBands, band.ID)
		}
		if i > 0 && !(band.Max < bands[i-1].Max) {
			if math.IsInf(band.Max, -1) && math.IsInf(bands[i-1].Max, -1) {
				return fmt.Errorf("%w: only the last band may be unbounded below", ErrInvalidBands)
			}
			return fmt.Errorf("%w: band %q max %v must be lower than %q max %v",
				ErrInvalidBands, band.ID, band.Max, bands[i-1].ID, bands[i-1].Max)
		}
	}
	return nil
}
