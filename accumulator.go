package xsum

import "golang.org/x/xerrors"

// Accumulator is the operation set shared by both superaccumulator kinds.
// The two concrete implementations in this package are *Small and *Large;
// cross-kind merging is done with Combine or the kind-specific AddSmall /
// AddLarge methods.
type Accumulator interface {
	// Add adds a single value to the accumulator, exactly.
	Add(x float64)
	// AddValues adds every element of xs to the accumulator, exactly.
	AddValues(xs []float64)
	// Round returns the accumulated sum, correctly rounded to binary64.
	Round() float64
}

var (
	_ Accumulator = &Small{}
	_ Accumulator = &Large{}
)

// Combine adds the exact value held by src into dst, leaving src unchanged.
// It is the tagged-variant boundary over the four concrete merge pairs and
// returns an error for any accumulator kind not implemented by this package.
func Combine(dst, src Accumulator) error {
	switch d := dst.(type) {
	case *Small:
		switch s := src.(type) {
		case *Small:
			d.AddSmall(s)
		case *Large:
			d.AddLarge(s)
		default:
			return xerrors.Errorf("cannot combine from accumulator of unsupported kind %T", src)
		}
	case *Large:
		switch s := src.(type) {
		case *Small:
			d.AddSmall(s)
		case *Large:
			d.AddLarge(s)
		default:
			return xerrors.Errorf("cannot combine from accumulator of unsupported kind %T", src)
		}
	default:
		return xerrors.Errorf("cannot combine into accumulator of unsupported kind %T", dst)
	}
	return nil
}

// Sum returns the correctly-rounded sum of xs. It is a convenience wrapper
// over a throwaway large accumulator; hold an accumulator directly when
// summing incrementally or merging partial sums.
func Sum(xs []float64) float64 {
	var acc Large
	acc.AddValues(xs)
	return acc.Round()
}
