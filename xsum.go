// Package xsum computes exactly-rounded sums of IEEE-754 binary64 values,
// implementing the "small" and "large" superaccumulators of Radford Neal's
// Fast Exact Summation Using Small and Large Superaccumulators
// (https://arxiv.org/abs/1505.05571).
//
// The sum held by an accumulator is exact: Round returns the true
// mathematical sum of everything added so far, correctly rounded once to the
// nearest binary64 (ties to even). The result is therefore independent of
// the order in which values were added, and of how the inputs were split
// across accumulators that are later merged - properties ordinary
// floating-point addition does not have. Infinities and NaNs propagate per
// IEEE-754: mixing +Inf and -Inf, or adding any NaN, latches a NaN result.
//
// A Small accumulator is a compact fixed-point register, best for short
// batches and for merging; a Large accumulator trades ~41KiB of memory for a
// much cheaper per-add fast path and is the right choice for bulk summation.
// The zero value of either kind is ready to accept values without further
// initialization. Accumulators are single-writer: no internal locking is
// performed, and parallel reductions should sum into disjoint accumulators
// and merge afterwards.
package xsum

import "math"

const (
	mantissaBits = 52
	expBits      = 11
	expBias      = 1023

	expFieldMask = (1 << expBits) - 1
	mantissaMask = (uint64(1) << mantissaBits) - 1
	implicitBit  = uint64(1) << mantissaBits
	signBit      = uint64(1) << 63

	// quietNaN is latched when opposite infinities meet; an input NaN keeps
	// its own payload instead.
	quietNaN = uint64(0x7FF8_0000_0000_0000)
)

// Small-accumulator geometry. Chunks are signed base-2^32 digits held in
// int64 words, so each has 31 bits of headroom for deferred carries. Chunk 0
// bit 0 has weight 2^-1074, the smallest denormal; the topmost meaningful
// input bit (largest normal, mantissa bit 52) lands at position 2097, and
// chunk 66 exists solely to absorb carries and the sign.
const (
	lowBits   = 32
	lowMask   = (uint64(1) << lowBits) - 1
	numChunks = 67

	// chunkZeroOffset is the binary power of chunk 0 bit 0.
	chunkZeroOffset = expBias + mantissaBits - 1 // 1074

	// smallCarryTerms is how many aligned additions fit between carry
	// propagations: every addition deposits pieces below 2^32 and a
	// freshly propagated chunk is below 2^32, so (2^31-1)+1 such terms
	// stay strictly inside int64.
	smallCarryTerms = 1<<31 - 1
)

// Large-accumulator geometry. One bucket per sign+exponent combination;
// the bucket's 64-bit word sums raw 53-bit mantissas, so it must be drained
// into the small accumulator at least every 2^(64-53) additions.
const (
	numBuckets = 1 << (expBits + 1)        // 4096
	bucketArm  = 1 << (63 - mantissaBits)  // 2048 adds per arming
)

// addInfNaN folds a non-finite input (raw bit pattern iv) into the sticky
// state. The first NaN wins and keeps its payload; a lone infinity is
// remembered, and infinities of opposite sign degrade to a quiet NaN.
func (a *Small) addInfNaN(iv uint64) {
	if iv&mantissaMask != 0 {
		if a.nan == 0 {
			a.nan = iv
		}
		return
	}
	switch {
	case a.inf == 0:
		a.inf = iv
	case a.inf != iv:
		if a.nan == 0 {
			a.nan = quietNaN
		}
	}
}

// combineInfNaN merges src's sticky state into a, applying the same IEEE
// rules as scalar adds.
func (a *Small) combineInfNaN(src *Small) {
	if a.nan == 0 {
		a.nan = src.nan
	}
	if src.inf != 0 {
		a.addInfNaN(src.inf)
	}
}

// roundNonFinite returns the latched non-finite result, or ok=false when the
// accumulator is finite.
func (a *Small) roundNonFinite() (float64, bool) {
	if a.nan != 0 {
		return math.Float64frombits(a.nan), true
	}
	if a.inf != 0 {
		return math.Float64frombits(a.inf), true
	}
	return 0, false
}
