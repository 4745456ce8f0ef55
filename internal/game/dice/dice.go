// Package dice provides the randomness abstraction used by the fusion and
// battle resolvers.
package dice

import "math"

// Source is the randomness provider for every draw the engine makes.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// float53 is the number of distinct values Float64 can produce.
const float53 = 1 << 53

// IntBetween returns a uniformly distributed int in the closed range [lo, hi].
//
// Precondition: lo <= hi; src must be non-nil.
// Postcondition: lo <= result <= hi.
func IntBetween(src Source, lo, hi int) int {
	if hi < lo {
		panic("dice: IntBetween called with hi < lo")
	}
	return lo + src.Intn(hi-lo+1)
}

// Float64 returns a uniformly distributed float in [0, 1).
//
// Postcondition: 0 <= result < 1.
func Float64(src Source) float64 {
	return float64(src.Intn(float53)) / float53
}

// Uniform returns a uniformly distributed float in the half-open range [lo, hi).
//
// Precondition: lo < hi.
// Postcondition: lo <= result < hi.
func Uniform(src Source, lo, hi float64) float64 {
	if !(lo < hi) {
		panic("dice: Uniform called with lo >= hi")
	}
	v := lo + Float64(src)*(hi-lo)
	// lo + f*(hi-lo) can round up to hi for f close to 1.
	if v >= hi {
		v = math.Nextafter(hi, lo)
	}
	return v
}

// Pick returns one of options chosen uniformly at random.
//
// Precondition: len(options) > 0.
func Pick[T any](src Source, options ...T) T {
	if len(options) == 0 {
		panic("dice: Pick called with no options")
	}
	return options[src.Intn(len(options))]
}
