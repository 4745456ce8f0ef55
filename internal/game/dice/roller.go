package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged draws.
// Every draw is logged at debug level with its label, bounds, and result.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Between draws an int in [lo, hi] and logs it.
//
// Precondition: lo <= hi.
// Postcondition: lo <= result <= hi.
func (r *Roller) Between(label string, lo, hi int) int {
	v := IntBetween(r.src, lo, hi)
	r.logger.Debug("dice draw",
		zap.String("label", label),
		zap.Int("lo", lo),
		zap.Int("hi", hi),
		zap.Int("result", v),
	)
	return v
}

// Uniform draws a float in [lo, hi) and logs it.
//
// Precondition: lo < hi.
// Postcondition: lo <= result < hi.
func (r *Roller) Uniform(label string, lo, hi float64) float64 {
	v := Uniform(r.src, lo, hi)
	r.logger.Debug("dice draw",
		zap.String("label", label),
		zap.Float64("lo", lo),
		zap.Float64("hi", hi),
		zap.Float64("result", v),
	)
	return v
}

// Choose picks one of options uniformly and logs the choice.
//
// Precondition: len(options) > 0.
func (r *Roller) Choose(label string, options ...string) string {
	v := Pick(r.src, options...)
	r.logger.Debug("dice choice",
		zap.String("label", label),
		zap.Strings("options", options),
		zap.String("result", v),
	)
	return v
}
