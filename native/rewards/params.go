package rewards

// DefaultMaxPointsPerSender is the per-sender point cap applied when the
// engine is constructed without an explicit value.
const DefaultMaxPointsPerSender = 10

// Params carries the configurable knobs of the rewards engine.
type Params struct {
	// MaxPointsPerSender caps how many points one member may award within
	// a single accounting period. Zero means "use the default".
	MaxPointsPerSender uint64
}

// DefaultParams returns the parameter set used when nothing is configured.
func DefaultParams() Params {
	return Params{MaxPointsPerSender: DefaultMaxPointsPerSender}
}

// Normalize fills unset values with their defaults.
func (p Params) Normalize() Params {
	if p.MaxPointsPerSender == 0 {
		p.MaxPointsPerSender = DefaultMaxPointsPerSender
	}
	return p
}
