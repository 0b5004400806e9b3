package runner

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var ErrInvalidOptions = errors.New("invalid runner options")

// Kernel is a 3x3x3 weight grid centered on a cell, indexed [x][y][z].
type Kernel [3][3][3]float64

// DefaultTemperatureKernel heats the failed cell most, then its face,
// edge and corner neighbors in decreasing amounts.
var DefaultTemperatureKernel = Kernel{
	{
		{0.125, 0.25, 0.125},
		{0.25, 0.5, 0.25},
		{0.125, 0.25, 0.125},
	},
	{
		{0.25, 0.5, 0.25},
		{0.5, 1, 0.5},
		{0.25, 0.5, 0.25},
	},
	{
		{0.125, 0.25, 0.125},
		{0.25, 0.5, 0.25},
		{0.125, 0.25, 0.125},
	},
}

// Options configures the scheduling and backtracking policy of a Runner.
type Options struct {
	// TemperatureKernel is added to the base temperature around a cell
	// every time it is cleared for being unsolvable.
	TemperatureKernel Kernel
	// CoolOffRate is the temperature lost per tick since a cell was last unsolvable.
	CoolOffRate float64
	// CoolOffFromSetting is the base temperature lost when a cell is set.
	CoolOffFromSetting float64
	// ClearRegionGrowthRate in [0, 1] controls how fast the clear radius
	// grows with temperature. 0 always clears the 3x3x3 neighborhood;
	// 1 grows the radius linearly.
	ClearRegionGrowthRate float64

	// InitialUnwindingCount is how many placements are undone the first
	// time a cell becomes unsolvable.
	InitialUnwindingCount int
	// MaxUnwindingCount switches from undoing placements to clearing regions.
	MaxUnwindingCount int

	PriorityWeightTemperature float64
	PriorityWeightEntropy     float64
	// PriorityWeightRandomness adds uniform jitter in [0, w) to each priority.
	PriorityWeightRandomness float64

	Seed   uint64      // Seed for the random stream (0 = random)
	Logger *zap.Logger // nil means no logging
}

// DefaultOptions returns the standard runner options.
func DefaultOptions() *Options {
	return &Options{
		TemperatureKernel:         DefaultTemperatureKernel,
		CoolOffRate:               0.1,
		CoolOffFromSetting:        0,
		ClearRegionGrowthRate:     0.5,
		InitialUnwindingCount:     4,
		MaxUnwindingCount:         64,
		PriorityWeightTemperature: 0.2,
		PriorityWeightEntropy:     0.8,
		PriorityWeightRandomness:  0,
		Seed:                      0,
		Logger:                    nil,
	}
}

// Validate checks that the options describe a usable policy.
func (o *Options) Validate() error {
	switch {
	case o.CoolOffRate < 0:
		return fmt.Errorf("%w: negative cool-off rate %g", ErrInvalidOptions, o.CoolOffRate)
	case o.CoolOffFromSetting < 0:
		return fmt.Errorf("%w: negative cool-off from setting %g", ErrInvalidOptions, o.CoolOffFromSetting)
	case o.PriorityWeightRandomness < 0:
		return fmt.Errorf("%w: negative randomness weight %g", ErrInvalidOptions, o.PriorityWeightRandomness)
	case o.InitialUnwindingCount > o.MaxUnwindingCount:
		return fmt.Errorf("%w: initial unwinding count %d exceeds max %d",
			ErrInvalidOptions, o.InitialUnwindingCount, o.MaxUnwindingCount)
	}
	return nil
}
