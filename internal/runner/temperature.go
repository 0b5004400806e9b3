package runner

import (
	"math"

	"go.uber.org/zap"

	"github.com/rybkr/wfc3d/internal/mathx"
)

// cellHistory tracks how often a cell has recently been unsolvable.
type cellHistory struct {
	baseTemperature float64
	lastUnsolved    int // tick of the last failure, or neverUnsolved
}

const neverUnsolved = -1

func (r *Runner) historyIndex(p mathx.Vec3) int {
	size := r.grid.Size()
	return p.X + size.X*(p.Y+size.Y*p.Z)
}

func (r *Runner) resetHistory() {
	for i := range r.history {
		r.history[i] = cellHistory{lastUnsolved: neverUnsolved}
	}
}

// Temperature is the cell's base temperature minus the cooling since its
// last failure, never below zero.
func (r *Runner) Temperature(p mathx.Vec3) float64 {
	h := r.history[r.historyIndex(r.grid.FilterPos(p))]
	t := h.baseTemperature
	if h.lastUnsolved != neverUnsolved {
		elapsed := float64(r.tick - h.lastUnsolved)
		t = max(t-elapsed*r.opts.CoolOffRate, 0)
	}
	return t
}

// ClearRadius is how far around p a failure at p is cleared. It is at
// least 1, since a cell cannot become solvable without its neighbors
// changing.
func (r *Runner) ClearRadius(p mathx.Vec3) int {
	t := r.Temperature(p)
	switch g := r.opts.ClearRegionGrowthRate; {
	case g <= 0:
		return 1
	case g >= 1:
		return 1 + int(t)
	default:
		return 1 + int(math.Pow(t, g))
	}
}

// ClearRegion is the box of cells within ClearRadius of p, clamped to the grid.
func (r *Runner) ClearRegion(p mathx.Vec3) mathx.Region {
	radius := r.ClearRadius(p)
	return mathx.Region{
		Min: p.Sub(mathx.Splat(radius)),
		Max: p.Add(mathx.Splat(radius + 1)),
	}.Clamp(r.grid.Bounds())
}

// clearAround clears the region around an unsolvable cell and heats its
// neighborhood.
func (r *Runner) clearAround(center mathx.Vec3) {
	region := r.ClearRegion(center)
	r.report.Clear()
	r.grid.ClearCells(region, r.report, false, false)
	r.absorbReport()

	r.log.Debug("cleared region",
		zap.Int("tick", r.tick),
		zap.Stringer("cell", center),
		zap.Stringer("min", region.Min),
		zap.Stringer("max", region.Max))

	r.history[r.historyIndex(center)].lastUnsolved = r.tick

	heated := mathx.Region{Min: center.Sub(mathx.Splat(1)), Max: center.Add(mathx.Splat(2))}
	for p := range heated.Cells() {
		q := r.grid.FilterPos(p)
		if !r.grid.IsValid(q) {
			continue
		}
		k := p.Sub(center).Add(mathx.Splat(1))
		r.history[r.historyIndex(q)].baseTemperature += r.opts.TemperatureKernel[k.X][k.Y][k.Z]
	}
}

// coolOnSet drops a freshly set cell's base temperature.
func (r *Runner) coolOnSet(p mathx.Vec3) {
	h := &r.history[r.historyIndex(p)]
	h.baseTemperature = max(0, h.baseTemperature-r.opts.CoolOffFromSetting)
}
