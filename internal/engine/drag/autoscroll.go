package drag

// Autoscroller computes programmatic scroll speed while a drag pointer
// sits near the scrollable container's top or bottom edge. After each
// applied tick the caller must recompute hover targets against the new
// layout so the preview tracks correctly.
type Autoscroller struct {
	// Threshold is the edge band, in units, inside which scrolling engages.
	Threshold float64
	// MaxSpeed is the per-tick scroll delta at the very edge.
	MaxSpeed float64
}

// Speed returns the signed scroll delta for one tick. The pointer position
// and viewport bounds are in the same (container) coordinate space:
// negative speed scrolls up, positive scrolls down, zero means the pointer
// is outside both edge bands. Speed scales with (threshold - distance to
// edge), so it ramps up as the pointer nears the edge.
func (a Autoscroller) Speed(pointerY, viewportTop, viewportBottom float64) float64 {
	if a.Threshold <= 0 || a.MaxSpeed <= 0 {
		return 0
	}

	if d := pointerY - viewportTop; d >= 0 && d < a.Threshold {
		return -a.MaxSpeed * (a.Threshold - d) / a.Threshold
	}
	if d := viewportBottom - pointerY; d >= 0 && d < a.Threshold {
		return a.MaxSpeed * (a.Threshold - d) / a.Threshold
	}
	return 0
}
