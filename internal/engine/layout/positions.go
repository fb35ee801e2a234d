package layout

// DefaultFallbackHeight is used for rows that have not been measured yet.
// Using a fixed non-zero fallback keeps an unmeasured item from collapsing
// to zero height and visually jumping once its real measurement arrives.
const DefaultFallbackHeight = 48

// HeightOf returns the measured height for id, or the fallback when the
// row has not been measured (or reported a non-positive height).
func HeightOf(heights map[string]float64, id string) float64 {
	if h, ok := heights[id]; ok && h > 0 {
		return h
	}
	return DefaultFallbackHeight
}

// ComputePositions returns the vertical offset of every id in order: the
// sum of (height + gap) over all preceding rows. Pure function of its
// inputs; callers re-invoke it whenever order or any height changes.
func ComputePositions(order []string, heights map[string]float64, gap float64) map[string]float64 {
	positions := make(map[string]float64, len(order))
	top := 0.0
	for _, id := range order {
		positions[id] = top
		top += HeightOf(heights, id) + gap
	}
	return positions
}

// ContentExtent returns the total content height of the container: the last
// row's position plus its height plus one trailing gap. Callers use it to
// size a fixed-height scroll spacer while rows render absolutely positioned.
func ContentExtent(order []string, heights map[string]float64, gap float64) float64 {
	extent := 0.0
	for _, id := range order {
		extent += HeightOf(heights, id) + gap
	}
	return extent
}
