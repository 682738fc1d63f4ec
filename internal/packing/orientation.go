package packing

import (
	"fmt"
	"math"
)

// Orientation is one axis-aligned assignment of an item's dimensions to the
// container's (width, height, depth) axes, with the fit it achieves.
type Orientation struct {
	Width          float64
	Height         float64
	Depth          float64
	UnitsPerLayer  int
	Layers         int
	MaxFitByVolume int
}

// Dims renders the oriented dimensions as "WxHxD" in centimetres.
func (o Orientation) Dims() string {
	return fmt.Sprintf("%gx%gx%g", o.Width, o.Height, o.Depth)
}

// permutations enumerates the 6 assignments of the item's (W, H, D) triple
// in the fixed order WxHxD, WxDxH, HxWxD, HxDxW, DxWxH, DxHxW. The order is
// load-bearing: ties on MaxFitByVolume keep the earliest permutation.
var permutations = [6][3]int{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

// findBestOrientation returns the permutation with the greatest whole-unit
// fit against the container interior, and false when the item does not fit
// in any orientation (the item is oversized).
func findBestOrientation(item Item, spec ContainerSpec) (Orientation, bool) {
	dims := [3]float64{item.Width, item.Height, item.Depth}

	var best Orientation
	for idx, p := range permutations {
		w, h, d := dims[p[0]], dims[p[1]], dims[p[2]]
		perLayer := wholeUnits(spec.Width, w) * wholeUnits(spec.Height, h)
		layers := wholeUnits(spec.Depth, d)

		candidate := Orientation{
			Width:          w,
			Height:         h,
			Depth:          d,
			UnitsPerLayer:  perLayer,
			Layers:         layers,
			MaxFitByVolume: perLayer * layers,
		}
		if idx == 0 || candidate.MaxFitByVolume > best.MaxFitByVolume {
			best = candidate
		}
	}

	if best.MaxFitByVolume == 0 {
		return Orientation{}, false
	}
	return best, true
}

// wholeUnits is how many item lengths fit along one container axis.
func wholeUnits(container, item float64) int {
	if item <= 0 || item > container {
		return 0
	}
	return int(math.Floor(container / item))
}
