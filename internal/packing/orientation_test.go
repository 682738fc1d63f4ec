package packing

import "testing"

var testSpec20ft = ContainerSpec{
	Type: "20ft", Width: 589, Height: 239, Depth: 233, CBM: 32.8, MaxWeight: 25400,
}

func TestFindBestOrientation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		item              Item
		wantDims          string
		wantUnitsPerLayer int
		wantLayers        int
		wantFit           int
	}{
		{
			name:              "Pallet100x50x50",
			item:              Item{Width: 100, Height: 50, Depth: 50},
			wantDims:          "50x100x50",
			wantUnitsPerLayer: 22,
			wantLayers:        4,
			wantFit:           88,
		},
		{
			name:              "Cube100",
			item:              Item{Width: 100, Height: 100, Depth: 100},
			wantDims:          "100x100x100",
			wantUnitsPerLayer: 10,
			wantLayers:        2,
			wantFit:           20,
		},
		{
			name:              "FullWidthSlab",
			item:              Item{Width: 294, Height: 239, Depth: 46},
			wantDims:          "294x239x46",
			wantUnitsPerLayer: 2,
			wantLayers:        5,
			wantFit:           10,
		},
		{
			name:              "FitsExactlyOnce",
			item:              Item{Width: 589, Height: 239, Depth: 233},
			wantDims:          "589x239x233",
			wantUnitsPerLayer: 1,
			wantLayers:        1,
			wantFit:           1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := findBestOrientation(tc.item, testSpec20ft)
			if !ok {
				t.Fatalf("expected item to fit")
			}
			if got.Dims() != tc.wantDims {
				t.Fatalf("expected orientation %s, got %s", tc.wantDims, got.Dims())
			}
			if got.UnitsPerLayer != tc.wantUnitsPerLayer {
				t.Fatalf("expected %d units per layer, got %d", tc.wantUnitsPerLayer, got.UnitsPerLayer)
			}
			if got.Layers != tc.wantLayers {
				t.Fatalf("expected %d layers, got %d", tc.wantLayers, got.Layers)
			}
			if got.MaxFitByVolume != tc.wantFit {
				t.Fatalf("expected max fit %d, got %d", tc.wantFit, got.MaxFitByVolume)
			}
		})
	}
}

func TestFindBestOrientationOversized(t *testing.T) {
	t.Parallel()

	oversized := []Item{
		{Width: 600, Height: 600, Depth: 600},
		{Width: 589, Height: 240, Depth: 233},
		{Width: 1, Height: 1, Depth: 590},
	}
	for _, item := range oversized {
		if _, ok := findBestOrientation(item, testSpec20ft); ok {
			t.Fatalf("expected %gx%gx%g to be oversized", item.Width, item.Height, item.Depth)
		}
	}

	// A long thin item must still fit through a rotated assignment.
	if _, ok := findBestOrientation(Item{Width: 1, Height: 1, Depth: 580}, testSpec20ft); !ok {
		t.Fatalf("expected rotated item to fit")
	}
}

func TestFindBestOrientationTieBreakIsDeterministic(t *testing.T) {
	t.Parallel()

	// All six permutations of a cube tie; the first enumeration order wins
	// every time.
	item := Item{Width: 50, Height: 50, Depth: 50}
	first, ok := findBestOrientation(item, testSpec20ft)
	if !ok {
		t.Fatalf("expected cube to fit")
	}
	for i := 0; i < 100; i++ {
		again, _ := findBestOrientation(item, testSpec20ft)
		if again != first {
			t.Fatalf("expected deterministic orientation, got %+v then %+v", first, again)
		}
	}
}

func TestWholeUnits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		container float64
		item      float64
		want      int
	}{
		{589, 100, 5},
		{239, 50, 4},
		{233, 233, 1},
		{233, 234, 0},
		{100, 0, 0},
		{100, -5, 0},
	}
	for _, tc := range tests {
		if got := wholeUnits(tc.container, tc.item); got != tc.want {
			t.Fatalf("wholeUnits(%g, %g) = %d, want %d", tc.container, tc.item, got, tc.want)
		}
	}
}
