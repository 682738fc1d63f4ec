package packing

import (
	"fmt"
	"math"
)

// volumeEpsilon absorbs floating residue when comparing accumulated CBM
// figures against the container capacity.
const volumeEpsilon = 1e-9

// nearCapacityPercent is the utilization threshold above which advisory
// warnings are raised.
const nearCapacityPercent = 95.0

type allocator struct {
	catalog Catalog
}

// New creates a Calculator backed by the given container catalog.
func New(catalog Catalog) Calculator {
	return &allocator{catalog: catalog}
}

// Calculate runs the sequential, capacity-constrained allocation over the
// items in input order. Earlier items get first claim on the remaining
// weight and volume; the fold carries (remainingWeight, usedCBM) and is
// otherwise pure.
func (a *allocator) Calculate(containerType string, items []Item) (PackingResult, error) {
	spec, err := a.catalog.Get(containerType)
	if err != nil {
		return PackingResult{}, err
	}

	remainingWeight := spec.MaxWeight
	usedCBM := 0.0
	results := make([]ItemResult, 0, len(items))
	warnings := make([]string, 0)
	totalRequested := 0
	totalFitted := 0

	for _, item := range items {
		totalRequested += item.Quantity

		orientation, ok := findBestOrientation(item, spec)
		if !ok {
			// Oversized items are excluded from capacity accounting entirely.
			results = append(results, ItemResult{
				ID:        item.ID,
				Name:      item.Name,
				Requested: item.Quantity,
				Unfitted:  item.Quantity,
			})
			warnings = append(warnings, fmt.Sprintf(
				"item %d (%s) does not fit the %s container in any orientation", item.ID, item.Name, spec.Type))
			continue
		}

		unitCBM := item.UnitCBM()

		volumeBound := orientation.MaxFitByVolume
		if byRemaining := wholeByVolume(spec.CBM-usedCBM, unitCBM); byRemaining < volumeBound {
			volumeBound = byRemaining
		}
		maxFitByWeight := int(math.Floor(remainingWeight/item.Weight + volumeEpsilon))

		fitted := volumeBound
		if maxFitByWeight < fitted {
			fitted = maxFitByWeight
		}
		if item.Quantity < fitted {
			fitted = item.Quantity
		}

		remainingWeight -= float64(fitted) * item.Weight
		usedCBM += float64(fitted) * unitCBM
		totalFitted += fitted

		results = append(results, ItemResult{
			ID:             item.ID,
			Name:           item.Name,
			Requested:      item.Quantity,
			Fitted:         fitted,
			Unfitted:       item.Quantity - fitted,
			Orientation:    orientation.Dims(),
			UnitsPerLayer:  orientation.UnitsPerLayer,
			Layers:         orientation.Layers,
			MaxFitByVolume: orientation.MaxFitByVolume,
			MaxFitByWeight: maxFitByWeight,
			FittedWeightKg: round2(float64(fitted) * item.Weight),
			FittedCBM:      round2(float64(fitted) * unitCBM),
		})
	}

	usedWeight := spec.MaxWeight - remainingWeight
	volumePercent := usedCBM / spec.CBM * 100
	weightPercent := usedWeight / spec.MaxWeight * 100

	if unfitted := totalRequested - totalFitted; unfitted > 0 {
		warnings = append(warnings, fmt.Sprintf("%d units could not fit in the container", unfitted))
	}
	if volumePercent > nearCapacityPercent {
		warnings = append(warnings, "Container is near volume capacity limit")
	}
	if weightPercent > nearCapacityPercent {
		warnings = append(warnings, "Container is near weight capacity limit")
	}

	return PackingResult{
		Success:       true,
		ContainerType: spec.Type,
		ContainerDims: ContainerDims{
			WidthCm:  spec.Width,
			HeightCm: spec.Height,
			DepthCm:  spec.Depth,
			CBM:      spec.CBM,
		},
		TotalRequested: totalRequested,
		TotalFitted:    totalFitted,
		TotalUnfitted:  totalRequested - totalFitted,
		Items:          results,
		Utilization: Utilization{
			VolumePercent: round1(volumePercent),
			WeightPercent: round1(weightPercent),
			ContainerCBM:  round2(spec.CBM),
			UsedCBM:       round2(usedCBM),
			MaxWeightKg:   spec.MaxWeight,
			UsedWeightKg:  round2(usedWeight),
		},
		Warnings: warnings,
	}, nil
}

// Validate runs the orientation/oversize logic without consuming capacity:
// it totals the requested volume and weight, lists oversized item
// identifiers, and warns where aggregate demand exceeds the spec.
func (a *allocator) Validate(containerType string, items []Item) (ValidationResult, error) {
	spec, err := a.catalog.Get(containerType)
	if err != nil {
		return ValidationResult{}, err
	}

	totalCBM := 0.0
	totalWeight := 0.0
	oversized := make([]int, 0)

	for _, item := range items {
		if _, ok := findBestOrientation(item, spec); !ok {
			oversized = append(oversized, item.ID)
		}
		totalCBM += item.UnitCBM() * float64(item.Quantity)
		totalWeight += item.Weight * float64(item.Quantity)
	}

	warnings := make([]string, 0)
	if totalCBM > spec.CBM+volumeEpsilon {
		warnings = append(warnings, fmt.Sprintf(
			"total volume (%.2f CBM) exceeds container capacity (%.2f CBM)", totalCBM, spec.CBM))
	}
	if totalWeight > spec.MaxWeight {
		warnings = append(warnings, fmt.Sprintf(
			"total weight (%.2f kg) exceeds limit (%.0f kg)", totalWeight, spec.MaxWeight))
	}
	if len(oversized) > 0 {
		warnings = append(warnings, fmt.Sprintf("%d items are too large for the container", len(oversized)))
	}

	return ValidationResult{
		Valid:                    len(oversized) == 0 && totalCBM <= spec.CBM+volumeEpsilon && totalWeight <= spec.MaxWeight,
		TotalCBM:                 round2(totalCBM),
		TotalWeightKg:            round2(totalWeight),
		ContainerCBM:             round2(spec.CBM),
		MaxWeightKg:              spec.MaxWeight,
		CBMUtilizationPercent:    round1(totalCBM / spec.CBM * 100),
		WeightUtilizationPercent: round1(totalWeight / spec.MaxWeight * 100),
		OversizedItemIDs:         oversized,
		Warnings:                 warnings,
	}, nil
}

// wholeByVolume is how many whole units of unitCBM fit in the remaining
// capacity, never negative.
func wholeByVolume(remainingCBM, unitCBM float64) int {
	if unitCBM <= 0 || remainingCBM <= 0 {
		return 0
	}
	return int(math.Floor((remainingCBM + volumeEpsilon) / unitCBM))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
