package packing

import "math"

// cmCubedPerCBM converts cubic centimetres to cubic metres (CBM).
const cmCubedPerCBM = 1_000_000.0

// ContainerSpec describes the interior of a container type. Dimensions are
// centimetres, CBM is the nominal catalog volume in cubic metres, and
// MaxWeight is the maximum payload in kilograms. Specs are immutable once
// handed to the calculator.
type ContainerSpec struct {
	Type      string  `json:"type"`
	Width     float64 `json:"widthCm"`
	Height    float64 `json:"heightCm"`
	Depth     float64 `json:"depthCm"`
	CBM       float64 `json:"cbm"`
	MaxWeight float64 `json:"maxWeightKg"`
}

// DerivedCBM computes the volume implied by the interior dimensions. The
// catalog's nominal CBM figure is a rounded form of this value.
func (s ContainerSpec) DerivedCBM() float64 {
	return s.Width * s.Height * s.Depth / cmCubedPerCBM
}

// Item is one requested item type. Construct through NewItem so the shape
// preconditions (positive dimensions and weight, non-negative quantity) are
// established before the item reaches the allocation loop.
type Item struct {
	ID       int     `json:"itemId"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Width    float64 `json:"widthCm"`
	Height   float64 `json:"heightCm"`
	Depth    float64 `json:"depthCm"`
	Weight   float64 `json:"weightKg"`
}

// NewItem validates and builds an Item.
func NewItem(id int, name string, quantity int, width, height, depth, weight float64) (Item, error) {
	if quantity < 0 {
		return Item{}, ErrInvalidItem
	}
	for _, v := range []float64{width, height, depth, weight} {
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return Item{}, ErrInvalidItem
		}
	}
	return Item{
		ID:       id,
		Name:     name,
		Quantity: quantity,
		Width:    width,
		Height:   height,
		Depth:    depth,
		Weight:   weight,
	}, nil
}

// UnitCBM returns the volume of a single unit in cubic metres.
func (i Item) UnitCBM() float64 {
	return i.Width * i.Height * i.Depth / cmCubedPerCBM
}

// ItemResult is the per-item-type outcome of a packing calculation.
type ItemResult struct {
	ID             int     `json:"itemId"`
	Name           string  `json:"name"`
	Requested      int     `json:"requested"`
	Fitted         int     `json:"fitted"`
	Unfitted       int     `json:"unfitted"`
	Orientation    string  `json:"orientation,omitempty"`
	UnitsPerLayer  int     `json:"unitsPerLayer"`
	Layers         int     `json:"layers"`
	MaxFitByVolume int     `json:"maxFitByVolume"`
	MaxFitByWeight int     `json:"maxFitByWeight"`
	FittedWeightKg float64 `json:"fittedWeightKg"`
	FittedCBM      float64 `json:"fittedCbm"`
}

// ContainerDims echoes the container interior back to the caller.
type ContainerDims struct {
	WidthCm  float64 `json:"widthCm"`
	HeightCm float64 `json:"heightCm"`
	DepthCm  float64 `json:"depthCm"`
	CBM      float64 `json:"cbm"`
}

// Utilization summarises how much of the container the fitted units consume.
type Utilization struct {
	VolumePercent float64 `json:"volumePercent"`
	WeightPercent float64 `json:"weightPercent"`
	ContainerCBM  float64 `json:"containerCbm"`
	UsedCBM       float64 `json:"usedCbm"`
	MaxWeightKg   float64 `json:"maxWeightKg"`
	UsedWeightKg  float64 `json:"usedWeightKg"`
}

// PackingResult is the full calculation output. Success means the
// calculation completed; a partial fit is communicated through the
// per-item unfitted counts, not through Success.
type PackingResult struct {
	Success        bool          `json:"success"`
	ContainerType  string        `json:"containerType"`
	ContainerDims  ContainerDims `json:"containerDimensions"`
	TotalRequested int           `json:"totalRequested"`
	TotalFitted    int           `json:"totalFitted"`
	TotalUnfitted  int           `json:"totalUnfitted"`
	Items          []ItemResult  `json:"items"`
	Utilization    Utilization   `json:"utilization"`
	Warnings       []string      `json:"warnings"`
}

// ValidationResult is the output of the validate-only pass: aggregate
// demand against the container spec without sequential allocation.
type ValidationResult struct {
	Valid                    bool     `json:"valid"`
	TotalCBM                 float64  `json:"totalCbm"`
	TotalWeightKg            float64  `json:"totalWeightKg"`
	ContainerCBM             float64  `json:"containerCbm"`
	MaxWeightKg              float64  `json:"maxWeightKg"`
	CBMUtilizationPercent    float64  `json:"cbmUtilizationPercent"`
	WeightUtilizationPercent float64  `json:"weightUtilizationPercent"`
	OversizedItemIDs         []int    `json:"oversizedItemIds"`
	Warnings                 []string `json:"warnings"`
}

// Catalog resolves a container type identifier to its spec.
type Catalog interface {
	Get(containerType string) (ContainerSpec, error)
}

// Calculator describes the behaviour required from a packing calculator.
type Calculator interface {
	Calculate(containerType string, items []Item) (PackingResult, error)
	Validate(containerType string, items []Item) (ValidationResult, error)
}
