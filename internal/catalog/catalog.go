package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/awiw642/dmp-packing-service/internal/packing"
)

var (
	// ErrInvalidContainer indicates the provided container spec violates validation rules.
	ErrInvalidContainer = errors.New("container spec must have a type and positive dimensions, volume, and max weight")
)

// defaultSpecs are the mandatory catalog entries. The figures are the
// standard interior dimensions and payload limits for dry containers and
// must not change: downstream systems depend on them exactly.
var defaultSpecs = []packing.ContainerSpec{
	{Type: "20ft", Width: 589, Height: 239, Depth: 233, CBM: 32.8, MaxWeight: 25400},
	{Type: "40ft", Width: 1219, Height: 259, Depth: 244, CBM: 77.0, MaxWeight: 25400},
}

// Catalog provides access to the container specs used by the calculator.
type Catalog interface {
	Get(containerType string) (packing.ContainerSpec, error)
	List() ([]packing.ContainerSpec, error)
	Put(spec packing.ContainerSpec) error
}

// MemoryCatalog keeps container specs in-memory and guards access with a RWMutex.
type MemoryCatalog struct {
	mu    sync.RWMutex
	specs map[string]packing.ContainerSpec
}

// NewMemoryCatalog initialises a catalog holding the default container specs.
func NewMemoryCatalog() *MemoryCatalog {
	specs := make(map[string]packing.ContainerSpec, len(defaultSpecs))
	for _, spec := range defaultSpecs {
		specs[spec.Type] = spec
	}
	return &MemoryCatalog{specs: specs}
}

// DefaultSpecs returns a copy of the mandatory container specs.
func DefaultSpecs() []packing.ContainerSpec {
	out := make([]packing.ContainerSpec, len(defaultSpecs))
	copy(out, defaultSpecs)
	return out
}

// Get resolves a container type to its spec.
func (c *MemoryCatalog) Get(containerType string) (packing.ContainerSpec, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	spec, ok := c.specs[containerType]
	if !ok {
		return packing.ContainerSpec{}, fmt.Errorf("%w: %q", packing.ErrUnknownContainerType, containerType)
	}
	return spec, nil
}

// List returns all specs ordered by type name.
func (c *MemoryCatalog) List() ([]packing.ContainerSpec, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]packing.ContainerSpec, 0, len(c.specs))
	for _, spec := range c.specs {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

// Put validates and stores a container spec, adding a new type or shadowing
// an existing one. A zero CBM is filled in from the interior dimensions.
func (c *MemoryCatalog) Put(spec packing.ContainerSpec) error {
	if spec.Type == "" || spec.Width <= 0 || spec.Height <= 0 || spec.Depth <= 0 || spec.MaxWeight <= 0 {
		return ErrInvalidContainer
	}
	if spec.CBM == 0 {
		spec.CBM = spec.DerivedCBM()
	}
	if spec.CBM <= 0 {
		return ErrInvalidContainer
	}

	c.mu.Lock()
	c.specs[spec.Type] = spec
	c.mu.Unlock()

	return nil
}
