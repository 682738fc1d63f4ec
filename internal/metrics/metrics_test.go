package metrics

import "testing"

func TestRegisterDefaultIsIdempotent(t *testing.T) {
	RegisterDefault()
	// A second call must not panic on duplicate registration.
	RegisterDefault()

	Calculations.WithLabelValues("20ft", "ok").Inc()
	VolumeUtilization.Observe(67.1)

	families, err := Registry.Gather()
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"packing_calculations_total", "packing_volume_utilization_percent"} {
		if !names[want] {
			t.Fatalf("expected metric %s to be registered", want)
		}
	}
}
