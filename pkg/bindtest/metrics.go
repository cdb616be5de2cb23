package bindtest

import (
	"fmt"

	dto "github.com/prometheus/client_model/go"
)

// metricValue finds name in the harness registry. labels are name/value
// pairs the series must carry.
func metricValue(h *Harness, name string, labels []string) (float64, error) {
	if len(labels)%2 != 0 {
		return 0, fmt.Errorf("odd label list %q", labels)
	}
	families, err := h.Registry.Gather()
	if err != nil {
		return 0, err
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if !hasLabels(m, labels) {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue(), nil
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue(), nil
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount()), nil
			}
		}
		return 0, fmt.Errorf("no series with labels %q", labels)
	}
	return 0, fmt.Errorf("not registered")
}

func hasLabels(m *dto.Metric, labels []string) bool {
	for i := 0; i < len(labels); i += 2 {
		found := false
		for _, lp := range m.GetLabel() {
			if lp.GetName() == labels[i] && lp.GetValue() == labels[i+1] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
