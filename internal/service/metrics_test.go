package service

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValues flattens a gathered registry into "name/result" -> value
func counterValues(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, label := range m.GetLabel() {
				key += "/" + label.GetValue()
			}
			values[key] = m.GetCounter().GetValue()
		}
	}
	return values
}

func TestPromMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPromMetrics(reg)

	m.ObserveLookup(LookupStrict)
	m.ObserveLookup(LookupStrict)
	m.ObserveLookup(LookupNotFound)
	m.ObserveSave("rejected")
	m.ObserveDirectoryLoad(true)
	m.ObserveDirectoryLoad(false)

	values := counterValues(t, reg)
	assert.Equal(t, 2.0, values["covidash_stats_lookups_total/"+LookupStrict])
	assert.Equal(t, 1.0, values["covidash_stats_lookups_total/"+LookupNotFound])
	assert.Equal(t, 1.0, values["covidash_snapshot_saves_total/rejected"])
	assert.Equal(t, 1.0, values["covidash_directory_loads_total/ok"])
	assert.Equal(t, 1.0, values["covidash_directory_loads_total/error"])
}
