package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewConfigMetrics(t *testing.T) {
	m := NewConfigMetrics("test_component_registration")

	assert.NotNil(t, m.LoadTimestamp)
	assert.NotNil(t, m.FallbacksTotal)
	assert.NotNil(t, m.FallbackActive)
}

func TestConfigMetrics_Record(t *testing.T) {
	m := NewConfigMetrics("test_component_record")

	m.RecordLoadTimestamp()
	assert.Greater(t, testutil.ToFloat64(m.LoadTimestamp), float64(0))

	m.RecordFallback("cache_ttl")
	m.RecordFallback("cache_ttl")
	m.RecordFallback("timezone")
	assert.Equal(t, float64(2), testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("cache_ttl")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("timezone")))

	m.SetFallbackActive(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FallbackActive))
	m.SetFallbackActive(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.FallbackActive))
}
