package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherFamilies(t *testing.T, reg prometheus.Gatherer) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName
}

func TestNewManager_Registered(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()
	m.CounterFits.WithLabelValues("train", "ok").Inc()
	m.HistFitDuration.WithLabelValues("train").Observe(2)
	m.GaugeTestMAE.Set(4.5)

	families := gatherFamilies(t, reg)

	fits, ok := families["weightrec_test_server_fits"]
	require.True(t, ok)
	assert.Equal(t, dto.MetricType_COUNTER, fits.GetType())
	require.Len(t, fits.GetMetric(), 1)
	labels := map[string]string{}
	for _, l := range fits.GetMetric()[0].GetLabel() {
		labels[l.GetName()] = l.GetValue()
	}
	assert.Equal(t, map[string]string{"trigger": "train", "result": "ok"}, labels)

	duration, ok := families["weightrec_test_server_fit_duration_seconds"]
	require.True(t, ok)
	assert.Equal(t, dto.MetricType_HISTOGRAM, duration.GetType())
	assert.Equal(t, uint64(1), duration.GetMetric()[0].GetHistogram().GetSampleCount())

	mae, ok := families["weightrec_test_server_test_mae_kilos"]
	require.True(t, ok)
	assert.Equal(t, dto.MetricType_GAUGE, mae.GetType())
	assert.Equal(t, 4.5, mae.GetMetric()[0].GetGauge().GetValue())
}

func TestSetupPrometheus(t *testing.T) {
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "extra_collector_total"})
	reg := SetupPrometheus(extra)
	NewManager("weightrec", "api", reg).GaugeLifeSignal.Set(1)

	families := gatherFamilies(t, reg)
	assert.Contains(t, families, "extra_collector_total")
	assert.Contains(t, families, "go_goroutines")
	assert.Contains(t, families, "weightrec_api_life_signal")
}

func TestNewMetricsHandler(t *testing.T) {
	reg := SetupPrometheus()
	NewManager("weightrec", "api", reg).GaugeModelVersion.Set(3)
	handler := NewMetricsHandler(reg)

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "weightrec_api_model_version 3")
	}

	// both scrapes are counted
	families := gatherFamilies(t, reg)
	scrapes, ok := families["promhttp_metric_handler_requests_total"]
	require.True(t, ok)
	var total float64
	for _, m := range scrapes.GetMetric() {
		total += m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(2), total)
}
