package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	t.Parallel()

	pm := NewPrometheusMetrics()
	require.False(t, pm.IsInterfaceNil())

	pm.ObserveRefresh(ResultCommitted, 10*time.Millisecond)
	pm.ObserveRefresh(ResultCommitted, 20*time.Millisecond)
	pm.ObserveRefresh(ResultAborted, time.Millisecond)
	pm.IncFetchFailures()
	pm.SetUnavailableApis(3)
	pm.SetMonitoredApis(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(pm.refreshCycles.WithLabelValues(ResultCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.refreshCycles.WithLabelValues(ResultAborted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.fetchFailures))
	assert.Equal(t, 3.0, testutil.ToFloat64(pm.unavailableApis))
	assert.Equal(t, 7.0, testutil.ToFloat64(pm.monitoredApis))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	pm.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthcheck_dashboard_unavailable_apis 3")
	assert.Contains(t, w.Body.String(), `healthcheck_dashboard_refresh_cycles_total{result="committed"} 2`)
}
