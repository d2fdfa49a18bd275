package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/config"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/factory"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/testsCommon"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/stretchr/testify/require"
)

var log = logger.GetOrCreate("e2e-test")

const serviceKey = "test-service-key"

func doRequest(t *testing.T, method string, url string, body []byte) (int, []byte) {
	req, err := http.NewRequest(method, url, bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("X-Api-Key", serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, data
}

func getSnapshot(t *testing.T, method string, url string, body []byte) common.DashboardSnapshot {
	status, data := doRequest(t, method, url, body)
	require.Equal(t, http.StatusOK, status, string(data))

	var snapshot common.DashboardSnapshot
	require.NoError(t, json.Unmarshal(data, &snapshot))

	return snapshot
}

func TestE2EFlow(t *testing.T) {
	log.Info("======== 1. Start a mock management API exposing the monitored APIs")
	mockAPI := testsCommon.NewManagementApiMock([]*common.MonitoredApi{
		{ID: "echo", Name: "Echo", Services: []string{common.HealthCheckService}},
		{ID: "books", Name: "Books", Services: []string{common.HealthCheckService}},
		{ID: "stores", Name: "Stores"},
	})
	defer mockAPI.Close()
	mockAPI.SetHealth("echo", []float64{100, 100, 100, 0}, true)
	mockAPI.SetHealth("books", []float64{70, 70}, false)

	log.Info("======== 2. Prepare SQLite path for the dashboard")
	dbPath := filepath.Join(t.TempDir(), "e2e_sqlite.db")

	log.Info("======== 3. Start the dashboard service via componentsHandler")
	cfg := config.Config{
		ListenAddress: "127.0.0.1:0",
		ManagementURL: mockAPI.URL,
	}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	handler, err := factory.NewComponentsHandler(factory.ArgsComponentsHandler{
		SqlitePath:      dbPath,
		ServiceKeyApi:   serviceKey,
		ManagementToken: "management-token",
		Config:          cfg,
	})
	require.NoError(t, err)

	handler.Start()
	defer handler.Close()

	_, port, err := net.SplitHostPort(handler.GetServer().Address())
	require.NoError(t, err)
	dashboardURL := fmt.Sprintf("http://127.0.0.1:%s", port)

	log.Info("======== 3.1. Wait for the startup refresh")
	require.Eventually(t, func() bool {
		return handler.GetDashboard().Snapshot().RefreshID != ""
	}, 5*time.Second, 20*time.Millisecond)

	log.Info("======== 4. Refresh the dashboard")
	snapshot := getSnapshot(t, http.MethodPost, dashboardURL+"/api/health/refresh", nil)
	require.NotEmpty(t, snapshot.RefreshID)
	require.Equal(t, 1, snapshot.UnavailableApis)
	require.Len(t, snapshot.DisplayedApis, 3)
	require.Equal(t, []string{"echo", "books"}, snapshot.ApisWithHC)

	log.Info("======== 5. Check the uptime gauges")
	status, data := doRequest(t, http.MethodGet, dashboardURL+"/api/health/apis/echo", nil)
	require.Equal(t, http.StatusOK, status)
	var apiResponse struct {
		Api   common.MonitoredApi `json:"api"`
		Gauge struct {
			ID        string  `json:"id"`
			Uptime    float64 `json:"uptime"`
			HasUptime bool    `json:"hasUptime"`
		} `json:"gauge"`
	}
	require.NoError(t, json.Unmarshal(data, &apiResponse))
	require.True(t, apiResponse.Api.Available)
	require.NotNil(t, apiResponse.Api.ChartData)
	require.Equal(t, "gauge_echo", apiResponse.Gauge.ID)
	require.True(t, apiResponse.Gauge.HasUptime)
	require.Equal(t, 100.0, apiResponse.Gauge.Uptime)

	status, data = doRequest(t, http.MethodGet, dashboardURL+"/api/health/apis/books", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(data, &apiResponse))
	require.False(t, apiResponse.Api.Available)
	require.Equal(t, 70.0, apiResponse.Gauge.Uptime)

	log.Info("======== 6. Change the display filter and the timeframe")
	snapshot = getSnapshot(t, http.MethodPut, dashboardURL+"/api/health/filter", []byte(`{"hideApisWithoutHC":true}`))
	require.Len(t, snapshot.DisplayedApis, 2)

	mockAPI.SetHealth("books", []float64{99, 98, 0}, true)
	snapshot = getSnapshot(t, http.MethodPut, dashboardURL+"/api/health/timeframe", []byte(`{"timeframe":"LAST_DAY"}`))
	require.Equal(t, "LAST_DAY", snapshot.Timeframe)
	require.Equal(t, 0, snapshot.UnavailableApis)

	log.Info("======== 7. Check the persisted history")
	status, data = doRequest(t, http.MethodGet, dashboardURL+"/api/health/apis/books/history", nil)
	require.Equal(t, http.StatusOK, status)
	var historyResponse struct {
		History []common.ApiHealthRecord `json:"history"`
	}
	require.NoError(t, json.Unmarshal(data, &historyResponse))
	require.GreaterOrEqual(t, len(historyResponse.History), 2)
	last := historyResponse.History[len(historyResponse.History)-1]
	require.True(t, last.Available)
	require.Equal(t, 98.5, last.Uptime)

	log.Info("======== 8. Save the API logging settings")
	status, data = doRequest(t, http.MethodPut, dashboardURL+"/api/settings/logging", []byte(`{"maxDurationMillis":3000,"auditEnabled":true}`))
	require.Equal(t, http.StatusOK, status, string(data))
	saved := mockAPI.SavedSettings()
	require.Len(t, saved, 1)
	require.JSONEq(t, `{"logging":{"maxDurationMillis":3000,"audit":{"enabled":true,"trail":{"enabled":false}},"user":{"displayed":false}}}`, string(saved[0]))

	log.Info("======== 9. Forward an analytics request")
	status, data = doRequest(t, http.MethodGet, dashboardURL+"/api/analytics?type=group_by&field=status", nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(data), `"type":"group_by"`)

	log.Info("======== 10. Check the notifications and metrics")
	status, data = doRequest(t, http.MethodGet, dashboardURL+"/api/notifications", nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(data), "API logging saved")

	status, data = doRequest(t, http.MethodGet, dashboardURL+"/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(data), `healthcheck_dashboard_refresh_cycles_total{result="committed"}`)
}
