package testsCommon

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
)

type apiHealth struct {
	data      []float64
	available bool
}

// ManagementApiMock is an in-process management REST API serving a fixed set of APIs
type ManagementApiMock struct {
	*httptest.Server
	mut           sync.RWMutex
	apis          []*common.MonitoredApi
	health        map[string]apiHealth
	savedSettings [][]byte
}

// NewManagementApiMock starts the mock. Both the management and the environment endpoints are served from its URL
func NewManagementApiMock(apis []*common.MonitoredApi) *ManagementApiMock {
	mock := &ManagementApiMock{
		apis:   apis,
		health: make(map[string]apiHealth),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /apis", mock.handleApis)
	mux.HandleFunc("GET /apis/{id}/health/average", mock.handleAverage)
	mux.HandleFunc("GET /apis/{id}/health/logs", mock.handleLogs)
	mux.HandleFunc("GET /analytics", mock.handleAnalytics)
	mux.HandleFunc("POST /settings", mock.handleSettings)
	mock.Server = httptest.NewServer(mux)

	return mock
}

// SetHealth sets the availability samples and the latest availability of an API
func (mock *ManagementApiMock) SetHealth(apiID string, data []float64, available bool) {
	mock.mut.Lock()
	defer mock.mut.Unlock()

	mock.health[apiID] = apiHealth{
		data:      data,
		available: available,
	}
}

// SavedSettings returns the bodies received on the settings endpoint
func (mock *ManagementApiMock) SavedSettings() [][]byte {
	mock.mut.RLock()
	defer mock.mut.RUnlock()

	return append([][]byte(nil), mock.savedSettings...)
}

func (mock *ManagementApiMock) handleApis(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, mock.apis)
}

func (mock *ManagementApiMock) handleAverage(w http.ResponseWriter, r *http.Request) {
	mock.mut.RLock()
	health, found := mock.health[r.PathValue("id")]
	mock.mut.RUnlock()

	response := common.AvailabilityResponse{
		Values: []common.AvailabilityValue{},
	}
	if found {
		response.Values = append(response.Values, common.AvailabilityValue{
			Buckets: []*common.AvailabilityBucket{{Data: health.data}},
		})
	}

	writeJSON(w, response)
}

func (mock *ManagementApiMock) handleLogs(w http.ResponseWriter, r *http.Request) {
	mock.mut.RLock()
	health, found := mock.health[r.PathValue("id")]
	mock.mut.RUnlock()

	response := common.LogsResponse{
		Logs: []common.HealthLog{},
	}
	if found {
		response.Total = 1
		response.Logs = append(response.Logs, common.HealthLog{
			ID:        "log-" + r.PathValue("id"),
			Available: health.available,
			Timestamp: 1,
		})
	}

	writeJSON(w, response)
}

func (mock *ManagementApiMock) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"type":   r.URL.Query().Get("type"),
		"values": map[string]int{"200": 10},
	})
}

func (mock *ManagementApiMock) handleSettings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mock.mut.Lock()
	mock.savedSettings = append(mock.savedSettings, body)
	mock.mut.Unlock()

	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}
