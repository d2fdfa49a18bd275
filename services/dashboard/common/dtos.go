package common

// HealthCheckService is the service name that marks an API as actively monitored
const HealthCheckService = "health-check"

// MonitoredApi is an API as seen by the health-check dashboard
type MonitoredApi struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Services  []string     `json:"services"`
	Available bool         `json:"available"`
	ChartData *ChartConfig `json:"chartData,omitempty"`
}

// HasHealthCheck returns true if the API has the health-check service configured
func (api *MonitoredApi) HasHealthCheck() bool {
	for _, service := range api.Services {
		if service == HealthCheckService {
			return true
		}
	}

	return false
}

// Query is the time window sent to the health endpoints. All values are in milliseconds
type Query struct {
	From     int64 `json:"from"`
	To       int64 `json:"to"`
	Interval int64 `json:"interval"`
}

// AverageQuery is the query of the health average endpoint
type AverageQuery struct {
	Query
	Type string `json:"type"`
}

// LogsQuery is the query of the health logs endpoint
type LogsQuery struct {
	Page int   `json:"page"`
	Size int   `json:"size"`
	To   int64 `json:"to"`
}

// AvailabilityBucket holds the percentage availability samples of one API, one per time slice
type AvailabilityBucket struct {
	Data []float64 `json:"data"`
}

// AvailabilityValue groups the buckets returned for one aggregation key
type AvailabilityValue struct {
	Buckets []*AvailabilityBucket `json:"buckets"`
}

// AnalyticsTimestamp describes the time axis of an analytics response
type AnalyticsTimestamp struct {
	From     int64 `json:"from"`
	To       int64 `json:"to"`
	Interval int64 `json:"interval"`
}

// AvailabilityResponse is the body of the health average endpoint
type AvailabilityResponse struct {
	Values    []AvailabilityValue `json:"values"`
	Timestamp *AnalyticsTimestamp `json:"timestamp"`
}

// HealthLog is a single health-check log entry
type HealthLog struct {
	ID        string `json:"id"`
	Available bool   `json:"available"`
	Timestamp int64  `json:"timestamp"`
}

// LogsResponse is the body of the health logs endpoint
type LogsResponse struct {
	Total uint64      `json:"total"`
	Logs  []HealthLog `json:"logs"`
}

// DashboardSnapshot is the read-only state published after every change of the dashboard
type DashboardSnapshot struct {
	RefreshID         string         `json:"refreshId"`
	Timeframe         string         `json:"timeframe"`
	Query             Query          `json:"query"`
	HideApisWithoutHC bool           `json:"hideApisWithoutHC"`
	DisplayedApis     []MonitoredApi `json:"displayedApis"`
	ApisWithHC        []string       `json:"apisWithHC"`
	UnavailableApis   int            `json:"unavailableApis"`
	LastRefresh       int64          `json:"lastRefresh"`
}

// ApiHealthRecord is the persisted outcome of one API in one refresh cycle
type ApiHealthRecord struct {
	ApiID      string  `json:"apiId"`
	Uptime     float64 `json:"uptime"`
	HasUptime  bool    `json:"hasUptime"`
	Available  bool    `json:"available"`
	RefreshID  string  `json:"refreshId"`
	RecordedAt int64   `json:"recordedAt"`
}
