package engine

import (
	"context"
	"time"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
)

// HealthFetcher defines the interface for fetching the health data of one API
type HealthFetcher interface {
	// HealthAverage returns the average health values of the API over the query window
	HealthAverage(ctx context.Context, apiID string, query common.AverageQuery) (*common.AvailabilityResponse, error)

	// LatestAvailability returns the availability of the most recent health-check log entry logged before "to"
	LatestAvailability(ctx context.Context, apiID string, to int64) (bool, error)

	IsInterfaceNil() bool
}

// HealthRecorder defines the interface for persisting the outcome of the refresh cycles
type HealthRecorder interface {
	SaveHealthRecords(ctx context.Context, records []common.ApiHealthRecord) error
	IsInterfaceNil() bool
}

// MetricsHandler defines the interface for publishing the refresh metrics
type MetricsHandler interface {
	ObserveRefresh(result string, duration time.Duration)
	IncFetchFailures()
	SetUnavailableApis(value int)
	SetMonitoredApis(value int)
	IsInterfaceNil() bool
}
