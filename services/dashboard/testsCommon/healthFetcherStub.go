package testsCommon

import (
	"context"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
)

// HealthFetcherStub -
type HealthFetcherStub struct {
	HealthAverageHandler      func(ctx context.Context, apiID string, query common.AverageQuery) (*common.AvailabilityResponse, error)
	LatestAvailabilityHandler func(ctx context.Context, apiID string, to int64) (bool, error)
}

// HealthAverage -
func (stub *HealthFetcherStub) HealthAverage(ctx context.Context, apiID string, query common.AverageQuery) (*common.AvailabilityResponse, error) {
	if stub.HealthAverageHandler != nil {
		return stub.HealthAverageHandler(ctx, apiID, query)
	}

	return &common.AvailabilityResponse{}, nil
}

// LatestAvailability -
func (stub *HealthFetcherStub) LatestAvailability(ctx context.Context, apiID string, to int64) (bool, error) {
	if stub.LatestAvailabilityHandler != nil {
		return stub.LatestAvailabilityHandler(ctx, apiID, to)
	}

	return true, nil
}

// IsInterfaceNil -
func (stub *HealthFetcherStub) IsInterfaceNil() bool {
	return stub == nil
}
