package testsCommon

import (
	"context"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
)

// HealthRecorderStub -
type HealthRecorderStub struct {
	SaveHealthRecordsHandler func(ctx context.Context, records []common.ApiHealthRecord) error
}

// SaveHealthRecords -
func (stub *HealthRecorderStub) SaveHealthRecords(ctx context.Context, records []common.ApiHealthRecord) error {
	if stub.SaveHealthRecordsHandler != nil {
		return stub.SaveHealthRecordsHandler(ctx, records)
	}

	return nil
}

// IsInterfaceNil -
func (stub *HealthRecorderStub) IsInterfaceNil() bool {
	return stub == nil
}
