package testsCommon

import "context"

// AnalyticsProviderStub -
type AnalyticsProviderStub struct {
	AnalyticsHandler func(ctx context.Context, request map[string]string) ([]byte, error)
}

// Analytics -
func (stub *AnalyticsProviderStub) Analytics(ctx context.Context, request map[string]string) ([]byte, error) {
	if stub.AnalyticsHandler != nil {
		return stub.AnalyticsHandler(ctx, request)
	}

	return []byte("{}"), nil
}

// IsInterfaceNil -
func (stub *AnalyticsProviderStub) IsInterfaceNil() bool {
	return stub == nil
}
