package testsCommon

import "time"

// MetricsHandlerStub -
type MetricsHandlerStub struct {
	ObserveRefreshHandler     func(result string, duration time.Duration)
	IncFetchFailuresHandler   func()
	SetUnavailableApisHandler func(value int)
	SetMonitoredApisHandler   func(value int)
}

// ObserveRefresh -
func (stub *MetricsHandlerStub) ObserveRefresh(result string, duration time.Duration) {
	if stub.ObserveRefreshHandler != nil {
		stub.ObserveRefreshHandler(result, duration)
	}
}

// IncFetchFailures -
func (stub *MetricsHandlerStub) IncFetchFailures() {
	if stub.IncFetchFailuresHandler != nil {
		stub.IncFetchFailuresHandler()
	}
}

// SetUnavailableApis -
func (stub *MetricsHandlerStub) SetUnavailableApis(value int) {
	if stub.SetUnavailableApisHandler != nil {
		stub.SetUnavailableApisHandler(value)
	}
}

// SetMonitoredApis -
func (stub *MetricsHandlerStub) SetMonitoredApis(value int) {
	if stub.SetMonitoredApisHandler != nil {
		stub.SetMonitoredApisHandler(value)
	}
}

// IsInterfaceNil -
func (stub *MetricsHandlerStub) IsInterfaceNil() bool {
	return stub == nil
}
