package testsCommon

import "context"

// PortalConfigSaverStub -
type PortalConfigSaverStub struct {
	SavePortalConfigHandler func(ctx context.Context, payload interface{}) error
}

// SavePortalConfig -
func (stub *PortalConfigSaverStub) SavePortalConfig(ctx context.Context, payload interface{}) error {
	if stub.SavePortalConfigHandler != nil {
		return stub.SavePortalConfigHandler(ctx, payload)
	}

	return nil
}

// IsInterfaceNil -
func (stub *PortalConfigSaverStub) IsInterfaceNil() bool {
	return stub == nil
}
