package testsCommon

import (
	"context"
	"sync"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
)

// PictureStoreStub is an in-memory picture store
type PictureStoreStub struct {
	mut      sync.Mutex
	pictures map[string]string
	SaveErr  error
}

// SavePicture -
func (stub *PictureStoreStub) SavePicture(_ context.Context, apiID string, dataURL string) error {
	if stub.SaveErr != nil {
		return stub.SaveErr
	}

	stub.mut.Lock()
	defer stub.mut.Unlock()

	if stub.pictures == nil {
		stub.pictures = make(map[string]string)
	}
	stub.pictures[apiID] = dataURL

	return nil
}

// GetPicture -
func (stub *PictureStoreStub) GetPicture(_ context.Context, apiID string) (string, error) {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	dataURL, found := stub.pictures[apiID]
	if !found {
		return "", common.ErrPictureNotFound
	}

	return dataURL, nil
}

// DeletePicture -
func (stub *PictureStoreStub) DeletePicture(_ context.Context, apiID string) error {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	delete(stub.pictures, apiID)

	return nil
}

// IsInterfaceNil -
func (stub *PictureStoreStub) IsInterfaceNil() bool {
	return stub == nil
}
