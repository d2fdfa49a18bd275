package testsCommon

// NotifierStub -
type NotifierStub struct {
	ShowHandler      func(message string)
	ShowErrorHandler func(message string)
}

// Show -
func (stub *NotifierStub) Show(message string) {
	if stub.ShowHandler != nil {
		stub.ShowHandler(message)
	}
}

// ShowError -
func (stub *NotifierStub) ShowError(message string) {
	if stub.ShowErrorHandler != nil {
		stub.ShowErrorHandler(message)
	}
}

// IsInterfaceNil -
func (stub *NotifierStub) IsInterfaceNil() bool {
	return stub == nil
}
