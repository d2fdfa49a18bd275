package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoHealthLogs signals an API without any health-check log entry in the requested window
var ErrNoHealthLogs = errors.New("no health-check log entry")

var errEmptyBaseURL = errors.New("empty base URL")
var errInvalidJSON = errors.New("invalid JSON response")

type errStatusNotOK struct {
	url        string
	statusCode int
}

func (e errStatusNotOK) Error() string {
	return fmt.Sprintf("non-2xx HTTP status code from %s: %d %s", e.url, e.statusCode, http.StatusText(e.statusCode))
}
