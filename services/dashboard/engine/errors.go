package engine

import "errors"

// ErrRefreshAborted signals a refresh cycle whose aggregate was not committed because of a failed API
var ErrRefreshAborted = errors.New("refresh aborted")

var errNilHealthFetcher = errors.New("nil health fetcher")
var errNilHealthRecorder = errors.New("nil health recorder")
var errNilMetricsHandler = errors.New("nil metrics handler")
var errNilApi = errors.New("nil API")
var errDuplicatedApi = errors.New("duplicated API")
var errUnknownFailurePolicy = errors.New("unknown failure policy")
