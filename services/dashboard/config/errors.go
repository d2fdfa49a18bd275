package config

import "errors"

var errEmptyManagementURL = errors.New("empty ManagementURL")
var errUnknownFailurePolicy = errors.New("unknown FailurePolicy")
var errNegativeRetention = errors.New("negative RetentionSeconds")
