package timeframe

import "errors"

// ErrUnknownTimeframe signals a timeframe id that is not defined
var ErrUnknownTimeframe = errors.New("unknown timeframe")
