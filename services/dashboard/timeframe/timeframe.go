package timeframe

import (
	"fmt"
	"time"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
)

// Timeframe is a named, fixed lookback window
type Timeframe struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Range    time.Duration `json:"range"`
	Interval time.Duration `json:"interval"`
}

// Known timeframe ids
const (
	LastMinute    = "LAST_MINUTE"
	LastHour      = "LAST_HOUR"
	Last5Minutes  = "LAST_5_MINUTES"
	Last30Minutes = "LAST_30_MINUTES"
	LastDay       = "LAST_DAY"
	LastWeek      = "LAST_WEEK"
	LastMonth     = "LAST_MONTH"
)

const day = 24 * time.Hour

var timeframes = []Timeframe{
	{ID: LastMinute, Title: "Last minute", Range: time.Minute, Interval: 2 * time.Second},
	{ID: LastHour, Title: "Last hour", Range: time.Hour, Interval: time.Minute},
	{ID: Last5Minutes, Title: "Last 5 minutes", Range: 5 * time.Minute, Interval: 10 * time.Second},
	{ID: Last30Minutes, Title: "Last 30 minutes", Range: 30 * time.Minute, Interval: 30 * time.Second},
	{ID: LastDay, Title: "Last day", Range: day, Interval: time.Hour},
	{ID: LastWeek, Title: "Last week", Range: 7 * day, Interval: 3 * time.Hour},
	{ID: LastMonth, Title: "Last month", Range: 30 * day, Interval: day},
}

// All returns every known timeframe, in display order
func All() []Timeframe {
	result := make([]Timeframe, len(timeframes))
	copy(result, timeframes)

	return result
}

// Get returns the timeframe with the provided id
func Get(id string) (Timeframe, error) {
	for _, tf := range timeframes {
		if tf.ID == id {
			return tf, nil
		}
	}

	return Timeframe{}, fmt.Errorf("%w: %s", ErrUnknownTimeframe, id)
}

// Query computes the health query window ending at now
func (tf Timeframe) Query(now time.Time) common.Query {
	to := now.UnixMilli()

	return common.Query{
		From:     to - tf.Range.Milliseconds(),
		To:       to,
		Interval: tf.Interval.Milliseconds(),
	}
}
