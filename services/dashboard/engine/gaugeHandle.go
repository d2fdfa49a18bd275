package engine

import (
	"sync"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/charts"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
)

const gaugeIDPrefix = "gauge_"

// GaugeHandle is the uptime gauge of one API. It is created together with the dashboard and updated by the
// refresh cycles
type GaugeHandle struct {
	mut       sync.RWMutex
	id        string
	series    []common.GaugeSeries
	attribute string
	uptime    float64
	hasUptime bool
}

func newGaugeHandle(apiID string) *GaugeHandle {
	return &GaugeHandle{
		id: gaugeIDPrefix + apiID,
	}
}

// ID returns the widget id of the gauge
func (gh *GaugeHandle) ID() string {
	return gh.id
}

// SeriesAttribute returns the JSON encoded payload for the widget's series attribute. Empty until the first refresh
func (gh *GaugeHandle) SeriesAttribute() string {
	gh.mut.RLock()
	defer gh.mut.RUnlock()

	return gh.attribute
}

// Series returns the gauge payload
func (gh *GaugeHandle) Series() []common.GaugeSeries {
	gh.mut.RLock()
	defer gh.mut.RUnlock()

	return gh.series
}

// Uptime returns the last rounded uptime average and whether one was computed
func (gh *GaugeHandle) Uptime() (float64, bool) {
	gh.mut.RLock()
	defer gh.mut.RUnlock()

	return gh.uptime, gh.hasUptime
}

func (gh *GaugeHandle) set(series []common.GaugeSeries, uptime float64) error {
	attribute, err := charts.EncodeGaugeAttribute(series)
	if err != nil {
		return err
	}

	gh.mut.Lock()
	gh.series = series
	gh.attribute = attribute
	gh.uptime = uptime
	gh.hasUptime = true
	gh.mut.Unlock()

	return nil
}
