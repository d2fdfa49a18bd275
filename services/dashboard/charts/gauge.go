package charts

import (
	"math"

	"github.com/goccy/go-json"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
	"gonum.org/v1/gonum/stat"
)

// UptimeAverage returns the average of the bucket, rounded to 2 decimals.
// The last sample is left out since the backend reports the still open time slice as 0 most of the time.
// A single sample bucket is averaged as is. Returns false on an empty bucket.
func UptimeAverage(bucket *common.AvailabilityBucket) (float64, bool) {
	samples := bucket.Data
	switch len(samples) {
	case 0:
		return 0, false
	case 1:
	default:
		samples = samples[:len(samples)-1]
	}

	return roundHalfUp(stat.Mean(samples, nil), 2), true
}

// UptimeSeries builds the gauge payload of a bucket. Returns false on an empty bucket
func UptimeSeries(bucket *common.AvailabilityBucket) ([]common.GaugeSeries, float64, bool) {
	average, ok := UptimeAverage(bucket)
	if !ok {
		return nil, 0, false
	}

	series := []common.GaugeSeries{
		{
			Name: "Uptime",
			Data: []common.GaugePoint{
				{
					Color:       ColorFor(average),
					Radius:      "112%",
					InnerRadius: "88%",
					Y:           average,
				},
			},
			DataLabels: []common.GaugeDataLabel{
				{
					Enabled:       true,
					Align:         "center",
					VerticalAlign: "middle",
					Format:        "{series.name}<br>{point.y}%",
					BorderWidth:   0,
					Style: map[string]string{
						"fontSize": "12px",
					},
				},
			},
		},
	}

	return series, average, true
}

// EncodeGaugeAttribute encodes the gauge payload as the string value of the widget's series attribute
func EncodeGaugeAttribute(series []common.GaugeSeries) (string, error) {
	buff, err := json.MarshalNoEscape(series)
	if err != nil {
		return "", err
	}

	return string(buff), nil
}

func roundHalfUp(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))

	return math.Floor(value*factor+0.5) / factor
}
