package charts

import "github.com/iulianpascalau/api-healthcheck/services/dashboard/common"

// AvailabilitySeries builds the column series of a bucket, colored per sample by the threshold zones
func AvailabilitySeries(bucket *common.AvailabilityBucket) []common.Series {
	redLimit := RedThreshold
	orangeLimit := OrangeThreshold

	data := make([]float64, len(bucket.Data))
	copy(data, bucket.Data)

	return []common.Series{
		{
			Name:          "Availability",
			Data:          data,
			Color:         GreenColor,
			Type:          "column",
			LabelSuffix:   "%",
			DecimalFormat: true,
			Zones: []common.Zone{
				{Value: &redLimit, Color: RedColor},
				{Value: &orangeLimit, Color: OrangeColor},
				{Color: GreenColor},
			},
		},
	}
}

// ChartData wraps the availability series into a full chart configuration. The timestamp may be nil
func ChartData(timestamp *common.AnalyticsTimestamp, series []common.Series) *common.ChartConfig {
	chart := &common.ChartConfig{
		Series: series,
		Legend: common.Legend{Enabled: false},
		XAxis: common.XAxis{
			Type: "datetime",
			DateTimeLabelFormats: map[string]string{
				"month": "%e. %b",
				"year":  "%b",
			},
		},
		YAxis: []common.YAxis{
			{Visible: false, Max: 100},
		},
	}

	if timestamp != nil {
		chart.PlotOptions.Series = common.SeriesPlotOptions{
			PointStart:    timestamp.From,
			PointInterval: timestamp.Interval,
		}
	}

	return chart
}
