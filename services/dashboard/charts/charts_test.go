package charts

import (
	"testing"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RedColor, ColorFor(0))
	assert.Equal(t, RedColor, ColorFor(80))
	assert.Equal(t, OrangeColor, ColorFor(80.01))
	assert.Equal(t, OrangeColor, ColorFor(95))
	assert.Equal(t, GreenColor, ColorFor(95.01))
	assert.Equal(t, GreenColor, ColorFor(100))
}

func TestUptimeAverage(t *testing.T) {
	t.Parallel()

	t.Run("empty bucket", func(t *testing.T) {
		_, ok := UptimeAverage(&common.AvailabilityBucket{})
		assert.False(t, ok)
	})
	t.Run("single sample is kept", func(t *testing.T) {
		average, ok := UptimeAverage(&common.AvailabilityBucket{Data: []float64{42.5}})
		assert.True(t, ok)
		assert.Equal(t, 42.5, average)
	})
	t.Run("last sample is dropped", func(t *testing.T) {
		average, ok := UptimeAverage(&common.AvailabilityBucket{Data: []float64{100, 100, 100, 0}})
		assert.True(t, ok)
		assert.Equal(t, 100.0, average)
	})
	t.Run("rounded to 2 decimals", func(t *testing.T) {
		average, _ := UptimeAverage(&common.AvailabilityBucket{Data: []float64{100, 99, 99, 0}})
		assert.Equal(t, 99.33, average)

		average, _ = UptimeAverage(&common.AvailabilityBucket{Data: []float64{90.125, 90.125, 50}})
		assert.Equal(t, 90.13, average)
	})
}

func TestUptimeSeries(t *testing.T) {
	t.Parallel()

	t.Run("all samples above 96 should be green", func(t *testing.T) {
		series, average, ok := UptimeSeries(&common.AvailabilityBucket{Data: []float64{96, 98, 100, 97, 10}})
		require.True(t, ok)
		require.Len(t, series, 1)
		assert.Equal(t, 97.75, average)
		assert.Equal(t, GreenColor, series[0].Data[0].Color)
		assert.Equal(t, 97.75, series[0].Data[0].Y)
	})
	t.Run("trailing zero is ignored", func(t *testing.T) {
		series, average, ok := UptimeSeries(&common.AvailabilityBucket{Data: []float64{100, 100, 100, 0}})
		require.True(t, ok)
		assert.Equal(t, 100.0, average)
		assert.Equal(t, GreenColor, series[0].Data[0].Color)
	})
	t.Run("two samples at 70 should be red", func(t *testing.T) {
		series, average, ok := UptimeSeries(&common.AvailabilityBucket{Data: []float64{70, 70}})
		require.True(t, ok)
		assert.Equal(t, 70.0, average)
		assert.Equal(t, RedColor, series[0].Data[0].Color)
	})
	t.Run("orange band", func(t *testing.T) {
		series, _, _ := UptimeSeries(&common.AvailabilityBucket{Data: []float64{90, 90, 100}})
		assert.Equal(t, OrangeColor, series[0].Data[0].Color)
	})
	t.Run("empty bucket has no gauge", func(t *testing.T) {
		series, _, ok := UptimeSeries(&common.AvailabilityBucket{Data: []float64{}})
		assert.False(t, ok)
		assert.Nil(t, series)
	})
}

func TestEncodeGaugeAttribute(t *testing.T) {
	t.Parallel()

	series, _, _ := UptimeSeries(&common.AvailabilityBucket{Data: []float64{100, 100, 0}})
	attribute, err := EncodeGaugeAttribute(series)
	require.NoError(t, err)

	assert.Contains(t, attribute, `"name":"Uptime"`)
	assert.Contains(t, attribute, `"y":100`)
	assert.Contains(t, attribute, `"color":"#5CB85C"`)
	assert.Contains(t, attribute, `"innerRadius":"88%"`)
	assert.Contains(t, attribute, `"format":"{series.name}<br>{point.y}%"`)
}

func TestAvailabilitySeries(t *testing.T) {
	t.Parallel()

	bucket := &common.AvailabilityBucket{Data: []float64{100, 50, 90}}
	series := AvailabilitySeries(bucket)
	require.Len(t, series, 1)

	s := series[0]
	assert.Equal(t, "Availability", s.Name)
	assert.Equal(t, "column", s.Type)
	assert.Equal(t, []float64{100, 50, 90}, s.Data)
	require.Len(t, s.Zones, 3)
	assert.Equal(t, 80.0, *s.Zones[0].Value)
	assert.Equal(t, RedColor, s.Zones[0].Color)
	assert.Equal(t, 95.0, *s.Zones[1].Value)
	assert.Equal(t, OrangeColor, s.Zones[1].Color)
	assert.Nil(t, s.Zones[2].Value)
	assert.Equal(t, GreenColor, s.Zones[2].Color)

	bucket.Data[0] = 0
	assert.Equal(t, 100.0, s.Data[0])
}

func TestChartData(t *testing.T) {
	t.Parallel()

	series := AvailabilitySeries(&common.AvailabilityBucket{Data: []float64{100}})

	t.Run("with timestamp", func(t *testing.T) {
		chart := ChartData(&common.AnalyticsTimestamp{From: 1000, To: 2000, Interval: 100}, series)
		assert.Equal(t, int64(1000), chart.PlotOptions.Series.PointStart)
		assert.Equal(t, int64(100), chart.PlotOptions.Series.PointInterval)
		assert.False(t, chart.Legend.Enabled)
		assert.Equal(t, "datetime", chart.XAxis.Type)
		assert.Equal(t, []common.YAxis{{Visible: false, Max: 100}}, chart.YAxis)
		assert.Equal(t, series, chart.Series)
	})
	t.Run("without timestamp", func(t *testing.T) {
		chart := ChartData(nil, series)
		assert.Equal(t, common.SeriesPlotOptions{}, chart.PlotOptions.Series)
	})
}
