package common

// Zone is a color band of a chart series. A nil Value extends the zone to the top of the axis
type Zone struct {
	Value *float64 `json:"value,omitempty"`
	Color string   `json:"color"`
}

// Series is a chart series with its color zones
type Series struct {
	Name          string    `json:"name"`
	Data          []float64 `json:"data"`
	Color         string    `json:"color"`
	Type          string    `json:"type"`
	LabelSuffix   string    `json:"labelSuffix"`
	DecimalFormat bool      `json:"decimalFormat"`
	Zones         []Zone    `json:"zones"`
}

// SeriesPlotOptions positions the series points on the time axis
type SeriesPlotOptions struct {
	PointStart    int64 `json:"pointStart,omitempty"`
	PointInterval int64 `json:"pointInterval,omitempty"`
}

// PlotOptions -
type PlotOptions struct {
	Series SeriesPlotOptions `json:"series"`
}

// Legend -
type Legend struct {
	Enabled bool `json:"enabled"`
}

// XAxis -
type XAxis struct {
	Type                 string            `json:"type"`
	DateTimeLabelFormats map[string]string `json:"dateTimeLabelFormats"`
}

// YAxis -
type YAxis struct {
	Visible bool    `json:"visible"`
	Max     float64 `json:"max"`
}

// ChartConfig is the full configuration of an availability chart
type ChartConfig struct {
	PlotOptions PlotOptions `json:"plotOptions"`
	Series      []Series    `json:"series"`
	Legend      Legend      `json:"legend"`
	XAxis       XAxis       `json:"xAxis"`
	YAxis       []YAxis     `json:"yAxis"`
}

// GaugePoint is the single point drawn by an uptime gauge
type GaugePoint struct {
	Color       string  `json:"color"`
	Radius      string  `json:"radius"`
	InnerRadius string  `json:"innerRadius"`
	Y           float64 `json:"y"`
}

// GaugeDataLabel -
type GaugeDataLabel struct {
	Enabled       bool              `json:"enabled"`
	Align         string            `json:"align"`
	VerticalAlign string            `json:"verticalAlign"`
	Format        string            `json:"format"`
	BorderWidth   int               `json:"borderWidth"`
	Style         map[string]string `json:"style"`
}

// GaugeSeries is a series rendered by an uptime gauge
type GaugeSeries struct {
	Name       string           `json:"name"`
	Data       []GaugePoint     `json:"data"`
	DataLabels []GaugeDataLabel `json:"dataLabels"`
}
