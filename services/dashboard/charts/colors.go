package charts

// Chart colors
const (
	RedColor    = "#D9534F"
	OrangeColor = "#F0AD4E"
	GreenColor  = "#5CB85C"
)

// Availability thresholds, in percent
const (
	RedThreshold    = 80.0
	OrangeThreshold = 95.0
)

// ColorFor returns the color of a single availability percentage
func ColorFor(value float64) string {
	switch {
	case value <= RedThreshold:
		return RedColor
	case value <= OrangeThreshold:
		return OrangeColor
	default:
		return GreenColor
	}
}
