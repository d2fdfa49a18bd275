package api

import (
	"context"
	"net/http"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/engine"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/notifier"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/settings"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/timeframe"
)

// Dashboard defines the operations of the health-check dashboard exposed over HTTP
type Dashboard interface {
	Snapshot() common.DashboardSnapshot
	Api(apiID string) (common.MonitoredApi, bool)
	Gauge(apiID string) *engine.GaugeHandle
	CurrentTimeframe() timeframe.Timeframe
	Refresh(ctx context.Context) error
	TimeframeChange(ctx context.Context, tf timeframe.Timeframe) error
	SetHideApisWithoutHC(hide bool)
	IsInterfaceNil() bool
}

// HistoryStorage defines the interface for querying the persisted refresh outcomes
type HistoryStorage interface {
	// GetApiHealthHistory returns the most recent health records of an API, in ascending time order
	GetApiHealthHistory(ctx context.Context, apiID string, limit int) ([]common.ApiHealthRecord, error)
	IsInterfaceNil() bool
}

// AnalyticsProvider defines the interface for forwarding environment analytics requests
type AnalyticsProvider interface {
	Analytics(ctx context.Context, request map[string]string) ([]byte, error)
	IsInterfaceNil() bool
}

// LoggingSettingsHandler defines the operations on the API logging settings
type LoggingSettingsHandler interface {
	Get() settings.LoggingSettings
	Save(ctx context.Context, newSettings settings.LoggingSettings) error
	ReadonlySettings() []string
	IsInterfaceNil() bool
}

// PicturesHandler defines the operations on the API pictures
type PicturesHandler interface {
	Upload(ctx context.Context, apiID string, fileName string, content []byte) (string, error)
	Picture(ctx context.Context, apiID string) (string, bool, error)
	Delete(ctx context.Context, apiID string) error
	IsInterfaceNil() bool
}

// NotificationsProvider defines the interface for reading the user notifications
type NotificationsProvider interface {
	Recent() []notifier.Notification
	IsInterfaceNil() bool
}

// MetricsProvider defines the interface for exposing the service metrics
type MetricsProvider interface {
	Handler() http.Handler
	IsInterfaceNil() bool
}
