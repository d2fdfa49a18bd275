package factory

import (
	"context"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/api"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/engine"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/picture"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/settings"
)

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start()
	Address() string
	Close() error
}

// Storage defines the storage component operations used by the factory
type Storage interface {
	api.HistoryStorage
	engine.HealthRecorder
	picture.Store
	Close() error
}

// ManagementClient defines the management API operations used by the dashboard components
type ManagementClient interface {
	ListApis(ctx context.Context) ([]*common.MonitoredApi, error)
	engine.HealthFetcher
	api.AnalyticsProvider
	settings.PortalConfigSaver
}

// Dashboard defines the dashboard component, as seen by the factory
type Dashboard interface {
	api.Dashboard
	Process(ctx context.Context)
}
