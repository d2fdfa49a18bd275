package factory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iulianpascalau/api-healthcheck/commonGo"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/api"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/client"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/config"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/engine"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/metrics"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/notifier"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/picture"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/settings"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/storage"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/timeframe"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("factory")

// ArgsComponentsHandler defines the components handler arguments
type ArgsComponentsHandler struct {
	SqlitePath      string
	ServiceKeyApi   string
	ManagementToken string
	Config          config.Config
}

type componentsHandler struct {
	store           Storage
	dashboard       Dashboard
	server          Server
	refreshInterval time.Duration
	mutCancel       sync.Mutex
	cancel          func()
	wg              sync.WaitGroup
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(args ArgsComponentsHandler) (*componentsHandler, error) {
	cfg := args.Config

	tf, err := timeframe.Get(cfg.DefaultTimeframe)
	if err != nil {
		return nil, err
	}

	managementClient, err := client.NewManagementClient(client.ArgsManagementClient{
		ManagementURL:    cfg.ManagementURL,
		EnvironmentURL:   cfg.EnvironmentURL,
		Token:            args.ManagementToken,
		Timeout:          time.Duration(cfg.RequestTimeoutInSeconds) * time.Second,
		AnalyticsTimeout: time.Duration(cfg.AnalyticsClientTimeoutInSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	apis, err := listApis(managementClient, time.Duration(cfg.RequestTimeoutInSeconds)*time.Second)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(args.SqlitePath, cfg.RetentionSeconds)
	if err != nil {
		return nil, err
	}

	ch, err := createComponents(args, cfg, tf, apis, managementClient, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return ch, nil
}

func listApis(managementClient ManagementClient, timeout time.Duration) ([]*common.MonitoredApi, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	apis, err := managementClient.ListApis(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w while fetching the monitored APIs", err)
	}

	log.Info("fetched the monitored APIs", "num apis", len(apis))

	return apis, nil
}

func createComponents(
	args ArgsComponentsHandler,
	cfg config.Config,
	tf timeframe.Timeframe,
	apis []*common.MonitoredApi,
	managementClient ManagementClient,
	store Storage,
) (*componentsHandler, error) {
	promMetrics := metrics.NewPrometheusMetrics()
	notifications := notifier.NewMemoryNotifier(0)

	dashboard, err := engine.NewHealthDashboard(engine.ArgsHealthDashboard{
		Apis:              apis,
		Fetcher:           managementClient,
		Recorder:          store,
		Metrics:           promMetrics,
		Timeframe:         tf,
		HideApisWithoutHC: cfg.HideApisWithoutHealthCheck,
		FailurePolicy:     cfg.FailurePolicy,
		OnChange: func(snapshot common.DashboardSnapshot) {
			log.Debug("dashboard changed", "refresh", snapshot.RefreshID, "timeframe", snapshot.Timeframe,
				"displayed apis", len(snapshot.DisplayedApis), "unavailable apis", snapshot.UnavailableApis)
		},
	})
	if err != nil {
		return nil, err
	}

	loggingSettings, err := settings.NewLoggingSettingsHandler(managementClient, notifications, cfg.ReadonlySettings, settings.LoggingSettings{
		MaxDurationMillis: cfg.Logging.MaxDurationMillis,
		AuditEnabled:      cfg.Logging.AuditEnabled,
		AuditTrailEnabled: cfg.Logging.AuditTrailEnabled,
		UserDisplayed:     cfg.Logging.UserDisplayed,
	})
	if err != nil {
		return nil, err
	}

	pictures, err := picture.NewPicturesHandler(store, notifications, cfg.MaxPictureSize)
	if err != nil {
		return nil, err
	}

	server, err := api.NewServer(api.ArgsWebServer{
		ServiceKeyApi:   args.ServiceKeyApi,
		ListenAddress:   cfg.ListenAddress,
		StaticDir:       cfg.StaticDir,
		Dashboard:       dashboard,
		Storage:         store,
		Analytics:       managementClient,
		LoggingSettings: loggingSettings,
		Pictures:        pictures,
		Notifications:   notifications,
		Metrics:         promMetrics,
		GeneralHandler:  api.CORSMiddleware,
	})
	if err != nil {
		return nil, err
	}

	return &componentsHandler{
		store:           store,
		dashboard:       dashboard,
		server:          server,
		refreshInterval: time.Duration(cfg.RefreshIntervalInSeconds) * time.Second,
	}, nil
}

// GetStore returns the storage component
func (ch *componentsHandler) GetStore() Storage {
	return ch.store
}

// GetDashboard returns the dashboard component
func (ch *componentsHandler) GetDashboard() Dashboard {
	return ch.dashboard
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components. The dashboard is refreshed periodically when a refresh interval is set,
// otherwise only once
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return
	}

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	ch.server.Start()

	ch.wg.Add(1)
	go func() {
		defer ch.wg.Done()

		if ch.refreshInterval > 0 {
			commonGo.CronJob(ctx, ch.dashboard.Process, ch.refreshInterval)
			return
		}

		ch.dashboard.Process(ctx)
	}()
}

// Close stops the dashboard refresh, waits for the in-flight one and closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		ch.cancel()
		ch.cancel = nil
	}
	ch.wg.Wait()

	_ = ch.server.Close()
	_ = ch.store.Close()
}
