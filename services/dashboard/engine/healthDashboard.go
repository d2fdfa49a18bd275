package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/charts"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/config"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/metrics"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/timeframe"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"golang.org/x/sync/errgroup"
)

var log = logger.GetOrCreate("engine")

const availabilityType = "AVAILABILITY"

// ArgsHealthDashboard holds the arguments of the health-check dashboard
type ArgsHealthDashboard struct {
	Apis              []*common.MonitoredApi
	Fetcher           HealthFetcher
	Recorder          HealthRecorder
	Metrics           MetricsHandler
	Timeframe         timeframe.Timeframe
	HideApisWithoutHC bool
	FailurePolicy     string
	OnChange          func(snapshot common.DashboardSnapshot)
	NowFunc           func() time.Time
}

type apiHealthResult struct {
	available   bool
	chartData   *common.ChartConfig
	gaugeSeries []common.GaugeSeries
	uptime      float64
	hasUptime   bool
}

type healthDashboard struct {
	fetcher         HealthFetcher
	recorder        HealthRecorder
	metrics         MetricsHandler
	isolateFailures bool
	onChange        func(snapshot common.DashboardSnapshot)
	nowFunc         func() time.Time

	// apis, apisWithHC and gauges are fixed at construction, the content of the apis is guarded by mut
	apis       []*common.MonitoredApi
	apisWithHC []*common.MonitoredApi
	gauges     map[string]*GaugeHandle

	mut               sync.RWMutex
	displayedApis     []*common.MonitoredApi
	hideApisWithoutHC bool
	currentTimeframe  timeframe.Timeframe
	query             common.Query
	generation        uint64
	unavailableApis   int
	refreshID         string
	lastRefresh       int64
}

// NewHealthDashboard creates a new health-check dashboard. The provided APIs are copied
func NewHealthDashboard(args ArgsHealthDashboard) (*healthDashboard, error) {
	err := checkArgs(args)
	if err != nil {
		return nil, err
	}

	hd := &healthDashboard{
		fetcher:           args.Fetcher,
		recorder:          args.Recorder,
		metrics:           args.Metrics,
		isolateFailures:   args.FailurePolicy == config.FailurePolicyIsolate,
		onChange:          args.OnChange,
		nowFunc:           args.NowFunc,
		apis:              make([]*common.MonitoredApi, 0, len(args.Apis)),
		apisWithHC:        make([]*common.MonitoredApi, 0, len(args.Apis)),
		gauges:            make(map[string]*GaugeHandle),
		hideApisWithoutHC: args.HideApisWithoutHC,
		currentTimeframe:  args.Timeframe,
	}
	if hd.nowFunc == nil {
		hd.nowFunc = time.Now
	}
	if hd.onChange == nil {
		hd.onChange = func(common.DashboardSnapshot) {}
	}

	for _, api := range args.Apis {
		apiCopy := *api
		apiCopy.Services = append([]string(nil), api.Services...)
		hd.apis = append(hd.apis, &apiCopy)

		if apiCopy.HasHealthCheck() {
			hd.apisWithHC = append(hd.apisWithHC, &apiCopy)
			hd.gauges[apiCopy.ID] = newGaugeHandle(apiCopy.ID)
		}
	}
	hd.updateDisplayedApis()
	hd.metrics.SetMonitoredApis(len(hd.apisWithHC))

	return hd, nil
}

func checkArgs(args ArgsHealthDashboard) error {
	if check.IfNil(args.Fetcher) {
		return errNilHealthFetcher
	}
	if check.IfNil(args.Recorder) {
		return errNilHealthRecorder
	}
	if check.IfNil(args.Metrics) {
		return errNilMetricsHandler
	}
	if args.FailurePolicy != config.FailurePolicyAbort && args.FailurePolicy != config.FailurePolicyIsolate {
		return fmt.Errorf("%w: %s", errUnknownFailurePolicy, args.FailurePolicy)
	}

	ids := make(map[string]struct{}, len(args.Apis))
	for idx, api := range args.Apis {
		if api == nil {
			return fmt.Errorf("%w at index %d", errNilApi, idx)
		}
		if _, found := ids[api.ID]; found {
			return fmt.Errorf("%w: %s", errDuplicatedApi, api.ID)
		}
		ids[api.ID] = struct{}{}
	}

	return nil
}

// SetHideApisWithoutHC changes the display filter. The set of monitored APIs is not changed
func (hd *healthDashboard) SetHideApisWithoutHC(hide bool) {
	hd.mut.Lock()
	hd.hideApisWithoutHC = hide
	hd.updateDisplayedApis()
	snapshot := hd.snapshot()
	hd.mut.Unlock()

	hd.onChange(snapshot)
}

func (hd *healthDashboard) updateDisplayedApis() {
	if hd.hideApisWithoutHC {
		hd.displayedApis = hd.apisWithHC
		return
	}

	hd.displayedApis = hd.apis
}

// TimeframeChange selects a new timeframe and refreshes the dashboard. Refresh cycles started before the change
// will not commit anymore
func (hd *healthDashboard) TimeframeChange(ctx context.Context, tf timeframe.Timeframe) error {
	hd.mut.Lock()
	hd.currentTimeframe = tf
	hd.mut.Unlock()

	log.Debug("timeframe changed", "timeframe", tf.ID)

	return hd.Refresh(ctx)
}

// Process refreshes the dashboard and logs the outcome. Used by the periodic refresh job
func (hd *healthDashboard) Process(ctx context.Context) {
	err := hd.Refresh(ctx)
	if err != nil {
		log.Warn("health dashboard refresh failed", "error", err)
	}
}

// Refresh queries the health data of every API with the health-check service over the current timeframe and
// commits the number of unavailable APIs
func (hd *healthDashboard) Refresh(ctx context.Context) error {
	start := time.Now()

	hd.mut.Lock()
	hd.generation++
	generation := hd.generation
	tf := hd.currentTimeframe
	query := tf.Query(hd.nowFunc())
	hd.query = query
	hd.mut.Unlock()

	refreshID := uuid.New().String()
	log.Debug("refreshing health dashboard", "refresh", refreshID, "timeframe", tf.ID,
		"from", query.From, "to", query.To, "num apis", len(hd.apisWithHC))

	unavailable := atomic.Int32{}
	records := make([]*common.ApiHealthRecord, len(hd.apisWithHC))

	group := errgroup.Group{}
	for idx, api := range hd.apisWithHC {
		group.Go(func() error {
			result, err := hd.fetchApiHealth(ctx, api.ID, query)
			if err != nil {
				hd.metrics.IncFetchFailures()
				if hd.isolateFailures {
					log.Warn("failed to fetch API health, API skipped", "refresh", refreshID, "api", api.ID, "error", err)
					return nil
				}

				return fmt.Errorf("API %s: %w", api.ID, err)
			}

			if !hd.applyResult(generation, api, result) {
				return nil
			}
			if !result.available {
				unavailable.Add(1)
			}

			records[idx] = &common.ApiHealthRecord{
				ApiID:      api.ID,
				Uptime:     result.uptime,
				HasUptime:  result.hasUptime,
				Available:  result.available,
				RefreshID:  refreshID,
				RecordedAt: query.To,
			}

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		hd.metrics.ObserveRefresh(metrics.ResultAborted, time.Since(start))
		return fmt.Errorf("%w: %w", ErrRefreshAborted, err)
	}

	hd.mut.Lock()
	if generation != hd.generation {
		hd.mut.Unlock()

		log.Debug("discarding stale refresh", "refresh", refreshID)
		hd.metrics.ObserveRefresh(metrics.ResultStale, time.Since(start))
		return nil
	}

	hd.unavailableApis = int(unavailable.Load())
	hd.refreshID = refreshID
	hd.lastRefresh = hd.nowFunc().UnixMilli()
	snapshot := hd.snapshot()
	hd.mut.Unlock()

	hd.metrics.SetUnavailableApis(snapshot.UnavailableApis)
	hd.metrics.ObserveRefresh(metrics.ResultCommitted, time.Since(start))
	hd.saveRecords(ctx, records)

	log.Debug("health dashboard refreshed", "refresh", refreshID, "unavailable apis", snapshot.UnavailableApis,
		"duration", time.Since(start))

	hd.onChange(snapshot)

	return nil
}

func (hd *healthDashboard) fetchApiHealth(ctx context.Context, apiID string, query common.Query) (*apiHealthResult, error) {
	var response *common.AvailabilityResponse
	result := &apiHealthResult{}

	group := errgroup.Group{}
	group.Go(func() error {
		var err error
		response, err = hd.fetcher.HealthAverage(ctx, apiID, common.AverageQuery{
			Query: query,
			Type:  availabilityType,
		})
		return err
	})
	group.Go(func() error {
		var err error
		result.available, err = hd.fetcher.LatestAvailability(ctx, apiID, query.To)
		return err
	})

	err := group.Wait()
	if err != nil {
		return nil, err
	}

	bucket := lastBucket(response)
	if bucket == nil || len(bucket.Data) == 0 {
		return result, nil
	}

	result.chartData = charts.ChartData(response.Timestamp, charts.AvailabilitySeries(bucket))
	result.gaugeSeries, result.uptime, result.hasUptime = charts.UptimeSeries(bucket)

	return result, nil
}

// lastBucket returns the last non-nil bucket of all the response values
func lastBucket(response *common.AvailabilityResponse) *common.AvailabilityBucket {
	if response == nil {
		return nil
	}

	var last *common.AvailabilityBucket
	for _, value := range response.Values {
		for _, bucket := range value.Buckets {
			if bucket != nil {
				last = bucket
			}
		}
	}

	return last
}

// applyResult writes the per-API state, unless a newer refresh cycle was started meanwhile
func (hd *healthDashboard) applyResult(generation uint64, api *common.MonitoredApi, result *apiHealthResult) bool {
	hd.mut.Lock()
	defer hd.mut.Unlock()

	if generation != hd.generation {
		return false
	}

	api.Available = result.available
	if result.chartData != nil {
		api.ChartData = result.chartData
	}
	if result.hasUptime {
		err := hd.gauges[api.ID].set(result.gaugeSeries, result.uptime)
		if err != nil {
			log.Warn("failed to update the uptime gauge", "api", api.ID, "error", err)
		}
	}

	return true
}

func (hd *healthDashboard) saveRecords(ctx context.Context, records []*common.ApiHealthRecord) {
	toSave := make([]common.ApiHealthRecord, 0, len(records))
	for _, record := range records {
		if record != nil {
			toSave = append(toSave, *record)
		}
	}

	err := hd.recorder.SaveHealthRecords(ctx, toSave)
	if err != nil {
		log.Warn("failed to save the health records", "error", err)
	}
}

// Snapshot returns a copy of the current dashboard state
func (hd *healthDashboard) Snapshot() common.DashboardSnapshot {
	hd.mut.RLock()
	defer hd.mut.RUnlock()

	return hd.snapshot()
}

func (hd *healthDashboard) snapshot() common.DashboardSnapshot {
	displayed := make([]common.MonitoredApi, 0, len(hd.displayedApis))
	for _, api := range hd.displayedApis {
		displayed = append(displayed, *api)
	}

	withHC := make([]string, 0, len(hd.apisWithHC))
	for _, api := range hd.apisWithHC {
		withHC = append(withHC, api.ID)
	}

	return common.DashboardSnapshot{
		RefreshID:         hd.refreshID,
		Timeframe:         hd.currentTimeframe.ID,
		Query:             hd.query,
		HideApisWithoutHC: hd.hideApisWithoutHC,
		DisplayedApis:     displayed,
		ApisWithHC:        withHC,
		UnavailableApis:   hd.unavailableApis,
		LastRefresh:       hd.lastRefresh,
	}
}

// Api returns a copy of the API with the provided id
func (hd *healthDashboard) Api(apiID string) (common.MonitoredApi, bool) {
	hd.mut.RLock()
	defer hd.mut.RUnlock()

	for _, api := range hd.apis {
		if api.ID == apiID {
			return *api, true
		}
	}

	return common.MonitoredApi{}, false
}

// Gauge returns the uptime gauge of an API. Returns nil for APIs without the health-check service
func (hd *healthDashboard) Gauge(apiID string) *GaugeHandle {
	return hd.gauges[apiID]
}

// CurrentTimeframe returns the selected timeframe
func (hd *healthDashboard) CurrentTimeframe() timeframe.Timeframe {
	hd.mut.RLock()
	defer hd.mut.RUnlock()

	return hd.currentTimeframe
}

// UnavailableApis returns the number of unavailable APIs committed by the last refresh cycle
func (hd *healthDashboard) UnavailableApis() int {
	hd.mut.RLock()
	defer hd.mut.RUnlock()

	return hd.unavailableApis
}

// IsInterfaceNil returns true if the value under the interface is nil
func (hd *healthDashboard) IsInterfaceNil() bool {
	return hd == nil
}
