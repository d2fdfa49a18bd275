package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iulianpascalau/api-healthcheck/services/dashboard/common"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

var log = logger.GetOrCreate("client")

// ArgsManagementClient holds the arguments of the management API client
type ArgsManagementClient struct {
	ManagementURL    string
	EnvironmentURL   string
	Token            string
	Timeout          time.Duration
	AnalyticsTimeout time.Duration
}

type managementClient struct {
	managementURL   string
	environmentURL  string
	token           string
	client          *http.Client
	analyticsClient *http.Client
}

// NewManagementClient creates a new client of the management REST API
func NewManagementClient(args ArgsManagementClient) (*managementClient, error) {
	if args.ManagementURL == "" {
		return nil, fmt.Errorf("%w for the management API", errEmptyBaseURL)
	}
	environmentURL := args.EnvironmentURL
	if environmentURL == "" {
		environmentURL = args.ManagementURL
	}

	return &managementClient{
		managementURL:  strings.TrimSuffix(args.ManagementURL, "/"),
		environmentURL: strings.TrimSuffix(environmentURL, "/"),
		token:          args.Token,
		client: &http.Client{
			Timeout: args.Timeout,
		},
		analyticsClient: &http.Client{
			Timeout: args.AnalyticsTimeout,
		},
	}, nil
}

// ListApis returns all the APIs known by the management API
func (mc *managementClient) ListApis(ctx context.Context) ([]*common.MonitoredApi, error) {
	body, err := mc.get(ctx, mc.client, mc.managementURL+"/apis")
	if err != nil {
		return nil, err
	}

	apis := make([]*common.MonitoredApi, 0)
	err = json.Unmarshal(body, &apis)
	if err != nil {
		return nil, fmt.Errorf("%w while listing APIs: %s", errInvalidJSON, err.Error())
	}

	return apis, nil
}

// HealthAverage fetches the average health values of an API
func (mc *managementClient) HealthAverage(ctx context.Context, apiID string, query common.AverageQuery) (*common.AvailabilityResponse, error) {
	params := url.Values{}
	params.Set("from", strconv.FormatInt(query.From, 10))
	params.Set("to", strconv.FormatInt(query.To, 10))
	params.Set("interval", strconv.FormatInt(query.Interval, 10))
	params.Set("type", query.Type)

	body, err := mc.get(ctx, mc.client, mc.apiURL(apiID, "/health/average")+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	response := &common.AvailabilityResponse{}
	err = json.Unmarshal(body, response)
	if err != nil {
		return nil, fmt.Errorf("%w for API %s health average: %s", errInvalidJSON, apiID, err.Error())
	}

	return response, nil
}

// HealthLogs fetches a page of health-check logs of an API. Only the fields used by the dashboard are extracted
func (mc *managementClient) HealthLogs(ctx context.Context, apiID string, query common.LogsQuery) (*common.LogsResponse, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("size", strconv.Itoa(query.Size))
	params.Set("to", strconv.FormatInt(query.To, 10))

	body, err := mc.get(ctx, mc.client, mc.apiURL(apiID, "/health/logs")+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w for API %s health logs", errInvalidJSON, apiID)
	}

	parsed := gjson.ParseBytes(body)
	response := &common.LogsResponse{
		Total: parsed.Get("total").Uint(),
	}
	parsed.Get("logs").ForEach(func(_, value gjson.Result) bool {
		response.Logs = append(response.Logs, common.HealthLog{
			ID:        value.Get("id").String(),
			Available: value.Get("available").Bool(),
			Timestamp: value.Get("timestamp").Int(),
		})
		return true
	})

	return response, nil
}

// LatestAvailability returns the availability flag of the most recent health-check log entry
func (mc *managementClient) LatestAvailability(ctx context.Context, apiID string, to int64) (bool, error) {
	logs, err := mc.HealthLogs(ctx, apiID, common.LogsQuery{Page: 1, Size: 1, To: to})
	if err != nil {
		return false, err
	}
	if len(logs.Logs) == 0 {
		return false, fmt.Errorf("%w for API %s", ErrNoHealthLogs, apiID)
	}

	return logs.Logs[0].Available, nil
}

// Analytics forwards an environment analytics request. Empty parameters are not sent
func (mc *managementClient) Analytics(ctx context.Context, request map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(request))
	for key, value := range request {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	params := make([]string, 0, len(keys))
	for _, key := range keys {
		params = append(params, url.QueryEscape(key)+"="+url.QueryEscape(request[key]))
	}

	body, err := mc.get(ctx, mc.analyticsClient, mc.environmentURL+"/analytics?"+strings.Join(params, "&"))
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w for analytics", errInvalidJSON)
	}

	return body, nil
}

// SavePortalConfig pushes the portal settings to the environment
func (mc *managementClient) SavePortalConfig(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal portal settings: %w", err)
	}

	endpoint := mc.environmentURL + "/settings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create settings request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = mc.do(mc.client, req)
	if err != nil {
		return err
	}

	log.Debug("saved portal settings", "endpoint", endpoint)

	return nil
}

func (mc *managementClient) apiURL(apiID string, suffix string) string {
	return mc.managementURL + "/apis/" + url.PathEscape(apiID) + suffix
}

func (mc *managementClient) get(ctx context.Context, client *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	return mc.do(client, req)
}

func (mc *managementClient) do(client *http.Client, req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if mc.token != "" {
		req.Header.Set("Authorization", "Bearer "+mc.token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errStatusNotOK{url: req.URL.Path, statusCode: resp.StatusCode}
	}

	return io.ReadAll(resp.Body)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (mc *managementClient) IsInterfaceNil() bool {
	return mc == nil
}
