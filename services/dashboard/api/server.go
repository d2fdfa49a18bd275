package api

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/picture"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/settings"
	"github.com/iulianpascalau/api-healthcheck/services/dashboard/timeframe"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("api")

const maxUploadSize = 32 << 20

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	dashboard      Dashboard
	storage        HistoryStorage
	analytics      AnalyticsProvider
	loggingConfig  LoggingSettingsHandler
	pictures       PicturesHandler
	notifications  NotificationsProvider
	metrics        MetricsProvider
	serviceKey     string
	listenAddr     string
	staticDir      string
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// TimeframeRequest represents the incoming JSON body on /api/health/timeframe
type TimeframeRequest struct {
	Timeframe string `json:"timeframe" binding:"required"`
}

// FilterRequest represents the incoming JSON body on /api/health/filter
type FilterRequest struct {
	HideApisWithoutHC *bool `json:"hideApisWithoutHC" binding:"required"`
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ServiceKeyApi   string
	ListenAddress   string
	StaticDir       string
	Dashboard       Dashboard
	Storage         HistoryStorage
	Analytics       AnalyticsProvider
	LoggingSettings LoggingSettingsHandler
	Pictures        PicturesHandler
	Notifications   NotificationsProvider
	Metrics         MetricsProvider
	GeneralHandler  func(http.Handler) http.Handler
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	err := checkArgs(args)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		dashboard:      args.Dashboard,
		storage:        args.Storage,
		analytics:      args.Analytics,
		loggingConfig:  args.LoggingSettings,
		pictures:       args.Pictures,
		notifications:  args.Notifications,
		metrics:        args.Metrics,
		serviceKey:     args.ServiceKeyApi,
		listenAddr:     args.ListenAddress,
		staticDir:      args.StaticDir,
		generalHandler: args.GeneralHandler,
	}

	s.setupRoutes()
	return s, nil
}

func checkArgs(args ArgsWebServer) error {
	if check.IfNil(args.Dashboard) {
		return errors.New("dashboard is required")
	}
	if check.IfNil(args.Storage) {
		return errors.New("storage is required")
	}
	if check.IfNil(args.Analytics) {
		return errors.New("analytics provider is required")
	}
	if check.IfNil(args.LoggingSettings) {
		return errors.New("logging settings handler is required")
	}
	if check.IfNil(args.Pictures) {
		return errors.New("pictures handler is required")
	}
	if check.IfNil(args.Notifications) {
		return errors.New("notifications provider is required")
	}
	if check.IfNil(args.Metrics) {
		return errors.New("metrics provider is required")
	}
	if args.GeneralHandler == nil {
		return errors.New("nil http handler")
	}
	if args.ServiceKeyApi == "" {
		return errors.New("empty service key")
	}

	return nil
}

func (s *server) setupRoutes() {
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.router.Group("/api")
	{
		api.GET("/health", s.handleGetHealth)
		api.GET("/health/apis/:id", s.handleGetApiHealth)
		api.GET("/health/apis/:id/history", s.handleGetApiHistory)
		api.GET("/timeframes", s.handleGetTimeframes)
		api.GET("/analytics", s.handleAnalytics)
		api.GET("/settings/logging", s.handleGetLoggingSettings)
		api.GET("/apis/:id/picture", s.handleGetPicture)
		api.GET("/notifications", s.handleGetNotifications)
	}

	// Console actions
	protected := api.Group("/")
	protected.Use(s.authAPIKey())
	{
		protected.POST("/health/refresh", s.handleRefresh)
		protected.PUT("/health/timeframe", s.handleTimeframeChange)
		protected.PUT("/health/filter", s.handleFilter)
		protected.PUT("/settings/logging", s.handleSaveLoggingSettings)
		protected.PUT("/apis/:id/picture", s.handleUploadPicture)
		protected.DELETE("/apis/:id/picture", s.handleDeletePicture)
	}

	// Serve static files from the frontend build if configured
	if s.staticDir != "" {
		log.Info("serving static files", "dir", s.staticDir)
		s.router.Static("/static", path.Join(s.staticDir, "static"))
		s.router.StaticFile("/favicon.ico", path.Join(s.staticDir, "favicon.ico"))

		// NoRoute for SPA fallback
		s.router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "api route not found"})
				return
			}
			c.File(path.Join(s.staticDir, "index.html"))
		})
	}
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()

	return nil
}

func (s *server) authAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Api-Key")
		if key != s.serviceKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// --- Health dashboard handlers ---

func (s *server) handleGetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.Snapshot())
}

func (s *server) handleGetApiHealth(c *gin.Context) {
	apiID := c.Param("id")
	api, found := s.dashboard.Api(apiID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "api not found"})
		return
	}

	response := gin.H{"api": api}
	gauge := s.dashboard.Gauge(apiID)
	if gauge != nil {
		uptime, hasUptime := gauge.Uptime()
		response["gauge"] = gin.H{
			"id":        gauge.ID(),
			"series":    gauge.SeriesAttribute(),
			"uptime":    uptime,
			"hasUptime": hasUptime,
		}
	}

	c.JSON(http.StatusOK, response)
}

func (s *server) handleGetApiHistory(c *gin.Context) {
	limit := 0
	if value := c.Query("limit"); value != "" {
		var err error
		limit, err = strconv.Atoi(value)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}

	history, err := s.storage.GetApiHealthHistory(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (s *server) handleGetTimeframes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"current":    s.dashboard.CurrentTimeframe().ID,
		"timeframes": timeframe.All(),
	})
}

func (s *server) handleRefresh(c *gin.Context) {
	err := s.dashboard.Refresh(c.Request.Context())
	if err != nil {
		log.Warn("refresh requested by the console failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.dashboard.Snapshot())
}

func (s *server) handleTimeframeChange(c *gin.Context) {
	var req TimeframeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	tf, err := timeframe.Get(req.Timeframe)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = s.dashboard.TimeframeChange(c.Request.Context(), tf)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.dashboard.Snapshot())
}

func (s *server) handleFilter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	s.dashboard.SetHideApisWithoutHC(*req.HideApisWithoutHC)

	c.JSON(http.StatusOK, s.dashboard.Snapshot())
}

// --- Environment handlers ---

func (s *server) handleAnalytics(c *gin.Context) {
	request := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			request[key] = values[0]
		}
	}

	body, err := s.analytics.Analytics(c.Request.Context(), request)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

func (s *server) handleGetLoggingSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settings":                     s.loggingConfig.Get(),
		"readonly":                     s.loggingConfig.ReadonlySettings(),
		"providedConfigurationMessage": settings.ProvidedConfigurationMessage,
	})
}

func (s *server) handleSaveLoggingSettings(c *gin.Context) {
	var req settings.LoggingSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	err := s.loggingConfig.Save(c.Request.Context(), req)
	if errors.Is(err, settings.ErrReadonlySetting) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": s.loggingConfig.Get()})
}

func (s *server) handleGetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": s.notifications.Recent()})
}

// --- Picture handlers ---

func (s *server) handleGetPicture(c *gin.Context) {
	apiID := c.Param("id")
	if _, found := s.dashboard.Api(apiID); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "api not found"})
		return
	}

	image, isDefault, err := s.pictures.Picture(c.Request.Context(), apiID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": image, "isDefault": isDefault})
}

func (s *server) handleUploadPicture(c *gin.Context) {
	apiID := c.Param("id")
	if _, found := s.dashboard.Api(apiID); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "api not found"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer func() {
		_ = file.Close()
	}()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := s.pictures.Upload(c.Request.Context(), apiID, fileHeader.Filename, content)
	switch {
	case errors.Is(err, picture.ErrPictureTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, picture.ErrInvalidPicture):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"image": image})
	}
}

func (s *server) handleDeletePicture(c *gin.Context) {
	err := s.pictures.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *server) IsInterfaceNil() bool {
	return s == nil
}
