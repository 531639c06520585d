package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/divegazer/internal/service"
	"github.com/langchou/divegazer/pkg/metrics"
	"github.com/langchou/divegazer/pkg/ws"
)

// Pinger 数据库健康检查
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler HTTP 处理器
type Handler struct {
	logger          *zap.Logger
	diveService     *service.DiveService
	importService   *service.ImportService
	settingsService *service.SettingsService
	wsHub           *ws.Hub
	metrics         *metrics.Collector
	db              Pinger
}

// NewHandler 创建处理器，collector 与 db 可为 nil
func NewHandler(
	logger *zap.Logger,
	diveService *service.DiveService,
	importService *service.ImportService,
	settingsService *service.SettingsService,
	wsHub *ws.Hub,
	collector *metrics.Collector,
	db Pinger,
) *Handler {
	return &Handler{
		logger:          logger,
		diveService:     diveService,
		importService:   importService,
		settingsService: settingsService,
		wsHub:           wsHub,
		metrics:         collector,
		db:              db,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	if h.metrics != nil {
		r.Use(h.metricsMiddleware())
	}

	// API 路由
	api := r.Group("/api")
	{
		// 潜水记录
		api.GET("/dives", h.ListDives)
		api.POST("/dives", h.CreateDive)
		api.GET("/dives/recent", h.RecentDives)
		api.GET("/dives/:id", h.GetDive)
		api.PUT("/dives/:id", h.UpdateDive)
		api.DELETE("/dives/:id", h.DeleteDive)
		api.GET("/dives/:id/display", h.GetDiveDisplay)
		api.GET("/dives/:id/profile", h.GetDiveProfile)

		// 统计
		api.GET("/stats", h.GetStats)
		api.GET("/stats/monthly", h.GetMonthlyStats)

		// 导入
		api.POST("/imports/uddf", h.ImportUDDF)
		api.POST("/imports/subsurface", h.ImportSubsurface)
		api.GET("/imports", h.ListImports)
		api.GET("/imports/:id", h.GetImport)

		// 设置
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.SaveSettings)

		// 计算器
		api.POST("/calculations/sac", h.CalculateSAC)
	}

	// WebSocket
	r.GET("/ws", h.HandleWebSocket)

	// 健康检查
	r.GET("/health", h.HealthCheck)
}

// HandleWebSocket WebSocket 处理
func (h *Handler) HandleWebSocket(c *gin.Context) {
	if err := h.wsHub.ServeWS(c.Writer, c.Request); err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
	}
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	status, code := "ok", http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("Database ping failed", zap.Error(err))
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":     status,
		"ws_clients": h.wsHub.ClientCount(),
	})
}

// metricsMiddleware 记录请求数与耗时，按路由模板聚合
func (h *Handler) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		h.metrics.RecordAPIRequest(endpoint, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
