package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/langchou/divegazer/internal/models"
	"github.com/langchou/divegazer/internal/service"
	"github.com/langchou/divegazer/internal/stats"
)

// ListDives 获取潜水记录列表
func (h *Handler) ListDives(c *gin.Context) {
	dives, err := h.diveService.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to list dives")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dives})
}

// GetDive 获取潜水记录详情
func (h *Handler) GetDive(c *gin.Context) {
	id, ok := parseDiveID(c)
	if !ok {
		return
	}

	dive, err := h.diveService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get dive")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dive})
}

// CreateDive 新建潜水记录
func (h *Handler) CreateDive(c *gin.Context) {
	var dive models.Dive
	if err := c.ShouldBindJSON(&dive); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	dive.ID = 0

	if err := h.diveService.Create(c.Request.Context(), &dive); err != nil {
		h.respondError(c, err, "Failed to create dive")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dive})
}

// UpdateDive 更新潜水记录
func (h *Handler) UpdateDive(c *gin.Context) {
	id, ok := parseDiveID(c)
	if !ok {
		return
	}

	var dive models.Dive
	if err := c.ShouldBindJSON(&dive); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	dive.ID = id

	if err := h.diveService.Update(c.Request.Context(), &dive); err != nil {
		h.respondError(c, err, "Failed to update dive")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dive})
}

// DeleteDive 删除潜水记录
func (h *Handler) DeleteDive(c *gin.Context) {
	id, ok := parseDiveID(c)
	if !ok {
		return
	}

	if err := h.diveService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete dive")
		return
	}

	c.Status(http.StatusNoContent)
}

// RecentDives 最近的潜水记录
// GET /api/dives/recent?count=5
func (h *Handler) RecentDives(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(stats.DefaultRecentCount)))
	if err != nil || count < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid count"})
		return
	}

	dives, err := h.diveService.Recent(c.Request.Context(), count)
	if err != nil {
		h.respondError(c, err, "Failed to list recent dives")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dives})
}

// GetDiveDisplay 按用户单位格式化的潜水记录
func (h *Handler) GetDiveDisplay(c *gin.Context) {
	id, ok := parseDiveID(c)
	if !ok {
		return
	}

	display, err := h.diveService.Display(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to format dive")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": display})
}

// GetDiveProfile 剖面图数据，无采样点时 data 为 null
func (h *Handler) GetDiveProfile(c *gin.Context) {
	id, ok := parseDiveID(c)
	if !ok {
		return
	}

	profile, err := h.diveService.Profile(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to build dive profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// GetStats 统计数据
func (h *Handler) GetStats(c *gin.Context) {
	s, err := h.diveService.Statistics(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to get stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s})
}

// GetMonthlyStats 按月统计
func (h *Handler) GetMonthlyStats(c *gin.Context) {
	months, err := h.diveService.Monthly(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to get monthly stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": months})
}

// CalculateSAC 气耗计算器
func (h *Handler) CalculateSAC(c *gin.Context) {
	var req service.SACRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := service.CalculateGasConsumption(req)
	if err != nil {
		h.respondError(c, err, "Failed to calculate SAC")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func parseDiveID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dive ID"})
		return 0, false
	}
	return id, true
}
