package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/langchou/divegazer/internal/models"
)

// GetSettings 获取用户设置
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to get settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": settings})
}

// SaveSettings 保存用户设置，缺省字段取默认值
func (h *Handler) SaveSettings(c *gin.Context) {
	settings := models.DefaultUserSettings()
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.settingsService.Save(c.Request.Context(), &settings); err != nil {
		h.respondError(c, err, "Failed to save settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": settings})
}
