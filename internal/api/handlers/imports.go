package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/divegazer/internal/importer"
)

// ImportUDDF 上传 UDDF 文件
// POST /api/imports/uddf (multipart, 字段 file)
func (h *Handler) ImportUDDF(c *gin.Context) {
	h.importFile(c, importer.FormatUDDF)
}

// ImportSubsurface 上传 Subsurface CSV 导出
func (h *Handler) ImportSubsurface(c *gin.Context) {
	h.importFile(c, importer.FormatSubsurface)
}

func (h *Handler) importFile(c *gin.Context, format importer.Format) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	result, err := h.importService.Import(c.Request.Context(), format, header.Filename, header.Size, file)
	if err != nil {
		h.respondError(c, err, "Failed to import dives")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// ListImports 最近的导入任务
func (h *Handler) ListImports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.importService.Jobs()})
}

// GetImport 导入任务状态
func (h *Handler) GetImport(c *gin.Context) {
	job, ok := h.importService.Job(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Import not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": job})
}
