package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/divegazer/internal/importer/uddf"
	"github.com/langchou/divegazer/internal/repository"
	"github.com/langchou/divegazer/internal/service"
	"github.com/langchou/divegazer/internal/units"
)

// statusFor 错误到 HTTP 状态码的映射，未知错误返回 500
func statusFor(err error) int {
	var unitErr *units.InvalidUnitError
	switch {
	case errors.Is(err, repository.ErrDiveNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrImportTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, service.ErrEmptyImport), service.IsParseError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidDive),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrUnsupportedFormat),
		errors.Is(err, uddf.ErrInvalidExtension),
		errors.Is(err, uddf.ErrEmptyFile),
		errors.As(err, &unitErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError 客户端错误返回原始信息，服务端错误记录日志并返回 fallback
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.logger.Error(fallback, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(code, gin.H{"error": fallback})
		return
	}
	if code == http.StatusNotFound {
		c.JSON(code, gin.H{"error": "Dive not found"})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
