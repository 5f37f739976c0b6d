package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/document-printer/internal/agent"
	"github.com/feichai0017/document-printer/internal/models"
	"github.com/feichai0017/document-printer/internal/service/document"
	"github.com/feichai0017/document-printer/pkg/logger"
)

type DocumentHandler struct {
	service document.DocumentParser
	logger  logger.Logger
}

type ParseRequest struct {
	Filename string `json:"filename" binding:"required"`
}

type BatchParseRequest struct {
	Filenames []string `json:"filenames" binding:"required"`
}

type BatchParseResponse struct {
	Results []*models.ParseResult `json:"results"`
}

func NewDocumentHandler(service document.DocumentParser, logger logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger,
	}
}

// ParseDocument 根据文件名选择解析器
func (h *DocumentHandler) ParseDocument(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.Parse(c.Request.Context(), req.Filename)
	if err != nil {
		h.parseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ParseBatch 批量解析，第一个失败即终止
func (h *DocumentHandler) ParseBatch(c *gin.Context) {
	var req BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	results, err := h.service.ParseBatch(c.Request.Context(), req.Filenames)
	if err != nil {
		h.parseError(c, err)
		return
	}

	c.JSON(http.StatusOK, BatchParseResponse{Results: results})
}

// SupportedFormats 列出支持的扩展名
func (h *DocumentHandler) SupportedFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"extensions": h.service.SupportedFormats(),
	})
}

func (h *DocumentHandler) parseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, agent.ErrUnsupportedFormat):
		handleError(c, h.logger, http.StatusUnsupportedMediaType, "Unsupported format", err)
	case errors.Is(err, agent.ErrNoExtension):
		handleError(c, h.logger, http.StatusBadRequest, "File name has no extension", err)
	default:
		handleError(c, h.logger, http.StatusBadRequest, "Failed to parse document", err)
	}
}
