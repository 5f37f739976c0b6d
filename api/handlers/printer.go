package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/document-printer/internal/service/spool"
	"github.com/feichai0017/document-printer/pkg/logger"
	"github.com/feichai0017/document-printer/pkg/queue"
)

type PrinterHandler struct {
	service spool.PrintSpooler
	logger  logger.Logger
}

func NewPrinterHandler(service spool.PrintSpooler, logger logger.Logger) *PrinterHandler {
	return &PrinterHandler{
		service: service,
		logger:  logger,
	}
}

// SubmitJob 上传文件并加入打印队列
func (h *PrinterHandler) SubmitJob(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		handleError(c, h.logger, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	job, err := h.service.Submit(c.Request.Context(), file, header)
	if err != nil {
		if errors.Is(err, spool.ErrInvalidUpload) {
			handleError(c, h.logger, http.StatusBadRequest, "Invalid file upload", err)
			return
		}
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to submit print job", err)
		return
	}

	c.JSON(http.StatusAccepted, job)
}

// GetJob 查询打印任务状态
func (h *PrinterHandler) GetJob(c *gin.Context) {
	jobID := c.Param("jobId")
	if jobID == "" {
		handleError(c, h.logger, http.StatusBadRequest, "Job ID is required", nil)
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, queue.ErrJobNotFound) {
			handleError(c, h.logger, http.StatusNotFound, "Print job not found", err)
			return
		}
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to get job status", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *PrinterHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state": h.service.PrinterState().String(),
	})
}

// Shutdown 关闭打印机，不可恢复
func (h *PrinterHandler) Shutdown(c *gin.Context) {
	if err := h.service.Shutdown(c.Request.Context()); err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to shut down printer", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Printer shut down",
		"state":   h.service.PrinterState().String(),
	})
}
