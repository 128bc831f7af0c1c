package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"mari-gunting.backend/internal/domain/entities"
	"mari-gunting.backend/internal/interfaces/http/response"
)

type QueueRunner interface {
	RunOnce(ctx context.Context) (entities.CaptureRunSummary, error)
}

// QueueHandler exposes operational control over the capture queue
type QueueHandler struct {
	runner QueueRunner
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(runner QueueRunner) *QueueHandler {
	return &QueueHandler{runner: runner}
}

// RunCaptureQueue triggers one capture sweep outside the ticker schedule
// POST /api/v1/internal/capture-queue/run
func (h *QueueHandler) RunCaptureQueue(c *gin.Context) {
	summary, err := h.runner.RunOnce(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}
