package handlers

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
)

// SnapshotListener streams snapshots until ctx is done.
type SnapshotListener interface {
	Listen(ctx context.Context) <-chan models.Snapshot
}

// StreamHandler pushes every new snapshot to the browser over SSE.
type StreamHandler struct {
	hub       SnapshotListener
	keepAlive time.Duration
	logger    *zap.Logger
}

// NewStreamHandler constructs the SSE handler. keepAlive bounds the silence
// between two events so proxies keep the connection open.
func NewStreamHandler(hub SnapshotListener, keepAlive time.Duration, logger *zap.Logger) *StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	return &StreamHandler{hub: hub, keepAlive: keepAlive, logger: logger}
}

// Stream sends a "snapshot" event now and after every store change.
func (h *StreamHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	updates := h.hub.Listen(ctx)

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	h.logger.Debug("stream opened", zap.String("client_ip", c.ClientIP()))
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(io.Writer) bool {
		select {
		case snap, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", snap)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UnixMilli())
			return true
		case <-ctx.Done():
			return false
		}
	})
	h.logger.Debug("stream closed", zap.String("client_ip", c.ClientIP()))
}
