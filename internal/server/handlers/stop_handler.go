package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
)

// StopService is the stop lifecycle used by the stop routes.
type StopService interface {
	StartStop(ctx context.Context, in models.StopStart) (models.StopRecord, error)
	EndStop(ctx context.Context, id string) (models.StopRecord, error)
	DeleteStop(ctx context.Context, id string) error
}

// StopLister reads stops from the live snapshot.
type StopLister interface {
	StopRecords() []models.StopRecord
	ActiveStops() []models.StopRecord
}

// StopHandler serves the stop lifecycle.
type StopHandler struct {
	svc    StopService
	lister StopLister
	logger *zap.Logger
}

// NewStopHandler constructs the HTTP handler adapter.
func NewStopHandler(svc StopService, lister StopLister, logger *zap.Logger) *StopHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StopHandler{svc: svc, lister: lister, logger: logger}
}

type stopRequest struct {
	Sector string `json:"sector"`
	Reason string `json:"reason"`
}

// List returns every stop, newest first.
func (h *StopHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.lister.StopRecords())
}

// Active returns the stops still in progress.
func (h *StopHandler) Active(c *gin.Context) {
	c.JSON(http.StatusOK, h.lister.ActiveStops())
}

// Start opens a stop for a sector.
func (h *StopHandler) Start(c *gin.Context) {
	var req stopRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	stop, err := h.svc.StartStop(c.Request.Context(), models.StopStart{Sector: models.Sector(req.Sector), Reason: req.Reason})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, stop)
}

// End closes an active stop.
func (h *StopHandler) End(c *gin.Context) {
	stop, err := h.svc.EndStop(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stop)
}

// Delete removes a stop in either state.
func (h *StopHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteStop(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
