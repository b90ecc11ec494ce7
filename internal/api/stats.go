package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pdf_record_service/internal/logging"
)

// RecordCounter reports how many records are stored.
type RecordCounter interface {
	CountRecords(ctx context.Context) (int64, error)
}

// StatsHandler serves GET /api/stats with basic service diagnostics.
type StatsHandler struct {
	logger       *logrus.Entry
	counter      RecordCounter
	processStart time.Time
}

type statsResponse struct {
	Records       int64  `json:"records"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	StartedAt     string `json:"startedAt"`
}

// NewStatsHandler constructs a stats handler over the provided counter.
func NewStatsHandler(counter RecordCounter, processStart time.Time, logger *logrus.Entry) *StatsHandler {
	if logger == nil {
		logger = logging.Logger()
	}

	return &StatsHandler{
		logger:       logger,
		counter:      counter,
		processStart: processStart,
	}
}

// Register mounts the stats route on the router.
func (h *StatsHandler) Register(r gin.IRouter) {
	r.GET("/api/stats", h.handleStats)
}

func (h *StatsHandler) handleStats(c *gin.Context) {
	count, err := h.counter.CountRecords(c.Request.Context())
	if err != nil {
		h.logger.WithField("event", "stats_error").WithError(err).Error("failed to count records")
		c.JSON(http.StatusInternalServerError, messageResponse{Message: MsgServerError})
		return
	}

	c.JSON(http.StatusOK, statsResponse{
		Records:       count,
		UptimeSeconds: int64(time.Since(h.processStart).Seconds()),
		StartedAt:     h.processStart.UTC().Format(time.RFC3339),
	})
}
