package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pdf_record_service/internal/logging"
)

const mongoPingTimeout = 2 * time.Second

// MongoChecker defines the subset of store behavior required for health.
type MongoChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /healthz for container probes.
type HealthHandler struct {
	logger       *logrus.Entry
	mongoChecker MongoChecker
}

type healthResponse struct {
	Status string `json:"status"`
	Mongo  string `json:"mongo,omitempty"`
}

// NewHealthHandler constructs a health handler over the provided checker.
func NewHealthHandler(mongoChecker MongoChecker, logger *logrus.Entry) *HealthHandler {
	if logger == nil {
		logger = logging.Logger()
	}

	return &HealthHandler{
		logger:       logger,
		mongoChecker: mongoChecker,
	}
}

// Register mounts the health route on the router.
func (h *HealthHandler) Register(r gin.IRouter) {
	r.GET("/healthz", h.handleHealth)
}

func (h *HealthHandler) handleHealth(c *gin.Context) {
	resp := healthResponse{Status: "ok"}
	mongoStatus := "ok"

	if h.mongoChecker == nil {
		mongoStatus = "error"
		h.logger.WithField("event", "health_mongo_missing").Warn("mongo checker is not configured for health endpoint")
	} else {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), mongoPingTimeout)
		err := h.mongoChecker.Ping(pingCtx)
		cancel()

		if err != nil {
			mongoStatus = "error"
			h.logger.WithFields(logging.Fields{
				"event": "health_mongo_error",
			}).WithError(err).Warn("mongo ping failed during health check")
		}
	}

	if mongoStatus != "ok" {
		resp.Status = "degraded"
		resp.Mongo = "error"
	}

	c.JSON(http.StatusOK, resp)
}
