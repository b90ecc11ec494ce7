// Package api exposes the JSON record endpoints and service middleware.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pdf_record_service/internal/domain"
	"pdf_record_service/internal/logging"
)

// Response messages. Internal error detail is logged, never returned.
const (
	MsgServerError    = "Server error"
	MsgRecordNotFound = "Record not found"
	MsgRequiredFields = "Name, email, and phone are required"
	MsgInvalidBody    = "Invalid request body"
)

// RecordStore is the repository surface the handlers depend on.
type RecordStore interface {
	Create(ctx context.Context, draft domain.Draft) (domain.Record, error)
	GetByID(ctx context.Context, id string) (domain.Record, error)
	List(ctx context.Context) ([]domain.Record, error)
}

// Handler serves the /api/records endpoints.
type Handler struct {
	store  RecordStore
	logger *logrus.Entry
}

// NewHandler constructs a Handler over the provided store.
func NewHandler(store RecordStore, logger *logrus.Entry) *Handler {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Register mounts the record routes on the router.
func (h *Handler) Register(r gin.IRouter) {
	records := r.Group("/api/records")
	records.GET("", h.handleList)
	records.GET("/:id", h.handleGet)
	records.POST("", h.handleCreate)
}

type messageResponse struct {
	Message string `json:"message"`
}

type createRecordRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Position    string `json:"position"`
	Description string `json:"description"`
}

func (h *Handler) handleList(c *gin.Context) {
	records, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.WithField("event", "list_records_error").WithError(err).Error("failed to fetch records")
		c.JSON(http.StatusInternalServerError, messageResponse{Message: MsgServerError})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) handleGet(c *gin.Context) {
	id := c.Param("id")

	record, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, messageResponse{Message: MsgRecordNotFound})
			return
		}

		h.logger.WithFields(logging.Fields{
			"event":     "get_record_error",
			"record_id": id,
		}).WithError(err).Error("failed to fetch record")
		c.JSON(http.StatusInternalServerError, messageResponse{Message: MsgServerError})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) handleCreate(c *gin.Context) {
	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Message: MsgInvalidBody})
		return
	}

	draft := domain.Draft{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Position:    req.Position,
		Description: req.Description,
	}

	if !draft.HasRequiredFields() {
		c.JSON(http.StatusBadRequest, messageResponse{Message: MsgRequiredFields})
		return
	}

	record, err := h.store.Create(c.Request.Context(), draft)
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, messageResponse{Message: MsgRequiredFields})
			return
		}

		h.logger.WithField("event", "create_record_error").WithError(err).Error("failed to save record")
		c.JSON(http.StatusInternalServerError, messageResponse{Message: MsgServerError})
		return
	}

	h.logger.WithFields(logging.Fields{
		"event":     "record_created",
		"record_id": record.ID.Hex(),
	}).Info("record saved")

	c.JSON(http.StatusCreated, record)
}
