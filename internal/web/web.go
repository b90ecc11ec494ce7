// Package web serves the listing, form, preview, and print pages.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pdf_record_service/internal/domain"
	"pdf_record_service/internal/draft"
	"pdf_record_service/internal/logging"
	"pdf_record_service/internal/render"
)

//go:embed templates/*.tmpl.html
var templateFS embed.FS

// resolveTimeout bounds how long the preview waits for a record fetch before
// giving up with a timed-out error view.
const resolveTimeout = 10 * time.Second

// User-facing notices and error copy.
const (
	noticeSaveFailed  = "Failed to generate PDF and save details. Please try again."
	titleNotFound     = "Record Not Found"
	msgNotFound       = "Record not found"
	titleTimedOut     = "Record Not Loaded"
	msgTimedOut       = "Request timed out."
	titleLoadFailed   = "Record Not Loaded"
	msgLoadFailed     = "Failed to load record"
	titlePageNotFound = "Page Not Found"
)

// Form actions.
const (
	actionView     = "view"
	actionDownload = "download"
)

// RecordStore is the repository surface the pages depend on.
type RecordStore interface {
	Create(ctx context.Context, d domain.Draft) (domain.Record, error)
	GetByID(ctx context.Context, id string) (domain.Record, error)
	List(ctx context.Context) ([]domain.Record, error)
}

// Handler serves the HTML pages.
type Handler struct {
	store    RecordStore
	drafts   *draft.Store
	renderer *render.Renderer
	logger   *logrus.Entry

	// fetchTimeout is overridable for tests.
	fetchTimeout time.Duration
}

// NewHandler constructs the page handler.
func NewHandler(store RecordStore, drafts *draft.Store, renderer *render.Renderer, logger *logrus.Entry) *Handler {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Handler{
		store:        store,
		drafts:       drafts,
		renderer:     renderer,
		logger:       logger,
		fetchTimeout: resolveTimeout,
	}
}

// Register parses the page templates onto the engine and mounts the routes.
func (h *Handler) Register(r *gin.Engine) error {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
	}).ParseFS(templateFS, "templates/*.tmpl.html")
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", h.handleListing)
	r.GET("/form", h.handleFormPage)
	r.POST("/form", h.handleFormSubmit)
	r.GET("/preview", h.handlePreview)
	r.POST("/preview/download", h.handlePreviewDownload)
	r.GET("/print/:id", h.handlePrintRecord)
	// A static "draft" segment under /print/:id would conflict in gin's
	// route tree, so draft printing gets its own prefix.
	r.GET("/print-draft/:key", h.handlePrintDraft)

	return nil
}

type listingData struct {
	Records []domain.Record
	Error   string
}

type formData struct {
	Draft  domain.Draft
	Errors map[string]string
	Notice string
}

type previewData struct {
	Draft    domain.Draft
	IsDraft  bool
	DraftKey string
	PrintURL string
	Notice   string
}

type savedData struct {
	PrintURL string
	NextURL  string
}

type errorData struct {
	Title   string
	Message string
}

func (h *Handler) handleListing(c *gin.Context) {
	records, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.WithField("event", "listing_error").WithError(err).Error("failed to load records for listing")
		c.HTML(http.StatusOK, "list.tmpl.html", listingData{Error: "Failed to load records."})
		return
	}

	c.HTML(http.StatusOK, "list.tmpl.html", listingData{Records: records})
}

func (h *Handler) handleFormPage(c *gin.Context) {
	c.HTML(http.StatusOK, "form.tmpl.html", formData{})
}

func (h *Handler) handleFormSubmit(c *gin.Context) {
	d := draftFromForm(c)

	if errs := domain.ValidateDraft(d); len(errs) > 0 {
		c.HTML(http.StatusUnprocessableEntity, "form.tmpl.html", formData{Draft: d, Errors: errs})
		return
	}

	switch c.PostForm("action") {
	case actionView:
		key := h.drafts.Put(d)
		c.Redirect(http.StatusSeeOther, "/preview?draft="+key)

	case actionDownload:
		record, err := h.store.Create(c.Request.Context(), d)
		if err != nil {
			h.logger.WithField("event", "form_save_error").WithError(err).Error("failed to save record from form")
			c.HTML(http.StatusInternalServerError, "form.tmpl.html", formData{Draft: d, Notice: noticeSaveFailed})
			return
		}

		h.logger.WithFields(logging.Fields{
			"event":     "record_created",
			"record_id": record.ID.Hex(),
		}).Info("record saved from form")
		c.HTML(http.StatusOK, "saved.tmpl.html", savedData{
			PrintURL: "/print/" + record.ID.Hex(),
			NextURL:  "/",
		})

	default:
		c.HTML(http.StatusBadRequest, "form.tmpl.html", formData{Draft: d})
	}
}

func (h *Handler) handlePreview(c *gin.Context) {
	if id := strings.TrimSpace(c.Query("id")); id != "" {
		h.previewRecord(c, id)
		return
	}

	key := strings.TrimSpace(c.Query("draft"))
	if key == "" {
		c.Redirect(http.StatusSeeOther, "/form")
		return
	}

	d, ok := h.drafts.Get(key)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/form")
		return
	}

	c.HTML(http.StatusOK, "preview.tmpl.html", previewData{
		Draft:    d,
		IsDraft:  true,
		DraftKey: key,
	})
}

func (h *Handler) previewRecord(c *gin.Context, id string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.fetchTimeout)
	defer cancel()

	record, err := h.store.GetByID(ctx, id)
	switch {
	case err == nil:
		c.HTML(http.StatusOK, "preview.tmpl.html", previewData{
			Draft:    record.Draft(),
			PrintURL: "/print/" + record.ID.Hex(),
		})

	case errors.Is(err, context.DeadlineExceeded):
		h.logger.WithFields(logging.Fields{
			"event":     "preview_timeout",
			"record_id": id,
		}).Warn("record fetch timed out")
		c.HTML(http.StatusGatewayTimeout, "error.tmpl.html", errorData{Title: titleTimedOut, Message: msgTimedOut})

	case errors.Is(err, domain.ErrNotFound):
		c.HTML(http.StatusNotFound, "error.tmpl.html", errorData{Title: titleNotFound, Message: msgNotFound})

	default:
		h.logger.WithFields(logging.Fields{
			"event":     "preview_error",
			"record_id": id,
		}).WithError(err).Error("failed to load record for preview")
		c.HTML(http.StatusInternalServerError, "error.tmpl.html", errorData{Title: titleLoadFailed, Message: msgLoadFailed})
	}
}

func (h *Handler) handlePreviewDownload(c *gin.Context) {
	key := strings.TrimSpace(c.PostForm("draft"))
	d, ok := h.drafts.Get(key)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/form")
		return
	}

	record, err := h.store.Create(c.Request.Context(), d)
	if err != nil {
		h.logger.WithField("event", "preview_save_error").WithError(err).Error("failed to save draft from preview")
		// The draft is kept so a re-click can retry.
		c.HTML(http.StatusInternalServerError, "preview.tmpl.html", previewData{
			Draft:    d,
			IsDraft:  true,
			DraftKey: key,
			Notice:   noticeSaveFailed,
		})
		return
	}

	h.drafts.Consume(key)
	h.logger.WithFields(logging.Fields{
		"event":     "record_created",
		"record_id": record.ID.Hex(),
	}).Info("record saved from preview")

	c.HTML(http.StatusOK, "saved.tmpl.html", savedData{
		PrintURL: "/print/" + record.ID.Hex(),
		NextURL:  "/",
	})
}

func (h *Handler) handlePrintRecord(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.fetchTimeout)
	defer cancel()

	record, err := h.store.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.HTML(http.StatusNotFound, "error.tmpl.html", errorData{Title: titleNotFound, Message: msgNotFound})
			return
		}

		h.logger.WithField("event", "print_error").WithError(err).Error("failed to load record for printing")
		c.HTML(http.StatusInternalServerError, "error.tmpl.html", errorData{Title: titleLoadFailed, Message: msgLoadFailed})
		return
	}

	h.writeDocument(c, record.Draft())
}

func (h *Handler) handlePrintDraft(c *gin.Context) {
	d, ok := h.drafts.Get(c.Param("key"))
	if !ok {
		c.HTML(http.StatusNotFound, "error.tmpl.html", errorData{Title: titlePageNotFound, Message: msgNotFound})
		return
	}

	h.writeDocument(c, d)
}

func (h *Handler) writeDocument(c *gin.Context, d domain.Draft) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)

	if err := h.renderer.Document(c.Writer, d); err != nil {
		// Headers are already out; all we can do is log.
		h.logger.WithField("event", "render_error").WithError(err).Error("failed to render printable document")
	}
}

func draftFromForm(c *gin.Context) domain.Draft {
	return domain.Draft{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		Position:    c.PostForm("position"),
		Description: c.PostForm("description"),
	}
}
