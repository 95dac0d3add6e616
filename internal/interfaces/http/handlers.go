package http

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-labeler/internal/application/service"
)

var errUploadTooLarge = errors.New("uploaded file is too large")

// multipartOverhead is the room left for part headers and form fields on
// top of the file size limit
const multipartOverhead = 64 << 10

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	labeling       service.LabelingService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(labeling service.LabelingService, maxUploadBytes int64, logger *zap.Logger) *Handlers {
	return &Handlers{
		labeling:       labeling,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ProcessInvoiceRequest holds the form fields of an invoice upload
type ProcessInvoiceRequest struct {
	ConfirmDefaults bool `form:"confirm_defaults"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// StartSession handles POST /api/v1/sessions
func (h *Handlers) StartSession(c *gin.Context) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    h.labeling.StartSession(),
	})
}

// EndSession handles DELETE /api/v1/sessions/:id
func (h *Handlers) EndSession(c *gin.Context) {
	if err := h.labeling.EndSession(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ImportGuidelines handles POST /api/v1/sessions/:id/guidelines
func (h *Handlers) ImportGuidelines(c *gin.Context) {
	h.limitBody(c)

	fileName, content, err := h.readUpload(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	summary, err := h.labeling.ImportGuidelines(c.Request.Context(), c.Param("id"), fileName, bytes.NewReader(content))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    summary,
	})
}

// ProcessInvoice handles POST /api/v1/sessions/:id/invoices
func (h *Handlers) ProcessInvoice(c *gin.Context) {
	h.limitBody(c)

	var req ProcessInvoiceRequest
	if err := c.ShouldBind(&req); err != nil {
		if isBodyTooLarge(err) {
			h.fail(c, errUploadTooLarge)
			return
		}
		h.logger.Error("Invalid form parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid form parameters",
		})
		return
	}

	_, content, err := h.readUpload(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.labeling.ProcessDocument(c.Request.Context(), c.Param("id"), content, service.ProcessOptions{
		ConfirmDefaults: req.ConfirmDefaults,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// ListRecords handles GET /api/v1/sessions/:id/records
func (h *Handlers) ListRecords(c *gin.Context) {
	records, err := h.labeling.Records(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    records,
	})
}

// DownloadReport handles GET /api/v1/sessions/:id/report
func (h *Handlers) DownloadReport(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.labeling.ExportReport(c.Request.Context(), c.Param("id"), &buf); err != nil {
		h.fail(c, err)
		return
	}

	h.attachment(c, h.labeling.ReportFileName(), contentTypeXLSX, buf.Bytes())
}

// DownloadAnnotated handles GET /api/v1/sessions/:id/invoices/last/annotated
func (h *Handlers) DownloadAnnotated(c *gin.Context) {
	doc, err := h.labeling.LastAnnotated(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("X-Annotated", strconv.FormatBool(doc.Annotated))
	h.attachment(c, doc.FileName, contentTypePDF, doc.Content)
}

// readUpload reads the multipart "file" field. A missing field is the
// "no document selected" user error.
func (h *Handlers) readUpload(c *gin.Context) (string, []byte, error) {
	header, err := c.FormFile("file")
	if isBodyTooLarge(err) {
		return "", nil, errUploadTooLarge
	}
	if err != nil {
		return "", nil, &service.Error{Kind: service.KindUserInput, Op: "read upload", Err: service.ErrNoDocument}
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return "", nil, errUploadTooLarge
	}

	content, err := readFileHeader(header)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, content, nil
}

// limitBody caps the request body before the multipart form is parsed
func (h *Handlers) limitBody(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// attachment sends content as a download, encoding non-ASCII file names
func (h *Handlers) attachment(c *gin.Context, fileName, contentType string, content []byte) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	c.Data(http.StatusOK, contentType, content)
}

// fail maps a service error to a status code and JSON body
func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		h.logger.Info("Request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}

	c.JSON(status, Response{
		Success: false,
		Error:   err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrGuidelinesNotLoaded):
		return http.StatusPreconditionRequired
	}

	switch service.KindOf(err) {
	case service.KindUserInput:
		return http.StatusBadRequest
	case service.KindCollaborator:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

