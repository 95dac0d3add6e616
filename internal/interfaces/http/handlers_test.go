package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-labeler/internal/application/service"
	"github.com/garyjia/invoice-labeler/internal/guideline"
	"github.com/garyjia/invoice-labeler/internal/voucher"
)

// MockTextLayer mocks the port.TextLayer interface
type MockTextLayer struct {
	mock.Mock
}

func (m *MockTextLayer) ExtractPages(ctx context.Context, doc []byte) ([][]string, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}

// MockAnnotator mocks the port.Annotator interface
type MockAnnotator struct {
	mock.Mock
}

func (m *MockAnnotator) Annotate(ctx context.Context, doc []byte, label string) ([]byte, error) {
	args := m.Called(ctx, doc, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newTestServer(t *testing.T, textLayer *MockTextLayer, annotator *MockAnnotator) *Server {
	t.Helper()
	return newTestServerWithConfig(t, DefaultServerConfig(), textLayer, annotator)
}

func newTestServerWithConfig(t *testing.T, config ServerConfig, textLayer *MockTextLayer, annotator *MockAnnotator) *Server {
	t.Helper()

	logger := zap.NewNop()
	clock := func() time.Time { return time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC) }
	labeling := service.NewLabelingService(
		service.NewSessionStore(clock, logger),
		guideline.NewImporter(guideline.DefaultImporterConfig(), logger),
		textLayer,
		annotator,
		voucher.NewReportWriter("Raport", logger),
		service.DefaultOptions(),
		logger,
	)
	return NewServer(config, labeling, logger)
}

func multipartBody(t *testing.T, fileName string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func startSession(t *testing.T, s *Server) string {
	t.Helper()

	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data service.SessionInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, new(MockTextLayer), new(MockAnnotator))

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestProcessInvoiceFlow(t *testing.T) {
	textLayer := new(MockTextLayer)
	annotator := new(MockAnnotator)
	s := newTestServer(t, textLayer, annotator)
	id := startSession(t, s)

	doc := []byte("%PDF-1.7 invoice")
	textLayer.On("ExtractPages", mock.Anything, doc).Return([][]string{{"Faktura 18/11/2025"}}, nil)
	annotator.On("Annotate", mock.Anything, doc, "0/0 – MPK000 – 001/2025").Return([]byte("%PDF stamped"), nil)

	t.Run("without guidelines needs confirmation", func(t *testing.T) {
		body, contentType := multipartBody(t, "faktura.pdf", doc, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/invoices", body)
		req.Header.Set("Content-Type", contentType)

		rec := do(t, s, req)

		assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	})

	t.Run("report before processing", func(t *testing.T) {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/report", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("confirmed defaults", func(t *testing.T) {
		body, contentType := multipartBody(t, "faktura.pdf", doc, map[string]string{"confirm_defaults": "true"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/invoices", body)
		req.Header.Set("Content-Type", contentType)

		rec := do(t, s, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data service.ProcessResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "0/0;MPK000;001/2025", resp.Data.Record.Label)
		assert.Equal(t, "18/11/2025", resp.Data.Record.InvoiceNumber)
		assert.True(t, resp.Data.Annotated)
	})

	t.Run("records", func(t *testing.T) {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/records", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "0/0;MPK000;001/2025")
	})

	t.Run("annotated download", func(t *testing.T) {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/invoices/last/annotated", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, "true", rec.Header().Get("X-Annotated"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		assert.Equal(t, "%PDF stamped", rec.Body.String())
	})

	t.Run("report download", func(t *testing.T) {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/report", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, contentTypeXLSX, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "raport_faktury.xlsx")
		assert.NotZero(t, rec.Body.Len())
	})
}

func TestErrorStatuses(t *testing.T) {
	s := newTestServer(t, new(MockTextLayer), new(MockAnnotator))
	id := startSession(t, s)

	t.Run("unknown session", func(t *testing.T) {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing/records", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		body, contentType := multipartBody(t, "", nil, map[string]string{"confirm_defaults": "true"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/invoices", body)
		req.Header.Set("Content-Type", contentType)

		rec := do(t, s, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), service.ErrNoDocument.Error())
	})

	t.Run("nothing to download", func(t *testing.T) {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/invoices/last/annotated", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("corrupt guideline workbook", func(t *testing.T) {
		body, contentType := multipartBody(t, "wytyczne.xlsx", []byte("garbage"), nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/guidelines", body)
		req.Header.Set("Content-Type", contentType)

		rec := do(t, s, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("upload too large", func(t *testing.T) {
		config := DefaultServerConfig()
		config.MaxUploadBytes = 1024
		textLayer := new(MockTextLayer)
		small := newTestServerWithConfig(t, config, textLayer, new(MockAnnotator))
		smallID := startSession(t, small)

		tests := []struct {
			name string
			path string
			size int
		}{
			{name: "invoice over the file limit", path: "/invoices", size: 2048},
			{name: "invoice over the body limit", path: "/invoices", size: 256 << 10},
			{name: "guidelines over the body limit", path: "/guidelines", size: 256 << 10},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				body, contentType := multipartBody(t, "big.pdf", bytes.Repeat([]byte("x"), tt.size),
					map[string]string{"confirm_defaults": "true"})
				req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+smallID+tt.path, body)
				req.Header.Set("Content-Type", contentType)

				rec := do(t, small, req)

				assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			})
		}
		textLayer.AssertNotCalled(t, "ExtractPages", mock.Anything, mock.Anything)
	})

	t.Run("end session", func(t *testing.T) {
		rec := do(t, s, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+id, nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, s, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
