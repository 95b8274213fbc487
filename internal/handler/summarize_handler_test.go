package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// validation failures happen before the pipeline runs, so the handler can be
// exercised without any backing service
func newUploadRouter() *gin.Engine {
	handler := NewSummarizeHandler(nil)
	router := gin.New()
	router.POST("/summaries", handler.Create)
	return router
}

func uploadRequest(t *testing.T, field, filename, contentType string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/summaries", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestUpload_MissingFile(t *testing.T) {
	router := newUploadRouter()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/summaries", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "pdf_file is required", decodeMessage(t, rec))
}

func TestUpload_WrongFieldName(t *testing.T) {
	router := newUploadRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "document", "doc.pdf", "application/pdf", []byte("%PDF-1.4")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_NotAPDFExtension(t *testing.T) {
	router := newUploadRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "pdf_file", "notes.txt", "text/plain", []byte("plain text")))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "The pdf_file must be a file of type: pdf.", decodeMessage(t, rec))
}

func TestUpload_PDFContentTypeWithOddExtension(t *testing.T) {
	// the content sniff still rejects it: right content type, wrong bytes
	router := newUploadRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "pdf_file", "doc.bin", "application/pdf", []byte("not a pdf")))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "The pdf_file must be a file of type: pdf.", decodeMessage(t, rec))
}

func TestUpload_MissingMagicBytes(t *testing.T) {
	router := newUploadRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "pdf_file", "doc.pdf", "application/pdf", []byte("<html>not a pdf</html>")))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "The pdf_file must be a file of type: pdf.", decodeMessage(t, rec))
}

func TestUpload_OversizedFile(t *testing.T) {
	router := newUploadRouter()
	rec := httptest.NewRecorder()
	payload := append([]byte("%PDF-1.4"), bytes.Repeat([]byte("a"), MaxUploadBytes)...)
	router.ServeHTTP(rec, uploadRequest(t, "pdf_file", "big.pdf", "application/pdf", payload))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "The pdf_file may not be greater than 10 MB.", decodeMessage(t, rec))
}

func TestLooksLikePDF(t *testing.T) {
	require.True(t, looksLikePDF("doc.pdf", ""))
	require.True(t, looksLikePDF("DOC.PDF", ""))
	require.True(t, looksLikePDF("doc.bin", "application/pdf"))
	require.True(t, looksLikePDF("doc.bin", "Application/PDF; charset=binary"))
	require.False(t, looksLikePDF("doc.txt", "text/plain"))
	require.False(t, looksLikePDF("doc", ""))
}
