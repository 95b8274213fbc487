package handler

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/synopsis/internal/pkg/response"
	"github.com/xxxsen/synopsis/internal/service"
)

// MaxUploadBytes is the fixed ceiling for an uploaded PDF.
const MaxUploadBytes = 10 << 20

type SummarizeHandler struct {
	summarize *service.SummarizeService
}

func NewSummarizeHandler(summarize *service.SummarizeService) *SummarizeHandler {
	return &SummarizeHandler{summarize: summarize}
}

type summarizeResponse struct {
	Summary string `json:"summary"`
	ID      string `json:"id"`
}

func (h *SummarizeHandler) Create(c *gin.Context) {
	file, err := c.FormFile("pdf_file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "pdf_file is required")
		return
	}
	if file.Size > MaxUploadBytes {
		response.Error(c, http.StatusUnprocessableEntity, "The pdf_file may not be greater than 10 MB.")
		return
	}
	if !looksLikePDF(file.Filename, file.Header.Get("Content-Type")) {
		response.Error(c, http.StatusUnprocessableEntity, "The pdf_file must be a file of type: pdf.")
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to open uploaded file")
		return
	}
	defer opened.Close()
	data, err := io.ReadAll(io.LimitReader(opened, MaxUploadBytes+1))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	if len(data) > MaxUploadBytes {
		response.Error(c, http.StatusUnprocessableEntity, "The pdf_file may not be greater than 10 MB.")
		return
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		response.Error(c, http.StatusUnprocessableEntity, "The pdf_file must be a file of type: pdf.")
		return
	}

	result, err := h.summarize.Summarize(c.Request.Context(), getUserID(c), service.SummarizeInput{
		Data:     data,
		Filename: filepath.Base(file.Filename),
		StyleKey: c.PostForm("summary_type"),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, summarizeResponse{Summary: result.Summary, ID: result.ID})
}

func looksLikePDF(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return true
	}
	return strings.HasPrefix(strings.ToLower(contentType), "application/pdf")
}
