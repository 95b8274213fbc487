package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/synopsis/internal/model"
	"github.com/xxxsen/synopsis/internal/pkg/response"
	"github.com/xxxsen/synopsis/internal/repo"
	"github.com/xxxsen/synopsis/internal/service"
)

type SummaryHandler struct {
	summaries *service.SummaryService
	users     *repo.UserRepo
}

func NewSummaryHandler(summaries *service.SummaryService, users *repo.UserRepo) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, users: users}
}

func (h *SummaryHandler) Get(c *gin.Context) {
	record, err := h.summaries.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, record)
}

func (h *SummaryHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	records, err := h.summaries.List(c.Request.Context(), getUserID(c), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	if records == nil {
		records = []*model.PdfSummary{}
	}
	response.Success(c, gin.H{"summaries": records})
}

func (h *SummaryHandler) Export(c *gin.Context) {
	result, err := h.summaries.Export(c.Request.Context(), getUserID(c), c.Param("id"), c.Query("format"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(200, result.ContentType, result.Content)
}

func (h *SummaryHandler) Stats(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	stats, err := h.summaries.Stats(c.Request.Context(), user)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, stats)
}
