package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/synopsis/internal/model"
	"github.com/xxxsen/synopsis/internal/pkg/response"
	"github.com/xxxsen/synopsis/internal/service"
)

type PlanHandler struct {
	plans *service.PlanService
}

func NewPlanHandler(plans *service.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.plans.ListActive(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if plans == nil {
		plans = []*model.Plan{}
	}
	response.Success(c, gin.H{"plans": plans})
}
