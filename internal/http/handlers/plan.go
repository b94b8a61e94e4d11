package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/upskill-backend/internal/http/response"
	"github.com/yungbote/upskill-backend/internal/platform/apierr"
	"github.com/yungbote/upskill-backend/internal/services"
)

const maxBodyBytes = 1 << 20

var errInvalidJSON = errors.New("Invalid JSON body")

type PlanHandler struct {
	plans services.PlanService
}

func NewPlanHandler(plans services.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// GeneratePlan answers with the plan object itself, not an envelope.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(raw) {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidJSON, errInvalidJSON)
		return
	}

	res, err := h.plans.Generate(c.Request.Context(), raw)
	if err != nil {
		response.RespondAPIError(c, err, "Failed to process request. Please try again.")
		return
	}
	c.Header("X-Plan-Source", res.Source)
	response.RespondOK(c, res.Plan)
}
