package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/upskill-backend/internal/http/response"
	"github.com/yungbote/upskill-backend/internal/platform/apierr"
	"github.com/yungbote/upskill-backend/internal/services"
)

type LeadHandler struct {
	leads services.LeadService
}

func NewLeadHandler(leads services.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

func (h *LeadHandler) CaptureLead(c *gin.Context) {
	var req services.CaptureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidJSON, errInvalidJSON)
		return
	}
	res, err := h.leads.Capture(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err, "Failed to process request. Please try again.")
		return
	}
	response.RespondOK(c, gin.H{
		"ok":         true,
		"lead_score": res.LeadScore,
		"plan_token": res.PlanToken,
		"email_sent": res.EmailSent,
	})
}

func (h *LeadHandler) GetPlan(c *gin.Context) {
	shared, err := h.leads.GetPlan(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.RespondAPIError(c, err, "Failed to fetch plan")
		return
	}
	response.RespondOK(c, gin.H{
		"ok":     true,
		"plan":   shared.Plan,
		"inputs": shared.Inputs,
	})
}

func (h *LeadHandler) SendPlan(c *gin.Context) {
	var req services.CaptureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidJSON, errInvalidJSON)
		return
	}
	if err := h.leads.SendPlan(c.Request.Context(), req); err != nil {
		response.RespondAPIError(c, err, "Failed to send email. Please try again.")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
