package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/upskill-backend/internal/http/response"
	"github.com/yungbote/upskill-backend/internal/platform/apierr"
	"github.com/yungbote/upskill-backend/internal/services"
)

type SuggestionHandler struct {
	suggestions services.SuggestionService
}

func NewSuggestionHandler(suggestions services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

type suggestRolesRequest struct {
	RoleInput any `json:"roleInput"`
}

func (h *SuggestionHandler) SuggestRoles(c *gin.Context) {
	var req suggestRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidJSON, errInvalidJSON)
		return
	}
	roleInput, _ := req.RoleInput.(string)
	suggestions, err := h.suggestions.SuggestRoles(c.Request.Context(), roleInput)
	if err != nil {
		response.RespondAPIError(c, err, "Failed to generate role suggestions")
		return
	}
	response.RespondOK(c, gin.H{"suggestions": suggestions})
}

type generateSkillsRequest struct {
	TargetRole  any `json:"targetRole"`
	CurrentRole any `json:"currentRole"`
}

func (h *SuggestionHandler) GenerateSkills(c *gin.Context) {
	var req generateSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidJSON, errInvalidJSON)
		return
	}
	target, _ := req.TargetRole.(string)
	current, _ := req.CurrentRole.(string)
	res, err := h.suggestions.GenerateSkills(c.Request.Context(), target, current)
	if err != nil {
		response.RespondAPIError(c, err, "Failed to generate role-specific skills")
		return
	}
	response.RespondOK(c, gin.H{"skills": res.Skills, "source": res.Source})
}
