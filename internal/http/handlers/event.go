package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/upskill-backend/internal/http/response"
	"github.com/yungbote/upskill-backend/internal/platform/apierr"
	"github.com/yungbote/upskill-backend/internal/services"
)

type EventHandler struct {
	events services.EventService
}

func NewEventHandler(events services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) Track(c *gin.Context) {
	var req services.TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidJSON, errInvalidJSON)
		return
	}
	if err := h.events.Track(c.Request.Context(), req); err != nil {
		response.RespondAPIError(c, err, "Failed to process request. Please try again.")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
