package handler

import (
	"net/http"

	presence "anoa.com/socialhub/internal/modules/presence/service"
	"anoa.com/socialhub/pkg/response"
	"github.com/gin-gonic/gin"
)

// ConnectionCounter reports how many users hold a live session on this instance.
type ConnectionCounter interface {
	Len() int
}

type PresenceHandler struct {
	service presence.PresenceService
	counter ConnectionCounter
}

func NewPresenceHandler(service presence.PresenceService, counter ConnectionCounter) *PresenceHandler {
	return &PresenceHandler{service: service, counter: counter}
}

func (h *PresenceHandler) GetPresence(c *gin.Context) {
	userID, err := response.ParseUUIDParam(c, "user_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	online, err := h.service.IsOnline(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "online": online})
}

func (h *PresenceHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"online_connections": h.counter.Len(),
	})
}
