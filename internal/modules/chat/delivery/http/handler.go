package handler

import (
	"errors"
	"fmt"
	"net/http"

	chatDto "anoa.com/socialhub/internal/modules/chat/dto"
	chat "anoa.com/socialhub/internal/modules/chat/service"
	"anoa.com/socialhub/pkg/apperror"
	"anoa.com/socialhub/pkg/ratelimit"
	"anoa.com/socialhub/pkg/response"
	"anoa.com/socialhub/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	service chat.ChatService
}

func NewChatHandler(service chat.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	chatID, err := response.ParseUUIDParam(c, "chat_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req chatDto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}
	req.ChatID = chatID

	msg, err := h.service.SendMessage(c.Request.Context(), userID, req.ToUserID, req.ChatID, req.Text)
	if err != nil {
		var rateLimitErr *ratelimit.RateLimitError
		if errors.As(err, &rateLimitErr) {
			c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
		}
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chatDto.ToChatMessageResponse(msg))
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	chatID, err := response.ParseUUIDParam(c, "chat_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query chatDto.ListMessagesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, apperror.New(http.StatusBadRequest, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	resp, err := h.service.ListMessages(c.Request.Context(), userID, chatID, query.Page, query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
