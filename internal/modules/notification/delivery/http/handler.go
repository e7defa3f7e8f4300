package handler

import (
	"net/http"

	notifDto "anoa.com/socialhub/internal/modules/notification/dto"
	notification "anoa.com/socialhub/internal/modules/notification/service"
	"anoa.com/socialhub/pkg/apperror"
	"anoa.com/socialhub/pkg/response"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service notification.NotificationService
}

func NewNotificationHandler(service notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	var query notifDto.ListNotificationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, apperror.New(http.StatusBadRequest, err.Error(), apperror.ErrInvalidInput))
		return
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 20
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.List(c.Request.Context(), userID, query.Page, query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
