package handler

import (
	"net/http"

	activityDto "anoa.com/socialhub/internal/modules/activity/dto"
	activity "anoa.com/socialhub/internal/modules/activity/service"
	"anoa.com/socialhub/pkg/response"
	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	service activity.ActivityService
}

func NewActivityHandler(service activity.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// LikePost handles POST (like) and DELETE (unlike) on /activities/likes/:like_id.
func (h *ActivityHandler) LikePost(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	likeID, err := response.ParseUUIDParam(c, "like_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.LikePost(c.Request.Context(), userID, likeID, c.Request.Method != http.MethodDelete)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ActivityHandler) CommentPost(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	commentID, err := response.ParseUUIDParam(c, "comment_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.CommentPost(c.Request.Context(), userID, commentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ActivityHandler) FollowRequest(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requestID, err := response.ParseUUIDParam(c, "request_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	transition := activityDto.FollowTransition(c.Param("transition"))
	if !transition.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transition must be one of requested, accepted, withdrawn"})
		return
	}

	resp, err := h.service.FollowRequest(c.Request.Context(), userID, requestID, transition)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LikeStory handles POST (like) and DELETE (unlike) on /activities/stories/:story_id/like.
func (h *ActivityHandler) LikeStory(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	storyID, err := response.ParseUUIDParam(c, "story_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.LikeStory(c.Request.Context(), userID, storyID, c.Request.Method != http.MethodDelete)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
