package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	achievement "leximind.com/api/internal/modules/achievement/service"
	"leximind.com/api/pkg/response"
)

type AchievementHandler struct {
	service achievement.AchievementService
}

func NewAchievementHandler(service achievement.AchievementService) *AchievementHandler {
	return &AchievementHandler{service: service}
}

func (h *AchievementHandler) GetAll(c *gin.Context) {
	res, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *AchievementHandler) GetUserAchievements(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetUserAchievements(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}
