package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leximind.com/api/internal/modules/learning/dto"
	learningService "leximind.com/api/internal/modules/learning/service"
	"leximind.com/api/pkg/response"
)

type LearningHandler struct {
	learningService learningService.LearningService
}

func NewLearningHandler(learningService learningService.LearningService) *LearningHandler {
	return &LearningHandler{learningService: learningService}
}

func (h *LearningHandler) GetPersonalizedPlan(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.learningService.PersonalizedPlan(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *LearningHandler) TrackError(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.TrackErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.learningService.TrackError(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *LearningHandler) TestPronunciation(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.PronunciationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.learningService.TestPronunciation(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *LearningHandler) GetPronunciationHistory(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	tests, err := h.learningService.PronunciationHistory(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tests": tests})
}
