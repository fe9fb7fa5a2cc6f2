package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leximind.com/api/internal/modules/game/dto"
	gameService "leximind.com/api/internal/modules/game/service"
	"leximind.com/api/pkg/response"
)

type GameHandler struct {
	gameService gameService.GameService
}

func NewGameHandler(gameService gameService.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (h *GameHandler) SubmitScore(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.gameService.SubmitScore(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *GameHandler) GetScores(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	scores, err := h.gameService.GetScores(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": scores})
}

func (h *GameHandler) StartWordMatch(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.WordMatchStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.gameService.StartWordMatch(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *GameHandler) CompleteWordMatch(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.WordMatchCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.gameService.CompleteWordMatch(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
