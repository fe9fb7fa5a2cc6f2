package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	seasonService "leximind.com/api/internal/modules/season/service"
	"leximind.com/api/pkg/response"
)

type SeasonHandler struct {
	seasonService seasonService.SeasonService
}

func NewSeasonHandler(seasonService seasonService.SeasonService) *SeasonHandler {
	return &SeasonHandler{seasonService: seasonService}
}

func (h *SeasonHandler) GetCurrent(c *gin.Context) {
	res, err := h.seasonService.Current(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SeasonHandler) GetStandings(c *gin.Context) {
	res, err := h.seasonService.Standings(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SeasonHandler) GetHistory(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.seasonService.History(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SeasonHandler) Finalize(c *gin.Context) {
	res, err := h.seasonService.FinalizeActive(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
