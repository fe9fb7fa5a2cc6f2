package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leximind.com/api/internal/modules/league/dto"
	leagueService "leximind.com/api/internal/modules/league/service"
	"leximind.com/api/pkg/response"
)

type LeagueHandler struct {
	leagueService leagueService.LeagueService
}

func NewLeagueHandler(leagueService leagueService.LeagueService) *LeagueHandler {
	return &LeagueHandler{leagueService: leagueService}
}

func (h *LeagueHandler) GetCurrent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.leagueService.Current(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *LeagueHandler) Update(c *gin.Context) {
	league, err := h.leagueService.Recompute(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "League updated", "standings": len(league.Standings)})
}

func (h *LeagueHandler) GetLeaderboard(c *gin.Context) {
	var query dto.LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	entries, err := h.leagueService.Leaderboard(c.Request.Context(), query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
