package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileDto "leximind.com/api/internal/modules/profile/dto"
	profile "leximind.com/api/internal/modules/profile/service"
	"leximind.com/api/pkg/response"
)

type ProfileHandler struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) GetProfileByUsername(c *gin.Context) {
	var req profileDto.UsernameRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.profileService.GetProfileByUsername(c.Request.Context(), req.Username)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ProfileHandler) GetCurrentProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.profileService.GetCurrentProfile(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
