package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leximind.com/api/internal/modules/admin/dto"
	adminService "leximind.com/api/internal/modules/admin/service"
	commonDto "leximind.com/api/pkg/dto"
	"leximind.com/api/pkg/response"
)

type AdminHandler struct {
	adminService adminService.AdminService
}

func NewAdminHandler(adminService adminService.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var input dto.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.adminService.CreateUser(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	res, err := h.adminService.GetAllUsers(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	var req commonDto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}
