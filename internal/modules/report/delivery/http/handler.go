package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leximind.com/api/internal/modules/report/dto"
	reportService "leximind.com/api/internal/modules/report/service"
	"leximind.com/api/pkg/response"
)

type ReportHandler struct {
	reportService reportService.ReportService
}

func NewReportHandler(reportService reportService.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) GetStudents(c *gin.Context) {
	students, err := h.reportService.Students(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": students})
}

func (h *ReportHandler) GetStatistics(c *gin.Context) {
	res, err := h.reportService.Statistics(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) GetStudentReports(c *gin.Context) {
	res, err := h.reportService.StudentReports(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) GenerateReport(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.StudentIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.reportService.GenerateReport(c.Request.Context(), teacherID, uuid.MustParse(req.StudentID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *ReportHandler) GetClassWinners(c *gin.Context) {
	res, err := h.reportService.ClassWinners(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
