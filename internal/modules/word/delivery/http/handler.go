package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leximind.com/api/internal/modules/word/dto"
	word "leximind.com/api/internal/modules/word/service"
	"leximind.com/api/pkg/apperror"
	commonDto "leximind.com/api/pkg/dto"
	"leximind.com/api/pkg/response"
)

type WordHandler struct {
	wordService word.WordService
	packService word.PackService
}

func NewWordHandler(wordService word.WordService, packService word.PackService) *WordHandler {
	return &WordHandler{wordService: wordService, packService: packService}
}

func actor(c *gin.Context) (dto.Actor, error) {
	id, err := response.GetUserID(c)
	if err != nil {
		return dto.Actor{}, err
	}
	return dto.Actor{ID: id, Role: response.GetRole(c)}, nil
}

func bindID(c *gin.Context) (uuid.UUID, bool) {
	var req commonDto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}

func openUpload(c *gin.Context, field string) (commonDto.UploadFile, multipart.File, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		response.ResponseError(c, apperror.BadRequest(field+" file is required"))
		return commonDto.UploadFile{}, nil, false
	}
	f, err := header.Open()
	if err != nil {
		response.ResponseError(c, err)
		return commonDto.UploadFile{}, nil, false
	}
	return commonDto.UploadFile{Reader: f, FileName: header.Filename, Size: header.Size}, f, true
}

func (h *WordHandler) CreateWord(c *gin.Context) {
	var req dto.CreateWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	a, err := actor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.wordService.CreateWord(c.Request.Context(), a, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *WordHandler) GetWords(c *gin.Context) {
	var filter dto.WordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.wordService.GetWords(c.Request.Context(), response.GetRole(c), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *WordHandler) SearchWords(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.wordService.SearchWords(c.Request.Context(), response.GetRole(c), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *WordHandler) DeleteWord(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.wordService.DeleteWord(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "word deleted successfully"})
}

func (h *WordHandler) ApproveWord(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	res, err := h.wordService.ApproveWord(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *WordHandler) RejectWord(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	res, err := h.wordService.RejectWord(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *WordHandler) BulkUpload(c *gin.Context) {
	var req dto.BulkUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	a, err := actor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.wordService.BulkUpload(c.Request.Context(), a, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *WordHandler) ImportWords(c *gin.Context) {
	a, err := actor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	upload, f, ok := openUpload(c, "file")
	if !ok {
		return
	}
	defer f.Close()

	res, err := h.wordService.ImportWords(c.Request.Context(), a, upload)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *WordHandler) UploadImage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	upload, f, ok := openUpload(c, "image")
	if !ok {
		return
	}
	defer f.Close()

	res, err := h.wordService.UploadImage(c.Request.Context(), id, upload)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *WordHandler) CreatePack(c *gin.Context) {
	var req dto.CreatePackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	a, err := actor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.packService.CreatePack(c.Request.Context(), a, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *WordHandler) GetPacks(c *gin.Context) {
	res, err := h.packService.GetPacks(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *WordHandler) GetPack(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	res, err := h.packService.GetPack(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *WordHandler) DeletePack(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.packService.DeletePack(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "word pack deleted successfully"})
}
