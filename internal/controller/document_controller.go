package controller

import (
	"learnflow_backend/internal/service"
	"learnflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	DocumentService *service.DocumentService
}

func NewDocumentController(documentService *service.DocumentService) *DocumentController {
	return &DocumentController{DocumentService: documentService}
}

// UploadDocument godoc
// @Summary 上传学习文档
// @Description 支持 txt/md/pdf/docx；文本类文件返回 documentText，可直接用于生成笔记或测验
// @Tags 文档
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "文档"
// @Success 201 {object} util.Response{data=service.DocumentUpload}
// @Failure 400 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/documents [post]
func (c *DocumentController) UploadDocument(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	upload, err := c.DocumentService.Upload(ctx.Request.Context(), userID, file)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, upload)
}
