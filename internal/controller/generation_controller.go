package controller

import (
	"learnflow_backend/internal/service"
	"learnflow_backend/internal/util"
	"learnflow_backend/pkg/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GenerationController 笔记、测验与路线图生成接口，响应体为 {notes} / {quiz} / {roadmap} 或 {error}
type GenerationController struct {
	StudyService   *service.StudyService
	RoadmapService *service.RoadmapService
}

func NewGenerationController(studyService *service.StudyService, roadmapService *service.RoadmapService) *GenerationController {
	return &GenerationController{
		StudyService:   studyService,
		RoadmapService: roadmapService,
	}
}

// swagger:model GenerateNotesRequest
type GenerateNotesRequest struct {
	DocumentText string `json:"documentText"`
	FileName     string `json:"fileName"`
}

// swagger:model GenerateQuizRequest
type GenerateQuizRequest struct {
	DocumentText  string `json:"documentText"`
	FileName      string `json:"fileName"`
	QuestionCount int    `json:"questionCount"`
	Difficulty    string `json:"difficulty"`
}

// swagger:model GenerateRoadmapRequest
type GenerateRoadmapRequest struct {
	Goal         string `json:"goal"`
	Timeframe    string `json:"timeframe"`
	CurrentLevel string `json:"currentLevel"`
	Preferences  string `json:"preferences"`
}

const documentTextRequired = "Document text is required"

// GenerateNotes godoc
// @Summary 根据文档生成学习笔记
// @Tags 生成
// @Accept  json
// @Produce  json
// @Param   body body GenerateNotesRequest true "文档内容"
// @Success 200 {object} object{notes=model.Notes}
// @Failure 400 {object} util.ErrorBody "Document text is required"
// @Failure 500 {object} util.ErrorBody "Failed to generate notes"
// @Router /api/generate-notes [post]
func (c *GenerationController) GenerateNotes(ctx *gin.Context) {
	var req GenerateNotesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.DocumentText) == "" {
		util.JSONError(ctx, http.StatusBadRequest, documentTextRequired)
		return
	}

	notes, err := c.StudyService.GenerateNotes(ctx.Request.Context(), req.FileName, req.DocumentText)
	if err != nil {
		logger.Log.Error("Error generating notes", zap.Error(err))
		util.JSONError(ctx, http.StatusInternalServerError, "Failed to generate notes")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"notes": notes})
}

// GenerateQuiz godoc
// @Summary 根据文档生成测验
// @Tags 生成
// @Accept  json
// @Produce  json
// @Param   body body GenerateQuizRequest true "文档内容与题目要求"
// @Success 200 {object} object{quiz=model.Quiz}
// @Failure 400 {object} util.ErrorBody "Document text is required"
// @Failure 500 {object} util.ErrorBody "Failed to generate quiz"
// @Router /api/generate-quiz [post]
func (c *GenerationController) GenerateQuiz(ctx *gin.Context) {
	var req GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.DocumentText) == "" {
		util.JSONError(ctx, http.StatusBadRequest, documentTextRequired)
		return
	}

	quiz, err := c.StudyService.GenerateQuiz(ctx.Request.Context(), service.QuizOptions{
		FileName:      req.FileName,
		DocumentText:  req.DocumentText,
		QuestionCount: req.QuestionCount,
		Difficulty:    req.Difficulty,
	})
	if err != nil {
		logger.Log.Error("Error generating quiz", zap.Error(err))
		util.JSONError(ctx, http.StatusInternalServerError, "Failed to generate quiz")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"quiz": quiz})
}

// GenerateRoadmap godoc
// @Summary 生成学习路线图并保存
// @Description 路线图主记录保存失败返回 500；子记录保存失败会出现在 persistence.skipped 中，仍返回 200
// @Tags 生成
// @Accept  json
// @Produce  json
// @Param   body body GenerateRoadmapRequest true "学习目标"
// @Success 200 {object} service.RoadmapResult
// @Failure 400 {object} util.ErrorBody
// @Failure 401 {object} util.ErrorBody "Unauthorized"
// @Failure 500 {object} util.ErrorBody "Failed to generate roadmap"
// @Security ApiKeyAuth
// @Router /api/generate-roadmap [post]
func (c *GenerationController) GenerateRoadmap(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil || claims.UserID == "" {
		util.JSONError(ctx, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req GenerateRoadmapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.JSONError(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Goal) == "" {
		util.JSONError(ctx, http.StatusBadRequest, "Goal is required")
		return
	}

	result, err := c.RoadmapService.Generate(ctx.Request.Context(), claims.UserID, service.RoadmapInput{
		Goal:         req.Goal,
		Timeframe:    req.Timeframe,
		CurrentLevel: req.CurrentLevel,
		Preferences:  req.Preferences,
	})
	if err != nil {
		logger.Log.Error("Error generating roadmap", zap.String("user_id", claims.UserID), zap.Error(err))
		util.JSONError(ctx, http.StatusInternalServerError, "Failed to generate roadmap")
		return
	}

	ctx.JSON(http.StatusOK, result)
}
