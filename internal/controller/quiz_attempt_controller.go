package controller

import (
	"learnflow_backend/internal/model"
	"learnflow_backend/internal/service"
	"learnflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizAttemptController struct {
	StudyService *service.StudyService
}

func NewQuizAttemptController(studyService *service.StudyService) *QuizAttemptController {
	return &QuizAttemptController{StudyService: studyService}
}

// swagger:model QuizAttemptRequest
type QuizAttemptRequest struct {
	Quiz    *model.Quiz       `json:"quiz" binding:"required"`
	Answers map[string]string `json:"answers"`
}

// SubmitAttempt godoc
// @Summary 提交测验答案
// @Description 答案与 correctAnswer 完全相同才得分，得分为对应题目 points 之和
// @Tags 测验
// @Accept  json
// @Produce  json
// @Param   body body QuizAttemptRequest true "测验与答案（题目ID -> 答案）"
// @Success 201 {object} util.Response{data=model.QuizAttempt}
// @Failure 400 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/quiz-attempts [post]
func (c *QuizAttemptController) SubmitAttempt(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req QuizAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.StudyService.SubmitAttempt(ctx.Request.Context(), userID, req.Quiz, req.Answers)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// ListAttempts godoc
// @Summary 获取测验记录
// @Tags 测验
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Security ApiKeyAuth
// @Router /api/quiz-attempts [get]
func (c *QuizAttemptController) ListAttempts(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	attempts, err := c.StudyService.ListAttempts(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
