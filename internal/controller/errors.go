package controller

import (
	"errors"
	"learnflow_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleServiceError 将业务错误映射为 HTTP 状态码
func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrRoadmapNotFound):
		util.NotFound(ctx, "Roadmap not found")
	case errors.Is(err, util.ErrTaskNotFound):
		util.NotFound(ctx, "Task not found")
	case errors.Is(err, util.ErrProfileNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, "")
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, "Email already registered")
	case errors.Is(err, util.ErrUsernameTaken):
		util.Conflict(ctx, "Username already taken")
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, util.ErrInvalidDueDate),
		errors.Is(err, util.ErrInvalidQuiz),
		errors.Is(err, util.ErrUnsupportedFile):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// currentUserID 未登录时写出 401 并返回 false
func currentUserID(ctx *gin.Context) (string, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil || claims.UserID == "" {
		util.Unauthorized(ctx)
		return "", false
	}
	return claims.UserID, true
}
