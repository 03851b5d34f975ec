package controller

import (
	"learnflow_backend/internal/repository"
	"learnflow_backend/internal/service"
	"learnflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TaskController 个人待办任务
type TaskController struct {
	TaskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{TaskService: taskService}
}

// CreateTask godoc
// @Summary 创建个人任务
// @Description tags 可以是字符串数组或逗号分隔的字符串；新任务状态为 todo
// @Tags 任务
// @Accept  json
// @Produce  json
// @Param   body body service.UserTaskInput true "任务信息"
// @Success 201 {object} util.Response{data=model.UserTask}
// @Failure 400 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req service.UserTaskInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, task)
}

// ListTasks godoc
// @Summary 获取个人任务列表
// @Tags 任务
// @Produce  json
// @Param   search query string false "按标题或描述搜索（不区分大小写）"
// @Param   priority query string false "low/medium/high/all"
// @Param   status query string false "todo/in-progress/completed/all"
// @Param   category query string false "daily/weekly/monthly/all"
// @Success 200 {object} util.Response{data=[]model.UserTask}
// @Security ApiKeyAuth
// @Router /api/tasks [get]
func (c *TaskController) ListTasks(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	filter := repository.UserTaskFilter{
		Search:   ctx.Query("search"),
		Priority: ctx.Query("priority"),
		Status:   ctx.Query("status"),
		Category: ctx.Query("category"),
	}

	tasks, err := c.TaskService.List(ctx.Request.Context(), userID, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// GetTaskStats godoc
// @Summary 个人任务统计
// @Tags 任务
// @Produce  json
// @Success 200 {object} util.Response{data=repository.UserTaskStats}
// @Security ApiKeyAuth
// @Router /api/tasks/stats [get]
func (c *TaskController) GetTaskStats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.TaskService.Stats(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// GetTask godoc
// @Summary 获取单个任务
// @Tags 任务
// @Produce  json
// @Param   id path string true "任务ID"
// @Success 200 {object} util.Response{data=model.UserTask}
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/tasks/{id} [get]
func (c *TaskController) GetTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	task, err := c.TaskService.Get(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// UpdateTask godoc
// @Summary 更新个人任务
// @Tags 任务
// @Accept  json
// @Produce  json
// @Param   id path string true "任务ID"
// @Param   body body service.UserTaskInput true "任务信息"
// @Success 200 {object} util.Response{data=model.UserTask}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/tasks/{id} [put]
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req service.UserTaskInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.Update(ctx.Request.Context(), userID, ctx.Param("id"), req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// ToggleTask godoc
// @Summary 切换任务状态
// @Description todo -> in-progress -> completed -> todo
// @Tags 任务
// @Produce  json
// @Param   id path string true "任务ID"
// @Success 200 {object} util.Response{data=model.UserTask}
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/tasks/{id}/toggle [post]
func (c *TaskController) ToggleTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	task, err := c.TaskService.ToggleStatus(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// DeleteTask godoc
// @Summary 删除个人任务
// @Tags 任务
// @Produce  json
// @Param   id path string true "任务ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/tasks/{id} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if err := c.TaskService.Delete(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
