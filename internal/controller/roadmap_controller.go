package controller

import (
	"learnflow_backend/internal/service"
	"learnflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RoadmapController struct {
	RoadmapService *service.RoadmapService
}

func NewRoadmapController(roadmapService *service.RoadmapService) *RoadmapController {
	return &RoadmapController{RoadmapService: roadmapService}
}

// swagger:model RoadmapTaskUpdateRequest
type RoadmapTaskUpdateRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// ListRoadmaps godoc
// @Summary 获取当前用户的路线图列表
// @Tags 路线图
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Roadmap}
// @Failure 401 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/roadmaps [get]
func (c *RoadmapController) ListRoadmaps(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	roadmaps, err := c.RoadmapService.List(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, roadmaps)
}

// GetRoadmap godoc
// @Summary 获取路线图详情
// @Description 包含按顺序排列的里程碑、任务、前置条件、资源和标签
// @Tags 路线图
// @Produce  json
// @Param   id path string true "路线图ID"
// @Success 200 {object} util.Response{data=model.Roadmap}
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/roadmaps/{id} [get]
func (c *RoadmapController) GetRoadmap(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	roadmap, err := c.RoadmapService.Get(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, roadmap)
}

// UpdateRoadmapTask godoc
// @Summary 标记路线图任务完成状态
// @Description 重新计算进度，全部完成时路线图状态变为 completed
// @Tags 路线图
// @Accept  json
// @Produce  json
// @Param   id path string true "路线图ID"
// @Param   taskId path string true "任务ID"
// @Param   body body RoadmapTaskUpdateRequest true "完成状态"
// @Success 200 {object} util.Response{data=service.ProgressUpdate}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/roadmaps/{id}/tasks/{taskId} [patch]
func (c *RoadmapController) UpdateRoadmapTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req RoadmapTaskUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	update, err := c.RoadmapService.SetTaskCompleted(ctx.Request.Context(), userID, ctx.Param("id"), ctx.Param("taskId"), *req.Completed)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, update)
}

// ArchiveRoadmap godoc
// @Summary 归档路线图
// @Tags 路线图
// @Produce  json
// @Param   id path string true "路线图ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/roadmaps/{id}/archive [post]
func (c *RoadmapController) ArchiveRoadmap(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if err := c.RoadmapService.Archive(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id"), "status": "archived"})
}

// DeleteRoadmap godoc
// @Summary 删除路线图
// @Description 同时删除里程碑、任务、前置条件及关联记录；共享的标签和资源保留
// @Tags 路线图
// @Produce  json
// @Param   id path string true "路线图ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/roadmaps/{id} [delete]
func (c *RoadmapController) DeleteRoadmap(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if err := c.RoadmapService.Delete(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
