package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/projectflow-api/internal/dto"
	apierrors "github.com/yukikurage/projectflow-api/internal/errors"
	"github.com/yukikurage/projectflow-api/internal/middleware"
	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/services"
	"github.com/yukikurage/projectflow-api/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns projects across the user's teams.
// Can filter by team_id and status.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	teamID, ok := queryID(c, "team_id")
	if !ok {
		return
	}
	h.listProjects(c, teamID)
}

// ListTeamProjects returns the projects of one team
func (h *ProjectHandler) ListTeamProjects(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.listProjects(c, &teamID)
}

func (h *ProjectHandler) listProjects(c *gin.Context, teamID *uint64) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListProjectsInput{
		UserID: userID,
		TeamID: teamID,
	}
	if status := c.Query("status"); status != "" {
		s := models.ProjectStatus(status)
		input.Status = &s
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{
		Projects:   dto.ToProjectDTOs(projects),
		Pagination: utils.NewPaginationResponse(params, total),
	})
}

// CreateProject creates a project in the team from the path
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type CreateProjectRequest struct {
		Name        string     `json:"name" binding:"required"`
		Description string     `json:"description"`
		Deadline    *time.Time `json:"deadline"`
	}

	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), services.CreateProjectInput{
		TeamID:      teamID,
		CreatorID:   userID,
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns a specific project by ID
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), projectID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject updates an existing project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name          *string               `json:"name"`
		Description   *string               `json:"description"`
		Status        *models.ProjectStatus `json:"status"`
		Deadline      *time.Time            `json:"deadline"`
		ClearDeadline bool                  `json:"clear_deadline"`
	}

	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), projectID, userID, services.UpdateProjectInput{
		Name:          req.Name,
		Description:   req.Description,
		Status:        req.Status,
		Deadline:      req.Deadline,
		ClearDeadline: req.ClearDeadline,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project with its tasks and comments
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), projectID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
