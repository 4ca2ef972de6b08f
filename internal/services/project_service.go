package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/repository"
	"gorm.io/gorm"
)

const maxProjectNameLength = 100

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	access      accessChecker
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		access:      accessChecker{teams: teamRepo},
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	TeamID      uint64
	CreatorID   uint64
	Name        string
	Description string
	Deadline    *time.Time
}

// CreateProject creates a project under a team the creator belongs to
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name, err := validateProjectName(input.Name)
	if err != nil {
		return nil, err
	}

	if _, err := s.access.requireTeam(ctx, input.TeamID, input.CreatorID, CapWriteProjects); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Status:      models.ProjectStatusActive,
		Deadline:    input.Deadline,
		TeamID:      input.TeamID,
		CreatorID:   input.CreatorID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.reload(ctx, project.ID)
}

// GetProject returns a project visible to the user
func (s *ProjectService) GetProject(ctx context.Context, projectID, userID uint64) (*models.Project, error) {
	project, err := s.findProject(ctx, projectID, "Team", "Creator")
	if err != nil {
		return nil, err
	}
	if _, err := s.access.require(ctx, project.TeamID, userID, CapViewTeam); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjectsInput represents filters for listing projects
type ListProjectsInput struct {
	UserID   uint64
	TeamID   *uint64
	Status   *models.ProjectStatus
	Page     int
	PageSize int
}

// ListProjects lists projects of one team, or of every team the user belongs to
func (s *ProjectService) ListProjects(ctx context.Context, input ListProjectsInput) ([]models.Project, int64, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, 0, ErrInvalidProjectState
	}

	teamIDs, err := s.access.teamIDs(ctx, input.UserID, input.TeamID)
	if err != nil {
		return nil, 0, err
	}
	if len(teamIDs) == 0 {
		return []models.Project{}, 0, nil
	}

	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilter{
		TeamIDs:  teamIDs,
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// UpdateProjectInput represents input for updating a project
type UpdateProjectInput struct {
	Name          *string
	Description   *string
	Status        *models.ProjectStatus
	Deadline      *time.Time
	ClearDeadline bool
}

// UpdateProject updates a project. Any team member may edit.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID, userID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.require(ctx, project.TeamID, userID, CapWriteProjects); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := validateProjectName(*input.Name)
		if err != nil {
			return nil, err
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, ErrInvalidProjectState
		}
		project.Status = *input.Status
	}
	if input.ClearDeadline {
		project.Deadline = nil
	} else if input.Deadline != nil {
		project.Deadline = input.Deadline
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.reload(ctx, project.ID)
}

// DeleteProject removes a project with its tasks and comments. Owner or admin only.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, userID uint64) error {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return err
	}
	if _, err := s.access.require(ctx, project.TeamID, userID, CapDeleteProjects); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) findProject(ctx context.Context, projectID uint64, preload ...string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) reload(ctx context.Context, projectID uint64) (*models.Project, error) {
	return s.findProject(ctx, projectID, "Team", "Creator")
}

func validateProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrProjectNameRequired
	}
	if len(name) > maxProjectNameLength {
		return "", fmt.Errorf("%w: project name must be at most %d characters", ErrValidation, maxProjectNameLength)
	}
	return name, nil
}
