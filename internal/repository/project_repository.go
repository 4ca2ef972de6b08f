package repository

import (
	"context"

	"github.com/yukikurage/projectflow-api/internal/database"
	"github.com/yukikurage/projectflow-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("Team", "Creator", "Tasks").Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves projects with filtering and pagination, nearest deadline first
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	if len(filter.TeamIDs) == 0 {
		return []models.Project{}, 0, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Project{}).Where("projects.team_id IN ?", filter.TeamIDs)
	if filter.Status != nil {
		query = query.Where("projects.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.
		Preload("Team").
		Order("CASE WHEN projects.deadline IS NULL THEN 1 ELSE 0 END, projects.deadline ASC, projects.id ASC").
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("Team", "Creator", "Tasks").Save(project).Error
}

// Delete deletes a project, its tasks and their comments in a transaction
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)

		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountByStatus counts projects grouped by status
func (r *GormProjectRepository) CountByStatus(ctx context.Context, teamIDs []uint64) (map[models.ProjectStatus]int64, error) {
	counts := make(map[models.ProjectStatus]int64)
	if len(teamIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		Status models.ProjectStatus
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Select("status, COUNT(*) AS total").
		Where("team_id IN ?", teamIDs).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
