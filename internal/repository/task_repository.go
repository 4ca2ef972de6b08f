package repository

import (
	"context"
	"time"

	"github.com/yukikurage/projectflow-api/internal/database"
	"github.com/yukikurage/projectflow-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	if len(filter.ProjectIDs) == 0 && len(filter.TeamIDs) == 0 {
		return []models.Task{}, 0, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Task{})

	if len(filter.ProjectIDs) > 0 {
		query = query.Where("tasks.project_id IN ?", filter.ProjectIDs)
	}
	if len(filter.TeamIDs) > 0 {
		query = query.
			Joins("JOIN projects ON projects.id = tasks.project_id AND projects.deleted_at IS NULL").
			Where("projects.team_id IN ?", filter.TeamIDs)
	}

	// Apply filters
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	} else if filter.Unassigned {
		query = query.Where("tasks.assignee_id IS NULL")
	}
	if filter.TaskTypeID != nil {
		query = query.Where("tasks.task_type_id = ?", *filter.TaskTypeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	switch filter.Sort {
	case TaskSortCreated:
		listQuery = listQuery.Order("tasks.created_at DESC, tasks.id DESC")
	case TaskSortOpenFirst:
		listQuery = listQuery.Order("CASE WHEN tasks.status = 'done' THEN 1 ELSE 0 END, tasks.deadline ASC, tasks.id ASC")
	default:
		listQuery = listQuery.Order("tasks.deadline ASC, tasks.id ASC")
	}

	if err := listQuery.
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Preload("Creator").
		Preload("Assignee").
		Preload("Project").
		Preload("TaskType").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// Delete soft deletes a task and its comments
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountComments returns the number of comments per task ID
func (r *GormTaskRepository) CountComments(ctx context.Context, taskIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(taskIDs))
	if len(taskIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TaskID uint64
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("task_id, COUNT(*) AS total").
		Where("task_id IN ?", taskIDs).
		Group("task_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TaskID] = row.Total
	}
	return counts, nil
}

// CountForAssignee counts the assignee's tasks grouped by status
func (r *GormTaskRepository) CountForAssignee(ctx context.Context, assigneeID uint64, teamIDs []uint64) (map[models.TaskStatus]int64, error) {
	counts := make(map[models.TaskStatus]int64)
	if len(teamIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		Status models.TaskStatus
		Total  int64
	}
	if err := r.assigneeScope(ctx, assigneeID, teamIDs).
		Select("tasks.status AS status, COUNT(*) AS total").
		Group("tasks.status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// CountOverdueForAssignee counts the assignee's unfinished tasks whose deadline is before now
func (r *GormTaskRepository) CountOverdueForAssignee(ctx context.Context, assigneeID uint64, teamIDs []uint64, now time.Time) (int64, error) {
	if len(teamIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.assigneeScope(ctx, assigneeID, teamIDs).
		Where("tasks.status <> ? AND tasks.deadline < ?", models.TaskStatusDone, now).
		Count(&count).Error
	return count, err
}

func (r *GormTaskRepository) assigneeScope(ctx context.Context, assigneeID uint64, teamIDs []uint64) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Task{}).
		Joins("JOIN projects ON projects.id = tasks.project_id AND projects.deleted_at IS NULL").
		Where("tasks.assignee_id = ? AND projects.team_id IN ?", assigneeID, teamIDs)
}
