package database

import (
	"fmt"

	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// Composite indexes backing the list filters. Single-column indexes live on the model tags.
var indexes = []index{
	{"tasks", "idx_tasks_project_status", "project_id, status"},
	{"tasks", "idx_tasks_project_priority", "project_id, priority"},
	{"tasks", "idx_tasks_assignee_status", "assignee_id, status"},
	{"tasks", "idx_tasks_deadline", "deadline"},
	{"projects", "idx_projects_team_status", "team_id, status"},
	{"comments", "idx_comments_task_created", "task_id, created_at"},
	{"comments", "idx_comments_author", "author_id"},
	{"team_members", "idx_team_members_team_role", "team_id, role"},
}

// AddIndexes creates any missing composite index. It is safe to run repeatedly.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
