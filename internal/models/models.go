package models

// All returns every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Session{},
		&Team{},
		&TeamMember{},
		&Project{},
		&TaskType{},
		&Task{},
		&Comment{},
	}
}
