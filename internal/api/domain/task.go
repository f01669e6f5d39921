package domain

import (
	"strings"
	"time"
)

type Task struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Project   string    `json:"project"`
	Asignee   string    `json:"asignee,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PopulatedTask is a task whose assignee has been resolved to a user
// reference. Asignee stays nil when unset or dangling.
type PopulatedTask struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Project   string    `json:"project"`
	Asignee   *UserRef  `json:"asignee"`
	CreatedAt time.Time `json:"created_at"`
}

type TaskPatch struct {
	Name    *string `json:"name,omitempty"`
	Project *string `json:"project,omitempty"`
	Asignee *string `json:"asignee,omitempty"`
}

func (p *TaskPatch) Normalize() {
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		p.Name = &n
	}
}

func (p TaskPatch) ValidateCreate() error {
	if p.Name == nil || *p.Name == "" {
		return required("name")
	}
	if p.Project == nil || *p.Project == "" {
		return required("project")
	}
	return p.ValidateUpdate()
}

func (p TaskPatch) ValidateUpdate() error {
	if p.Name != nil && *p.Name == "" {
		return required("name")
	}
	if p.Project != nil && *p.Project == "" {
		return required("project")
	}
	return nil
}
