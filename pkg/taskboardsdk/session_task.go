package taskboardsdk

import (
	"context"
	"net/url"
)

func (s *Session) ListTasks(ctx context.Context, q PageQuery) (*Page[Task], error) {
	var p Page[Task]
	if err := s.get(ctx, withPage("/task", q), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListTasksByProject returns the project's tasks with assignees populated.
func (s *Session) ListTasksByProject(ctx context.Context, projectID string, q PageQuery) (*Page[PopulatedTask], error) {
	var p Page[PopulatedTask]
	if err := s.get(ctx, withPage("/task/by_project/"+url.PathEscape(projectID), q), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) ListTasksByAsignee(ctx context.Context, userID string, q PageQuery) (*Page[Task], error) {
	var p Page[Task]
	if err := s.get(ctx, withPage("/task/by_asignee/"+url.PathEscape(userID), q), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateTask creates a task in projectID. The caller must be a member.
func (s *Session) CreateTask(ctx context.Context, projectID string, in TaskInput) (*Task, error) {
	var t Task
	if err := s.post(ctx, "/task/"+url.PathEscape(projectID), in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Session) GetTask(ctx context.Context, projectID, id string) (*Task, error) {
	var t Task
	if err := s.get(ctx, "/task/"+url.PathEscape(projectID)+"/"+url.PathEscape(id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask patches a task of projectID. The caller must be a member.
func (s *Session) UpdateTask(ctx context.Context, projectID, id string, in TaskInput) (*Task, error) {
	var t Task
	if err := s.put(ctx, "/task/"+url.PathEscape(projectID)+"/"+url.PathEscape(id), in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTask removes a task of projectID. The caller must be a member.
func (s *Session) DeleteTask(ctx context.Context, projectID, id string) (*Task, error) {
	var t Task
	if err := s.delete(ctx, "/task/"+url.PathEscape(projectID)+"/"+url.PathEscape(id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}
