package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/store"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

type TaskService struct {
	Store store.Store
}

// Create stores a task after checking that its project (and assignee, when
// set) exist.
func (s *TaskService) Create(ctx context.Context, p domain.TaskPatch) (domain.Task, error) {
	p.Normalize()
	if err := p.ValidateCreate(); err != nil {
		return domain.Task{}, err
	}
	if err := s.checkRefs(ctx, p); err != nil {
		return domain.Task{}, err
	}

	t, err := s.Store.Tasks().Insert(ctx, p)
	if err != nil {
		return domain.Task{}, err
	}
	slogx.FromContext(ctx).Info("task created",
		slog.String("task_id", t.ID),
		slog.String("project_id", t.Project),
	)
	return t, nil
}

func (s *TaskService) Find(ctx context.Context, f domain.Filter) ([]domain.Task, error) {
	return s.Store.Tasks().Find(ctx, f)
}

func (s *TaskService) FindOne(ctx context.Context, f domain.Filter) (domain.Task, error) {
	return s.Store.Tasks().FindOne(ctx, f)
}

func (s *TaskService) FindByID(ctx context.Context, id string) (domain.Task, error) {
	return s.Store.Tasks().FindByID(ctx, id)
}

func (s *TaskService) Update(ctx context.Context, id string, p domain.TaskPatch) (domain.Task, error) {
	p.Normalize()
	if err := p.ValidateUpdate(); err != nil {
		return domain.Task{}, err
	}
	if err := s.checkRefs(ctx, p); err != nil {
		return domain.Task{}, err
	}
	return s.Store.Tasks().Update(ctx, id, p)
}

func (s *TaskService) Remove(ctx context.Context, id string) (domain.Task, error) {
	return s.Store.Tasks().Delete(ctx, id)
}

func (s *TaskService) Paginate(ctx context.Context, q domain.Query) (domain.Page[domain.Task], error) {
	return s.Store.Tasks().Paginate(ctx, q)
}

// FindByProject pages through a project's tasks with the assignee resolved
// to {_id, name}.
func (s *TaskService) FindByProject(ctx context.Context, projectID string, q domain.Query) (domain.Page[domain.PopulatedTask], error) {
	page, err := s.Paginate(ctx, q.With("project", projectID))
	if err != nil {
		return domain.Page[domain.PopulatedTask]{}, err
	}

	var ids []string
	for _, t := range page.Docs {
		if t.Asignee != "" {
			ids = append(ids, t.Asignee)
		}
	}
	users, err := s.Store.Users().FindByIDs(ctx, ids)
	if err != nil {
		return domain.Page[domain.PopulatedTask]{}, err
	}
	refs := make(map[string]*domain.UserRef, len(users))
	for _, u := range users {
		refs[u.ID] = &domain.UserRef{ID: u.ID, Name: u.Name}
	}

	return domain.MapPage(page, func(t domain.Task) domain.PopulatedTask {
		return domain.PopulatedTask{
			ID:        t.ID,
			Name:      t.Name,
			Project:   t.Project,
			Asignee:   refs[t.Asignee],
			CreatedAt: t.CreatedAt,
		}
	}), nil
}

// FindByAsignee pages through the tasks assigned to a user.
func (s *TaskService) FindByAsignee(ctx context.Context, userID string, q domain.Query) (domain.Page[domain.Task], error) {
	return s.Paginate(ctx, q.With("asignee", userID))
}

// The InProject variants scope a task to the project named in the request.
// A task that belongs to another project is reported as not found.

func (s *TaskService) FindInProject(ctx context.Context, projectID, id string) (domain.Task, error) {
	t, err := s.FindByID(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if t.Project != projectID {
		return domain.Task{}, store.ErrNotFound
	}
	return t, nil
}

func (s *TaskService) CreateInProject(ctx context.Context, projectID string, p domain.TaskPatch) (domain.Task, error) {
	p.Project = &projectID
	return s.Create(ctx, p)
}

func (s *TaskService) UpdateInProject(ctx context.Context, projectID, id string, p domain.TaskPatch) (domain.Task, error) {
	if _, err := s.FindInProject(ctx, projectID, id); err != nil {
		return domain.Task{}, err
	}
	p.Project = nil
	return s.Update(ctx, id, p)
}

func (s *TaskService) RemoveInProject(ctx context.Context, projectID, id string) (domain.Task, error) {
	if _, err := s.FindInProject(ctx, projectID, id); err != nil {
		return domain.Task{}, err
	}
	return s.Remove(ctx, id)
}

// checkRefs turns dangling project or assignee ids into validation errors.
func (s *TaskService) checkRefs(ctx context.Context, p domain.TaskPatch) error {
	if p.Project != nil {
		if _, err := s.Store.Projects().FindByID(ctx, *p.Project); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return &domain.ValidationError{Field: "project", Message: "unknown project"}
			}
			return err
		}
	}
	if p.Asignee != nil && *p.Asignee != "" {
		if _, err := s.Store.Users().FindByID(ctx, *p.Asignee); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return &domain.ValidationError{Field: "asignee", Message: "unknown user"}
			}
			return err
		}
	}
	return nil
}
