package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/store"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

type ProjectService struct {
	Store store.Store
}

func (s *ProjectService) Create(ctx context.Context, p domain.ProjectPatch) (domain.Project, error) {
	p.Normalize()
	if err := p.ValidateCreate(); err != nil {
		return domain.Project{}, err
	}
	if p.Members != nil {
		if err := s.requireUsers(ctx, *p.Members); err != nil {
			return domain.Project{}, err
		}
	}

	proj, err := s.Store.Projects().Insert(ctx, p)
	if err != nil {
		return domain.Project{}, err
	}
	slogx.FromContext(ctx).Info("project created", slog.String("project_id", proj.ID))
	return proj, nil
}

// CreateOwned creates a project whose first member is ownerID.
func (s *ProjectService) CreateOwned(ctx context.Context, ownerID string, p domain.ProjectPatch) (domain.Project, error) {
	p.Normalize()
	return s.Create(ctx, p.WithMember(ownerID))
}

func (s *ProjectService) Find(ctx context.Context, f domain.Filter) ([]domain.Project, error) {
	return s.Store.Projects().Find(ctx, f)
}

func (s *ProjectService) FindOne(ctx context.Context, f domain.Filter) (domain.Project, error) {
	return s.Store.Projects().FindOne(ctx, f)
}

func (s *ProjectService) FindByID(ctx context.Context, id string) (domain.Project, error) {
	return s.Store.Projects().FindByID(ctx, id)
}

func (s *ProjectService) Update(ctx context.Context, id string, p domain.ProjectPatch) (domain.Project, error) {
	p.Normalize()
	if err := p.ValidateUpdate(); err != nil {
		return domain.Project{}, err
	}
	if p.Members != nil {
		if err := s.requireUsers(ctx, *p.Members); err != nil {
			return domain.Project{}, err
		}
	}
	return s.Store.Projects().Update(ctx, id, p)
}

func (s *ProjectService) Remove(ctx context.Context, id string) (domain.Project, error) {
	proj, err := s.Store.Projects().Delete(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	slogx.FromContext(ctx).Info("project removed", slog.String("project_id", proj.ID))
	return proj, nil
}

func (s *ProjectService) Paginate(ctx context.Context, q domain.Query) (domain.Page[domain.Project], error) {
	return s.Store.Projects().Paginate(ctx, q)
}

// FindByCompany pages through the projects of one company.
func (s *ProjectService) FindByCompany(ctx context.Context, companyID string, q domain.Query) (domain.Page[domain.Project], error) {
	return s.Paginate(ctx, q.With("company", companyID))
}

// AddMember adds an existing user to the project.
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID string) (domain.Project, error) {
	if _, err := s.Store.Projects().FindByID(ctx, projectID); err != nil {
		return domain.Project{}, err
	}
	if _, err := s.Store.Users().FindByID(ctx, userID); err != nil {
		return domain.Project{}, err
	}
	return s.Store.Projects().AddMember(ctx, projectID, userID)
}

func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID string) (domain.Project, error) {
	return s.Store.Projects().RemoveMember(ctx, projectID, userID)
}

// IsMember loads the project and reports whether userID belongs to it.
func (s *ProjectService) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	proj, err := s.Store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return false, err
	}
	return proj.IsMember(userID), nil
}

// requireUsers fails with a validation error naming the first unknown id.
func (s *ProjectService) requireUsers(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.Store.Users().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(found))
	for _, u := range found {
		known[u.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return &domain.ValidationError{Field: "members", Message: "unknown user " + id}
		}
	}
	return nil
}
