package taskboardsdk

import (
	"context"
	"net/url"
)

// CreateProject creates a project with the caller as its first member.
func (s *Session) CreateProject(ctx context.Context, in ProjectInput) (*Project, error) {
	var p Project
	if err := s.post(ctx, "/project", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) ListProjects(ctx context.Context, q PageQuery) (*Page[Project], error) {
	var p Page[Project]
	if err := s.get(ctx, withPage("/project", q), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) ListCompanyProjects(ctx context.Context, companyID string, q PageQuery) (*Page[Project], error) {
	var p Page[Project]
	if err := s.get(ctx, withPage("/project/company/"+url.PathEscape(companyID), q), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	if err := s.get(ctx, "/project/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject requires the ADMIN role or membership.
func (s *Session) UpdateProject(ctx context.Context, id string, in ProjectInput) (*Project, error) {
	var p Project
	if err := s.put(ctx, "/project/"+url.PathEscape(id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject requires the ADMIN role or membership.
func (s *Session) DeleteProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	if err := s.delete(ctx, "/project/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AddProjectMember adds userID to the project's members.
func (s *Session) AddProjectMember(ctx context.Context, projectID, userID string) (*Project, error) {
	var p Project
	err := s.put(ctx, "/project/"+url.PathEscape(projectID)+"/user/"+url.PathEscape(userID), nil, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// RemoveProjectMember drops userID from the project's members.
func (s *Session) RemoveProjectMember(ctx context.Context, projectID, userID string) (*Project, error) {
	var p Project
	err := s.delete(ctx, "/project/"+url.PathEscape(projectID)+"/user/"+url.PathEscape(userID), &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
