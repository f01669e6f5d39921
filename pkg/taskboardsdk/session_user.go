package taskboardsdk

import (
	"context"
	"net/url"
)

// Me returns the authenticated user.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var u User
	if err := s.get(ctx, "/user/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMe patches the authenticated user. Roles are ignored by the server.
func (s *Session) UpdateMe(ctx context.Context, in UserInput) (*User, error) {
	var u User
	if err := s.put(ctx, "/user/me", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Session) ListUsers(ctx context.Context, q PageQuery) (*Page[User], error) {
	var p Page[User]
	if err := s.get(ctx, withPage("/user", q), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindUsers returns every user matching the equality filter.
func (s *Session) FindUsers(ctx context.Context, filter map[string]string) ([]User, error) {
	var users []User
	if err := s.get(ctx, withFilter("/user/find", filter), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Session) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := s.get(ctx, "/user/"+url.PathEscape(id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser requires the ADMIN role.
func (s *Session) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	var u User
	if err := s.post(ctx, "/user", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser requires the ADMIN role.
func (s *Session) UpdateUser(ctx context.Context, id string, in UserInput) (*User, error) {
	var u User
	if err := s.put(ctx, "/user/"+url.PathEscape(id), in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser requires the ADMIN role and returns the removed user.
func (s *Session) DeleteUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := s.delete(ctx, "/user/"+url.PathEscape(id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}
