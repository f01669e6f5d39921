package service

import (
	"context"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
)

// Facade is what a resource exposes to the generic HTTP controller. T is the
// document type and P its (partial) write model.
type Facade[T, P any] interface {
	Create(ctx context.Context, p P) (T, error)
	Find(ctx context.Context, f domain.Filter) ([]T, error)
	FindOne(ctx context.Context, f domain.Filter) (T, error)
	FindByID(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, id string, p P) (T, error)
	Remove(ctx context.Context, id string) (T, error)
	Paginate(ctx context.Context, q domain.Query) (domain.Page[T], error)
}

var (
	_ Facade[domain.User, domain.UserPatch]       = (*UserService)(nil)
	_ Facade[domain.Project, domain.ProjectPatch] = (*ProjectService)(nil)
	_ Facade[domain.Task, domain.TaskPatch]       = (*TaskService)(nil)
)
