package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrInvalidField is returned when a query sorts or filters on a field
	// the repository does not expose.
	ErrInvalidField = errors.New("store: invalid field")
)

// Store is the root data access interface. Concrete drivers (mongo, sqlite)
// implement this and expose one sub-repository per resource.
type Store interface {
	Users() Users
	Projects() Projects
	Tasks() Tasks

	// ApplyMigrations brings the schema (tables or indexes) up to date.
	ApplyMigrations(ctx context.Context) error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// Repository is the storage contract shared by every resource. T is the
// document type and P its partial update.
//
// Ids are assigned by the driver on Insert. A malformed id is reported as
// ErrNotFound, the same as a well-formed id with no document behind it.
type Repository[T, P any] interface {
	// Insert stores a new document built from p and returns it.
	Insert(ctx context.Context, p P) (T, error)

	// Find returns every document matching the equality filter, in creation order.
	Find(ctx context.Context, f domain.Filter) ([]T, error)

	// FindOne returns the first document matching f.
	FindOne(ctx context.Context, f domain.Filter) (T, error)

	FindByID(ctx context.Context, id string) (T, error)

	// Update applies the non-nil fields of p and returns the updated document.
	Update(ctx context.Context, id string, p P) (T, error)

	// Delete removes the document and returns it as it was.
	Delete(ctx context.Context, id string) (T, error)

	// Paginate returns one page of documents matching q.
	Paginate(ctx context.Context, q domain.Query) (domain.Page[T], error)
}

type Users interface {
	Repository[domain.User, domain.UserPatch]

	// FindByEmail is used when checking credentials.
	FindByEmail(ctx context.Context, email string) (domain.User, error)

	// FindByIDs resolves references in bulk. Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]domain.User, error)

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Projects interface {
	Repository[domain.Project, domain.ProjectPatch]

	// AddMember adds userID to the project's members if missing.
	AddMember(ctx context.Context, projectID, userID string) (domain.Project, error)

	// RemoveMember drops userID from the project's members if present.
	RemoveMember(ctx context.Context, projectID, userID string) (domain.Project, error)
}

type Tasks interface {
	Repository[domain.Task, domain.TaskPatch]
}
