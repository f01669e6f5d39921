package taskboardsdk

import "time"

// ============================================================================
// Authentication
// ============================================================================

// Credentials is the body of POST /user/authenticate.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the bearer token issued for valid credentials.
type TokenResponse struct {
	Token string `json:"token"`
}

// ============================================================================
// Resources
// ============================================================================

type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInput creates or patches a user. Empty fields are left out.
type UserInput struct {
	Email    string   `json:"email,omitempty"`
	Name     string   `json:"name,omitempty"`
	Password string   `json:"password,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

type Project struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Company   string    `json:"company,omitempty"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

type ProjectInput struct {
	Name    string   `json:"name,omitempty"`
	Company string   `json:"company,omitempty"`
	Members []string `json:"members,omitempty"`
}

type Task struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Project   string    `json:"project"`
	Asignee   string    `json:"asignee,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRef is the populated form of a task's assignee.
type UserRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// PopulatedTask is returned by the by_project listing.
type PopulatedTask struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Project   string    `json:"project"`
	Asignee   *UserRef  `json:"asignee"`
	CreatedAt time.Time `json:"created_at"`
}

type TaskInput struct {
	Name    string `json:"name,omitempty"`
	Project string `json:"project,omitempty"`
	Asignee string `json:"asignee,omitempty"`
}

// ============================================================================
// Listings
// ============================================================================

// Page is one page of a paginated listing.
type Page[T any] struct {
	Docs  []T   `json:"docs"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int64 `json:"pages"`
}

// PageQuery selects a page. Zero values use the server defaults.
type PageQuery struct {
	Page int
	Size int
	// Sort is a field name, prefixed with "-" for descending order.
	Sort string
	// Q is a case-insensitive substring matched against names.
	Q string
}

// ============================================================================
// System
// ============================================================================

// ServiceInfo is returned by GET /.
type ServiceInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
}
