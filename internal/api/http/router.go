package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/service"
	"github.com/aussiebroadwan/taskboard/internal/api/store"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"

	_ "github.com/aussiebroadwan/taskboard/api/taskboard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// publicPaths are served without a bearer token.
var publicPaths = httpx.AllowList{
	"/",
	"/user/login",
	"/user/authenticate",
	"/livez",
	"/readyz",
	"/swagger/",
}

// Limits are the rate limit profiles routes pick from.
type Limits struct {
	Strict  httpx.RateLimitConfig
	Lenient httpx.RateLimitConfig
}

// DefaultLimits reads RATELIMIT_STRICT_* and RATELIMIT_LENIENT_* over the
// built-in profiles.
func DefaultLimits() Limits {
	return Limits{
		Strict:  httpx.RateLimitFromEnv("STRICT", httpx.StrictLimit),
		Lenient: httpx.RateLimitFromEnv("LENIENT", httpx.LenientLimit),
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	Limits         Limits
	UserService    *service.UserService
	AuthService    *service.AuthService
	ProjectService *service.ProjectService
	TaskService    *service.TaskService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits:       DefaultLimits(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.AuthnMiddleware(r.verifier, publicPaths),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerProjects()
	r.registerTasks()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
	r.Mux.HandleFunc("/", notFoundHandler)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Taskboard API
//	@version		0.1.0
//	@description	CRUD API over users, projects and tasks.
//	@description
//	@description				Every route except the banner, login, health and docs requires an HS256 bearer token from POST /user/authenticate.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/taskboard
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers fn behind the per-user lenient limit plus any guards.
func (r *Router) handle(pattern string, fn http.HandlerFunc, guards ...httpx.Middleware) {
	mws := append([]httpx.Middleware{httpx.RateLimitByUser(r.Limits.Lenient)}, guards...)
	r.Mux.Handle(pattern, httpx.Chain(fn, mws...))
}

func (r *Router) registerUsers() {
	h := &UserHandler{
		Controller:  NewController(r.UserService),
		UserService: r.UserService,
		AuthService: r.AuthService,
	}
	admin := httpx.RequireAnyRole(string(domain.RoleAdmin))

	// Login endpoints - strict rate limit by IP against credential stuffing
	login := httpx.Chain(http.HandlerFunc(h.HandleAuthenticate),
		httpx.RateLimitByIP(r.Limits.Strict),
	)
	r.Mux.Handle("POST /user/authenticate", login)
	r.Mux.Handle("POST /user/login", login)

	r.handle("GET /user/me", h.HandleMe)
	r.handle("PUT /user/me", h.HandleUpdateMe)

	r.handle("GET /user", h.HandlePaginate)
	r.handle("GET /user/find", h.HandleFind)
	r.handle("GET /user/find_one", h.HandleFindOne)
	r.handle("GET /user/{id}", h.HandleFindByID)

	r.handle("POST /user", h.HandleCreate, admin)
	r.handle("PUT /user/{id}", h.HandleUpdate, admin)
	r.handle("DELETE /user/{id}", h.HandleRemove, admin)
}

func (r *Router) registerProjects() {
	h := &ProjectHandler{
		Controller:     NewController(r.ProjectService),
		ProjectService: r.ProjectService,
	}
	memberOrAdmin := requireMember(r.ProjectService, "id", true)

	r.handle("GET /project", h.HandlePaginate)
	r.handle("GET /project/find", h.HandleFind)
	r.handle("GET /project/find_one", h.HandleFindOne)
	r.handle("GET /project/company/{companyId}", h.HandleByCompany)
	r.handle("GET /project/{id}", h.HandleFindByID)

	r.handle("POST /project", h.HandleCreate)
	r.handle("PUT /project/{id}", h.HandleUpdate, memberOrAdmin)
	r.handle("DELETE /project/{id}", h.HandleRemove, memberOrAdmin)
	r.handle("PUT /project/{id}/user/{userId}", h.HandleAddMember, memberOrAdmin)
	r.handle("DELETE /project/{id}/user/{userId}", h.HandleRemoveMember, memberOrAdmin)
}

func (r *Router) registerTasks() {
	h := &TaskHandler{
		Controller:  NewController(r.TaskService),
		TaskService: r.TaskService,
	}
	member := requireMember(r.ProjectService, "projectId", false)

	r.handle("GET /task", h.HandlePaginate)
	r.handle("GET /task/find", h.HandleFind)
	r.handle("GET /task/find_one", h.HandleFindOne)
	r.handle("GET /task/by_project/{projectId}", h.HandleByProject)
	r.handle("GET /task/by_asignee/{userId}", h.HandleByAsignee)

	r.handle("GET /task/{projectId}", h.HandleProjectPaginate)
	r.handle("POST /task/{projectId}", h.HandleProjectCreate, member)
	r.handle("GET /task/{projectId}/{id}", h.HandleProjectFindByID)
	r.handle("PUT /task/{projectId}/{id}", h.HandleProjectUpdate, member)
	r.handle("DELETE /task/{projectId}/{id}", h.HandleProjectRemove, member)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /{$}",
		httpx.Chain(HomeHandler(r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
}
