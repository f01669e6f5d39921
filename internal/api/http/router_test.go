package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	httpapi "github.com/aussiebroadwan/taskboard/internal/api/http"
	"github.com/aussiebroadwan/taskboard/internal/api/service"
	"github.com/aussiebroadwan/taskboard/internal/api/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const password = "password"

type fixture struct {
	srv      *httptest.Server
	users    *service.UserService
	projects *service.ProjectService
	auth     *service.AuthService
	st       *sqlite.Store
}

func newFixture(t *testing.T, tweak func(*httpapi.Router)) *fixture {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(ctx) })
	require.NoError(t, st.ApplyMigrations(ctx))

	signer, err := jwtx.NewHS256([]byte("test-secret"), "taskboard-test")
	require.NoError(t, err)

	r := httpapi.NewRouter(signer, "test", st, slogx.Discard())
	r.Limits = httpapi.Limits{
		Strict:  httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000},
		Lenient: httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000},
	}
	r.UserService = &service.UserService{Store: st}
	r.AuthService = &service.AuthService{Store: st, Signer: signer, Issuer: "taskboard-test", TTL: time.Hour}
	r.ProjectService = &service.ProjectService{Store: st}
	r.TaskService = &service.TaskService{Store: st}
	if tweak != nil {
		tweak(r)
	}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, users: r.UserService, projects: r.ProjectService, auth: r.AuthService, st: st}
}

func (f *fixture) user(t *testing.T, email string, roles ...domain.Role) (domain.User, string) {
	t.Helper()
	ctx := context.Background()
	name, pw := strings.Split(email, "@")[0], password
	p := domain.UserPatch{Email: &email, Name: &name, Password: &pw}
	if len(roles) > 0 {
		p.Roles = &roles
	}
	u, err := f.users.Create(ctx, p)
	require.NoError(t, err)

	token, _, err := f.auth.Authenticate(ctx, email, password)
	require.NoError(t, err)
	return u, token
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t, nil)
	f.user(t, "dev@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		code, body := f.do(t, http.MethodPost, "/user/authenticate", "",
			map[string]string{"email": "dev@example.com", "password": password})
		require.Equal(t, http.StatusOK, code)
		require.NotEmpty(t, decode[map[string]string](t, body)["token"])
	})

	t.Run("login alias", func(t *testing.T) {
		code, _ := f.do(t, http.MethodPost, "/user/login", "",
			map[string]string{"email": "DEV@example.com", "password": password})
		require.Equal(t, http.StatusOK, code)
	})

	t.Run("wrong password", func(t *testing.T) {
		code, body := f.do(t, http.MethodPost, "/user/authenticate", "",
			map[string]string{"email": "dev@example.com", "password": "nope"})
		require.Equal(t, http.StatusUnauthorized, code)
		require.Equal(t, "Unauthorized", decode[httpx.Error](t, body).Name)
	})

	t.Run("unknown email", func(t *testing.T) {
		code, _ := f.do(t, http.MethodPost, "/user/authenticate", "",
			map[string]string{"email": "ghost@example.com", "password": password})
		require.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, f.srv.URL+"/user/authenticate", strings.NewReader("{"))
		require.NoError(t, err)
		res, err := f.srv.Client().Do(req)
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestAuthenticationRequired(t *testing.T) {
	f := newFixture(t, nil)

	for _, path := range []string{"/user", "/user/me", "/project", "/task", "/does/not/exist"} {
		t.Run(path, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, f.srv.URL+path, nil)
			require.NoError(t, err)
			res, err := f.srv.Client().Do(req)
			require.NoError(t, err)
			res.Body.Close()
			require.Equal(t, http.StatusUnauthorized, res.StatusCode)
			require.Contains(t, res.Header.Get("WWW-Authenticate"), "Bearer")
		})
	}

	t.Run("public paths", func(t *testing.T) {
		for _, path := range []string{"/", "/livez", "/readyz"} {
			code, _ := f.do(t, http.MethodGet, path, "", nil)
			require.Equal(t, http.StatusOK, code, path)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		code, _ := f.do(t, http.MethodGet, "/user", "not-a-jwt", nil)
		require.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestUserRoutes(t *testing.T) {
	f := newFixture(t, nil)
	_, adminToken := f.user(t, "admin@example.com", domain.RoleAdmin)
	dev, devToken := f.user(t, "dev@example.com")

	t.Run("developer can list and read users", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/user", devToken, nil)
		require.Equal(t, http.StatusOK, code)
		page := decode[domain.Page[domain.User]](t, body)
		require.EqualValues(t, 2, page.Total)
		require.NotContains(t, string(body), "password")
		require.NotContains(t, string(body), "$argon2id$")

		code, body = f.do(t, http.MethodGet, "/user/"+dev.ID, devToken, nil)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, dev.Email, decode[domain.User](t, body).Email)
	})

	t.Run("developer cannot mutate users", func(t *testing.T) {
		in := map[string]any{"email": "x@example.com", "name": "X", "password": password}
		for _, tc := range []struct{ method, path string }{
			{http.MethodPost, "/user"},
			{http.MethodPut, "/user/" + dev.ID},
			{http.MethodDelete, "/user/" + dev.ID},
		} {
			code, body := f.do(t, tc.method, tc.path, devToken, in)
			require.Equal(t, http.StatusForbidden, code, tc.method)
			require.Equal(t, "Permission denied", decode[httpx.Error](t, body).Message)
		}
	})

	t.Run("admin manages users", func(t *testing.T) {
		code, body := f.do(t, http.MethodPost, "/user", adminToken, map[string]any{
			"email": "new@example.com", "name": "New", "password": password, "repeat_password": password,
		})
		require.Equal(t, http.StatusCreated, code, string(body))
		created := decode[domain.User](t, body)
		require.Equal(t, domain.DefaultRoles, created.Roles)
		require.NotContains(t, string(body), "password")

		code, body = f.do(t, http.MethodPut, "/user/"+created.ID, adminToken, map[string]any{"name": "Renamed"})
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "Renamed", decode[domain.User](t, body).Name)

		code, _ = f.do(t, http.MethodPost, "/user", adminToken, map[string]any{
			"email": "new@example.com", "name": "Dup", "password": password,
		})
		require.Equal(t, http.StatusConflict, code)

		code, _ = f.do(t, http.MethodDelete, "/user/"+created.ID, adminToken, nil)
		require.Equal(t, http.StatusOK, code)
		code, _ = f.do(t, http.MethodDelete, "/user/"+created.ID, adminToken, nil)
		require.Equal(t, http.StatusNotFound, code)
	})

	t.Run("validation errors are 400", func(t *testing.T) {
		code, body := f.do(t, http.MethodPost, "/user", adminToken, map[string]any{"email": "not-an-email", "name": "X", "password": password})
		require.Equal(t, http.StatusBadRequest, code)
		require.Equal(t, "BadRequest", decode[httpx.Error](t, body).Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/user/01ARZ3NDEKTSV4RRFFQ69G5FAV", devToken, nil)
		require.Equal(t, http.StatusNotFound, code)
		require.Equal(t, "NotFound", decode[httpx.Error](t, body).Name)
	})

	t.Run("me", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/user/me", devToken, nil)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, dev.ID, decode[domain.User](t, body).ID)
		require.NotContains(t, string(body), "password")
	})

	t.Run("update me keeps roles", func(t *testing.T) {
		code, body := f.do(t, http.MethodPut, "/user/me", devToken, map[string]any{
			"name": "Dev", "roles": []string{"ADMIN"},
		})
		require.Equal(t, http.StatusOK, code)
		me := decode[domain.User](t, body)
		require.Equal(t, "Dev", me.Name)
		require.Equal(t, domain.DefaultRoles, me.Roles)
	})

	t.Run("find and find_one", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/user/find?email=dev@example.com", devToken, nil)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, decode[[]domain.User](t, body), 1)

		code, _ = f.do(t, http.MethodGet, "/user/find_one?email=ghost@example.com", devToken, nil)
		require.Equal(t, http.StatusNotFound, code)
	})

	t.Run("bad query", func(t *testing.T) {
		code, _ := f.do(t, http.MethodGet, "/user?page=x", devToken, nil)
		require.Equal(t, http.StatusBadRequest, code)
		code, _ = f.do(t, http.MethodGet, "/user?sort=password", devToken, nil)
		require.Equal(t, http.StatusBadRequest, code)
	})
}

func TestProjectRoutes(t *testing.T) {
	f := newFixture(t, nil)
	_, adminToken := f.user(t, "admin@example.com", domain.RoleAdmin)
	owner, ownerToken := f.user(t, "owner@example.com")
	other, otherToken := f.user(t, "other@example.com")

	code, body := f.do(t, http.MethodPost, "/project", ownerToken, map[string]any{"name": "Apollo", "company": "acme"})
	require.Equal(t, http.StatusCreated, code, string(body))
	proj := decode[domain.Project](t, body)
	require.Equal(t, []string{owner.ID}, proj.Members)

	t.Run("non-member cannot update", func(t *testing.T) {
		code, body := f.do(t, http.MethodPut, "/project/"+proj.ID, otherToken, map[string]any{"name": "Hijacked"})
		require.Equal(t, http.StatusForbidden, code)
		require.Equal(t, "Permission denied", decode[httpx.Error](t, body).Message)
	})

	t.Run("member manages members", func(t *testing.T) {
		code, body := f.do(t, http.MethodPut, "/project/"+proj.ID+"/user/"+other.ID, ownerToken, nil)
		require.Equal(t, http.StatusOK, code)
		require.ElementsMatch(t, []string{owner.ID, other.ID}, decode[domain.Project](t, body).Members)

		code, body = f.do(t, http.MethodDelete, "/project/"+proj.ID+"/user/"+other.ID, ownerToken, nil)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, []string{owner.ID}, decode[domain.Project](t, body).Members)
	})

	t.Run("admin bypasses membership", func(t *testing.T) {
		code, body := f.do(t, http.MethodPut, "/project/"+proj.ID, adminToken, map[string]any{"name": "Apollo 11"})
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "Apollo 11", decode[domain.Project](t, body).Name)
	})

	t.Run("by company", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/project/company/acme", otherToken, nil)
		require.Equal(t, http.StatusOK, code)
		require.EqualValues(t, 1, decode[domain.Page[domain.Project]](t, body).Total)
	})

	t.Run("unknown project", func(t *testing.T) {
		code, _ := f.do(t, http.MethodDelete, "/project/01ARZ3NDEKTSV4RRFFQ69G5FAV", ownerToken, nil)
		require.Equal(t, http.StatusNotFound, code)
	})

	t.Run("member deletes", func(t *testing.T) {
		code, _ := f.do(t, http.MethodDelete, "/project/"+proj.ID, ownerToken, nil)
		require.Equal(t, http.StatusOK, code)
		code, _ = f.do(t, http.MethodGet, "/project/"+proj.ID, ownerToken, nil)
		require.Equal(t, http.StatusNotFound, code)
	})
}

func TestTaskRoutes(t *testing.T) {
	f := newFixture(t, nil)
	member, memberToken := f.user(t, "member@example.com")
	_, outsiderToken := f.user(t, "outsider@example.com")
	_, adminToken := f.user(t, "admin@example.com", domain.RoleAdmin)

	code, body := f.do(t, http.MethodPost, "/project", memberToken, map[string]any{"name": "Board"})
	require.Equal(t, http.StatusCreated, code)
	proj := decode[domain.Project](t, body)

	t.Run("non-member gets 403", func(t *testing.T) {
		code, _ := f.do(t, http.MethodPost, "/task/"+proj.ID, outsiderToken, map[string]any{"name": "Sneaky"})
		require.Equal(t, http.StatusForbidden, code)
	})

	t.Run("admin is not a member", func(t *testing.T) {
		code, _ := f.do(t, http.MethodPost, "/task/"+proj.ID, adminToken, map[string]any{"name": "Admin task"})
		require.Equal(t, http.StatusForbidden, code)
	})

	t.Run("unknown project gets 404", func(t *testing.T) {
		code, _ := f.do(t, http.MethodPost, "/task/01ARZ3NDEKTSV4RRFFQ69G5FAV", memberToken, map[string]any{"name": "Lost"})
		require.Equal(t, http.StatusNotFound, code)
	})

	var task domain.Task
	t.Run("member creates", func(t *testing.T) {
		code, body := f.do(t, http.MethodPost, "/task/"+proj.ID, memberToken, map[string]any{
			"name": "Write Docs", "project": "ignored", "asignee": member.ID,
		})
		require.Equal(t, http.StatusCreated, code, string(body))
		task = decode[domain.Task](t, body)
		require.Equal(t, proj.ID, task.Project)
	})

	t.Run("by_project populates the assignee", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/task/by_project/"+proj.ID, outsiderToken, nil)
		require.Equal(t, http.StatusOK, code)
		page := decode[domain.Page[domain.PopulatedTask]](t, body)
		require.Len(t, page.Docs, 1)
		require.NotNil(t, page.Docs[0].Asignee)
		require.Equal(t, member.ID, page.Docs[0].Asignee.ID)
		require.Equal(t, member.Name, page.Docs[0].Asignee.Name)
	})

	t.Run("by_asignee", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/task/by_asignee/"+member.ID, outsiderToken, nil)
		require.Equal(t, http.StatusOK, code)
		require.EqualValues(t, 1, decode[domain.Page[domain.Task]](t, body).Total)
	})

	t.Run("q is a case-insensitive substring", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/task?q=docs", outsiderToken, nil)
		require.Equal(t, http.StatusOK, code)
		require.EqualValues(t, 1, decode[domain.Page[domain.Task]](t, body).Total)

		code, body = f.do(t, http.MethodGet, "/task?q=nothing", outsiderToken, nil)
		require.Equal(t, http.StatusOK, code)
		require.EqualValues(t, 0, decode[domain.Page[domain.Task]](t, body).Total)
	})

	t.Run("outsider cannot update or delete", func(t *testing.T) {
		code, _ := f.do(t, http.MethodPut, "/task/"+proj.ID+"/"+task.ID, outsiderToken, map[string]any{"name": "x"})
		require.Equal(t, http.StatusForbidden, code)
		code, _ = f.do(t, http.MethodDelete, "/task/"+proj.ID+"/"+task.ID, outsiderToken, nil)
		require.Equal(t, http.StatusForbidden, code)
	})

	t.Run("member updates and deletes", func(t *testing.T) {
		code, body := f.do(t, http.MethodPut, "/task/"+proj.ID+"/"+task.ID, memberToken, map[string]any{"name": "Write more docs"})
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "Write more docs", decode[domain.Task](t, body).Name)

		code, _ = f.do(t, http.MethodDelete, "/task/"+proj.ID+"/"+task.ID, memberToken, nil)
		require.Equal(t, http.StatusOK, code)
		code, _ = f.do(t, http.MethodGet, "/task/"+proj.ID+"/"+task.ID, memberToken, nil)
		require.Equal(t, http.StatusNotFound, code)
	})
}

func TestStrictRateLimitOnLogin(t *testing.T) {
	f := newFixture(t, func(r *httpapi.Router) {
		r.Limits.Strict = httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Hour, Burst: 2}
	})

	creds := map[string]string{"email": "ghost@example.com", "password": "x"}
	for range 2 {
		code, _ := f.do(t, http.MethodPost, "/user/authenticate", "", creds)
		require.Equal(t, http.StatusUnauthorized, code)
	}
	code, body := f.do(t, http.MethodPost, "/user/authenticate", "", creds)
	require.Equal(t, http.StatusTooManyRequests, code)
	require.Equal(t, "TooManyRequests", decode[httpx.Error](t, body).Name)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	f := newFixture(t, nil)
	_, token := f.user(t, "dev@example.com")

	code, body := f.do(t, http.MethodGet, "/nowhere", token, nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "NotFound", decode[httpx.Error](t, body).Name)
}

func TestPageOutOfRange(t *testing.T) {
	f := newFixture(t, nil)
	_, token := f.user(t, "dev@example.com")

	// 1844674407370955161 * 5 is the largest offset that fits an int64.
	code, body := f.do(t, http.MethodGet, "/user?page=1844674407370955161", token, nil)
	require.Equal(t, http.StatusOK, code, string(body))
	require.Empty(t, decode[domain.Page[domain.User]](t, body).Docs)

	for _, path := range []string{
		"/user?page=1844674407370955162",
		"/user?page=9223372036854775807",
		"/user?page=92233720368547759&size=100",
		"/project?page=9223372036854775807",
	} {
		code, body := f.do(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusBadRequest, code, path)
		e := decode[httpx.Error](t, body)
		require.Equal(t, "BadRequest", e.Name)
		require.Equal(t, "page is too large", e.Message)
	}
}

func TestStoreFailureIsEchoed(t *testing.T) {
	f := newFixture(t, nil)
	_, token := f.user(t, "dev@example.com")
	require.NoError(t, f.st.Close(context.Background()))

	code, body := f.do(t, http.MethodGet, "/user", token, nil)
	require.Equal(t, http.StatusInternalServerError, code)
	e := decode[httpx.Error](t, body)
	require.Equal(t, http.StatusInternalServerError, e.Status)
	require.Equal(t, "InternalServerError", e.Name)
	require.Contains(t, e.Message, "database is closed")
}
