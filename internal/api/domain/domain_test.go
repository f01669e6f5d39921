package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestQueryNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Query
		page int
		size int
	}{
		{"defaults", domain.Query{}, 0, domain.DefaultPageSize},
		{"negative page", domain.Query{Page: -3, Size: 10}, 0, 10},
		{"clamped size", domain.Query{Page: 2, Size: 1000}, 2, domain.MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in.Normalized()
			require.Equal(t, tt.page, q.Page)
			require.Equal(t, tt.size, q.Size)
		})
	}
}

func TestQuerySortAndWith(t *testing.T) {
	q := domain.Query{Sort: "-name", Filter: domain.Filter{"company": "c1"}}

	field, desc := q.SortField()
	require.Equal(t, "name", field)
	require.True(t, desc)

	q2 := q.With("project", "p1")
	require.Equal(t, "p1", q2.Filter["project"])
	require.NotContains(t, q.Filter, "project", "With must not mutate the receiver")
	require.EqualValues(t, 10, domain.Query{Page: 2, Size: 5}.Offset())
}

func TestNewPage(t *testing.T) {
	q := domain.Query{Page: 1, Size: 5}.Normalized()

	p := domain.NewPage([]string{"a"}, 11, q)
	require.EqualValues(t, 3, p.Pages)
	require.Equal(t, 1, p.Page)

	empty := domain.NewPage[string](nil, 0, q)
	require.NotNil(t, empty.Docs)
	require.EqualValues(t, 0, empty.Pages)

	b, err := json.Marshal(empty)
	require.NoError(t, err)
	require.JSONEq(t, `{"docs":[],"total":0,"page":1,"size":5,"pages":0}`, string(b))
}

func TestUserNeverSerializesPassword(t *testing.T) {
	u := domain.User{ID: "1", Email: "a@b.c", Name: "A", PasswordHash: "$argon2id$...", Roles: domain.DefaultRoles}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	require.NotContains(t, string(b), "password")
	require.NotContains(t, string(b), "argon2")
	require.Contains(t, string(b), `"_id":"1"`)
}

func TestUserPatchValidation(t *testing.T) {
	tests := []struct {
		name    string
		patch   domain.UserPatch
		create  bool
		wantErr string
	}{
		{"ok create", domain.UserPatch{Email: ptr("a@b.c"), Name: ptr("A"), Password: ptr("secret")}, true, ""},
		{"missing email", domain.UserPatch{Name: ptr("A"), Password: ptr("secret")}, true, "email"},
		{"missing password", domain.UserPatch{Email: ptr("a@b.c"), Name: ptr("A")}, true, "password"},
		{"bad email", domain.UserPatch{Email: ptr("nope")}, false, "email"},
		{"short password", domain.UserPatch{Password: ptr("123")}, false, "password"},
		{"unknown role", domain.UserPatch{Roles: &[]domain.Role{"ROOT"}}, false, "roles"},
		{"empty update", domain.UserPatch{}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.create {
				err = tt.patch.ValidateCreate()
			} else {
				err = tt.patch.ValidateUpdate()
			}
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.wantErr, ve.Field)
		})
	}
}

func TestUserPatchIgnoresUnknownFields(t *testing.T) {
	var p domain.UserPatch
	err := json.Unmarshal([]byte(`{"email":" Dev@Example.com ","name":"Dev","password":"secret","repeat_password":"secret"}`), &p)
	require.NoError(t, err)
	p.Normalize()
	require.Equal(t, "dev@example.com", *p.Email)
	require.Nil(t, p.PasswordHash)
}

func TestParseRoles(t *testing.T) {
	roles, err := domain.ParseRoles([]string{"admin", "DEVELOPER", "Admin"})
	require.NoError(t, err)
	require.Equal(t, []domain.Role{domain.RoleAdmin, domain.RoleDeveloper}, roles)
	require.Equal(t, []string{"ADMIN", "DEVELOPER"}, domain.RoleNames(roles))

	_, err = domain.ParseRoles([]string{"guest"})
	require.Error(t, err)
}

func TestProjectMembership(t *testing.T) {
	p := domain.ProjectPatch{Name: ptr("Board"), Members: &[]string{"u2", "u2", " u3"}}
	p.Normalize()
	require.Equal(t, []string{"u2", "u3"}, *p.Members)

	withCreator := p.WithMember("u1")
	require.Equal(t, []string{"u1", "u2", "u3"}, *withCreator.Members)
	require.Equal(t, []string{"u2", "u3"}, *p.Members)

	proj := domain.Project{Members: *withCreator.Members}
	require.True(t, proj.IsMember("u1"))
	require.False(t, proj.IsMember("u9"))
	require.False(t, proj.IsMember(""))
}

func TestTaskPatchValidation(t *testing.T) {
	require.NoError(t, domain.TaskPatch{Name: ptr("T"), Project: ptr("p")}.ValidateCreate())
	require.Error(t, domain.TaskPatch{Name: ptr("T")}.ValidateCreate())
	require.Error(t, domain.TaskPatch{Name: ptr("")}.ValidateUpdate())
}
