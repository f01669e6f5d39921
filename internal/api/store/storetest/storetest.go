// Package storetest holds the behaviour every store driver must share.
package storetest

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/store"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// Run exercises s through every repository. newStore must return an empty,
// migrated store on each call.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("projects", func(t *testing.T) { testProjects(t, newStore(t)) })
	t.Run("tasks", func(t *testing.T) { testTasks(t, newStore(t)) })
	t.Run("paginate", func(t *testing.T) { testPaginate(t, newStore(t)) })
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Users()

	empty, err := users.IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	admin, err := users.Insert(ctx, domain.UserPatch{
		Email:        ptr("admin@example.com"),
		Name:         ptr("Admin"),
		PasswordHash: ptr("hash-a"),
		Roles:        &[]domain.Role{domain.RoleAdmin},
	})
	require.NoError(t, err)
	require.NotEmpty(t, admin.ID)
	require.Equal(t, []domain.Role{domain.RoleAdmin}, admin.Roles)
	require.Equal(t, "hash-a", admin.PasswordHash)
	require.False(t, admin.CreatedAt.IsZero())

	dev, err := users.Insert(ctx, domain.UserPatch{
		Email:        ptr("dev@example.com"),
		Name:         ptr("Dev"),
		PasswordHash: ptr("hash-d"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.DefaultRoles, dev.Roles)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := users.Insert(ctx, domain.UserPatch{
			Email: ptr("dev@example.com"), Name: ptr("Other"), PasswordHash: ptr("x"),
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("lookups", func(t *testing.T) {
		got, err := users.FindByID(ctx, dev.ID)
		require.NoError(t, err)
		require.Equal(t, dev.Email, got.Email)

		got, err = users.FindByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		require.Equal(t, admin.ID, got.ID)

		_, err = users.FindByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = users.FindByID(ctx, "not-an-id")
		require.ErrorIs(t, err, store.ErrNotFound)

		all, err := users.Find(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, admin.ID, all[0].ID, "creation order")

		one, err := users.FindOne(ctx, domain.Filter{"name": "Dev"})
		require.NoError(t, err)
		require.Equal(t, dev.ID, one.ID)

		_, err = users.FindOne(ctx, domain.Filter{"name": "Nobody"})
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = users.Find(ctx, domain.Filter{"password_hash": "x"})
		require.ErrorIs(t, err, store.ErrInvalidField)

		byIDs, err := users.FindByIDs(ctx, []string{dev.ID, "missing"})
		require.NoError(t, err)
		require.Len(t, byIDs, 1)
		require.Equal(t, "Dev", byIDs[0].Name)
	})

	t.Run("update", func(t *testing.T) {
		got, err := users.Update(ctx, dev.ID, domain.UserPatch{Name: ptr("Developer")})
		require.NoError(t, err)
		require.Equal(t, "Developer", got.Name)
		require.Equal(t, dev.Email, got.Email)
		require.Equal(t, dev.PasswordHash, got.PasswordHash)

		got, err = users.Update(ctx, dev.ID, domain.UserPatch{})
		require.NoError(t, err)
		require.Equal(t, "Developer", got.Name)

		_, err = users.Update(ctx, "not-an-id", domain.UserPatch{Name: ptr("x")})
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = users.Update(ctx, dev.ID, domain.UserPatch{Email: ptr("admin@example.com")})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("delete", func(t *testing.T) {
		got, err := users.Delete(ctx, dev.ID)
		require.NoError(t, err)
		require.Equal(t, dev.ID, got.ID)

		_, err = users.Delete(ctx, dev.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = users.FindByID(ctx, dev.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func testProjects(t *testing.T, s store.Store) {
	ctx := context.Background()
	projects := s.Projects()

	u1 := insertUser(t, s, "one@example.com")
	u2 := insertUser(t, s, "two@example.com")

	p, err := projects.Insert(ctx, domain.ProjectPatch{
		Name:    ptr("Board"),
		Company: ptr("acme"),
		Members: &[]string{u1.ID},
	})
	require.NoError(t, err)
	require.Equal(t, []string{u1.ID}, p.Members)
	require.Equal(t, "acme", p.Company)

	bare, err := projects.Insert(ctx, domain.ProjectPatch{Name: ptr("Bare")})
	require.NoError(t, err)
	require.Empty(t, bare.Members)

	t.Run("members", func(t *testing.T) {
		got, err := projects.AddMember(ctx, p.ID, u2.ID)
		require.NoError(t, err)
		require.Equal(t, []string{u1.ID, u2.ID}, got.Members)

		got, err = projects.AddMember(ctx, p.ID, u2.ID)
		require.NoError(t, err)
		require.Equal(t, []string{u1.ID, u2.ID}, got.Members, "adding twice is a no-op")

		byMember, err := projects.Find(ctx, domain.Filter{"member": u2.ID})
		require.NoError(t, err)
		require.Len(t, byMember, 1)
		require.Equal(t, p.ID, byMember[0].ID)

		got, err = projects.RemoveMember(ctx, p.ID, u1.ID)
		require.NoError(t, err)
		require.Equal(t, []string{u2.ID}, got.Members)

		got, err = projects.RemoveMember(ctx, p.ID, u1.ID)
		require.NoError(t, err)
		require.Equal(t, []string{u2.ID}, got.Members)

		_, err = projects.AddMember(ctx, "not-an-id", u1.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		got, err := projects.Update(ctx, p.ID, domain.ProjectPatch{
			Name:    ptr("Renamed"),
			Members: &[]string{u1.ID, u2.ID},
		})
		require.NoError(t, err)
		require.Equal(t, "Renamed", got.Name)
		require.Equal(t, "acme", got.Company)
		require.Equal(t, []string{u1.ID, u2.ID}, got.Members)
	})

	t.Run("by company", func(t *testing.T) {
		page, err := projects.Paginate(ctx, domain.Query{Filter: domain.Filter{"company": "acme"}})
		require.NoError(t, err)
		require.EqualValues(t, 1, page.Total)
		require.Equal(t, p.ID, page.Docs[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		got, err := projects.Delete(ctx, bare.ID)
		require.NoError(t, err)
		require.Equal(t, "Bare", got.Name)

		_, err = projects.FindByID(ctx, bare.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func testTasks(t *testing.T, s store.Store) {
	ctx := context.Background()
	tasks := s.Tasks()

	u := insertUser(t, s, "worker@example.com")
	p, err := s.Projects().Insert(ctx, domain.ProjectPatch{Name: ptr("P")})
	require.NoError(t, err)

	withAsignee, err := tasks.Insert(ctx, domain.TaskPatch{Name: ptr("Write docs"), Project: ptr(p.ID), Asignee: ptr(u.ID)})
	require.NoError(t, err)
	require.Equal(t, u.ID, withAsignee.Asignee)
	require.Equal(t, p.ID, withAsignee.Project)

	unassigned, err := tasks.Insert(ctx, domain.TaskPatch{Name: ptr("Ship"), Project: ptr(p.ID)})
	require.NoError(t, err)
	require.Empty(t, unassigned.Asignee)

	byProject, err := tasks.Paginate(ctx, domain.Query{Filter: domain.Filter{"project": p.ID}})
	require.NoError(t, err)
	require.EqualValues(t, 2, byProject.Total)

	byAsignee, err := tasks.Find(ctx, domain.Filter{"asignee": u.ID})
	require.NoError(t, err)
	require.Len(t, byAsignee, 1)
	require.Equal(t, withAsignee.ID, byAsignee[0].ID)

	got, err := tasks.Update(ctx, unassigned.ID, domain.TaskPatch{Asignee: ptr(u.ID)})
	require.NoError(t, err)
	require.Equal(t, u.ID, got.Asignee)
	require.Equal(t, "Ship", got.Name)

	deleted, err := tasks.Delete(ctx, unassigned.ID)
	require.NoError(t, err)
	require.Equal(t, unassigned.ID, deleted.ID)

	_, err = tasks.Delete(ctx, unassigned.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testPaginate(t *testing.T, s store.Store) {
	ctx := context.Background()
	tasks := s.Tasks()

	p, err := s.Projects().Insert(ctx, domain.ProjectPatch{Name: ptr("P")})
	require.NoError(t, err)

	names := []string{"Alpha", "beta", "Gamma", "alphabet", "a.b", "a%b", "Delta", "ÉCOLE Ångström", "epsilon"}
	for _, n := range names {
		_, err := tasks.Insert(ctx, domain.TaskPatch{Name: ptr(n), Project: ptr(p.ID)})
		require.NoError(t, err)
	}

	t.Run("defaults", func(t *testing.T) {
		page, err := tasks.Paginate(ctx, domain.Query{})
		require.NoError(t, err)
		require.EqualValues(t, len(names), page.Total)
		require.Equal(t, 0, page.Page)
		require.Equal(t, domain.DefaultPageSize, page.Size)
		require.EqualValues(t, 2, page.Pages)
		require.Len(t, page.Docs, domain.DefaultPageSize)
		require.Equal(t, "Alpha", page.Docs[0].Name, "creation order")
	})

	t.Run("second page", func(t *testing.T) {
		page, err := tasks.Paginate(ctx, domain.Query{Page: 1, Size: 5})
		require.NoError(t, err)
		require.Len(t, page.Docs, 4)
		require.Equal(t, "a%b", page.Docs[0].Name)
	})

	t.Run("past the end", func(t *testing.T) {
		page, err := tasks.Paginate(ctx, domain.Query{Page: 9})
		require.NoError(t, err)
		require.Empty(t, page.Docs)
		require.NotNil(t, page.Docs)
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		page, err := tasks.Paginate(ctx, domain.Query{Search: "ALPHA", Size: 10})
		require.NoError(t, err)
		require.EqualValues(t, 2, page.Total)

		for _, q := range []string{"ÉCOLE", "école", "ångstr", "ÅNGSTRÖM"} {
			page, err := tasks.Paginate(ctx, domain.Query{Search: q, Size: 10})
			require.NoError(t, err)
			require.EqualValues(t, 1, page.Total, q)
			require.Equal(t, "ÉCOLE Ångström", page.Docs[0].Name, q)
		}
	})

	t.Run("search is literal", func(t *testing.T) {
		page, err := tasks.Paginate(ctx, domain.Query{Search: ".", Size: 10})
		require.NoError(t, err)
		require.EqualValues(t, 1, page.Total)
		require.Equal(t, "a.b", page.Docs[0].Name)

		page, err = tasks.Paginate(ctx, domain.Query{Search: "%", Size: 10})
		require.NoError(t, err)
		require.EqualValues(t, 1, page.Total)
		require.Equal(t, "a%b", page.Docs[0].Name)
	})

	t.Run("sort descending", func(t *testing.T) {
		page, err := tasks.Paginate(ctx, domain.Query{Sort: "-created_at", Size: 1})
		require.NoError(t, err)
		require.Equal(t, "epsilon", page.Docs[0].Name)
	})

	t.Run("unknown sort field", func(t *testing.T) {
		_, err := tasks.Paginate(ctx, domain.Query{Sort: "secret"})
		require.ErrorIs(t, err, store.ErrInvalidField)
	})

	t.Run("unknown filter field", func(t *testing.T) {
		_, err := tasks.Paginate(ctx, domain.Query{Filter: domain.Filter{"secret": "x"}})
		require.ErrorIs(t, err, store.ErrInvalidField)
	})
}

func insertUser(t *testing.T, s store.Store, email string) domain.User {
	t.Helper()
	u, err := s.Users().Insert(context.Background(), domain.UserPatch{
		Email: ptr(email), Name: ptr(email), PasswordHash: ptr("x"),
	})
	require.NoError(t, err)
	return u
}
