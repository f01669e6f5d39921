package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
)

var usersTable = table[domain.User]{
	from:    "users",
	columns: "id, email, name, password_hash, roles, created_at",
	filters: map[string]string{
		"_id":   "id = ?",
		"email": "email = ?",
		"name":  "name = ?",
	},
	sorts: map[string]string{
		"email":      "email",
		"name":       "name",
		"created_at": "created_at",
	},
	search: "name",
	scan:   scanUser,
}

type usersRepo struct {
	db *sql.DB
}

func scanUser(row scanner) (domain.User, error) {
	var (
		u       domain.User
		roles   string
		created string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &roles, &created); err != nil {
		return domain.User{}, err
	}
	for _, r := range strings.Fields(roles) {
		u.Roles = append(u.Roles, domain.Role(r))
	}
	t, err := parseTime(created)
	if err != nil {
		return domain.User{}, fmt.Errorf("users: created_at: %w", err)
	}
	u.CreatedAt = t
	return u, nil
}

func joinRoles(roles []domain.Role) string {
	return strings.Join(domain.RoleNames(roles), " ")
}

func (r *usersRepo) Insert(ctx context.Context, p domain.UserPatch) (domain.User, error) {
	u := domain.User{
		ID:        idx.New().String(),
		Roles:     domain.DefaultRoles,
		CreatedAt: time.Now().UTC(),
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Roles != nil {
		u.Roles = *p.Roles
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, roles, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, joinRoles(u.Roles), formatTime(u.CreatedAt),
	)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}
	return r.FindByID(ctx, u.ID)
}

func (r *usersRepo) Find(ctx context.Context, f domain.Filter) ([]domain.User, error) {
	return usersTable.find(ctx, r.db, f)
}

func (r *usersRepo) FindOne(ctx context.Context, f domain.Filter) (domain.User, error) {
	return usersTable.findOne(ctx, r.db, f)
}

func (r *usersRepo) FindByID(ctx context.Context, id string) (domain.User, error) {
	return usersTable.findByID(ctx, r.db, id)
}

func (r *usersRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return usersTable.one(ctx, r.db, "SELECT "+usersTable.columns+" FROM users WHERE email = ?", email)
}

func (r *usersRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	return usersTable.all(ctx, r.db,
		"SELECT "+usersTable.columns+" FROM users WHERE id IN ("+placeholders+") ORDER BY id", args...)
}

func (r *usersRepo) Update(ctx context.Context, id string, p domain.UserPatch) (domain.User, error) {
	var s set
	if p.Email != nil {
		s.add("email", *p.Email)
	}
	if p.Name != nil {
		s.add("name", *p.Name)
	}
	if p.PasswordHash != nil {
		s.add("password_hash", *p.PasswordHash)
	}
	if p.Roles != nil {
		s.add("roles", joinRoles(*p.Roles))
	}
	if err := s.exec(ctx, r.db, "users", id); err != nil {
		return domain.User{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *usersRepo) Delete(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		if u, err = usersTable.findByID(ctx, tx, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		return err
	})
	return u, err
}

func (r *usersRepo) Paginate(ctx context.Context, q domain.Query) (domain.Page[domain.User], error) {
	return usersTable.paginate(ctx, r.db, q)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
