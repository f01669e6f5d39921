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

// Members are folded into one column in insertion order.
var projectsTable = table[domain.Project]{
	from: "projects",
	columns: `id, name, company, created_at,
		COALESCE((SELECT group_concat(user_id, ' ') FROM
			(SELECT user_id FROM project_members m WHERE m.project_id = projects.id ORDER BY m.rowid)), '')`,
	filters: map[string]string{
		"_id":     "id = ?",
		"name":    "name = ?",
		"company": "company = ?",
		"member":  "EXISTS (SELECT 1 FROM project_members m WHERE m.project_id = projects.id AND m.user_id = ?)",
	},
	sorts: map[string]string{
		"name":       "name",
		"company":    "company",
		"created_at": "created_at",
	},
	search: "name",
	scan:   scanProject,
}

type projectsRepo struct {
	db *sql.DB
}

func scanProject(row scanner) (domain.Project, error) {
	var (
		p       domain.Project
		created string
		members string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Company, &created, &members); err != nil {
		return domain.Project{}, err
	}
	p.Members = strings.Fields(members)
	t, err := parseTime(created)
	if err != nil {
		return domain.Project{}, fmt.Errorf("projects: created_at: %w", err)
	}
	p.CreatedAt = t
	return p, nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, projectID string, members []string) error {
	for _, m := range members {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO project_members (project_id, user_id) VALUES (?, ?)`, projectID, m)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *projectsRepo) Insert(ctx context.Context, p domain.ProjectPatch) (domain.Project, error) {
	id := idx.New().String()
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var name, company string
		if p.Name != nil {
			name = *p.Name
		}
		if p.Company != nil {
			company = *p.Company
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO projects (id, name, company, created_at) VALUES (?, ?, ?, ?)`,
			id, name, company, formatTime(time.Now()),
		)
		if err != nil {
			return mapConstraint(err)
		}
		if p.Members != nil {
			return insertMembers(ctx, tx, id, *p.Members)
		}
		return nil
	})
	if err != nil {
		return domain.Project{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *projectsRepo) Find(ctx context.Context, f domain.Filter) ([]domain.Project, error) {
	return projectsTable.find(ctx, r.db, f)
}

func (r *projectsRepo) FindOne(ctx context.Context, f domain.Filter) (domain.Project, error) {
	return projectsTable.findOne(ctx, r.db, f)
}

func (r *projectsRepo) FindByID(ctx context.Context, id string) (domain.Project, error) {
	return projectsTable.findByID(ctx, r.db, id)
}

// Update replaces the member list wholesale when p.Members is set.
func (r *projectsRepo) Update(ctx context.Context, id string, p domain.ProjectPatch) (domain.Project, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var s set
		if p.Name != nil {
			s.add("name", *p.Name)
		}
		if p.Company != nil {
			s.add("company", *p.Company)
		}
		if err := s.exec(ctx, tx, "projects", id); err != nil {
			return err
		}
		if p.Members == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM project_members WHERE project_id = ?`, id); err != nil {
			return err
		}
		return insertMembers(ctx, tx, id, *p.Members)
	})
	if err != nil {
		return domain.Project{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *projectsRepo) Delete(ctx context.Context, id string) (domain.Project, error) {
	var p domain.Project
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		if p, err = projectsTable.findByID(ctx, tx, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
		return err
	})
	return p, err
}

func (r *projectsRepo) Paginate(ctx context.Context, q domain.Query) (domain.Page[domain.Project], error) {
	return projectsTable.paginate(ctx, r.db, q)
}

func (r *projectsRepo) AddMember(ctx context.Context, projectID, userID string) (domain.Project, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var s set
		if err := s.exec(ctx, tx, "projects", projectID); err != nil {
			return err
		}
		return insertMembers(ctx, tx, projectID, []string{userID})
	})
	if err != nil {
		return domain.Project{}, err
	}
	return r.FindByID(ctx, projectID)
}

func (r *projectsRepo) RemoveMember(ctx context.Context, projectID, userID string) (domain.Project, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var s set
		if err := s.exec(ctx, tx, "projects", projectID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`DELETE FROM project_members WHERE project_id = ? AND user_id = ?`, projectID, userID)
		return err
	})
	if err != nil {
		return domain.Project{}, err
	}
	return r.FindByID(ctx, projectID)
}
