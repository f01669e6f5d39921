package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
)

var tasksTable = table[domain.Task]{
	from:    "tasks",
	columns: "id, name, project, asignee, created_at",
	filters: map[string]string{
		"_id":     "id = ?",
		"name":    "name = ?",
		"project": "project = ?",
		"asignee": "asignee = ?",
	},
	sorts: map[string]string{
		"name":       "name",
		"project":    "project",
		"asignee":    "asignee",
		"created_at": "created_at",
	},
	search: "name",
	scan:   scanTask,
}

type tasksRepo struct {
	db *sql.DB
}

func scanTask(row scanner) (domain.Task, error) {
	var (
		t       domain.Task
		created string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Project, &t.Asignee, &created); err != nil {
		return domain.Task{}, err
	}
	ts, err := parseTime(created)
	if err != nil {
		return domain.Task{}, fmt.Errorf("tasks: created_at: %w", err)
	}
	t.CreatedAt = ts
	return t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *tasksRepo) Insert(ctx context.Context, p domain.TaskPatch) (domain.Task, error) {
	id := idx.New().String()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, name, project, asignee, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, deref(p.Name), deref(p.Project), deref(p.Asignee), formatTime(time.Now()),
	)
	if err != nil {
		return domain.Task{}, mapConstraint(err)
	}
	return r.FindByID(ctx, id)
}

func (r *tasksRepo) Find(ctx context.Context, f domain.Filter) ([]domain.Task, error) {
	return tasksTable.find(ctx, r.db, f)
}

func (r *tasksRepo) FindOne(ctx context.Context, f domain.Filter) (domain.Task, error) {
	return tasksTable.findOne(ctx, r.db, f)
}

func (r *tasksRepo) FindByID(ctx context.Context, id string) (domain.Task, error) {
	return tasksTable.findByID(ctx, r.db, id)
}

func (r *tasksRepo) Update(ctx context.Context, id string, p domain.TaskPatch) (domain.Task, error) {
	var s set
	if p.Name != nil {
		s.add("name", *p.Name)
	}
	if p.Project != nil {
		s.add("project", *p.Project)
	}
	if p.Asignee != nil {
		s.add("asignee", *p.Asignee)
	}
	if err := s.exec(ctx, r.db, "tasks", id); err != nil {
		return domain.Task{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *tasksRepo) Delete(ctx context.Context, id string) (domain.Task, error) {
	var t domain.Task
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		if t, err = tasksTable.findByID(ctx, tx, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		return err
	})
	return t, err
}

func (r *tasksRepo) Paginate(ctx context.Context, q domain.Query) (domain.Page[domain.Task], error) {
	return tasksTable.paginate(ctx, r.db, q)
}
