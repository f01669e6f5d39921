package mongo

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

type taskDoc struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Name      string              `bson:"name"`
	Project   primitive.ObjectID  `bson:"project"`
	Asignee   *primitive.ObjectID `bson:"asignee,omitempty"`
	CreatedAt time.Time           `bson:"created_at"`
}

func (d taskDoc) toDomain() domain.Task {
	t := domain.Task{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Project:   d.Project.Hex(),
		CreatedAt: d.CreatedAt.UTC(),
	}
	if d.Asignee != nil {
		t.Asignee = d.Asignee.Hex()
	}
	return t
}

func newTasksCollection(coll *mongodrv.Collection) *collection[taskDoc, domain.Task, domain.TaskPatch] {
	return &collection[taskDoc, domain.Task, domain.TaskPatch]{
		coll: coll,
		filters: map[string]field{
			"_id":     {key: "_id", objectID: true},
			"name":    {key: "name"},
			"project": {key: "project", objectID: true},
			"asignee": {key: "asignee", objectID: true},
		},
		sorts: map[string]string{
			"name":       "name",
			"project":    "project",
			"asignee":    "asignee",
			"created_at": "created_at",
		},
		newDoc: func(p domain.TaskPatch) (taskDoc, error) {
			d := taskDoc{CreatedAt: now()}
			if p.Name != nil {
				d.Name = *p.Name
			}
			if p.Project != nil {
				oid, err := reference("project", *p.Project)
				if err != nil {
					return taskDoc{}, err
				}
				d.Project = oid
			}
			if p.Asignee != nil && *p.Asignee != "" {
				oid, err := reference("asignee", *p.Asignee)
				if err != nil {
					return taskDoc{}, err
				}
				d.Asignee = &oid
			}
			return d, nil
		},
		patch: func(p domain.TaskPatch) (update, error) {
			var u update
			if p.Name != nil {
				u.Set("name", *p.Name)
			}
			if p.Project != nil {
				oid, err := reference("project", *p.Project)
				if err != nil {
					return update{}, err
				}
				u.Set("project", oid)
			}
			if p.Asignee != nil {
				if *p.Asignee == "" {
					u.Unset("asignee")
				} else {
					oid, err := reference("asignee", *p.Asignee)
					if err != nil {
						return update{}, err
					}
					u.Set("asignee", oid)
				}
			}
			return u, nil
		},
		toDomain: taskDoc.toDomain,
		setID:    func(d *taskDoc, id primitive.ObjectID) { d.ID = id },
	}
}

type tasksRepo struct {
	tasks *collection[taskDoc, domain.Task, domain.TaskPatch]
}

func (r *tasksRepo) Insert(ctx context.Context, p domain.TaskPatch) (domain.Task, error) {
	return r.tasks.Insert(ctx, p)
}

func (r *tasksRepo) Find(ctx context.Context, f domain.Filter) ([]domain.Task, error) {
	return r.tasks.Find(ctx, f)
}

func (r *tasksRepo) FindOne(ctx context.Context, f domain.Filter) (domain.Task, error) {
	return r.tasks.FindOne(ctx, f)
}

func (r *tasksRepo) FindByID(ctx context.Context, id string) (domain.Task, error) {
	return r.tasks.FindByID(ctx, id)
}

func (r *tasksRepo) Update(ctx context.Context, id string, p domain.TaskPatch) (domain.Task, error) {
	return r.tasks.Update(ctx, id, p)
}

func (r *tasksRepo) Delete(ctx context.Context, id string) (domain.Task, error) {
	return r.tasks.Delete(ctx, id)
}

func (r *tasksRepo) Paginate(ctx context.Context, q domain.Query) (domain.Page[domain.Task], error) {
	return r.tasks.Paginate(ctx, q)
}
