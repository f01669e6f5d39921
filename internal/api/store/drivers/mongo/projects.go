package mongo

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

type projectDoc struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Company   string               `bson:"company,omitempty"`
	Members   []primitive.ObjectID `bson:"members"`
	CreatedAt time.Time            `bson:"created_at"`
}

func (d projectDoc) toDomain() domain.Project {
	members := make([]string, len(d.Members))
	for i, m := range d.Members {
		members[i] = m.Hex()
	}
	return domain.Project{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Company:   d.Company,
		Members:   members,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func memberIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, len(ids))
	for i, id := range ids {
		oid, err := reference("members", id)
		if err != nil {
			return nil, err
		}
		out[i] = oid
	}
	return out, nil
}

func newProjectsCollection(coll *mongodrv.Collection) *collection[projectDoc, domain.Project, domain.ProjectPatch] {
	return &collection[projectDoc, domain.Project, domain.ProjectPatch]{
		coll: coll,
		filters: map[string]field{
			"_id":     {key: "_id", objectID: true},
			"name":    {key: "name"},
			"company": {key: "company"},
			"member":  {key: "members", objectID: true},
		},
		sorts: map[string]string{
			"name":       "name",
			"company":    "company",
			"created_at": "created_at",
		},
		newDoc: func(p domain.ProjectPatch) (projectDoc, error) {
			d := projectDoc{Members: []primitive.ObjectID{}, CreatedAt: now()}
			if p.Name != nil {
				d.Name = *p.Name
			}
			if p.Company != nil {
				d.Company = *p.Company
			}
			if p.Members != nil {
				members, err := memberIDs(*p.Members)
				if err != nil {
					return projectDoc{}, err
				}
				d.Members = members
			}
			return d, nil
		},
		patch: func(p domain.ProjectPatch) (update, error) {
			var u update
			if p.Name != nil {
				u.Set("name", *p.Name)
			}
			if p.Company != nil {
				if *p.Company == "" {
					u.Unset("company")
				} else {
					u.Set("company", *p.Company)
				}
			}
			if p.Members != nil {
				members, err := memberIDs(*p.Members)
				if err != nil {
					return update{}, err
				}
				u.Set("members", members)
			}
			return u, nil
		},
		toDomain: projectDoc.toDomain,
		setID:    func(d *projectDoc, id primitive.ObjectID) { d.ID = id },
	}
}

type projectsRepo struct {
	projects *collection[projectDoc, domain.Project, domain.ProjectPatch]
}

func (r *projectsRepo) Insert(ctx context.Context, p domain.ProjectPatch) (domain.Project, error) {
	return r.projects.Insert(ctx, p)
}

func (r *projectsRepo) Find(ctx context.Context, f domain.Filter) ([]domain.Project, error) {
	return r.projects.Find(ctx, f)
}

func (r *projectsRepo) FindOne(ctx context.Context, f domain.Filter) (domain.Project, error) {
	return r.projects.FindOne(ctx, f)
}

func (r *projectsRepo) FindByID(ctx context.Context, id string) (domain.Project, error) {
	return r.projects.FindByID(ctx, id)
}

func (r *projectsRepo) Update(ctx context.Context, id string, p domain.ProjectPatch) (domain.Project, error) {
	return r.projects.Update(ctx, id, p)
}

func (r *projectsRepo) Delete(ctx context.Context, id string) (domain.Project, error) {
	return r.projects.Delete(ctx, id)
}

func (r *projectsRepo) Paginate(ctx context.Context, q domain.Query) (domain.Page[domain.Project], error) {
	return r.projects.Paginate(ctx, q)
}

func (r *projectsRepo) AddMember(ctx context.Context, projectID, userID string) (domain.Project, error) {
	oid, err := objectID(projectID)
	if err != nil {
		return domain.Project{}, err
	}
	member, err := reference("member", userID)
	if err != nil {
		return domain.Project{}, err
	}
	return r.projects.findAndUpdate(ctx, oid,
		bson.D{{Key: "$addToSet", Value: bson.D{{Key: "members", Value: member}}}})
}

func (r *projectsRepo) RemoveMember(ctx context.Context, projectID, userID string) (domain.Project, error) {
	oid, err := objectID(projectID)
	if err != nil {
		return domain.Project{}, err
	}
	member, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		// Not an id, so not a member either.
		return r.projects.FindByID(ctx, projectID)
	}
	return r.projects.findAndUpdate(ctx, oid,
		bson.D{{Key: "$pull", Value: bson.D{{Key: "members", Value: member}}}})
}
