package mongo

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	Password  string             `bson:"password"` // argon2 encoded
	Roles     []string           `bson:"roles"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d userDoc) toDomain() domain.User {
	roles := make([]domain.Role, len(d.Roles))
	for i, r := range d.Roles {
		roles[i] = domain.Role(r)
	}
	return domain.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.Password,
		Roles:        roles,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func newUsersCollection(coll *mongodrv.Collection) *collection[userDoc, domain.User, domain.UserPatch] {
	return &collection[userDoc, domain.User, domain.UserPatch]{
		coll: coll,
		filters: map[string]field{
			"_id":   {key: "_id", objectID: true},
			"email": {key: "email"},
			"name":  {key: "name"},
		},
		sorts: map[string]string{
			"email":      "email",
			"name":       "name",
			"created_at": "created_at",
		},
		newDoc: func(p domain.UserPatch) (userDoc, error) {
			d := userDoc{
				Roles:     domain.RoleNames(domain.DefaultRoles),
				CreatedAt: now(),
			}
			if p.Email != nil {
				d.Email = *p.Email
			}
			if p.Name != nil {
				d.Name = *p.Name
			}
			if p.PasswordHash != nil {
				d.Password = *p.PasswordHash
			}
			if p.Roles != nil {
				d.Roles = domain.RoleNames(*p.Roles)
			}
			return d, nil
		},
		patch: func(p domain.UserPatch) (update, error) {
			var u update
			if p.Email != nil {
				u.Set("email", *p.Email)
			}
			if p.Name != nil {
				u.Set("name", *p.Name)
			}
			if p.PasswordHash != nil {
				u.Set("password", *p.PasswordHash)
			}
			if p.Roles != nil {
				u.Set("roles", domain.RoleNames(*p.Roles))
			}
			return u, nil
		},
		toDomain: userDoc.toDomain,
		setID:    func(d *userDoc, id primitive.ObjectID) { d.ID = id },
	}
}

type usersRepo struct {
	users *collection[userDoc, domain.User, domain.UserPatch]
}

func (r *usersRepo) Insert(ctx context.Context, p domain.UserPatch) (domain.User, error) {
	return r.users.Insert(ctx, p)
}

func (r *usersRepo) Find(ctx context.Context, f domain.Filter) ([]domain.User, error) {
	return r.users.Find(ctx, f)
}

func (r *usersRepo) FindOne(ctx context.Context, f domain.Filter) (domain.User, error) {
	return r.users.FindOne(ctx, f)
}

func (r *usersRepo) FindByID(ctx context.Context, id string) (domain.User, error) {
	return r.users.FindByID(ctx, id)
}

func (r *usersRepo) Update(ctx context.Context, id string, p domain.UserPatch) (domain.User, error) {
	return r.users.Update(ctx, id, p)
}

func (r *usersRepo) Delete(ctx context.Context, id string) (domain.User, error) {
	return r.users.Delete(ctx, id)
}

func (r *usersRepo) Paginate(ctx context.Context, q domain.Query) (domain.Page[domain.User], error) {
	return r.users.Paginate(ctx, q)
}

func (r *usersRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.users.one(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *usersRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []domain.User{}, nil
	}
	return r.users.all(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.users.coll.CountDocuments(ctx, bson.D{}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// now is truncated to the millisecond precision BSON dates keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
