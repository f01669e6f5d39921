package mongo

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// field maps a public document field onto its stored key.
type field struct {
	key string
	// objectID fields hold references and are compared as ObjectIDs.
	objectID bool
}

// update is a $set/$unset pair built from a patch.
type update struct {
	set   bson.D
	unset bson.D
}

func (u *update) Set(key string, v any) { u.set = append(u.set, bson.E{Key: key, Value: v}) }
func (u *update) Unset(key string)      { u.unset = append(u.unset, bson.E{Key: key, Value: ""}) }

func (u update) empty() bool { return len(u.set) == 0 && len(u.unset) == 0 }

func (u update) doc() bson.D {
	var d bson.D
	if len(u.set) > 0 {
		d = append(d, bson.E{Key: "$set", Value: u.set})
	}
	if len(u.unset) > 0 {
		d = append(d, bson.E{Key: "$unset", Value: u.unset})
	}
	return d
}

// collection implements store.Repository for a document type D mapped onto
// the domain type T and updated through P.
type collection[D, T, P any] struct {
	coll    *mongodrv.Collection
	filters map[string]field
	sorts   map[string]string

	// newDoc builds the document inserted for p.
	newDoc func(p P) (D, error)
	// patch translates p into an update.
	patch func(p P) (update, error)
	// toDomain converts a stored document; setID stamps the inserted id.
	toDomain func(d D) T
	setID    func(d *D, id primitive.ObjectID)
}

// objectID parses a hex id. Malformed ids are reported as ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrNotFound
	}
	return oid, nil
}

// reference parses an id stored inside a document.
func reference(name, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s is not a valid id", store.ErrInvalidField, name)
	}
	return oid, nil
}

// filter translates an equality filter plus an optional name search.
// A malformed id in a reference field is kept as a string so it matches
// nothing.
func (c *collection[D, T, P]) filter(f domain.Filter, search string) (bson.D, error) {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := bson.D{}
	for _, k := range keys {
		fd, ok := c.filters[k]
		if !ok {
			return nil, fmt.Errorf("%w: %s", store.ErrInvalidField, k)
		}
		var v any = f[k]
		if fd.objectID {
			if oid, err := primitive.ObjectIDFromHex(f[k]); err == nil {
				v = oid
			}
		}
		d = append(d, bson.E{Key: fd.key, Value: v})
	}
	if search != "" {
		d = append(d, bson.E{Key: "name", Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(search),
			Options: "i",
		}})
	}
	return d, nil
}

func (c *collection[D, T, P]) orderBy(q domain.Query) (bson.D, error) {
	name, desc := q.SortField()
	dir := 1
	if desc {
		dir = -1
	}
	if name == "" {
		return bson.D{{Key: "_id", Value: dir}}, nil
	}
	key, ok := c.sorts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrInvalidField, name)
	}
	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: dir}}, nil
}

func (c *collection[D, T, P]) all(ctx context.Context, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]T, len(docs))
	for i, d := range docs {
		out[i] = c.toDomain(d)
	}
	return out, nil
}

func (c *collection[D, T, P]) one(ctx context.Context, filter any) (T, error) {
	var (
		d    D
		zero T
	)
	if err := c.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		return zero, mapNotFound(err)
	}
	return c.toDomain(d), nil
}

func (c *collection[D, T, P]) Insert(ctx context.Context, p P) (T, error) {
	var zero T
	d, err := c.newDoc(p)
	if err != nil {
		return zero, err
	}
	res, err := c.coll.InsertOne(ctx, d)
	if err != nil {
		return zero, mapDuplicate(err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return zero, fmt.Errorf("mongo: unexpected inserted id %T", res.InsertedID)
	}
	c.setID(&d, oid)
	return c.toDomain(d), nil
}

func (c *collection[D, T, P]) Find(ctx context.Context, f domain.Filter) ([]T, error) {
	filter, err := c.filter(f, "")
	if err != nil {
		return nil, err
	}
	return c.all(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (c *collection[D, T, P]) FindOne(ctx context.Context, f domain.Filter) (T, error) {
	filter, err := c.filter(f, "")
	if err != nil {
		var zero T
		return zero, err
	}
	var d D
	err = c.coll.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})).Decode(&d)
	if err != nil {
		var zero T
		return zero, mapNotFound(err)
	}
	return c.toDomain(d), nil
}

func (c *collection[D, T, P]) FindByID(ctx context.Context, id string) (T, error) {
	oid, err := objectID(id)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.one(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (c *collection[D, T, P]) Update(ctx context.Context, id string, p P) (T, error) {
	var zero T
	u, err := c.patch(p)
	if err != nil {
		return zero, err
	}
	if u.empty() {
		return c.FindByID(ctx, id)
	}
	oid, err := objectID(id)
	if err != nil {
		return zero, err
	}
	return c.findAndUpdate(ctx, oid, u.doc())
}

func (c *collection[D, T, P]) findAndUpdate(ctx context.Context, oid primitive.ObjectID, upd any) (T, error) {
	var (
		d    D
		zero T
	)
	err := c.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		return zero, mapDuplicate(mapNotFound(err))
	}
	return c.toDomain(d), nil
}

func (c *collection[D, T, P]) Delete(ctx context.Context, id string) (T, error) {
	var (
		d    D
		zero T
	)
	oid, err := objectID(id)
	if err != nil {
		return zero, err
	}
	if err := c.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d); err != nil {
		return zero, mapNotFound(err)
	}
	return c.toDomain(d), nil
}

func (c *collection[D, T, P]) Paginate(ctx context.Context, q domain.Query) (domain.Page[T], error) {
	q = q.Normalized()

	filter, err := c.filter(q.Filter, q.Search)
	if err != nil {
		return domain.Page[T]{}, err
	}
	order, err := c.orderBy(q)
	if err != nil {
		return domain.Page[T]{}, err
	}

	total, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return domain.Page[T]{}, err
	}

	docs, err := c.all(ctx, filter, options.Find().
		SetSort(order).
		SetSkip(q.Offset()).
		SetLimit(int64(q.Size)))
	if err != nil {
		return domain.Page[T]{}, err
	}
	return domain.NewPage(docs, total, q), nil
}
