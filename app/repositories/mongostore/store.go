// Package mongostore keeps the storefront in MongoDB. Variants are embedded
// in their product document, so a stock change is a single-document
// findOneAndUpdate guarded by $elemMatch.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

const backend = "mongo"

// Open connects to uri, ensures indexes on database db and returns the Store.
func Open(ctx context.Context, uri, db string) (*repositories.Store, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri).
		SetConnectTimeout(5*time.Second).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}

	d := client.Database(db)
	if err := EnsureIndexes(cctx, d); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return New(client, d), nil
}

// New wires the repositories onto an already connected database.
func New(client *mongo.Client, d *mongo.Database) *repositories.Store {
	return &repositories.Store{
		Backend:    backend,
		Products:   &productRepo{col: d.Collection("products")},
		Categories: newCollection(d.Collection("categories"), "categories", repositories.CategoryKey),
		Colors:     newCollection(d.Collection("colors"), "colors", repositories.ColorKey),
		Sizes:      newCollection(d.Collection("sizes"), "sizes", repositories.SizeKey),
		Users:      newCollection(d.Collection("users"), "users", repositories.UserKey),
		Inventory:  &inventoryRepo{col: d.Collection("inventory_records")},
		Orders:     &orderRepo{col: d.Collection("orders")},
		Conn:       conn{client},
	}
}

// EnsureIndexes creates the unique and lookup indexes. It is idempotent.
func EnsureIndexes(ctx context.Context, d *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		"categories": {{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		"colors":     {{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
		"sizes":      {{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
		"products": {
			{Keys: bson.D{{Key: "variants.id", Value: 1}}},
			{Keys: bson.D{{Key: "categories", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		"inventory_records": {
			{Keys: bson.D{{Key: "variantId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"orders": {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}},
	}
	for name, idx := range specs {
		if _, err := d.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("mongostore: indexes on %s: %w", name, err)
		}
	}
	return nil
}

type conn struct{ client *mongo.Client }

func (c conn) Ping(ctx context.Context) error  { return c.client.Ping(ctx, nil) }
func (c conn) Close(ctx context.Context) error { return c.client.Disconnect(ctx) }

func observe(op string) func() {
	start := time.Now()
	return func() { metrics.ObserveDBQuery(backend, op, start) }
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	}
	return err
}

var (
	newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	oldestFirst = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
)

func pageOpts(p repositories.Page) *options.FindOptions {
	opts := options.Find().SetSort(newestFirst)
	if p.Limit > 0 {
		opts.SetSkip(int64(p.Offset())).SetLimit(int64(p.Limit))
	}
	return opts
}

// collection is the generic CRUD repository over one mongo collection.
type collection[T any] struct {
	col  *mongo.Collection
	name string
	key  func(*T) string
}

func newCollection[T any](col *mongo.Collection, name string, key func(*T) string) *collection[T] {
	return &collection[T]{col: col, name: name, key: key}
}

func (c *collection[T]) Create(ctx context.Context, v *T) error {
	defer observe(c.name + ".insert")()
	_, err := c.col.InsertOne(ctx, v)
	return translate(err)
}

func (c *collection[T]) Update(ctx context.Context, v *T) error {
	defer observe(c.name + ".replace")()
	res, err := c.col.ReplaceOne(ctx, bson.M{"_id": c.key(v)}, v)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	defer observe(c.name + ".delete")()
	res, err := c.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (c *collection[T]) Get(ctx context.Context, id string) (*T, error) {
	return c.FindBy(ctx, "_id", id)
}

func (c *collection[T]) FindBy(ctx context.Context, field, value string) (*T, error) {
	defer observe(c.name + ".find_one")()
	var v T
	if err := c.col.FindOne(ctx, bson.M{field: value}).Decode(&v); err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	defer observe(c.name + ".find")()
	cur, err := c.col.Find(ctx, bson.M{}, options.Find().SetSort(oldestFirst))
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *collection[T]) Paginate(ctx context.Context, p repositories.Page) ([]T, int64, error) {
	defer observe(c.name + ".paginate")()
	total, err := c.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	cur, err := c.col.Find(ctx, bson.M{}, pageOpts(p))
	if err != nil {
		return nil, 0, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
