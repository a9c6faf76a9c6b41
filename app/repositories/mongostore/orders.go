package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type orderRepo struct {
	col *mongo.Collection
}

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	defer observe("orders.insert")()
	_, err := r.col.InsertOne(ctx, o)
	return translate(err)
}

func (r *orderRepo) Get(ctx context.Context, id string) (*models.Order, error) {
	defer observe("orders.find_one")()
	var o models.Order
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *orderRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []models.Order{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) List(ctx context.Context, p repositories.Page) ([]models.Order, int64, error) {
	defer observe("orders.paginate")()
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	out, err := r.find(ctx, bson.M{}, pageOpts(p))
	return out, total, err
}

func (r *orderRepo) ForUser(ctx context.Context, userID string) ([]models.Order, error) {
	defer observe("orders.find")()
	return r.find(ctx, bson.M{"userId": userID}, options.Find().SetSort(newestFirst))
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	defer observe("orders.update_status")()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return repositories.ErrConditionFailed
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	defer observe("orders.delete")()
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
