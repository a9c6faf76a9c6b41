package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type inventoryRepo struct {
	col *mongo.Collection
}

func (r *inventoryRepo) Append(ctx context.Context, recs ...*models.InventoryRecord) error {
	if len(recs) == 0 {
		return nil
	}
	defer observe("inventory.insert")()
	docs := make([]interface{}, len(recs))
	for i, rec := range recs {
		docs[i] = rec
	}
	_, err := r.col.InsertMany(ctx, docs)
	return translate(err)
}

func (r *inventoryRepo) Get(ctx context.Context, id string) (*models.InventoryRecord, error) {
	defer observe("inventory.find_one")()
	var rec models.InventoryRecord
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *inventoryRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.InventoryRecord, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []models.InventoryRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *inventoryRepo) ForProduct(ctx context.Context, productID string) ([]models.InventoryRecord, error) {
	defer observe("inventory.find")()
	return r.find(ctx, bson.M{"productId": productID}, options.Find().SetSort(newestFirst))
}

func (r *inventoryRepo) Latest(ctx context.Context, variantID string) (*models.InventoryRecord, error) {
	defer observe("inventory.latest")()
	var rec models.InventoryRecord
	err := r.col.FindOne(ctx, bson.M{"variantId": variantID}, options.FindOne().SetSort(newestFirst)).Decode(&rec)
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *inventoryRepo) List(ctx context.Context, p repositories.Page) ([]models.InventoryRecord, int64, error) {
	defer observe("inventory.paginate")()
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	out, err := r.find(ctx, bson.M{}, pageOpts(p))
	return out, total, err
}

func (r *inventoryRepo) UpdateReason(ctx context.Context, id, reason string) error {
	defer observe("inventory.update")()
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"reason": reason}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *inventoryRepo) deleteMany(ctx context.Context, filter bson.M) error {
	defer observe("inventory.delete")()
	_, err := r.col.DeleteMany(ctx, filter)
	return err
}

func (r *inventoryRepo) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.deleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *inventoryRepo) DeleteForProduct(ctx context.Context, productID string) error {
	return r.deleteMany(ctx, bson.M{"productId": productID})
}

func (r *inventoryRepo) DeleteForVariants(ctx context.Context, variantIDs ...string) error {
	if len(variantIDs) == 0 {
		return nil
	}
	return r.deleteMany(ctx, bson.M{"variantId": bson.M{"$in": variantIDs}})
}
