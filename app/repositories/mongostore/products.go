package mongostore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type productRepo struct {
	col *mongo.Collection
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	defer observe("products.insert")()
	_, err := r.col.InsertOne(ctx, p)
	return translate(err)
}

// Update runs as three single-document updates: scalar fields and removed
// variants, then metadata of kept variants, then new variants. Stored
// quantities of kept variants are never written here.
func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	defer observe("products.update")()

	cur, err := r.Get(ctx, p.ID)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(p.Variants))
	var added []models.Variant
	for _, v := range p.Variants {
		ids = append(ids, v.ID)
		if _, ok := cur.FindVariant(v.ID); !ok {
			added = append(added, v)
		}
	}

	_, err = r.col.UpdateByID(ctx, p.ID, bson.M{
		"$set": bson.M{
			"name":             p.Name,
			"description":      p.Description,
			"shortDescription": p.ShortDescription,
			"images":           p.Images,
			"categories":       p.Categories,
			"sale":             p.Sale,
			"updatedAt":        p.UpdatedAt,
		},
		"$pull": bson.M{"variants": bson.M{"id": bson.M{"$nin": ids}}},
	})
	if err != nil {
		return translate(err)
	}

	for _, v := range p.Variants {
		if _, ok := cur.FindVariant(v.ID); !ok {
			continue
		}
		_, err := r.col.UpdateOne(ctx,
			bson.M{"_id": p.ID, "variants.id": v.ID},
			bson.M{"$set": bson.M{
				"variants.$.colorId":   v.ColorID,
				"variants.$.sizeId":    v.SizeID,
				"variants.$.price":     v.Price,
				"variants.$.costPrice": v.CostPrice,
			}})
		if err != nil {
			return translate(err)
		}
	}

	if len(added) > 0 {
		_, err := r.col.UpdateByID(ctx, p.ID, bson.M{"$push": bson.M{"variants": bson.M{"$each": added}}})
		if err != nil {
			return translate(err)
		}
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	defer observe("products.delete")()
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *productRepo) Get(ctx context.Context, id string) (*models.Product, error) {
	defer observe("products.find_one")()
	var p models.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []models.Product{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) List(ctx context.Context, f repositories.ProductFilter) ([]models.Product, int64, error) {
	defer observe("products.find")()

	filter := bson.M{}
	if f.CategoryID != "" {
		filter["categories"] = f.CategoryID
	}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"description": rx},
			bson.M{"shortDescription": rx},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out, err := r.find(ctx, filter, pageOpts(f.Page))
	return out, total, err
}

func (r *productRepo) Related(ctx context.Context, categoryIDs []string, excludeID string, limit int) ([]models.Product, error) {
	defer observe("products.related")()
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{
		"_id":        bson.M{"$ne": excludeID},
		"categories": bson.M{"$in": categoryIDs},
	}, opts)
}

// missing reports whether the variant does not exist, which tells a failed
// guard apart from a bad address.
func (r *productRepo) missing(ctx context.Context, productID, variantID string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": productID, "variants.id": variantID})
	return n == 0, err
}

func (r *productRepo) IncrementVariant(ctx context.Context, productID, variantID string, delta int) (int, error) {
	defer observe("products.increment_variant")()

	filter := bson.M{
		"_id": productID,
		"variants": bson.M{"$elemMatch": bson.M{
			"id":       variantID,
			"quantity": bson.M{"$gte": -delta},
		}},
	}
	update := bson.M{
		"$inc": bson.M{"variants.$.quantity": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"variants": bson.M{"$elemMatch": bson.M{"id": variantID}}})

	var doc struct {
		Variants []models.Variant `bson:"variants"`
	}
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		gone, cerr := r.missing(ctx, productID, variantID)
		if cerr != nil {
			return 0, cerr
		}
		if gone {
			return 0, repositories.ErrNotFound
		}
		return 0, repositories.ErrConditionFailed
	}
	if err != nil {
		return 0, err
	}
	if len(doc.Variants) == 0 {
		return 0, repositories.ErrNotFound
	}
	return doc.Variants[0].Quantity, nil
}

func (r *productRepo) SetVariantQuantity(ctx context.Context, productID, variantID string, from, to int) error {
	defer observe("products.set_variant_quantity")()

	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"_id":      productID,
			"variants": bson.M{"$elemMatch": bson.M{"id": variantID, "quantity": from}},
		},
		bson.M{"$set": bson.M{"variants.$.quantity": to, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	gone, err := r.missing(ctx, productID, variantID)
	if err != nil {
		return err
	}
	if gone {
		return repositories.ErrNotFound
	}
	return repositories.ErrConditionFailed
}

func (r *productRepo) CountVariantRefs(ctx context.Context, colorID, sizeID string) (int64, error) {
	defer observe("products.count_refs")()
	match := bson.M{}
	if colorID != "" {
		match["variants.colorId"] = colorID
	}
	if sizeID != "" {
		match["variants.sizeId"] = sizeID
	}
	if len(match) == 0 {
		return 0, nil
	}
	return r.col.CountDocuments(ctx, match)
}

func (r *productRepo) RemoveCategory(ctx context.Context, categoryID string) error {
	defer observe("products.remove_category")()
	_, err := r.col.UpdateMany(ctx,
		bson.M{"categories": categoryID},
		bson.M{"$pull": bson.M{"categories": categoryID}},
	)
	return err
}
