package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"realestate/internal/models"
	"realestate/internal/store"
)

type PropertyRepository struct {
	properties *mongo.Collection
}

var _ store.PropertyStore = (*PropertyRepository)(nil)

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{properties: db.Collection(propertiesCollection)}
}

func (r *PropertyRepository) Create(ctx context.Context, property *models.Property) error {
	now := time.Now().UTC()
	property.ID = primitive.NewObjectID()
	property.ApplyDefaults()
	property.CreatedAt = now
	property.UpdatedAt = now

	_, err := r.properties.InsertOne(ctx, property)
	return err
}

func (r *PropertyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Property, error) {
	var property models.Property
	err := r.properties.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	return property, notFound(err)
}

func (r *PropertyRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	properties := make([]models.Property, 0, len(ids))
	if len(ids) == 0 {
		return properties, nil
	}
	cursor, err := r.properties.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *PropertyRepository) List(ctx context.Context, filter store.PropertyFilter, opts store.ListOptions) (store.Page[models.Property], error) {
	return findPage[models.Property](ctx, r.properties, propertyFilterDoc(filter), opts, propertySort(filter, opts))
}

func (r *PropertyRepository) Count(ctx context.Context, filter store.PropertyFilter) (int64, error) {
	return r.properties.CountDocuments(ctx, propertyFilterDoc(filter))
}

// findAndUpdate applies update to the property and returns the new version.
func (r *PropertyRepository) findAndUpdate(ctx context.Context, filter bson.M, update interface{}) (models.Property, error) {
	var property models.Property
	err := r.properties.FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(&property)
	return property, notFound(err)
}

func (r *PropertyRepository) Update(ctx context.Context, id primitive.ObjectID, update store.PropertyUpdate) (models.Property, error) {
	set := propertyUpdateDoc(update)
	set["updatedAt"] = time.Now().UTC()
	return r.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (r *PropertyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.properties.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) (models.Property, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
}

func (r *PropertyRepository) Approve(ctx context.Context, id primitive.ObjectID) (models.Property, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"approved":  true,
		"updatedAt": time.Now().UTC(),
	}})
}

func (r *PropertyRepository) ToggleFeatured(ctx context.Context, id primitive.ObjectID) (models.Property, error) {
	update := mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "featured", Value: bson.D{{Key: "$not", Value: bson.A{"$featured"}}}},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}}
	return r.findAndUpdate(ctx, bson.M{"_id": id}, update)
}

func (r *PropertyRepository) Purchase(ctx context.Context, id, buyer primitive.ObjectID, at time.Time) (models.Property, error) {
	property, err := r.findAndUpdate(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": models.StatusSold}},
		bson.M{"$set": bson.M{
			"status":    models.StatusSold,
			"buyer":     buyer,
			"soldAt":    at.UTC(),
			"updatedAt": time.Now().UTC(),
		}},
	)
	if err != store.ErrNotFound {
		return property, err
	}

	n, countErr := r.properties.CountDocuments(ctx, bson.M{"_id": id})
	if countErr != nil {
		return models.Property{}, countErr
	}
	if n == 0 {
		return models.Property{}, store.ErrNotFound
	}
	return models.Property{}, store.ErrConditionFailed
}

func (r *PropertyRepository) AddImages(ctx context.Context, id primitive.ObjectID, images []models.PropertyImage) (models.Property, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"images": bson.M{"$each": images}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *PropertyRepository) RemoveImage(ctx context.Context, id primitive.ObjectID, publicID string) (models.Property, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"images": bson.M{"publicId": publicID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *PropertyRepository) DistinctOwners(ctx context.Context) ([]primitive.ObjectID, error) {
	values, err := r.properties.Distinct(ctx, "owner", bson.M{})
	if err != nil {
		return nil, err
	}
	owners := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			owners = append(owners, id)
		}
	}
	return owners, nil
}

func (r *PropertyRepository) DeleteByOwners(ctx context.Context, owners []primitive.ObjectID) (int64, error) {
	if len(owners) == 0 {
		return 0, nil
	}
	res, err := r.properties.DeleteMany(ctx, bson.M{"owner": bson.M{"$in": owners}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
