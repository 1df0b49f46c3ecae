package database

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"realestate/internal/models"
	"realestate/internal/store"
)

type UserRepository struct {
	client     *mongo.Client
	users      *mongo.Collection
	properties *mongo.Collection
}

var _ store.UserStore = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		client:     db.Client(),
		users:      db.Collection(usersCollection),
		properties: db.Collection(propertiesCollection),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.Email = normalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, notFound(err)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&user)
	return user, notFound(err)
}

func (r *UserRepository) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := r.users.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1, "phone": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u.Summary()
	}
	return out, nil
}

func (r *UserRepository) ExistingIDs(ctx context.Context, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return []primitive.ObjectID{}, nil
	}
	return objectIDs(ctx, r.users, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *UserRepository) List(ctx context.Context, filter store.UserFilter, opts store.ListOptions) (store.Page[models.User], error) {
	return findPage[models.User](ctx, r.users, userFilterDoc(filter), opts, sortDoc(opts.Sort, newestFirst))
}

func (r *UserRepository) Count(ctx context.Context, filter store.UserFilter) (int64, error) {
	return r.users.CountDocuments(ctx, userFilterDoc(filter))
}

func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, update store.UserUpdate) (models.User, error) {
	set := userUpdateDoc(update)
	set["updatedAt"] = time.Now().UTC()

	var user models.User
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, returnAfter()).Decode(&user)
	if mongo.IsDuplicateKeyError(err) {
		return models.User{}, store.ErrDuplicate
	}
	return user, notFound(err)
}

func (r *UserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := r.users.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"passwordHash": hash,
		"updatedAt":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ToggleActive(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	update := mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "isActive", Value: bson.D{{Key: "$not", Value: bson.A{"$isActive"}}}},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}}

	var user models.User
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, returnAfter()).Decode(&user)
	return user, notFound(err)
}

func (r *UserRepository) updateFavorites(ctx context.Context, userID primitive.ObjectID, update bson.M) ([]primitive.ObjectID, error) {
	opts := returnAfter().SetProjection(bson.M{"favorites": 1})
	var user models.User
	if err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	return user.Favorites, nil
}

func (r *UserRepository) AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return r.updateFavorites(ctx, userID, bson.M{"$addToSet": bson.M{"favorites": propertyID}})
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return r.updateFavorites(ctx, userID, bson.M{"$pull": bson.M{"favorites": propertyID}})
}

// DeleteCascade deletes the user's properties and then the user inside a
// transaction. Standalone servers reject transactions, so there the user is
// first flagged pendingDeletion and the maintenance sweep finishes any
// cascade interrupted midway.
func (r *UserRepository) DeleteCascade(ctx context.Context, id primitive.ObjectID) (int64, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return 0, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return r.deleteUserAndProperties(sessCtx, id)
	})
	if err == nil {
		return result.(int64), nil
	}
	if !transactionsUnsupported(err) {
		return 0, err
	}

	log.Printf("DeleteCascade: transactions unavailable, using mark-then-sweep for user %s", id.Hex())
	return r.markThenDelete(ctx, id)
}

func (r *UserRepository) deleteUserAndProperties(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		return 0, notFound(err)
	}
	res, err := r.properties.DeleteMany(ctx, bson.M{"owner": id})
	if err != nil {
		return 0, err
	}
	if _, err := r.users.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *UserRepository) markThenDelete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	mark, err := r.users.UpdateByID(ctx, id, bson.M{"$set": bson.M{"pendingDeletion": true}})
	if err != nil {
		return 0, err
	}
	if mark.MatchedCount == 0 {
		return 0, store.ErrNotFound
	}
	res, err := r.properties.DeleteMany(ctx, bson.M{"owner": id})
	if err != nil {
		return 0, err
	}
	if _, err := r.users.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return res.DeletedCount, err
	}
	return res.DeletedCount, nil
}

func (r *UserRepository) PendingDeletion(ctx context.Context) ([]primitive.ObjectID, error) {
	return objectIDs(ctx, r.users, bson.M{"pendingDeletion": true})
}

// transactionsUnsupported reports whether err comes from a deployment that
// cannot run multi-document transactions.
func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
		return true
	}
	return strings.Contains(err.Error(), "Transaction numbers are only allowed")
}
