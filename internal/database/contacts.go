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

type ContactRepository struct {
	contacts *mongo.Collection
}

var _ store.ContactStore = (*ContactRepository)(nil)

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{contacts: db.Collection(contactsCollection)}
}

func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	now := time.Now().UTC()
	contact.ID = primitive.NewObjectID()
	if contact.Status == "" {
		contact.Status = models.ContactStatusNew
	}
	contact.CreatedAt = now
	contact.UpdatedAt = now

	_, err := r.contacts.InsertOne(ctx, contact)
	return err
}

func (r *ContactRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Contact, error) {
	var contact models.Contact
	err := r.contacts.FindOne(ctx, bson.M{"_id": id}).Decode(&contact)
	return contact, notFound(err)
}

func (r *ContactRepository) List(ctx context.Context, filter store.ContactFilter, opts store.ListOptions) (store.Page[models.Contact], error) {
	return findPage[models.Contact](ctx, r.contacts, contactFilterDoc(filter), opts, sortDoc(opts.Sort, newestFirst))
}

func (r *ContactRepository) findAndUpdate(ctx context.Context, filter bson.M, set bson.M) (models.Contact, error) {
	set["updatedAt"] = time.Now().UTC()
	var contact models.Contact
	err := r.contacts.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, returnAfter()).Decode(&contact)
	return contact, notFound(err)
}

func (r *ContactRepository) MarkRead(ctx context.Context, id primitive.ObjectID) (models.Contact, error) {
	contact, err := r.findAndUpdate(ctx,
		bson.M{"_id": id, "status": models.ContactStatusNew},
		bson.M{"status": models.ContactStatusRead},
	)
	if err == store.ErrNotFound {
		return r.FindByID(ctx, id)
	}
	return contact, err
}

func (r *ContactRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (models.Contact, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{"status": status})
}

func (r *ContactRepository) Reply(ctx context.Context, id primitive.ObjectID, message string, by primitive.ObjectID, at time.Time) (models.Contact, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"status":       models.ContactStatusReplied,
		"replied":      true,
		"replyMessage": message,
		"repliedBy":    by,
		"repliedAt":    at.UTC(),
	})
}

func (r *ContactRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.contacts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
