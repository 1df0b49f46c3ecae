package storetest

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/models"
	"realestate/internal/store"
)

type ContactStore struct{ db *DB }

var _ store.ContactStore = ContactStore{}

func (s ContactStore) Create(_ context.Context, contact *models.Contact) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if contact.ID.IsZero() {
		contact.ID = primitive.NewObjectID()
	}
	if contact.Status == "" {
		contact.Status = models.ContactStatusNew
	}
	now := s.db.now()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	s.db.contacts = append(s.db.contacts, *contact)
	return nil
}

func (s ContactStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Contact, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.contactIndex(id)
	if i < 0 {
		return models.Contact{}, store.ErrNotFound
	}
	return s.db.contacts[i], nil
}

func matchContact(c models.Contact, f store.ContactFilter) bool {
	return matchOne(c.Status, f.Statuses) &&
		matchBool(c.Replied, f.Replied) &&
		(f.Search == "" || containsFold(f.Search, c.Name, c.Email, c.Subject))
}

func contactField(c models.Contact, name string) any {
	switch name {
	case "name":
		return c.Name
	case "email":
		return c.Email
	case "subject":
		return c.Subject
	case "status":
		return c.Status
	case "updatedAt":
		return c.UpdatedAt
	default:
		return c.CreatedAt
	}
}

func (s ContactStore) List(_ context.Context, filter store.ContactFilter, opts store.ListOptions) (store.Page[models.Contact], error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	matches := []models.Contact{}
	for _, c := range s.db.contacts {
		if matchContact(c, filter) {
			matches = append(matches, c)
		}
	}
	return paginate(matches, opts, contactField, []store.SortField{{Field: "createdAt", Desc: true}}), nil
}

func (s ContactStore) mutate(id primitive.ObjectID, fn func(c *models.Contact)) (models.Contact, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.contactIndex(id)
	if i < 0 {
		return models.Contact{}, store.ErrNotFound
	}
	fn(&s.db.contacts[i])
	return s.db.contacts[i], nil
}

func (s ContactStore) MarkRead(_ context.Context, id primitive.ObjectID) (models.Contact, error) {
	return s.mutate(id, func(c *models.Contact) {
		if c.Status == models.ContactStatusNew {
			c.Status = models.ContactStatusRead
			c.UpdatedAt = s.db.now()
		}
	})
}

func (s ContactStore) SetStatus(_ context.Context, id primitive.ObjectID, status string) (models.Contact, error) {
	return s.mutate(id, func(c *models.Contact) {
		c.Status = status
		c.UpdatedAt = s.db.now()
	})
}

func (s ContactStore) Reply(_ context.Context, id primitive.ObjectID, message string, by primitive.ObjectID, at time.Time) (models.Contact, error) {
	return s.mutate(id, func(c *models.Contact) {
		repliedBy := by
		repliedAt := at
		c.Status = models.ContactStatusReplied
		c.Replied = true
		c.ReplyMessage = message
		c.RepliedBy = &repliedBy
		c.RepliedAt = &repliedAt
		c.UpdatedAt = s.db.now()
	})
}

func (s ContactStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.contactIndex(id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.db.contacts = append(s.db.contacts[:i], s.db.contacts[i+1:]...)
	return nil
}
