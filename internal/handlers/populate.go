package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/models"
	"realestate/internal/store"
)

// populateOwners expands the owner of every property with one lookup.
// Owners that no longer exist are left empty.
func populateOwners(ctx context.Context, users store.UserStore, properties []models.Property) ([]models.PropertyView, error) {
	ids := make([]primitive.ObjectID, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.Owner)
	}
	summaries, err := users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.PropertyView, 0, len(properties))
	for _, p := range properties {
		view := models.PropertyView{Property: p}
		if owner, ok := summaries[p.Owner]; ok {
			view.Owner = &owner
		}
		views = append(views, view)
	}
	return views, nil
}

func populateOwner(ctx context.Context, users store.UserStore, property models.Property) (models.PropertyView, error) {
	views, err := populateOwners(ctx, users, []models.Property{property})
	if err != nil {
		return models.PropertyView{}, err
	}
	return views[0], nil
}

// populateRepliedBy expands the admin who replied. Phone numbers are not
// part of the contact view.
func populateRepliedBy(ctx context.Context, users store.UserStore, contacts []models.Contact) ([]models.ContactView, error) {
	var ids []primitive.ObjectID
	for _, c := range contacts {
		if c.RepliedBy != nil {
			ids = append(ids, *c.RepliedBy)
		}
	}

	summaries := map[primitive.ObjectID]models.UserSummary{}
	if len(ids) > 0 {
		var err error
		if summaries, err = users.Summaries(ctx, ids); err != nil {
			return nil, err
		}
	}

	views := make([]models.ContactView, 0, len(contacts))
	for _, c := range contacts {
		view := models.ContactView{Contact: c}
		if c.RepliedBy != nil {
			if by, ok := summaries[*c.RepliedBy]; ok {
				by.Phone = ""
				view.RepliedBy = &by
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func populateContact(ctx context.Context, users store.UserStore, contact models.Contact) (models.ContactView, error) {
	views, err := populateRepliedBy(ctx, users, []models.Contact{contact})
	if err != nil {
		return models.ContactView{}, err
	}
	return views[0], nil
}
