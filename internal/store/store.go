// Package store declares the persistence contract the HTTP layer depends on.
// The MongoDB implementation lives in internal/database and an in-memory one
// for tests in internal/store/storetest.
package store

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks realestate/internal/store ContactStore,Pinger

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/models"
)

var (
	ErrNotFound  = errors.New("store: document not found")
	ErrDuplicate = errors.New("store: duplicate key")
	// ErrConditionFailed is returned when a conditional update matched the
	// document id but not its precondition, e.g. purchasing a sold listing.
	ErrConditionFailed = errors.New("store: precondition failed")
)

// UserUpdate lists the user fields an update may change. Nil means unchanged.
type UserUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	Role     *string
	IsActive *bool
}

// PropertyUpdate lists the property fields an update may change. Nil means unchanged.
type PropertyUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Type        *string
	Status      *string
	Location    *string
	Address     *string
	City        *string
	State       *string
	ZipCode     *string
	Bedrooms    *int
	Bathrooms   *int
	Area        *float64
	AreaInAana  *float64
	AreaUnit    *string
	RoadAccess  *string
	Floors      *int
	Features    *models.StringList
	Amenities   *models.StringList
	YearBuilt   *int
	Parking     *string
	Agent       *models.Agent
	IsActive    *bool
	Featured    *bool
	Approved    *bool
}

type UserStore interface {
	// Create inserts the user and sets its ID. ErrDuplicate when the email exists.
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// Summaries returns the public summary of every existing user in ids.
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error)
	// ExistingIDs returns the subset of ids that still belong to a user.
	ExistingIDs(ctx context.Context, ids []primitive.ObjectID) ([]primitive.ObjectID, error)
	List(ctx context.Context, filter UserFilter, opts ListOptions) (Page[models.User], error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) (models.User, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	ToggleActive(ctx context.Context, id primitive.ObjectID) (models.User, error)
	AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error)
	RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error)
	// DeleteCascade removes the user and every property it owns, returning
	// the number of properties removed.
	DeleteCascade(ctx context.Context, id primitive.ObjectID) (int64, error)
	// PendingDeletion lists users whose cascading delete did not finish.
	PendingDeletion(ctx context.Context) ([]primitive.ObjectID, error)
}

type PropertyStore interface {
	Create(ctx context.Context, property *models.Property) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Property, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error)
	List(ctx context.Context, filter PropertyFilter, opts ListOptions) (Page[models.Property], error)
	Count(ctx context.Context, filter PropertyFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update PropertyUpdate) (models.Property, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) (models.Property, error)
	Approve(ctx context.Context, id primitive.ObjectID) (models.Property, error)
	ToggleFeatured(ctx context.Context, id primitive.ObjectID) (models.Property, error)
	// Purchase marks the listing sold to buyer unless it is already sold, in
	// which case it returns ErrConditionFailed and changes nothing.
	Purchase(ctx context.Context, id, buyer primitive.ObjectID, at time.Time) (models.Property, error)
	AddImages(ctx context.Context, id primitive.ObjectID, images []models.PropertyImage) (models.Property, error)
	RemoveImage(ctx context.Context, id primitive.ObjectID, publicID string) (models.Property, error)
	DistinctOwners(ctx context.Context) ([]primitive.ObjectID, error)
	DeleteByOwners(ctx context.Context, owners []primitive.ObjectID) (int64, error)
}

type ContactStore interface {
	Create(ctx context.Context, contact *models.Contact) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Contact, error)
	List(ctx context.Context, filter ContactFilter, opts ListOptions) (Page[models.Contact], error)
	// MarkRead moves a new message to read and returns it. Messages in any
	// other status are returned unchanged.
	MarkRead(ctx context.Context, id primitive.ObjectID) (models.Contact, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (models.Contact, error)
	Reply(ctx context.Context, id primitive.ObjectID, message string, by primitive.ObjectID, at time.Time) (models.Contact, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByHash(ctx context.Context, hash string) (models.RefreshToken, error)
	// Rotate revokes the token and points it at its replacement.
	Rotate(ctx context.Context, id, replacedBy primitive.ObjectID) error
	RevokeAll(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Stores bundles every store the API needs.
type Stores struct {
	Users      UserStore
	Properties PropertyStore
	Contacts   ContactStore
	Tokens     TokenStore
	Health     Pinger
}
