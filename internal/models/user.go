package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Roles lists every role a user account can hold.
var Roles = []string{RoleUser, RoleAdmin}

// User represents an account that can list, browse and purchase properties.
type User struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name            string               `bson:"name" json:"name"`
	Email           string               `bson:"email" json:"email"`
	PasswordHash    string               `bson:"passwordHash" json:"-"`
	Role            string               `bson:"role" json:"role"`
	Phone           string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Address         string               `bson:"address,omitempty" json:"address,omitempty"`
	IsActive        bool                 `bson:"isActive" json:"isActive"`
	Favorites       []primitive.ObjectID `bson:"favorites" json:"favorites"`
	PendingDeletion bool                 `bson:"pendingDeletion,omitempty" json:"-"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasFavorite reports whether the property is already in the user's favorites.
func (u User) HasFavorite(propertyID primitive.ObjectID) bool {
	for _, id := range u.Favorites {
		if id == propertyID {
			return true
		}
	}
	return false
}

// UserSummary is the public projection embedded in populated responses.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Phone string             `json:"phone,omitempty"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}
