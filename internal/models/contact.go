package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

var ContactStatuses = []string{ContactStatusNew, ContactStatusRead, ContactStatusReplied, ContactStatusArchived}

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	Email        string              `bson:"email" json:"email"`
	Phone        string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject      string              `bson:"subject" json:"subject"`
	Message      string              `bson:"message" json:"message"`
	Status       string              `bson:"status" json:"status"`
	Replied      bool                `bson:"replied" json:"replied"`
	ReplyMessage string              `bson:"replyMessage,omitempty" json:"replyMessage,omitempty"`
	RepliedAt    *time.Time          `bson:"repliedAt,omitempty" json:"repliedAt,omitempty"`
	RepliedBy    *primitive.ObjectID `bson:"repliedBy,omitempty" json:"repliedBy,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ContactView is a contact with the replying admin expanded.
type ContactView struct {
	Contact
	RepliedBy *UserSummary `json:"repliedBy,omitempty"`
}
