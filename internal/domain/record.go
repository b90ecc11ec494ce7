package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is a persisted user record. The store assigns the identifier and the
// creation timestamp; records are never mutated or deleted once stored.
type Record struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone" json:"phone"`
	Position    string             `bson:"position,omitempty" json:"position"`
	Description string             `bson:"description,omitempty" json:"description"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// Draft holds the five editable fields before persistence. Drafts live only in
// transient server-side state between the form and an unsaved preview.
type Draft struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Position    string `json:"position"`
	Description string `json:"description"`
}

// Draft projects the editable fields of a stored record.
func (r Record) Draft() Draft {
	return Draft{
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Position:    r.Position,
		Description: r.Description,
	}
}
