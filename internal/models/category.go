package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups products. Categories form a tree via the optional parent
// reference; names are unique across the tree.
type Category struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Description string              `bson:"description,omitempty" json:"description,omitempty" validate:"omitempty,max=500"`
	ParentID    *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`
	CreatedBy   primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
