package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles. The role is resolved once at registration and carried in the
// token claims afterwards.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// Seller moderation statuses. A seller account starts Pending and is moved
// to Approved or Rejected by an admin.
const (
	SellerStatusPending  = "pending"
	SellerStatusApproved = "approved"
	SellerStatusRejected = "rejected"
)

// ValidSellerStatus reports whether status is an admin-assignable seller status.
func ValidSellerStatus(status string) bool {
	switch status {
	case SellerStatusApproved, SellerStatusRejected:
		return true
	}
	return false
}

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// User represents an account of the store (customer, seller or admin).
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Password  string             `bson:"password" json:"-" validate:"required,min=6"` // Never serialized
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	Role      string             `bson:"role" json:"role"`
	// Status carries the moderation state of seller accounts; empty for
	// other roles.
	Status          string     `bson:"status,omitempty" json:"status,omitempty"`
	RejectionReason string     `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	LastLogin       *time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
}
